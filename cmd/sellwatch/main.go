package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"sellwatch/pkg/config"
	"sellwatch/pkg/feed"
	"sellwatch/pkg/monitor"
	"sellwatch/pkg/notify"
	"sellwatch/server"
)

// Opts with all CLI options
type Opts struct {
	Config        string `short:"f" long:"config" env:"CONFIG" description:"config file (yaml)"`
	Seller        string `long:"seller" env:"SELLER_USERNAME" description:"seller account to monitor"`
	TelegramToken string `long:"telegram-token" env:"TELEGRAM_TOKEN" description:"telegram bot token"`
	ChatID        string `long:"chat-id" env:"CHAT_ID" description:"telegram chat id"`
	IntervalSec   int    `long:"interval" env:"POLL_INTERVAL" description:"polling interval, seconds"`
	Listen        string `short:"l" long:"listen" env:"LISTEN" description:"status server listen address"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.TelegramToken)

	log.Printf("[INFO] starting sellwatch version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] sellwatch failed: %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run assembles the monitor and the status server and drives them until
// ctx is canceled or one of them fails fatally.
func run(ctx context.Context, opts Opts) error {
	cfg := config.New()
	if opts.Config != "" {
		var err error
		cfg, err = config.Load(opts.Config)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	// command line and environment override the config file
	if opts.Seller != "" {
		cfg.Seller = opts.Seller
	}
	if opts.TelegramToken != "" {
		cfg.Telegram.Token = opts.TelegramToken
	}
	if opts.ChatID != "" {
		cfg.Telegram.ChatID = opts.ChatID
	}
	if opts.IntervalSec > 0 {
		cfg.Poll.Interval = time.Duration(opts.IntervalSec) * time.Second
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	fetcher := feed.NewParser(cfg.Poll.Timeout, cfg.Poll.UserAgent).WithBaseURL(cfg.Poll.FeedURL)
	notifier := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.Poll.Timeout)

	mon := monitor.New(monitor.Params{
		Fetcher:        fetcher,
		Notifier:       notifier,
		Seller:         cfg.Seller,
		Interval:       cfg.Poll.Interval,
		ErrorBackoff:   cfg.Poll.ErrorBackoff,
		BootstrapLimit: cfg.Poll.BootstrapLimit,
		CheckLimit:     cfg.Poll.CheckLimit,
		AlertCap:       cfg.Display.AlertLimit,
		InventoryCap:   cfg.Display.InventoryLimit,
	})

	srv := server.New(cfg, mon, revision, opts.Debug)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return mon.Run(gctx) })
	g.Go(func() error { return srv.Run(gctx) })
	return g.Wait()
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	var scrubbed []string
	for _, s := range secs {
		if s != "" {
			scrubbed = append(scrubbed, s)
		}
	}
	if len(scrubbed) > 0 {
		logOpts = append(logOpts, lgr.Secret(scrubbed...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
