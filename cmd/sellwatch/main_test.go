package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	opts := Opts{
		Config: "non-existent-config.yml",
	}

	err := run(ctx, opts)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_MissingRequiredOptions(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// no seller, token or chat id anywhere
	err := run(ctx, Opts{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
	assert.Contains(t, err.Error(), "seller is required")
}

func TestRun_StartStop(t *testing.T) {
	// unroutable feed host keeps the monitor in bootstrap retries,
	// nothing leaves the process
	content := `
seller: electro-details
telegram:
  token: "12345:test-token"
  chat_id: "42"
poll:
  feed_url: "http://127.0.0.1:1"
  timeout: 100ms
  error_backoff: 1s
server:
  listen: "127.0.0.1:0"
`
	path := filepath.Join(t.TempDir(), "sellwatch.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := run(ctx, Opts{Config: path})
	require.NoError(t, err, "cancellation is a clean shutdown")
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	content := `
seller: from-file
telegram:
  token: "file-token"
  chat_id: "1"
poll:
  feed_url: "http://127.0.0.1:1"
  error_backoff: 1s
server:
  listen: "127.0.0.1:0"
`
	path := filepath.Join(t.TempDir(), "sellwatch.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	opts := Opts{
		Config:      path,
		Seller:      "from-flags",
		IntervalSec: 60,
	}
	err := run(ctx, opts)
	require.NoError(t, err)
}

func TestSetupLog(t *testing.T) {
	setupLog(false)
	setupLog(true, "some-secret")
}
