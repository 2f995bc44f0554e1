package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"sellwatch/pkg/domain"
)

// defaultBaseURL is the eBay host serving per-seller RSS search results.
const defaultBaseURL = "https://www.ebay.com"

// Parser fetches a seller's listing feed and converts entries to Listings.
type Parser struct {
	client    *http.Client
	baseURL   string
	userAgent string
	now       func() time.Time
}

// NewParser creates a feed parser with the given timeout and user agent.
func NewParser(timeout time.Duration, userAgent string) *Parser {
	return &Parser{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:   defaultBaseURL,
		userAgent: userAgent,
		now:       time.Now,
	}
}

// WithBaseURL overrides the feed host, used in tests.
func (p *Parser) WithBaseURL(base string) *Parser {
	p.baseURL = base
	return p
}

// Fetch retrieves the current snapshot of a seller's listings, newest first.
// Entries without a derivable listing id are skipped, not reported as errors.
func (p *Parser) Fetch(ctx context.Context, seller string) ([]domain.Listing, error) {
	feedURL := p.sellerFeedURL(seller)

	body, err := p.fetch(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	parser := gofeed.NewParser()
	parsed, err := parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	seenAt := p.now().UTC()
	listings := make([]domain.Listing, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		listing, ok := normalize(item, seenAt)
		if !ok {
			continue
		}
		listings = append(listings, listing)
	}

	return listings, nil
}

// sellerFeedURL builds the RSS URL for a seller's listings, newest first.
func (p *Parser) sellerFeedURL(seller string) string {
	return fmt.Sprintf("%s/sch/%s/m.html?_rss=1&_sop=10", p.baseURL, url.PathEscape(seller))
}

// fetch retrieves content from a URL
func (p *Parser) fetch(ctx context.Context, feedURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}
