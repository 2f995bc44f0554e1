package feed

import (
	"html"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"sellwatch/pkg/domain"
)

// titlePolicy strips all markup from feed-supplied titles
var titlePolicy = bluemonday.StrictPolicy()

// normalize converts one raw feed entry into a Listing. Returns false when
// the entry lacks a derivable listing id and should be skipped.
func normalize(item *gofeed.Item, seenAt time.Time) (domain.Listing, bool) {
	id := listingID(item.Link)
	if id == "" {
		return domain.Listing{}, false
	}

	listing := domain.Listing{
		ID:     id,
		Title:  cleanTitle(item.Title),
		Price:  priceOf(item),
		Link:   item.Link,
		SeenAt: seenAt,
	}

	if item.PublishedParsed != nil {
		listing.Published = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		listing.Published = item.UpdatedParsed.UTC()
	}

	return listing, true
}

// listingID derives the stable item id from the canonical link: the last
// path segment with the query string stripped. Links that differ only by
// query parameters yield the same id.
func listingID(link string) string {
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	id := path.Base(u.Path)
	if id == "." || id == "/" {
		return ""
	}
	return id
}

// priceOf extracts the price from the entry's namespaced extensions,
// eBay publishes it as <ev:price>. Missing price is not an error.
func priceOf(item *gofeed.Item) string {
	for _, fields := range item.Extensions {
		for _, ext := range fields["price"] {
			if v := strings.TrimSpace(ext.Value); v != "" {
				return v
			}
		}
	}
	if v := strings.TrimSpace(item.Custom["price"]); v != "" {
		return v
	}
	return domain.PriceUnavailable
}

// cleanTitle strips markup and decodes entities from a feed title.
func cleanTitle(title string) string {
	return strings.TrimSpace(html.UnescapeString(titlePolicy.Sanitize(title)))
}
