package notify

import (
	"fmt"
	"strings"
	"time"

	"sellwatch/pkg/domain"
)

// timeLayout matches the timestamp format used in alerts, always UTC.
const timeLayout = "2006-01-02 15:04:05 UTC"

// FormatNewListings renders one alert batch for newly detected listings.
// At most limit listings are shown, followed by a "more not shown" trailer
// when truncated. Ordering matches the input, newest first.
func FormatNewListings(seller string, listings []domain.Listing, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🆕 %d New Listing(s) from %s:\n\n", len(listings), seller)

	shown := listings
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, l := range shown {
		writeListing(&b, l)
	}

	if hidden := len(listings) - len(shown); hidden > 0 {
		fmt.Fprintf(&b, "➕ %d more not shown\n", hidden)
	}

	return strings.TrimSpace(b.String())
}

// FormatStartup renders the startup report: monitor summary followed by the
// current inventory, capped at invLimit item blocks.
func FormatStartup(seller string, inventory []domain.Listing, interval time.Duration, invLimit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🟢 eBay Inventory Monitor Started!\n")
	fmt.Fprintf(&b, "• Seller: %s\n", seller)
	fmt.Fprintf(&b, "• Current items: %d\n", len(inventory))
	fmt.Fprintf(&b, "• Checking every %d minutes\n\n", int(interval.Minutes()))

	b.WriteString(FormatInventory(seller, inventory, invLimit))
	return strings.TrimSpace(b.String())
}

// FormatInventory renders the current-inventory block.
func FormatInventory(seller string, inventory []domain.Listing, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Current Inventory for %s (%d items):\n\n", seller, len(inventory))

	shown := inventory
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, l := range shown {
		writeListing(&b, l)
	}

	if hidden := len(inventory) - len(shown); hidden > 0 {
		fmt.Fprintf(&b, "➕ %d more items not shown\n", hidden)
	}

	return strings.TrimSpace(b.String())
}

// writeListing renders the fixed multi-field block for one listing.
func writeListing(b *strings.Builder, l domain.Listing) {
	fmt.Fprintf(b, "🏷 %s\n", l.Title)
	fmt.Fprintf(b, "💰 %s\n", l.Price)
	fmt.Fprintf(b, "⏰ %s\n", l.Timestamp().UTC().Format(timeLayout))
	fmt.Fprintf(b, "🔗 %s\n\n", l.Link)
}
