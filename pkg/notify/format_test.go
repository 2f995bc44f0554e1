package notify

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellwatch/pkg/domain"
)

func makeListings(n int) []domain.Listing {
	res := make([]domain.Listing, 0, n)
	for i := 0; i < n; i++ {
		res = append(res, domain.Listing{
			ID:     fmt.Sprintf("id%d", i),
			Title:  fmt.Sprintf("Item %d", i),
			Price:  "19.99",
			Link:   fmt.Sprintf("https://www.ebay.com/itm/id%d", i),
			SeenAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		})
	}
	return res
}

func TestFormatNewListings_Truncation(t *testing.T) {
	msg := FormatNewListings("electro-details", makeListings(7), 5)

	assert.Contains(t, msg, "7 New Listing(s) from electro-details")
	assert.Equal(t, 5, strings.Count(msg, "🏷"), "exactly the display cap of item blocks")
	assert.Contains(t, msg, "➕ 2 more not shown")
}

func TestFormatNewListings_NoTruncation(t *testing.T) {
	msg := FormatNewListings("electro-details", makeListings(3), 5)

	assert.Equal(t, 3, strings.Count(msg, "🏷"))
	assert.NotContains(t, msg, "more not shown")
}

func TestFormatNewListings_OrderAndFields(t *testing.T) {
	items := []domain.Listing{
		{ID: "1", Title: "Newest", Price: "10.00", Link: "https://ebay.com/itm/1",
			Published: time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)},
		{ID: "2", Title: "Older", Price: domain.PriceUnavailable, Link: "https://ebay.com/itm/2",
			SeenAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
	}
	msg := FormatNewListings("s", items, 5)

	require.Less(t, strings.Index(msg, "Newest"), strings.Index(msg, "Older"), "message order matches input order")
	assert.Contains(t, msg, "💰 10.00")
	assert.Contains(t, msg, "💰 N/A")
	assert.Contains(t, msg, "⏰ 2024-06-01 09:30:00 UTC", "publish time preferred when present")
	assert.Contains(t, msg, "⏰ 2024-06-01 10:00:00 UTC", "detection time used as fallback")
	assert.Contains(t, msg, "🔗 https://ebay.com/itm/1")
}

func TestFormatInventory_Truncation(t *testing.T) {
	msg := FormatInventory("electro-details", makeListings(12), 10)

	assert.Contains(t, msg, "Current Inventory for electro-details (12 items)")
	assert.Equal(t, 10, strings.Count(msg, "🏷"))
	assert.Contains(t, msg, "➕ 2 more items not shown")
}

func TestFormatStartup(t *testing.T) {
	msg := FormatStartup("electro-details", makeListings(3), 15*time.Minute, 10)

	assert.Contains(t, msg, "Monitor Started")
	assert.Contains(t, msg, "• Seller: electro-details")
	assert.Contains(t, msg, "• Current items: 3")
	assert.Contains(t, msg, "• Checking every 15 minutes")
	assert.Contains(t, msg, "Current Inventory for electro-details (3 items)")
	assert.Equal(t, 3, strings.Count(msg, "🏷"))
}

func TestFormatStartup_EmptyInventory(t *testing.T) {
	msg := FormatStartup("electro-details", nil, 5*time.Minute, 10)

	assert.Contains(t, msg, "• Current items: 0")
	assert.NotContains(t, msg, "🏷")
}
