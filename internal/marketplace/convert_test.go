package marketplace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvalldaura/marketsearch/internal/marketplace"
)

func TestToItems(t *testing.T) {
	t.Parallel()

	amount := 120.5
	free := 0.0

	payloads := []marketplace.ItemPayload{
		{
			ID:          "a",
			Title:       "  Google   Pixel 8 ",
			Description: "128GB,\ncomo nuevo",
			WebSlug:     "google-pixel-8-a",
			Price:       marketplace.PricePayload{Amount: &amount},
		},
		{
			ID:       "b",
			Title:    "Reservado",
			Price:    marketplace.PricePayload{Amount: &amount},
			Reserved: marketplace.ReservedPayload{Flag: true},
		},
		{
			ID:    "c",
			Title: "Sin precio",
		},
		{
			ID:      "d",
			Title:   "Gratis",
			WebSlug: "gratis-d",
			Price:   marketplace.PricePayload{Amount: &free},
		},
	}

	items, slugs := marketplace.ToItems(payloads)

	require.Len(t, items, 3, "reserved item dropped")

	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "Google Pixel 8", items[0].Title, "whitespace collapsed")
	assert.Equal(t, "128GB, como nuevo", items[0].Description)
	assert.Equal(t, "120.5€", items[0].Price)

	assert.Equal(t, "N/A", items[1].Price, "missing amount renders as N/A")
	assert.Equal(t, "0€", items[2].Price)

	assert.Equal(t, map[string]string{
		"a": "google-pixel-8-a",
		"d": "gratis-d",
	}, slugs, "only items with both id and slug are mapped")
}

func TestToItems_Empty(t *testing.T) {
	t.Parallel()

	items, slugs := marketplace.ToItems(nil)
	assert.Empty(t, items)
	assert.Empty(t, slugs)
}
