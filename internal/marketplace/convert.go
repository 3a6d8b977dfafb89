package marketplace

import (
	"strconv"
	"strings"

	domain "github.com/mvalldaura/marketsearch/pkg/types"
)

// ToItems converts raw upstream item payloads to domain items, preserving
// upstream order. Reserved items are dropped. The second return value maps
// item ID to web slug for link resolution.
func ToItems(payloads []ItemPayload) ([]domain.Item, map[string]string) {
	items := make([]domain.Item, 0, len(payloads))
	slugs := make(map[string]string, len(payloads))

	for _, p := range payloads {
		if p.Reserved.Flag {
			continue
		}

		items = append(items, domain.Item{
			ID:          p.ID,
			Title:       collapseSpace(p.Title),
			Description: collapseSpace(p.Description),
			Price:       formatPrice(p.Price),
		})

		if p.ID != "" && p.WebSlug != "" {
			slugs[p.ID] = p.WebSlug
		}
	}

	return items, slugs
}

func formatPrice(p PricePayload) string {
	if p.Amount == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*p.Amount, 'f', -1, 64) + "€"
}

// collapseSpace trims s and squeezes internal whitespace runs into single
// spaces. Upstream titles and descriptions often carry newlines.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
