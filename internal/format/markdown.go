// Package format renders search results as Markdown text for tool callers.
package format

import (
	"fmt"
	"strings"

	domain "github.com/mvalldaura/marketsearch/pkg/types"
)

// Render produces one Markdown block per item, in upstream order, followed
// by a next-page footer when a further page exists. Pure function: no side
// effects, no store or network access.
func Render(result *domain.SearchResult) string {
	if len(result.Items) == 0 {
		return fmt.Sprintf("No results found for '%s'.", result.Query)
	}

	blocks := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		blocks = append(blocks, renderItem(item))
	}

	out := strings.Join(blocks, "\n")

	if result.NextPage != nil {
		out += fmt.Sprintf(
			"\n\nNext page available: %d. Request it with page=%d.",
			*result.NextPage, *result.NextPage,
		)
	}

	return out
}

func renderItem(item domain.Item) string {
	line := fmt.Sprintf("- `%s` %s - %s", item.ID, item.Title, item.Price)
	if item.Description != "" {
		line += "\n  " + item.Description
	}
	return line
}

// RenderLinks resolves item IDs to marketplace URLs, one line per ID.
// Unknown IDs get a hint to run a search first.
func RenderLinks(siteURL string, ids []string, slug func(id string) (string, bool)) string {
	lines := make([]string, 0, len(ids))
	base := strings.TrimRight(siteURL, "/") + "/item/"

	for _, id := range ids {
		s, ok := slug(id)
		if !ok {
			lines = append(lines, fmt.Sprintf(
				"- `%s`: Unknown id. Run a search first to populate the catalog.", id,
			))
			continue
		}
		lines = append(lines, fmt.Sprintf("- `%s`: %s%s", id, base, s))
	}

	return strings.Join(lines, "\n")
}
