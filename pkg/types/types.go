// Package domain defines the core business types for marketsearch.
package domain

import "strings"

// Item represents a single marketplace listing as returned to callers.
// Items are immutable once parsed; the session store never retains them.
type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
}

// SearchResult holds one page of search results in upstream order.
// NextPage is set only when the upstream returned a continuation token.
type SearchResult struct {
	Query    string `json:"query"`
	Page     int    `json:"page"`
	Items    []Item `json:"items"`
	NextPage *int   `json:"next_page,omitempty"`
}

// HasMore reports whether a further page can be requested.
func (r *SearchResult) HasMore() bool {
	return r.NextPage != nil
}

// QueryKey normalizes a raw query string into the session lookup key:
// lowercased, with runs of whitespace collapsed to single spaces. Two
// requests with the same normalized query resolve to the same session.
func QueryKey(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}
