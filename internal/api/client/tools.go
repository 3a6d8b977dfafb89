package client

import (
	"context"
	"net/http"
)

// searchRequest is the body for the search_marketplace tool.
type searchRequest struct {
	Query     string   `json:"query"`
	Page      int      `json:"page,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// linksRequest is the body for the get_item_links tool.
type linksRequest struct {
	ItemIDs []string `json:"item_ids"`
}

// toolResponse is the shared tool response envelope.
type toolResponse struct {
	Content string `json:"content"`
}

// Search runs one page of a marketplace search and returns the rendered
// Markdown content.
func (c *Client) Search(ctx context.Context, query string, page int, lat, lon *float64) (string, error) {
	var resp toolResponse
	req := searchRequest{Query: query, Page: page, Latitude: lat, Longitude: lon}
	if err := c.do(ctx, http.MethodPost, "/api/v1/tools/search_marketplace", req, &resp); err != nil {
		return "", err
	}
	return resp.Content, nil
}

// ItemLinks resolves item IDs from an earlier search into marketplace URLs.
func (c *Client) ItemLinks(ctx context.Context, ids []string) (string, error) {
	var resp toolResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/tools/get_item_links", linksRequest{ItemIDs: ids}, &resp); err != nil {
		return "", err
	}
	return resp.Content, nil
}
