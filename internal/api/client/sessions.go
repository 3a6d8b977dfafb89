package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mvalldaura/marketsearch/internal/session"
)

// sessionListResponse mirrors the session list endpoint body.
type sessionListResponse struct {
	Sessions []session.Info `json:"sessions"`
	Count    int            `json:"count"`
}

// ListSessions returns the active pagination sessions.
func (c *Client) ListSessions(ctx context.Context) ([]session.Info, error) {
	var resp sessionListResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// ResetSession drops the pagination session for a query.
func (c *Client) ResetSession(ctx context.Context, query string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/sessions/"+url.PathEscape(query), nil, nil)
}
