package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mvalldaura/marketsearch/internal/session"
	domain "github.com/mvalldaura/marketsearch/pkg/types"
)

// SessionsHandler exposes read and reset operations over the pagination
// session store. Continuation tokens are never included in responses.
type SessionsHandler struct {
	store *session.Store
}

// NewSessionsHandler creates a new SessionsHandler.
func NewSessionsHandler(s *session.Store) *SessionsHandler {
	return &SessionsHandler{store: s}
}

// ListSessionsOutput is the response body for the session list endpoint.
type ListSessionsOutput struct {
	Body struct {
		Sessions []session.Info `json:"sessions" doc:"Active sessions, most recently used first"`
		Count    int            `json:"count" doc:"Number of active sessions"`
	}
}

// List returns all active pagination sessions.
func (h *SessionsHandler) List(_ context.Context, _ *struct{}) (*ListSessionsOutput, error) {
	infos := h.store.Snapshot()
	if infos == nil {
		infos = []session.Info{}
	}

	out := &ListSessionsOutput{}
	out.Body.Sessions = infos
	out.Body.Count = len(infos)
	return out, nil
}

// ResetSessionInput identifies the session to drop by its query text.
type ResetSessionInput struct {
	Query string `path:"query" doc:"Query text of the session to drop" example:"thinkpad x260"`
}

// ResetSessionOutput is the response body for the session reset endpoint.
type ResetSessionOutput struct {
	Body StatusResponse
}

// Reset drops the session for a query, forcing the next request to start
// from page 1. Resetting a query with no session is a no-op.
func (h *SessionsHandler) Reset(_ context.Context, input *ResetSessionInput) (*ResetSessionOutput, error) {
	h.store.Reset(domain.QueryKey(input.Query))

	out := &ResetSessionOutput{}
	out.Body.Status = "reset"
	return out, nil
}

// RegisterSessionRoutes registers session endpoints with the Huma API.
func RegisterSessionRoutes(api huma.API, h *SessionsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-sessions",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions",
		Summary:     "List pagination sessions",
		Description: "Returns the active pagination sessions without their continuation tokens.",
		Tags:        []string{"sessions"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "reset-session",
		Method:      http.MethodDelete,
		Path:        "/api/v1/sessions/{query}",
		Summary:     "Reset a pagination session",
		Description: "Drops the session for a query so the next search starts from page 1.",
		Tags:        []string{"sessions"},
	}, h.Reset)
}
