package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mvalldaura/marketsearch/internal/catalog"
	"github.com/mvalldaura/marketsearch/internal/format"
	"github.com/mvalldaura/marketsearch/internal/pager"
)

// ToolsHandler exposes the search tools consumed by assistant clients.
// Tool responses are Markdown documents carried in a plain content field,
// including the error cases a caller can correct (wrong page order,
// exhausted results): those return 200 with an explanatory message so the
// caller can read what to do next.
type ToolsHandler struct {
	pager   *pager.Controller
	links   *catalog.Catalog
	siteURL string
}

// NewToolsHandler creates a new ToolsHandler. siteURL is the marketplace
// website base used to build item links.
func NewToolsHandler(p *pager.Controller, links *catalog.Catalog, siteURL string) *ToolsHandler {
	return &ToolsHandler{pager: p, links: links, siteURL: siteURL}
}

// SearchToolInput is the request body for the search_marketplace tool.
type SearchToolInput struct {
	Body struct {
		Query     string   `json:"query" minLength:"1" doc:"Free-text search query" example:"thinkpad x260"`
		Page      int      `json:"page,omitempty" minimum:"1" default:"1" doc:"Result page, starting at 1. Pages must be requested in order." example:"1"`
		Latitude  *float64 `json:"latitude,omitempty" minimum:"-90" maximum:"90" doc:"Search center latitude" example:"43.3707332"`
		Longitude *float64 `json:"longitude,omitempty" minimum:"-180" maximum:"180" doc:"Search center longitude" example:"-8.3958532"`
	}
}

// ToolOutput is the response body shared by all tools.
type ToolOutput struct {
	Body struct {
		Content string `json:"content" doc:"Markdown-formatted tool result"`
	}
}

// SearchMarketplace runs one page of a marketplace search.
func (h *ToolsHandler) SearchMarketplace(ctx context.Context, input *SearchToolInput) (*ToolOutput, error) {
	page := input.Body.Page
	if page <= 0 {
		page = 1
	}

	result, err := h.pager.Fetch(ctx, pager.Request{
		Query:     input.Body.Query,
		Page:      page,
		Latitude:  input.Body.Latitude,
		Longitude: input.Body.Longitude,
	})

	out := &ToolOutput{}

	switch {
	case err == nil:
		out.Body.Content = format.Render(result)
		return out, nil
	case errors.Is(err, pager.ErrEmptyQuery):
		return nil, huma.Error422UnprocessableEntity(pager.UserMessage(err))
	case isSequencingError(err):
		// The caller can fix these by changing the requested page, so they
		// come back as regular tool content rather than an HTTP error.
		out.Body.Content = pager.UserMessage(err)
		return out, nil
	default:
		return nil, huma.Error502BadGateway(pager.UserMessage(err))
	}
}

// LinksToolInput is the request body for the get_item_links tool.
type LinksToolInput struct {
	Body struct {
		ItemIDs []string `json:"item_ids" minItems:"1" doc:"Item IDs from a previous search result" example:"[\"9f3c2a\"]"`
	}
}

// GetItemLinks resolves item IDs from earlier search results into
// marketplace URLs.
func (h *ToolsHandler) GetItemLinks(_ context.Context, input *LinksToolInput) (*ToolOutput, error) {
	out := &ToolOutput{}
	out.Body.Content = format.RenderLinks(h.siteURL, input.Body.ItemIDs, h.links.Slug)
	return out, nil
}

func isSequencingError(err error) bool {
	var outOfSeq *pager.OutOfSequenceError
	var noCont *pager.NoContinuationError
	return errors.As(err, &outOfSeq) || errors.As(err, &noCont)
}

// RegisterToolRoutes registers the tool endpoints with the Huma API.
func RegisterToolRoutes(api huma.API, h *ToolsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "search-marketplace",
		Method:      http.MethodPost,
		Path:        "/api/v1/tools/search_marketplace",
		Summary:     "Search marketplace listings",
		Description: "Runs one page of a marketplace search and returns the results as Markdown. Pages must be requested sequentially; page 1 starts a fresh search.",
		Tags:        []string{"tools"},
		Errors:      []int{http.StatusUnprocessableEntity, http.StatusBadGateway},
	}, h.SearchMarketplace)

	huma.Register(api, huma.Operation{
		OperationID: "get-item-links",
		Method:      http.MethodPost,
		Path:        "/api/v1/tools/get_item_links",
		Summary:     "Resolve item links",
		Description: "Builds marketplace URLs for item IDs returned by a previous search.",
		Tags:        []string{"tools"},
	}, h.GetItemLinks)
}
