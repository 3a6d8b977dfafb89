// Package pager implements the pagination controller: it maps (query, page)
// requests onto upstream continuation tokens, enforcing strictly sequential
// page access per query.
//
// The upstream cursor is only valid when advanced from its immediately
// preceding state, so page N+1 may only be requested after page N was served
// for the same query. Page 1 always restarts the chain.
package pager

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/mvalldaura/marketsearch/internal/catalog"
	"github.com/mvalldaura/marketsearch/internal/marketplace"
	"github.com/mvalldaura/marketsearch/internal/metrics"
	"github.com/mvalldaura/marketsearch/internal/session"
	domain "github.com/mvalldaura/marketsearch/pkg/types"
)

// Request describes one caller-facing fetch.
type Request struct {
	Query string
	Page  int

	// Optional caller geolocation, forwarded to the upstream.
	Latitude  *float64
	Longitude *float64
}

// Controller orchestrates a single request: it validates sequencing against
// the session store, invokes the marketplace client, and records the new
// continuation token. Construct one per process and share it.
type Controller struct {
	client   marketplace.Client
	sessions *session.Store
	links    *catalog.Catalog
	logger   *log.Logger
}

// ControllerOption configures the Controller.
type ControllerOption func(*Controller)

// WithCatalog sets the item link catalog populated from search results.
func WithCatalog(c *catalog.Catalog) ControllerOption {
	return func(ctrl *Controller) {
		ctrl.links = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) ControllerOption {
	return func(ctrl *Controller) {
		ctrl.logger = l
	}
}

// New creates a Controller.
func New(
	client marketplace.Client,
	sessions *session.Store,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		client:   client,
		sessions: sessions,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch serves one page of search results.
//
// The whole validate-fetch-update sequence runs under the session store's
// per-key lock, so concurrent requests for the same query cannot race on the
// session state. The session is updated only after a fully successful
// upstream response; on any failure it keeps its pre-request state.
func (c *Controller) Fetch(ctx context.Context, req Request) (*domain.SearchResult, error) {
	key := domain.QueryKey(req.Query)
	if key == "" {
		return nil, ErrEmptyQuery
	}
	if req.Page < 1 {
		metrics.SearchesTotal.WithLabelValues("out_of_sequence").Inc()
		return nil, &OutOfSequenceError{Query: key, Requested: req.Page, Want: 1}
	}

	unlock := c.sessions.Lock(key)
	defer unlock()

	token, err := c.resolveToken(key, req.Page)
	if err != nil {
		return nil, err
	}

	page, err := c.client.Search(ctx, marketplace.SearchRequest{
		Query:     key,
		NextToken: token,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("upstream_error").Inc()
		c.logWarn("upstream search failed",
			"query", key,
			"page", req.Page,
			"kind", marketplace.ErrorKind(err),
			"err", err,
		)
		return nil, fmt.Errorf("searching page %d: %w", req.Page, err)
	}

	c.sessions.Put(session.Session{
		QueryKey:          key,
		LastServedPage:    req.Page,
		ContinuationToken: page.NextToken,
	})

	if c.links != nil {
		c.links.PutAll(page.Slugs)
	}

	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	metrics.SearchItemsReturned.Observe(float64(len(page.Items)))

	result := &domain.SearchResult{
		Query: key,
		Page:  req.Page,
		Items: page.Items,
	}
	if page.NextToken != "" {
		next := req.Page + 1
		result.NextPage = &next
	}
	return result, nil
}

// resolveToken validates the sequencing rule and returns the continuation
// token to send upstream. Page 1 never sends a token; any existing chain for
// the query is replaced by the Put after the fetch succeeds, so a failed
// page-1 request leaves the old session intact.
func (c *Controller) resolveToken(key string, page int) (string, error) {
	if page == 1 {
		return "", nil
	}

	sess, ok := c.sessions.Get(key)
	if !ok {
		metrics.SearchesTotal.WithLabelValues("no_continuation").Inc()
		return "", &NoContinuationError{Query: key, Requested: page}
	}
	if page != sess.LastServedPage+1 {
		metrics.SearchesTotal.WithLabelValues("out_of_sequence").Inc()
		return "", &OutOfSequenceError{
			Query:     key,
			Requested: page,
			Want:      sess.LastServedPage + 1,
		}
	}
	if sess.ContinuationToken == "" {
		metrics.SearchesTotal.WithLabelValues("no_continuation").Inc()
		return "", &NoContinuationError{Query: key, Requested: page}
	}
	return sess.ContinuationToken, nil
}

// UserMessage translates any error returned by Fetch into a short,
// actionable caller-facing message. Continuation tokens never appear in the
// output.
func UserMessage(err error) string {
	var outOfSeq *OutOfSequenceError
	var noCont *NoContinuationError
	var statusErr *marketplace.StatusError

	switch {
	case errors.Is(err, ErrEmptyQuery):
		return "Invalid query: provide a non-empty search text."
	case errors.As(err, &outOfSeq):
		return fmt.Sprintf(
			"Pages must be requested in order. Request page %d next.",
			outOfSeq.Want,
		)
	case errors.As(err, &noCont):
		return fmt.Sprintf(
			"No more results are available for '%s'. Start over with page=1.",
			noCont.Query,
		)
	case errors.Is(err, marketplace.ErrUnavailable):
		return "The marketplace could not be reached. Try again in a moment."
	case errors.As(err, &statusErr):
		return fmt.Sprintf(
			"The marketplace rejected the request (status %d). Try again later.",
			statusErr.StatusCode,
		)
	case errors.Is(err, marketplace.ErrMalformedResponse):
		return "The marketplace returned an unexpected response. Try again later."
	default:
		return "Search failed due to an internal error."
	}
}

func (c *Controller) logWarn(msg string, keyvals ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, keyvals...)
	}
}
