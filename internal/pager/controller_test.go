package pager_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mvalldaura/marketsearch/internal/catalog"
	"github.com/mvalldaura/marketsearch/internal/marketplace"
	"github.com/mvalldaura/marketsearch/internal/marketplace/mocks"
	"github.com/mvalldaura/marketsearch/internal/pager"
	"github.com/mvalldaura/marketsearch/internal/session"
	domain "github.com/mvalldaura/marketsearch/pkg/types"
)

func newController(t *testing.T, opts ...pager.ControllerOption) (*pager.Controller, *mocks.MockClient, *session.Store) {
	t.Helper()

	client := mocks.NewMockClient(t)
	store := session.New(64, 30*time.Minute)
	return pager.New(client, store, opts...), client, store
}

func expectSearch(client *mocks.MockClient, token string, page *marketplace.SearchPage) *mocks.MockClient_Search_Call {
	return client.EXPECT().
		Search(mock.Anything, mock.MatchedBy(func(r marketplace.SearchRequest) bool {
			return r.NextToken == token
		})).
		Return(page, nil)
}

func items(ids ...string) []domain.Item {
	out := make([]domain.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Item{ID: id, Title: "Item " + id, Price: "10€"})
	}
	return out
}

func TestController_SequentialTraversal(t *testing.T) {
	t.Parallel()

	ctrl, client, _ := newController(t)
	ctx := context.Background()

	expectSearch(client, "", &marketplace.SearchPage{Items: items("a", "b"), NextToken: "T1"}).Once()
	expectSearch(client, "T1", &marketplace.SearchPage{Items: items("c"), NextToken: "T2"}).Once()
	expectSearch(client, "T2", &marketplace.SearchPage{Items: items("d")}).Once()

	for page := 1; page <= 3; page++ {
		result, err := ctrl.Fetch(ctx, pager.Request{Query: "bicycle", Page: page})
		require.NoError(t, err, "page %d", page)
		assert.Equal(t, page, result.Page)
		assert.NotEmpty(t, result.Items)

		if page < 3 {
			require.NotNil(t, result.NextPage)
			assert.Equal(t, page+1, *result.NextPage)
		} else {
			assert.Nil(t, result.NextPage, "last page has no next hint")
		}
	}
}

func TestController_SkippingPageFails(t *testing.T) {
	t.Parallel()

	ctrl, client, _ := newController(t)
	ctx := context.Background()

	expectSearch(client, "", &marketplace.SearchPage{Items: items("a"), NextToken: "T1"}).Once()

	_, err := ctrl.Fetch(ctx, pager.Request{Query: "bicycle", Page: 1})
	require.NoError(t, err)

	_, err = ctrl.Fetch(ctx, pager.Request{Query: "bicycle", Page: 3})
	var outOfSeq *pager.OutOfSequenceError
	require.ErrorAs(t, err, &outOfSeq)
	assert.Equal(t, 3, outOfSeq.Requested)
	assert.Equal(t, 2, outOfSeq.Want)
}

func TestController_PageOneAlwaysResets(t *testing.T) {
	t.Parallel()

	ctrl, client, store := newController(t)
	ctx := context.Background()

	// Both page-1 fetches must go upstream without a token, even though the
	// first one stored a continuation.
	expectSearch(client, "", &marketplace.SearchPage{Items: items("a"), NextToken: "STALE"}).Twice()

	_, err := ctrl.Fetch(ctx, pager.Request{Query: "bicycle", Page: 1})
	require.NoError(t, err)

	_, err = ctrl.Fetch(ctx, pager.Request{Query: "bicycle", Page: 1})
	require.NoError(t, err)

	sess, ok := store.Get("bicycle")
	require.True(t, ok)
	assert.Equal(t, 1, sess.LastServedPage)
}

func TestController_PageTwoWithoutPageOne(t *testing.T) {
	t.Parallel()

	ctrl, _, _ := newController(t)

	_, err := ctrl.Fetch(context.Background(), pager.Request{Query: "bicycle", Page: 2})
	var noCont *pager.NoContinuationError
	require.ErrorAs(t, err, &noCont)
	assert.Equal(t, 2, noCont.Requested)
}

func TestController_ExhaustedChain(t *testing.T) {
	t.Parallel()

	ctrl, client, _ := newController(t)
	ctx := context.Background()

	expectSearch(client, "", &marketplace.SearchPage{Items: items("a"), NextToken: "T1"}).Once()
	expectSearch(client, "T1", &marketplace.SearchPage{Items: items("b")}).Once()

	_, err := ctrl.Fetch(ctx, pager.Request{Query: "bicycle", Page: 1})
	require.NoError(t, err)

	result, err := ctrl.Fetch(ctx, pager.Request{Query: "bicycle", Page: 2})
	require.NoError(t, err)
	assert.Nil(t, result.NextPage)

	// The chain ended at page 2; page 3 has nothing to continue from.
	_, err = ctrl.Fetch(ctx, pager.Request{Query: "bicycle", Page: 3})
	var noCont *pager.NoContinuationError
	require.ErrorAs(t, err, &noCont)
}

func TestController_QueryNormalization(t *testing.T) {
	t.Parallel()

	ctrl, client, _ := newController(t)
	ctx := context.Background()

	expectSearch(client, "", &marketplace.SearchPage{Items: items("a"), NextToken: "T1"}).Once()
	expectSearch(client, "T1", &marketplace.SearchPage{Items: items("b")}).Once()

	_, err := ctrl.Fetch(ctx, pager.Request{Query: "Google  Pixel", Page: 1})
	require.NoError(t, err)

	// Differently-spelled but equivalent query continues the same session.
	_, err = ctrl.Fetch(ctx, pager.Request{Query: "  google pixel ", Page: 2})
	require.NoError(t, err)
}

func TestController_UpstreamFailureLeavesSessionUntouched(t *testing.T) {
	t.Parallel()

	ctrl, client, store := newController(t)
	ctx := context.Background()

	expectSearch(client, "", &marketplace.SearchPage{Items: items("a"), NextToken: "T1"}).Once()
	client.EXPECT().
		Search(mock.Anything, mock.MatchedBy(func(r marketplace.SearchRequest) bool {
			return r.NextToken == "T1"
		})).
		Return(nil, fmt.Errorf("searching: %w", marketplace.ErrUnavailable)).
		Once()

	_, err := ctrl.Fetch(ctx, pager.Request{Query: "bicycle", Page: 1})
	require.NoError(t, err)

	_, err = ctrl.Fetch(ctx, pager.Request{Query: "bicycle", Page: 2})
	require.ErrorIs(t, err, marketplace.ErrUnavailable)

	// The failed fetch must not have advanced the session.
	sess, ok := store.Get("bicycle")
	require.True(t, ok)
	assert.Equal(t, 1, sess.LastServedPage)
	assert.Equal(t, "T1", sess.ContinuationToken)
}

func TestController_FailedPageOneKeepsExistingChain(t *testing.T) {
	t.Parallel()

	ctrl, client, store := newController(t)
	ctx := context.Background()

	expectSearch(client, "", &marketplace.SearchPage{Items: items("a"), NextToken: "T1"}).Once()
	client.EXPECT().
		Search(mock.Anything, mock.MatchedBy(func(r marketplace.SearchRequest) bool {
			return r.NextToken == ""
		})).
		Return(nil, fmt.Errorf("searching: %w", marketplace.ErrUnavailable)).
		Once()
	expectSearch(client, "T1", &marketplace.SearchPage{Items: items("b")}).Once()

	_, err := ctrl.Fetch(ctx, pager.Request{Query: "bicycle", Page: 1})
	require.NoError(t, err)

	// A page-1 retry that fails upstream must leave the stored chain intact.
	_, err = ctrl.Fetch(ctx, pager.Request{Query: "bicycle", Page: 1})
	require.ErrorIs(t, err, marketplace.ErrUnavailable)

	sess, ok := store.Get("bicycle")
	require.True(t, ok)
	assert.Equal(t, 1, sess.LastServedPage)
	assert.Equal(t, "T1", sess.ContinuationToken)

	// The surviving session still serves page 2.
	result, err := ctrl.Fetch(ctx, pager.Request{Query: "bicycle", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Page)
}

func TestController_InvalidInputs(t *testing.T) {
	t.Parallel()

	ctrl, _, _ := newController(t)
	ctx := context.Background()

	_, err := ctrl.Fetch(ctx, pager.Request{Query: "   ", Page: 1})
	require.ErrorIs(t, err, pager.ErrEmptyQuery)

	_, err = ctrl.Fetch(ctx, pager.Request{Query: "bicycle", Page: 0})
	var outOfSeq *pager.OutOfSequenceError
	require.ErrorAs(t, err, &outOfSeq)
	assert.Equal(t, 1, outOfSeq.Want)
}

func TestController_PopulatesCatalog(t *testing.T) {
	t.Parallel()

	links := catalog.New(16)
	ctrl, client, _ := newController(t, pager.WithCatalog(links))

	expectSearch(client, "", &marketplace.SearchPage{
		Items: items("a"),
		Slugs: map[string]string{"a": "item-a"},
	}).Once()

	_, err := ctrl.Fetch(context.Background(), pager.Request{Query: "bicycle", Page: 1})
	require.NoError(t, err)

	slug, ok := links.Slug("a")
	require.True(t, ok)
	assert.Equal(t, "item-a", slug)
}

func TestController_ConcurrentDistinctQueries(t *testing.T) {
	t.Parallel()

	ctrl, client, store := newController(t)

	client.EXPECT().
		Search(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, r marketplace.SearchRequest) (*marketplace.SearchPage, error) {
			return &marketplace.SearchPage{
				Items:     items(r.Query),
				NextToken: "tok-" + r.Query,
			}, nil
		})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			query := fmt.Sprintf("query %d", i)
			result, err := ctrl.Fetch(context.Background(), pager.Request{Query: query, Page: 1})
			assert.NoError(t, err)
			assert.Equal(t, query, result.Query)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 32; i++ {
		sess, ok := store.Get(fmt.Sprintf("query %d", i))
		require.True(t, ok)
		assert.Equal(t, 1, sess.LastServedPage)
		assert.Equal(t, fmt.Sprintf("tok-query %d", i), sess.ContinuationToken)
	}
}

func TestController_ConcurrentSamePageSingleAdvance(t *testing.T) {
	t.Parallel()

	ctrl, client, store := newController(t)
	ctx := context.Background()

	expectSearch(client, "", &marketplace.SearchPage{Items: items("a"), NextToken: "T1"}).Once()
	// Exactly one of the two concurrent page-2 requests may reach upstream.
	expectSearch(client, "T1", &marketplace.SearchPage{Items: items("b"), NextToken: "T2"}).Once()

	_, err := ctrl.Fetch(ctx, pager.Request{Query: "bicycle", Page: 1})
	require.NoError(t, err)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ctrl.Fetch(ctx, pager.Request{Query: "bicycle", Page: 2})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var okCount, seqCount int
	for err := range errs {
		if err == nil {
			okCount++
			continue
		}
		var outOfSeq *pager.OutOfSequenceError
		if assert.ErrorAs(t, err, &outOfSeq) {
			seqCount++
		}
	}
	assert.Equal(t, 1, okCount, "exactly one request advances the session")
	assert.Equal(t, 1, seqCount, "the loser observes the advanced session")

	sess, ok := store.Get("bicycle")
	require.True(t, ok)
	assert.Equal(t, 2, sess.LastServedPage)
	assert.Equal(t, "T2", sess.ContinuationToken)
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		contain string
	}{
		{
			name:    "out of sequence names the required page",
			err:     &pager.OutOfSequenceError{Query: "bicycle", Requested: 5, Want: 3},
			contain: "Request page 3 next",
		},
		{
			name:    "no continuation points back to page 1",
			err:     &pager.NoContinuationError{Query: "bicycle", Requested: 3},
			contain: "page=1",
		},
		{
			name:    "unavailable",
			err:     fmt.Errorf("searching page 2: %w", marketplace.ErrUnavailable),
			contain: "could not be reached",
		},
		{
			name:    "rejected carries the status",
			err:     fmt.Errorf("searching page 2: %w", &marketplace.StatusError{StatusCode: 429}),
			contain: "status 429",
		},
		{
			name:    "malformed",
			err:     fmt.Errorf("searching page 2: %w", marketplace.ErrMalformedResponse),
			contain: "unexpected response",
		},
		{
			name:    "empty query",
			err:     pager.ErrEmptyQuery,
			contain: "Invalid query",
		},
		{
			name:    "unknown error stays generic",
			err:     fmt.Errorf("boom"),
			contain: "internal error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			msg := pager.UserMessage(tt.err)
			assert.Contains(t, msg, tt.contain)
			assert.NotContains(t, msg, "T1", "tokens never leak into messages")
		})
	}
}
