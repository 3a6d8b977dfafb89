// Package session implements the in-memory pagination session store.
//
// A session tracks, per normalized query, the last page served and the
// upstream continuation token needed to fetch the next one. The store is
// bounded: stale sessions expire after a TTL and the least recently accessed
// session is evicted on capacity pressure. State never leaves the process.
package session

import (
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/mvalldaura/marketsearch/internal/metrics"
)

// lockStripes is the number of per-key mutex stripes. Keys are hashed onto
// stripes, so requests for the same query always serialize while requests
// for different queries almost always proceed independently.
const lockStripes = 64

// Session is the per-query pagination state.
//
// ContinuationToken is only ever set from the upstream response for the page
// most recently fetched. It is never caller-supplied and must never appear
// in API responses or logs.
type Session struct {
	QueryKey          string
	LastServedPage    int
	ContinuationToken string
	LastAccessed      time.Time
}

// Info is the caller-visible view of a session, without the token.
type Info struct {
	Query        string    `json:"query"`
	LastPage     int       `json:"last_page"`
	HasMore      bool      `json:"has_more"`
	LastAccessed time.Time `json:"last_accessed"`
}

// Store is a bounded in-memory session store. Construct one per process and
// inject it; there is no package-level singleton.
type Store struct {
	capacity int
	ttl      time.Duration
	nowFunc  func() time.Time

	mu       sync.Mutex
	sessions map[string]Session

	locks [lockStripes]sync.Mutex
}

// Option configures the Store.
type Option func(*Store)

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(s *Store) {
		s.nowFunc = f
	}
}

// New creates a session store with the given capacity and inactivity TTL.
func New(capacity int, ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		capacity: capacity,
		ttl:      ttl,
		nowFunc:  time.Now,
		sessions: make(map[string]Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lock acquires the serialization lock for a query key and returns the
// matching unlock function. Callers hold it across the whole
// validate-fetch-update sequence so concurrent requests for the same query
// cannot interleave.
func (s *Store) Lock(key string) func() {
	stripe := &s.locks[stripeFor(key)]
	stripe.Lock()
	return stripe.Unlock
}

// Get returns the session for key. An expired session counts as a miss and
// is removed.
func (s *Store) Get(key string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		return Session{}, false
	}
	if s.expired(sess) {
		delete(s.sessions, key)
		metrics.SessionEvictionsTotal.WithLabelValues("ttl").Inc()
		metrics.SessionsActive.Set(float64(len(s.sessions)))
		return Session{}, false
	}
	return sess, true
}

// Put upserts a session, refreshing its last-accessed time. When the store
// is over capacity the least recently accessed session is evicted.
func (s *Store) Put(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.LastAccessed = s.nowFunc()
	s.sessions[sess.QueryKey] = sess

	for len(s.sessions) > s.capacity {
		s.evictOldestLocked()
	}

	metrics.SessionsActive.Set(float64(len(s.sessions)))
}

// Reset discards any session for key. Used when page 1 restarts the chain.
func (s *Store) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, key)
	metrics.SessionsActive.Set(float64(len(s.sessions)))
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes every expired session and returns how many were evicted.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted int
	for key, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, key)
			evicted++
		}
	}

	if evicted > 0 {
		metrics.SessionEvictionsTotal.WithLabelValues("ttl").Add(float64(evicted))
	}
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	return evicted
}

// Snapshot returns a token-free view of all live sessions, most recently
// accessed first.
func (s *Store) Snapshot() []Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]Info, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if s.expired(sess) {
			continue
		}
		infos = append(infos, Info{
			Query:        sess.QueryKey,
			LastPage:     sess.LastServedPage,
			HasMore:      sess.ContinuationToken != "",
			LastAccessed: sess.LastAccessed,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].LastAccessed.After(infos[j].LastAccessed)
	})
	return infos
}

func (s *Store) expired(sess Session) bool {
	return s.nowFunc().Sub(sess.LastAccessed) > s.ttl
}

func (s *Store) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	first := true

	for key, sess := range s.sessions {
		if first || sess.LastAccessed.Before(oldest) {
			oldestKey = key
			oldest = sess.LastAccessed
			first = false
		}
	}

	delete(s.sessions, oldestKey)
	metrics.SessionEvictionsTotal.WithLabelValues("capacity").Inc()
}

func stripeFor(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % lockStripes
}
