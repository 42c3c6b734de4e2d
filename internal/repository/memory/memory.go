// Package memory provides in-process stores used when Redis is not configured.
// State is lost on restart and is not shared between instances.
package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"IG_DIRECTORY_BACK-END/internal/repository"
)

// RevocationStore keeps revoked session ids until they expire
type RevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewRevocationStore constructs an empty RevocationStore
func NewRevocationStore() *RevocationStore {
	return &RevocationStore{revoked: map[string]time.Time{}, now: time.Now}
}

// Revoke marks jti as revoked for ttl
func (s *RevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, until := range s.revoked {
		if !until.After(now) {
			delete(s.revoked, id)
		}
	}
	s.revoked[jti] = now.Add(ttl)
	return nil
}

// IsRevoked reports whether jti is still revoked
func (s *RevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	if !until.After(s.now()) {
		delete(s.revoked, jti)
		return false, nil
	}
	return true, nil
}

// sweepInterval bounds how often Hit scans for idle windows
const sweepInterval = time.Minute

type rateWindow struct {
	attempts []time.Time
	expires  time.Time
}

// RateLimitStore is a sliding-window attempt log with the same semantics as
// the Redis sorted-set store. Windows idle past their length are swept, so
// the map holds only identifiers seen within the longest active window.
type RateLimitStore struct {
	mu        sync.Mutex
	windows   map[string]*rateWindow
	lastSweep time.Time
}

// NewRateLimitStore constructs an empty RateLimitStore
func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{windows: map[string]*rateWindow{}}
}

// Hit drops attempts at or before now-window and records one at now when
// fewer than limit remain. Check and record happen under one lock.
func (s *RateLimitStore) Hit(_ context.Context, identifier string, limit int, window time.Duration, now time.Time) (repository.RateWindow, error) {
	if window <= 0 {
		return repository.RateWindow{}, errors.New("window must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) >= sweepInterval {
		s.sweep(now)
	}

	w := s.windows[identifier]
	if w == nil {
		w = &rateWindow{}
	}

	start := now.Add(-window)
	kept := w.attempts[:0]
	for _, at := range w.attempts {
		if at.After(start) {
			kept = append(kept, at)
		}
	}
	w.attempts = kept

	res := repository.RateWindow{}
	if len(w.attempts) < limit {
		i := sort.Search(len(w.attempts), func(i int) bool { return w.attempts[i].After(now) })
		w.attempts = slices.Insert(w.attempts, i, now)
		w.expires = now.Add(window)
		res.Allowed = true
	}
	res.Count = len(w.attempts)

	if len(w.attempts) == 0 {
		delete(s.windows, identifier)
		return res, nil
	}
	res.Oldest = w.attempts[0]
	s.windows[identifier] = w
	return res, nil
}

// Len reports how many identifiers currently hold a window
func (s *RateLimitStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

func (s *RateLimitStore) sweep(now time.Time) {
	for id, w := range s.windows {
		if !w.expires.After(now) {
			delete(s.windows, id)
		}
	}
	s.lastSweep = now
}
