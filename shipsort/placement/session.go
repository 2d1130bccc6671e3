package placement

import (
	"maps"
	"math/rand/v2"
)

// Session is the state of a single top-level sort invocation: how many items of every key have
// been placed so far, and the source of jitter. A Session must not be shared between goroutines.
type Session struct {
	counts map[string]int
	rng    *rand.Rand
}

// NewSession creates a Session using rng for jitter. A nil rng is replaced with a randomly seeded
// one.
func NewSession(rng *rand.Rand) *Session {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Session{counts: map[string]int{}, rng: rng}
}

// Count returns how many items of key have been placed successfully in this session.
func (s *Session) Count(key string) int {
	return s.counts[key]
}

// Counts returns a copy of every counter.
func (s *Session) Counts() map[string]int {
	return maps.Clone(s.counts)
}

// Rand ...
func (s *Session) Rand() *rand.Rand {
	return s.rng
}

// increment ...
func (s *Session) increment(key string) {
	s.counts[key]++
}
