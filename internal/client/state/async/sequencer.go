package async

import "sync"

// Sequencer hands out increasing sequence numbers per operation kind and
// tells whether a settled invocation is still the latest of its kind. A
// response whose invocation has been superseded is stale and should be
// dropped.
type Sequencer struct {
	mu     sync.Mutex
	latest map[string]uint64
}

// Next registers a new invocation of kind and returns its number.
func (s *Sequencer) Next(kind string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		s.latest = make(map[string]uint64)
	}
	s.latest[kind]++
	return s.latest[kind]
}

// IsLatest reports whether seq is the most recent invocation of kind.
func (s *Sequencer) IsLatest(kind string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[kind] == seq
}
