// Package idseq issues strictly increasing integer identifiers.
package idseq

import "sync"

// Sequence is a monotonically increasing counter starting at 1. Values are
// never reused. The zero value is ready to use and safe for concurrent use.
type Sequence struct {
	mu   sync.Mutex
	last int64
}

// Next returns the next identifier.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	return s.last
}
