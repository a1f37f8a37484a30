package controller

import (
	"context"
	"sync"
)

// Ticket identifies one dispatch of a logical resource.
type Ticket struct {
	Seq uint64
	Ctx context.Context
}

// Sequencer issues monotonically increasing tickets for one logical
// resource. Beginning a new ticket cancels the previous ticket's context;
// only the newest ticket is Current. The zero value is ready to use.
type Sequencer struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Begin starts a new dispatch derived from parent.
func (s *Sequencer) Begin(parent context.Context) Ticket {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	s.cancel = cancel
	return Ticket{Seq: s.seq, Ctx: ctx}
}

// Current reports whether seq is the most recently begun ticket.
func (s *Sequencer) Current(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq != 0 && seq == s.seq
}

// Finish releases the context of seq if it is still current. It returns
// the same answer as Current.
func (s *Sequencer) Finish(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq == 0 || seq != s.seq {
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}

// Invalidate makes every issued ticket stale and cancels the in-flight one.
func (s *Sequencer) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
}

// Last returns the most recently issued sequence number.
func (s *Sequencer) Last() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}
