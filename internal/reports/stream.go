package reports

import "sync"

// Stream buffers events for a single subscriber. When the buffer is full
// new events are dropped rather than blocking the editor.
type Stream struct {
	events  chan Event
	mu      sync.Mutex
	closed  bool
	dropped int
}

func NewStream(bufferSize int) *Stream {
	return &Stream{
		events: make(chan Event, bufferSize),
	}
}

func (s *Stream) Events() <-chan Event {
	return s.events
}

func (s *Stream) Notify(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.events <- e:
	default:
		s.dropped++
	}
}

// Dropped returns the number of events discarded because the buffer was full.
func (s *Stream) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
}
