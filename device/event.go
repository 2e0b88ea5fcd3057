package device

import (
	"sync"
	"time"
)

// Event is a timing marker recorded on a stream. The timestamp is taken when
// the stream's executor reaches the marker, not when the host submits it, so
// a start/stop pair brackets exactly the work submitted between them.
//
// Reading an event before its stream has synchronized past it is a race; Time
// and Since report ErrEventNotReady in that case instead of a stale value.
type Event struct {
	mu       sync.Mutex
	at       time.Time
	recorded bool
}

// NewEvent creates an unrecorded event.
func NewEvent() *Event {
	return &Event{}
}

// Record submits the event onto the stream. The event is stamped when the
// stream reaches it.
func (e *Event) Record(s *Stream) error {
	return s.Submit(func() error {
		e.mu.Lock()
		e.at = time.Now()
		e.recorded = true
		e.mu.Unlock()

		return nil
	})
}

// Time returns the instant the stream reached the event.
func (e *Event) Time() (time.Time, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.recorded {
		return time.Time{}, ErrEventNotReady
	}

	return e.at, nil
}

// Since returns the elapsed stream time between start and e. Both events must
// have been reached; callers synchronize the stream first.
func (e *Event) Since(start *Event) (time.Duration, error) {
	from, err := start.Time()
	if err != nil {
		return 0, err
	}
	to, err := e.Time()
	if err != nil {
		return 0, err
	}

	return to.Sub(from), nil
}
