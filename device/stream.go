package device

import "sync"

// Stream is an ordered asynchronous queue of accelerator work. Work submitted
// to a stream executes in submission order on a dedicated goroutine;
// submission never blocks on execution. The host observes completion only
// through Synchronize.
//
// Errors are sticky: once a work item fails, later items on the stream are
// skipped and every Synchronize (and Close) from then on reports the first
// failure.
type Stream struct {
	mu     sync.Mutex // guards closed and the right to send on work
	errMu  sync.Mutex // guards err; the executor only ever takes this one
	work   chan workItem
	wg     sync.WaitGroup
	err    error
	closed bool
}

type workItem struct {
	fn func() error
	// barriers run even on a failed stream so Synchronize cannot hang.
	barrier bool
}

// streamDepth bounds how far submission can run ahead of execution before
// submission blocks. Real streams have finite command queues too.
const streamDepth = 64

// NewStream starts a stream's executor goroutine. The caller must Close the
// stream when done with it.
func (r *Runtime) NewStream() *Stream {
	s := &Stream{work: make(chan workItem, streamDepth)}
	s.wg.Add(1)
	go s.run()

	return s
}

func (s *Stream) run() {
	defer s.wg.Done()
	for item := range s.work {
		s.errMu.Lock()
		failed := s.err != nil
		s.errMu.Unlock()
		if failed && !item.barrier {
			continue
		}
		if err := item.fn(); err != nil {
			s.errMu.Lock()
			if s.err == nil {
				s.err = err
			}
			s.errMu.Unlock()
		}
	}
}

// Submit enqueues a work item and returns once it is queued, not once it has
// run. It exists for the runtime (MemcpyAsync), the codec engine, and event
// recording; pipeline code never submits raw closures.
func (s *Stream) Submit(fn func() error) error {
	return s.enqueue(workItem{fn: fn})
}

func (s *Stream) enqueue(item workItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStreamClosed
	}
	// Holding mu while sending is safe: the executor drains work without ever
	// taking mu, so a full queue only delays the submitter.
	s.work <- item

	return nil
}

// Synchronize blocks until every previously submitted work item has executed
// or been skipped, then returns the stream's sticky error, if any. It is the
// only blocking point in the pipeline's happy path.
func (s *Stream) Synchronize() error {
	done := make(chan struct{})
	if err := s.enqueue(workItem{
		fn: func() error {
			close(done)

			return nil
		},
		barrier: true,
	}); err != nil {
		return err
	}
	<-done

	s.errMu.Lock()
	defer s.errMu.Unlock()

	return s.err
}

// Close drains the stream, stops its executor, and returns the sticky error.
// Submitting to a closed stream fails with ErrStreamClosed.
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()

		return ErrStreamClosed
	}
	s.closed = true
	close(s.work)
	s.mu.Unlock()

	s.wg.Wait()

	s.errMu.Lock()
	defer s.errMu.Unlock()

	return s.err
}
