package ingest

import "sync"

// ChanSource is an in-process EventSource backed by a buffered channel.
// It is used by tests and the CLI seeder; production callers typically
// adapt their own change feed to the EventSource interface instead.
type ChanSource struct {
	mu     sync.RWMutex
	events chan Event
	done   chan struct{}
	closed bool
}

// NewChanSource creates a source with the given delivery buffer size.
func NewChanSource(buffer int) *ChanSource {
	if buffer < 0 {
		buffer = 0
	}
	return &ChanSource{
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
}

// Publish enqueues an event for delivery, blocking while the buffer is
// full. Returns ErrSourceClosed after Close, including for a publisher
// that was blocked on a full buffer when Close landed.
func (s *ChanSource) Publish(event Event) error {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrSourceClosed
	}

	// The lock is not held across the send: a blocked publisher must not
	// keep Close waiting.
	select {
	case s.events <- event:
		return nil
	case <-s.done:
		return ErrSourceClosed
	}
}

// Subscribe starts a dispatch goroutine delivering events to handler in
// publication order.
func (s *ChanSource) Subscribe(handler Handler) (Subscription, error) {
	if handler == nil {
		return nil, ErrHandlerRequired
	}

	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return nil, ErrSourceClosed
	}

	sub := &chanSubscription{
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(sub.done)
		for {
			select {
			case <-sub.quit:
				return
			case event := <-s.events:
				handler(event)
			case <-s.done:
				// Drain what was buffered before the close, then exit.
				for {
					select {
					case event := <-s.events:
						handler(event)
					default:
						return
					}
				}
			}
		}
	}()

	return sub, nil
}

// Close rejects further publishes and unblocks publishers waiting on a
// full buffer. Events already buffered are still delivered before the
// dispatch goroutine exits.
func (s *ChanSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	close(s.done)
	return nil
}

type chanSubscription struct {
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

func (s *chanSubscription) Unsubscribe() error {
	s.once.Do(func() { close(s.quit) })
	<-s.done
	return nil
}
