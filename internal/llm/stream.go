package llm

import (
	"context"
	"sync"
)

// Stream is a lazy, finite sequence of generated text fragments. It is not
// restartable: once Fragments is drained the generation is over. Close
// releases the underlying connection and may be called at any point,
// including before the stream is fully consumed.
type Stream struct {
	fragments chan string
	cancel    context.CancelFunc

	mu  sync.Mutex
	err error

	closeOnce sync.Once
}

func newStream(cancel context.CancelFunc) *Stream {
	return &Stream{
		fragments: make(chan string, 16),
		cancel:    cancel,
	}
}

// Fragments returns the channel of text fragments in arrival order. The
// channel is closed when generation completes or fails; check Err afterwards.
func (s *Stream) Fragments() <-chan string {
	return s.fragments
}

// Err reports why the stream ended. It is only meaningful once Fragments has
// been drained.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close abandons the stream, cancelling the in-flight request and draining
// any buffered fragments so the producer goroutine can exit.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		go func() {
			for range s.fragments {
			}
		}()
	})
}

func (s *Stream) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// emit delivers one fragment, giving up if the consumer abandoned the stream.
func (s *Stream) emit(ctx context.Context, fragment string) error {
	select {
	case s.fragments <- fragment:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
