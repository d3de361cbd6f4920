package autosave

import (
	"log"
	"sync"
	"time"
)

// DefaultDebounce is the quiet window after the last mutation before an
// autosave fires.
const DefaultDebounce = 2 * time.Second

// SlotName is the single autosave slot the editor writes.
const SlotName = "current"

// BlobPutter is the destination of autosave payloads. SlotStore is the
// production implementation.
type BlobPutter interface {
	Put(name string, payload []byte) error
}

// Saver debounces autosave requests. Each Schedule call replaces the
// pending payload and reschedules the timer, so a burst of mutations
// produces one write of the latest snapshot after the window closes.
//
// The payload is captured by the caller on the mutation path; the timer
// goroutine only ever writes those immutable bytes and never reads live
// editor state, so saves run race-free and detached. Store actions never
// wait on them.
type Saver struct {
	store    BlobPutter
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending []byte
	closed  bool
}

// NewSaver creates a saver that persists scheduled payloads into the
// store's autosave slot.
func NewSaver(store BlobPutter, debounce time.Duration) *Saver {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Saver{store: store, debounce: debounce}
}

// Schedule requests an autosave of the given payload after the debounce
// window, superseding any payload already pending. Safe to call on every
// mutation. The saver takes ownership of the slice; callers must not
// mutate it afterwards.
func (s *Saver) Schedule(payload []byte) {
	if payload == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = payload
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.save)
}

// Flush performs any pending save immediately. Used on session end.
func (s *Saver) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.save()
}

// Close flushes and stops the saver. Further Schedule calls are no-ops.
func (s *Saver) Close() {
	s.Flush()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// save writes the pending payload, swallowing failures: autosave is best
// effort and must never propagate into the mutation path.
func (s *Saver) save() {
	s.mu.Lock()
	payload := s.pending
	s.pending = nil
	s.mu.Unlock()

	if payload == nil {
		return
	}
	if err := s.store.Put(SlotName, payload); err != nil {
		log.Printf("[!] autosave: skipped: %v", err)
	}
}
