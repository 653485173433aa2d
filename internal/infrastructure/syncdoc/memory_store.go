package syncdoc

import (
	"context"
	"sync"

	"github.com/retailpos/backend/internal/domain/shared"
)

// MemoryStore implements Store in process memory. Notifications are
// dispatched synchronously from Write, which makes relay behavior
// deterministic in tests and in single-process deployments.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte
	subs map[string][]*memorySubscription
}

type memorySubscription struct {
	mu       sync.Mutex
	closed   bool
	onChange func(doc []byte)
}

func (s *memorySubscription) dispatch(doc []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.onChange(doc)
}

// NewMemoryStore creates an empty in-memory document store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string][]byte),
		subs: make(map[string][]*memorySubscription),
	}
}

// Write replaces the document and synchronously notifies subscribers
func (s *MemoryStore) Write(ctx context.Context, path string, doc []byte) error {
	stored := make([]byte, len(doc))
	copy(stored, doc)

	s.mu.Lock()
	s.docs[path] = stored
	subs := make([]*memorySubscription, len(s.subs[path]))
	copy(subs, s.subs[path])
	s.mu.Unlock()

	for _, sub := range subs {
		sub.dispatch(stored)
	}
	return nil
}

// Read returns the current document at path
func (s *MemoryStore) Read(ctx context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[path]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, nil
}

// Subscribe registers onChange for subsequent writes to path
func (s *MemoryStore) Subscribe(ctx context.Context, path string, onChange func(doc []byte)) (Unsubscribe, error) {
	sub := &memorySubscription{onChange: onChange}

	s.mu.Lock()
	s.subs[path] = append(s.subs[path], sub)
	s.mu.Unlock()

	unsubscribe := func() {
		sub.mu.Lock()
		sub.closed = true
		sub.mu.Unlock()

		s.mu.Lock()
		defer s.mu.Unlock()
		list := s.subs[path]
		for i, candidate := range list {
			if candidate == sub {
				s.subs[path] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}

	return unsubscribe, nil
}

// Delete removes the document at path
func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, path)
	return nil
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
