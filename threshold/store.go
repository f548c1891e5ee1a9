package threshold

import "sync"

// SessionStore is the keyed repository holding access requests. The store
// is injected so the in-memory reference backend can be swapped for a
// durable one without touching the controller.
//
// Update must apply fn as an atomic read-modify-write for the given id:
// two concurrent approvals of the same request must serialize, never lose
// an update.
type SessionStore interface {
	Put(req *AccessRequest) error
	Get(id string) (*AccessRequest, error)
	Update(id string, fn func(*AccessRequest) error) (*AccessRequest, error)
	List() ([]*AccessRequest, error)
	Close() error
}

// MemoryStore is the reference in-process store. A single write lock
// serializes all read-modify-write cycles, which satisfies the per-id
// atomicity contract.
type MemoryStore struct {
	mu       sync.RWMutex
	requests map[string]*AccessRequest
}

// NewMemoryStore creates an empty in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{requests: make(map[string]*AccessRequest)}
}

func (s *MemoryStore) Put(req *AccessRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[req.ID] = req.Clone()
	return nil
}

func (s *MemoryStore) Get(id string) (*AccessRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return req.Clone(), nil
}

func (s *MemoryStore) Update(id string, fn func(*AccessRequest) error) (*AccessRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, ErrNotFound
	}

	working := req.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	s.requests[id] = working
	return working.Clone(), nil
}

func (s *MemoryStore) List() ([]*AccessRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*AccessRequest, 0, len(s.requests))
	for _, req := range s.requests {
		out = append(out, req.Clone())
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
