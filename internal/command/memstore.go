package command

import (
	"sort"
	"sync"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/model"
)

// MemoryStore is a map-backed Store. Elements are copied on the way in and
// out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	elements map[string]*model.Element
}

// NewMemoryStore creates a store holding copies of els.
func NewMemoryStore(els ...*model.Element) *MemoryStore {
	s := &MemoryStore{elements: make(map[string]*model.Element, len(els))}
	for _, el := range els {
		s.elements[el.ID] = el.Clone()
	}
	return s
}

func (s *MemoryStore) Add(el *model.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.elements[el.ID]; ok {
		return errors.Wrapf(errors.ErrElementExists, "element %q", el.ID)
	}
	s.elements[el.ID] = el.Clone()
	return nil
}

func (s *MemoryStore) Remove(id string) (*model.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.elements[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrElementNotFound, "element %q", id)
	}
	delete(s.elements, id)
	return el, nil
}

func (s *MemoryStore) Get(id string) (*model.Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	el, ok := s.elements[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrElementNotFound, "element %q", id)
	}
	return el.Clone(), nil
}

func (s *MemoryStore) Update(el *model.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.elements[el.ID]; !ok {
		return errors.Wrapf(errors.ErrElementNotFound, "element %q", el.ID)
	}
	s.elements[el.ID] = el.Clone()
	return nil
}

// Has reports whether an element with id exists.
func (s *MemoryStore) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.elements[id]
	return ok
}

// List returns copies of all elements sorted by ID.
func (s *MemoryStore) List() []*model.Element {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Element, 0, len(s.elements))
	for _, el := range s.elements {
		out = append(out, el.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of elements.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.elements)
}
