package results

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"probectl/internal/domain"
)

var (
	// ErrResultNotFound is returned when updating a result id that is not in the store
	ErrResultNotFound = errors.New("result not found")
	// ErrDuplicateResult is returned when adding a result whose id is already stored
	ErrDuplicateResult = errors.New("duplicate result id")
)

// Store holds the results of the current run, newest first
type Store struct {
	mu      sync.RWMutex
	results []domain.TestResult
	index   map[string]struct{}
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{index: make(map[string]struct{})}
}

// Add prepends a result to the log
func (s *Store) Add(result domain.TestResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[result.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateResult, result.ID)
	}
	s.index[result.ID] = struct{}{}
	s.results = append([]domain.TestResult{result}, s.results...)
	return nil
}

// Update merges the non-nil fields of upd into the result with the given id
func (s *Store) Update(id string, upd domain.ResultUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.results {
		if s.results[i].ID != id {
			continue
		}
		r := &s.results[i]
		if upd.Status != nil {
			r.Status = *upd.Status
		}
		if upd.Message != nil {
			r.Message = *upd.Message
		}
		if upd.Duration != nil {
			d := *upd.Duration
			r.Duration = &d
		}
		if upd.Details != nil {
			r.Details = upd.Details
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrResultNotFound, id)
}

// Clear empties the store
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = nil
	s.index = make(map[string]struct{})
}

// ByCategory returns every result whose id starts with prefix, in store order
func (s *Store) ByCategory(prefix string) []domain.TestResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TestResult, 0)
	for _, r := range s.results {
		if strings.HasPrefix(r.ID, prefix) {
			out = append(out, r)
		}
	}
	return out
}

// All returns a copy of every result, newest first
func (s *Store) All() []domain.TestResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TestResult, len(s.results))
	copy(out, s.results)
	return out
}

// Get returns the result with the given id
func (s *Store) Get(id string) (domain.TestResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.results {
		if r.ID == id {
			return r, true
		}
	}
	return domain.TestResult{}, false
}

// Len returns the number of stored results
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// CountByStatus returns how many results have the given status
func (s *Store) CountByStatus(status domain.Status) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, r := range s.results {
		if r.Status == status {
			count++
		}
	}
	return count
}
