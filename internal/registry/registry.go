package registry

import (
	"errors"
	"fmt"
	"sync"

	"probectl/internal/domain"
)

var (
	// ErrUnknownSuite is returned when a suite id is not in the catalog
	ErrUnknownSuite = errors.New("unknown suite")
	// ErrUnknownCase is returned when a case id is not in its suite
	ErrUnknownCase = errors.New("unknown case")
)

// Registry holds the suite catalog, its enablement flags and the probe bindings.
// The catalog itself never changes after construction; only flags are mutated.
type Registry struct {
	mu     sync.RWMutex
	suites []domain.TestSuite
	probes map[bindingKey]Probe
}

// New validates the catalog and creates a Registry owning a copy of it
func New(suites []domain.TestSuite) (*Registry, error) {
	if err := validate(suites); err != nil {
		return nil, err
	}
	r := &Registry{
		suites: make([]domain.TestSuite, len(suites)),
		probes: make(map[bindingKey]Probe),
	}
	for i, s := range suites {
		s = s.Clone()
		for j := range s.Cases {
			s.Cases[j].SuiteID = s.ID
		}
		r.suites[i] = s
	}
	return r, nil
}

func validate(suites []domain.TestSuite) error {
	if len(suites) == 0 {
		return fmt.Errorf("catalog has no suites")
	}
	seenSuites := make(map[string]bool)
	for _, s := range suites {
		if s.ID == "" {
			return fmt.Errorf("suite %q: id is required", s.Name)
		}
		if seenSuites[s.ID] {
			return fmt.Errorf("suite %s: duplicate id", s.ID)
		}
		seenSuites[s.ID] = true

		seenCases := make(map[string]bool)
		for _, tc := range s.Cases {
			if tc.ID == "" {
				return fmt.Errorf("suite %s: case %q: id is required", s.ID, tc.Name)
			}
			if seenCases[tc.ID] {
				return fmt.Errorf("suite %s: case %s: duplicate id", s.ID, tc.ID)
			}
			seenCases[tc.ID] = true
			if !tc.Category.Valid() {
				return fmt.Errorf("suite %s: case %s: unknown category %q", s.ID, tc.ID, tc.Category)
			}
			if !tc.Priority.Valid() {
				return fmt.Errorf("suite %s: case %s: unknown priority %q", s.ID, tc.ID, tc.Priority)
			}
		}
	}
	return nil
}

// ToggleSuite flips the suite's enabled flag. Unknown ids are a no-op returning false.
func (r *Registry) ToggleSuite(suiteID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.suite(suiteID)
	if s == nil {
		return false
	}
	s.Enabled = !s.Enabled
	return true
}

// ToggleCase flips a single case's flag. The flag is kept even while the suite is disabled.
func (r *Registry) ToggleCase(suiteID, caseID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	tc := r.testCase(suiteID, caseID)
	if tc == nil {
		return false
	}
	tc.Enabled = !tc.Enabled
	return true
}

// SetSuiteEnabled sets the suite's flag explicitly
func (r *Registry) SetSuiteEnabled(suiteID string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.suite(suiteID)
	if s == nil {
		return fmt.Errorf("%w: %s", ErrUnknownSuite, suiteID)
	}
	s.Enabled = enabled
	return nil
}

// SetCaseEnabled sets a case's flag explicitly
func (r *Registry) SetCaseEnabled(suiteID, caseID string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.suite(suiteID) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownSuite, suiteID)
	}
	tc := r.testCase(suiteID, caseID)
	if tc == nil {
		return fmt.Errorf("%w: %s/%s", ErrUnknownCase, suiteID, caseID)
	}
	tc.Enabled = enabled
	return nil
}

// EnabledCases returns, in catalog order, every case whose own flag and whose suite's
// flag are both set. This is the execution order.
func (r *Registry) EnabledCases() []domain.TestCase {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var cases []domain.TestCase
	for _, s := range r.suites {
		if !s.Enabled {
			continue
		}
		for _, tc := range s.Cases {
			if tc.Enabled {
				cases = append(cases, tc)
			}
		}
	}
	return cases
}

// Suites returns a snapshot of the catalog with current flags
func (r *Registry) Suites() []domain.TestSuite {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.TestSuite, len(r.suites))
	for i, s := range r.suites {
		out[i] = s.Clone()
	}
	return out
}

// Suite returns a snapshot of one suite
func (r *Registry) Suite(suiteID string) (domain.TestSuite, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.suite(suiteID)
	if s == nil {
		return domain.TestSuite{}, false
	}
	return s.Clone(), true
}

// Case returns a snapshot of one case
func (r *Registry) Case(suiteID, caseID string) (domain.TestCase, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tc := r.testCase(suiteID, caseID)
	if tc == nil {
		return domain.TestCase{}, false
	}
	return *tc, true
}

func (r *Registry) suite(id string) *domain.TestSuite {
	for i := range r.suites {
		if r.suites[i].ID == id {
			return &r.suites[i]
		}
	}
	return nil
}

func (r *Registry) testCase(suiteID, caseID string) *domain.TestCase {
	s := r.suite(suiteID)
	if s == nil {
		return nil
	}
	for i := range s.Cases {
		if s.Cases[i].ID == caseID {
			return &s.Cases[i]
		}
	}
	return nil
}
