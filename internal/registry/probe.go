package registry

import (
	"context"
	"fmt"

	"probectl/internal/domain"
)

// Probe is the operation a test case invokes. It returns an arbitrary payload on success.
type Probe interface {
	Probe(ctx context.Context) (any, error)
}

// ProbeFunc adapts a function to the Probe interface
type ProbeFunc func(ctx context.Context) (any, error)

// Probe calls f(ctx)
func (f ProbeFunc) Probe(ctx context.Context) (any, error) {
	return f(ctx)
}

type bindingKey struct {
	category domain.Category
	caseID   string
}

// Bind registers the probe invoked for every case with the given category and id
func (r *Registry) Bind(category domain.Category, caseID string, p Probe) error {
	if !category.Valid() {
		return fmt.Errorf("bind %s: unknown category %q", caseID, category)
	}
	if p == nil {
		return fmt.Errorf("bind %s-%s: nil probe", category, caseID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.probes[bindingKey{category: category, caseID: caseID}] = p
	return nil
}

// ProbeFor returns the probe bound to the case's category and id
func (r *Registry) ProbeFor(tc domain.TestCase) (Probe, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.probes[bindingKey{category: tc.Category, caseID: tc.ID}]
	return p, ok
}

// Unbound returns every case that has no probe bound, in catalog order
func (r *Registry) Unbound() []domain.TestCase {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.TestCase
	for _, s := range r.suites {
		for _, tc := range s.Cases {
			if _, ok := r.probes[bindingKey{category: tc.Category, caseID: tc.ID}]; !ok {
				out = append(out, tc)
			}
		}
	}
	return out
}
