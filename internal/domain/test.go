package domain

import "fmt"

// Category is the functional area of the backend a test case probes
type Category string

const (
	CategoryAuth        Category = "auth"
	CategoryDatabase    Category = "database"
	CategoryStorage     Category = "storage"
	CategoryRealtime    Category = "realtime"
	CategoryREST        Category = "rest"
	CategorySecurity    Category = "security"
	CategoryPerformance Category = "performance"
	CategoryBackup      Category = "backup"
)

// Categories lists every known category in display order
var Categories = []Category{
	CategoryAuth,
	CategoryDatabase,
	CategoryStorage,
	CategoryRealtime,
	CategoryREST,
	CategorySecurity,
	CategoryPerformance,
	CategoryBackup,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Priority is an informational ranking; it never changes execution order
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// TestCase represents a single named check inside a suite
type TestCase struct {
	ID          string   `yaml:"id" json:"id"`
	SuiteID     string   `yaml:"-" json:"suite_id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Category    Category `yaml:"category" json:"category"`
	Priority    Priority `yaml:"priority" json:"priority"`
	Enabled     bool     `yaml:"enabled" json:"enabled"`
}

// Key returns the suite-qualified identifier of the case
func (tc TestCase) Key() string {
	return fmt.Sprintf("%s/%s", tc.SuiteID, tc.ID)
}

// DisplayName returns the case name, falling back to its id
func (tc TestCase) DisplayName() string {
	if tc.Name == "" {
		return tc.ID
	}
	return tc.Name
}

// TestSuite represents a toggleable group of test cases
type TestSuite struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Enabled     bool       `yaml:"enabled" json:"enabled"`
	Cases       []TestCase `yaml:"cases" json:"cases"`
}

// Clone returns a deep copy of the suite
func (s TestSuite) Clone() TestSuite {
	c := s
	c.Cases = make([]TestCase, len(s.Cases))
	copy(c.Cases, s.Cases)
	return c
}
