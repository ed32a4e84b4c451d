package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchName(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		input    string
		expected bool
	}{
		{name: "empty pattern matches", pattern: "", input: "basic-query", expected: true},
		{name: "wildcard suffix", pattern: "*query", input: "basic-query", expected: true},
		{name: "wildcard substring", pattern: "*quer*", input: "basic-query", expected: true},
		{name: "simple contains", pattern: "basic", input: "basic-query", expected: true},
		{name: "no match", pattern: "*latency*", input: "basic-query", expected: false},
		{name: "suite qualified", pattern: "database/*", input: "database/transaction", expected: true},
		{name: "multiple wildcards", pattern: "*a*y*", input: "anonymous-rejected", expected: true},
		{name: "only wildcards", pattern: "**", input: "x", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, matchName(tt.pattern, tt.input))
		})
	}
}

func TestRegistry_FilterByName(t *testing.T) {
	t.Run("empty pattern keeps selection", func(t *testing.T) {
		reg, err := New(DefaultSuites())
		require.NoError(t, err)
		before := reg.EnabledCases()
		reg.FilterByName("")
		assert.Equal(t, before, reg.EnabledCases())
	})

	t.Run("pattern narrows selection", func(t *testing.T) {
		reg, err := New(DefaultSuites())
		require.NoError(t, err)
		reg.FilterByName("basic-query")

		enabled := reg.EnabledCases()
		require.Len(t, enabled, 2)
		assert.Equal(t, "smoke/basic-query", enabled[0].Key())
		assert.Equal(t, "database/basic-query", enabled[1].Key())
	})

	t.Run("suite qualified pattern", func(t *testing.T) {
		reg, err := New(DefaultSuites())
		require.NoError(t, err)
		reg.FilterByName("realtime/*")

		enabled := reg.EnabledCases()
		require.Len(t, enabled, 2)
		for _, c := range enabled {
			assert.Equal(t, "realtime", c.SuiteID)
		}
	})
}
