package probe

import (
	"testing"

	"probectl/internal/domain"
	"probectl/internal/registry"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDefaults_BindsEveryDefaultCase(t *testing.T) {
	reg, err := registry.New(registry.DefaultSuites())
	require.NoError(t, err)

	require.NoError(t, RegisterDefaults(reg, testConfig("https://backend.example"), zerolog.Nop()))

	assert.Empty(t, reg.Unbound())
	for _, s := range reg.Suites() {
		for _, tc := range s.Cases {
			_, ok := reg.ProbeFor(tc)
			assert.True(t, ok, tc.Key())
		}
	}
}

func TestRegisterDefaults_LeavesCustomCasesUnbound(t *testing.T) {
	reg, err := registry.New([]domain.TestSuite{{
		ID:      "custom",
		Name:    "Custom",
		Enabled: true,
		Cases: []domain.TestCase{
			{ID: "health", Name: "Auth health", Category: domain.CategoryAuth, Priority: domain.PriorityHigh, Enabled: true},
			{ID: "billing", Name: "Billing", Category: domain.CategoryREST, Priority: domain.PriorityLow, Enabled: true},
		},
	}})
	require.NoError(t, err)

	require.NoError(t, RegisterDefaults(reg, testConfig("https://backend.example"), zerolog.Nop()))

	unbound := reg.Unbound()
	require.Len(t, unbound, 1)
	assert.Equal(t, "billing", unbound[0].ID)
}
