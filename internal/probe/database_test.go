package probe

import (
	"context"
	"testing"
	"time"

	"probectl/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabase_NotConfigured(t *testing.T) {
	db := NewDatabase(testConfig(""), zerolog.Nop())

	_, err := db.BasicQuery(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvDatabaseDSN)
}

func TestDatabase_InvalidDSN(t *testing.T) {
	cfg := testConfig("")
	cfg.Backend.DatabaseDSN = "user:pass@tcp(localhost:3306)"

	_, err := NewDatabase(cfg, zerolog.Nop()).ServerVersion(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid database dsn")
}

func TestDatabase_Unreachable(t *testing.T) {
	cfg := testConfig("")
	cfg.Backend.DatabaseDSN = "user:pass@tcp(127.0.0.1:1)/app"
	cfg.ProbeTimeout = 500 * time.Millisecond

	_, err := NewDatabase(cfg, zerolog.Nop()).Transaction(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to 127.0.0.1:1")
}
