// Package probe holds the built-in probes bound to the default catalog
package probe

import (
	"fmt"

	"probectl/internal/config"
	"probectl/internal/domain"
	"probectl/internal/logging"
	"probectl/internal/registry"

	"github.com/rs/zerolog"
)

// Backend API paths
const (
	PathAuthHealth     = "/auth/v1/health"
	PathAuthSettings   = "/auth/v1/settings"
	PathAuthAdminUsers = "/auth/v1/admin/users"
	PathStorageHealth  = "/storage/v1/status"
	PathStorageBuckets = "/storage/v1/bucket"
	PathREST           = "/rest/v1/"
	PathBackupStatus   = "/backup/v1/status"
	PathRecoveryPoint  = "/backup/v1/recovery-point"
)

type binding struct {
	category domain.Category
	caseID   string
	probe    registry.ProbeFunc
}

// RegisterDefaults binds a built-in probe to every (category, case id) pair
// of the default catalog
func RegisterDefaults(reg *registry.Registry, cfg *config.Config, logger zerolog.Logger) error {
	client := NewClient(cfg)
	db := NewDatabase(cfg, logging.WithComponent(logger, "probe.database"))
	rt := NewRealtime(cfg, logging.WithComponent(logger, "probe.realtime"))
	perf := NewPerformance(client, PathREST, cfg.PerformanceSamples, cfg.LatencyBudget)

	bindings := []binding{
		{domain.CategoryAuth, "health", client.Endpoint(PathAuthHealth)},
		{domain.CategoryAuth, "settings", client.JSONEndpoint(PathAuthSettings, isObject)},
		{domain.CategoryAuth, "anonymous-rejected", client.Rejected(PathAuthAdminUsers)},

		{domain.CategoryDatabase, "basic-query", db.BasicQuery},
		{domain.CategoryDatabase, "server-version", db.ServerVersion},
		{domain.CategoryDatabase, "transaction", db.Transaction},

		{domain.CategoryStorage, "health", client.Endpoint(PathStorageHealth)},
		{domain.CategoryStorage, "list-buckets", client.JSONEndpoint(PathStorageBuckets, isArray)},

		{domain.CategoryRealtime, "connect", rt.Connect},
		{domain.CategoryRealtime, "ping", rt.Ping},

		{domain.CategoryREST, "root", client.Endpoint(PathREST)},
		{domain.CategoryREST, "openapi", client.JSONEndpoint(PathREST, isObject)},

		{domain.CategorySecurity, "tls", client.TLS(PathREST)},
		{domain.CategorySecurity, "headers", client.Headers(PathREST)},
		{domain.CategorySecurity, "anonymous-rejected", client.Rejected(PathREST)},

		{domain.CategoryPerformance, "latency", perf.Latency},
		{domain.CategoryPerformance, "throughput", perf.Throughput},

		{domain.CategoryBackup, "status", client.JSONEndpoint(PathBackupStatus, nil)},
		{domain.CategoryBackup, "recovery-point", client.JSONEndpoint(PathRecoveryPoint, hasTimestamp)},
	}

	for _, b := range bindings {
		if err := reg.Bind(b.category, b.caseID, b.probe); err != nil {
			return fmt.Errorf("register default probes: %w", err)
		}
	}

	for _, tc := range reg.Unbound() {
		logger.Warn().Str("case", tc.Key()).Str("category", string(tc.Category)).Msg("no probe bound")
	}
	return nil
}
