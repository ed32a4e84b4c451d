package registry

import "probectl/internal/domain"

func tc(id, name string, category domain.Category, priority domain.Priority, description string) domain.TestCase {
	return domain.TestCase{
		ID:          id,
		Name:        name,
		Description: description,
		Category:    category,
		Priority:    priority,
		Enabled:     true,
	}
}

// DefaultSuites returns the built-in catalog. Cases sharing a category and id across
// suites are bound to the same probe.
func DefaultSuites() []domain.TestSuite {
	return []domain.TestSuite{
		{
			ID:          "smoke",
			Name:        "Smoke",
			Description: "Fast reachability checks across every functional area",
			Enabled:     true,
			Cases: []domain.TestCase{
				tc("health", "Auth health", domain.CategoryAuth, domain.PriorityHigh, "Auth service answers its health endpoint"),
				tc("basic-query", "Database basic query", domain.CategoryDatabase, domain.PriorityHigh, "SELECT 1 round trip"),
				tc("health", "Storage health", domain.CategoryStorage, domain.PriorityHigh, "Storage service answers its health endpoint"),
				tc("root", "REST root", domain.CategoryREST, domain.PriorityHigh, "REST gateway answers"),
				tc("connect", "Realtime connect", domain.CategoryRealtime, domain.PriorityHigh, "Websocket handshake succeeds"),
			},
		},
		{
			ID:          "auth",
			Name:        "Authentication",
			Description: "Auth service availability and access control",
			Enabled:     true,
			Cases: []domain.TestCase{
				tc("health", "Auth health", domain.CategoryAuth, domain.PriorityHigh, "Auth service answers its health endpoint"),
				tc("settings", "Auth settings", domain.CategoryAuth, domain.PriorityMedium, "Public auth settings are readable"),
				tc("anonymous-rejected", "Anonymous request rejected", domain.CategoryAuth, domain.PriorityHigh, "Requests without an API key are refused"),
			},
		},
		{
			ID:          "database",
			Name:        "Database",
			Description: "Direct SQL connectivity",
			Enabled:     true,
			Cases: []domain.TestCase{
				tc("basic-query", "Basic query", domain.CategoryDatabase, domain.PriorityHigh, "SELECT 1 round trip"),
				tc("server-version", "Server version", domain.CategoryDatabase, domain.PriorityLow, "Reads the server version"),
				tc("transaction", "Transaction", domain.CategoryDatabase, domain.PriorityMedium, "Begins and rolls back a transaction"),
			},
		},
		{
			ID:          "storage",
			Name:        "Storage",
			Description: "Object storage API",
			Enabled:     true,
			Cases: []domain.TestCase{
				tc("health", "Storage health", domain.CategoryStorage, domain.PriorityHigh, "Storage service answers its health endpoint"),
				tc("list-buckets", "List buckets", domain.CategoryStorage, domain.PriorityMedium, "Bucket listing returns JSON"),
			},
		},
		{
			ID:          "realtime",
			Name:        "Realtime",
			Description: "Realtime websocket channel",
			Enabled:     true,
			Cases: []domain.TestCase{
				tc("connect", "Connect", domain.CategoryRealtime, domain.PriorityHigh, "Websocket handshake succeeds"),
				tc("ping", "Ping", domain.CategoryRealtime, domain.PriorityMedium, "Ping/pong round trip"),
			},
		},
		{
			ID:          "rest",
			Name:        "REST API",
			Description: "Generic REST gateway",
			Enabled:     true,
			Cases: []domain.TestCase{
				tc("root", "REST root", domain.CategoryREST, domain.PriorityHigh, "REST gateway answers"),
				tc("openapi", "OpenAPI document", domain.CategoryREST, domain.PriorityLow, "Gateway serves a JSON schema"),
			},
		},
		{
			ID:          "security",
			Name:        "Security",
			Description: "Transport and header posture",
			Enabled:     true,
			Cases: []domain.TestCase{
				tc("tls", "TLS", domain.CategorySecurity, domain.PriorityHigh, "Backend is served over https"),
				tc("headers", "Security headers", domain.CategorySecurity, domain.PriorityMedium, "Hardening headers are present"),
				tc("anonymous-rejected", "Anonymous request rejected", domain.CategorySecurity, domain.PriorityHigh, "Requests without an API key are refused"),
			},
		},
		{
			ID:          "performance",
			Name:        "Performance",
			Description: "Latency and throughput sampling",
			Enabled:     false,
			Cases: []domain.TestCase{
				tc("latency", "Latency", domain.CategoryPerformance, domain.PriorityMedium, "Average and p95 latency stay under budget"),
				tc("throughput", "Throughput", domain.CategoryPerformance, domain.PriorityLow, "Sequential requests per second"),
			},
		},
		{
			ID:          "backup",
			Name:        "Backup & recovery",
			Description: "Backup status endpoints",
			Enabled:     true,
			Cases: []domain.TestCase{
				tc("status", "Backup status", domain.CategoryBackup, domain.PriorityMedium, "Backup status endpoint answers"),
				tc("recovery-point", "Recovery point", domain.CategoryBackup, domain.PriorityLow, "Latest recovery point has a timestamp"),
			},
		},
	}
}
