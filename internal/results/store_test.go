package results

import (
	"fmt"
	"testing"
	"time"

	"probectl/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(category, name string, ts int64) domain.TestResult {
	return domain.TestResult{
		ID:        fmt.Sprintf("%s-%s-%d", category, name, ts),
		Name:      name,
		Status:    domain.StatusRunning,
		Timestamp: time.UnixMilli(ts),
	}
}

func TestStore_AddIsNewestFirst(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Add(result("auth", "health", 1)))
	require.NoError(t, store.Add(result("database", "basic-query", 2)))
	require.NoError(t, store.Add(result("storage", "list-buckets", 3)))

	all := store.All()
	require.Len(t, all, 3)
	assert.Equal(t, "storage-list-buckets-3", all[0].ID)
	assert.Equal(t, "auth-health-1", all[2].ID)

	err := store.Add(result("auth", "health", 1))
	assert.ErrorIs(t, err, ErrDuplicateResult)
	assert.Equal(t, 3, store.Len())
}

func TestStore_Update(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Add(result("database", "basic-query", 10)))

	status := domain.StatusError
	message := "timeout"
	duration := 1500 * time.Millisecond
	err := store.Update("database-basic-query-10", domain.ResultUpdate{
		Status:   &status,
		Message:  &message,
		Duration: &duration,
		Details:  map[string]any{"message": message},
	})
	require.NoError(t, err)

	got, ok := store.Get("database-basic-query-10")
	require.True(t, ok)
	assert.Equal(t, domain.StatusError, got.Status)
	assert.Equal(t, "timeout", got.Message)
	assert.Equal(t, int64(1500), got.DurationMillis())
	assert.Equal(t, map[string]any{"message": "timeout"}, got.Details)
	assert.Equal(t, 1, store.Len(), "update never duplicates")

	t.Run("nil fields are untouched", func(t *testing.T) {
		ok := domain.StatusSuccess
		require.NoError(t, store.Update("database-basic-query-10", domain.ResultUpdate{Status: &ok}))
		got, _ := store.Get("database-basic-query-10")
		assert.Equal(t, domain.StatusSuccess, got.Status)
		assert.Equal(t, "timeout", got.Message)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := store.Update("nope", domain.ResultUpdate{})
		assert.ErrorIs(t, err, ErrResultNotFound)
	})
}

func TestStore_ByCategory(t *testing.T) {
	store := NewStore()
	inputs := []domain.TestResult{
		result("auth", "health", 1),
		result("database", "basic-query", 2),
		result("auth", "settings", 3),
		result("realtime", "connect", 4),
		result("database", "transaction", 5),
	}
	for _, r := range inputs {
		require.NoError(t, store.Add(r))
	}

	auth := store.ByCategory("auth")
	require.Len(t, auth, 2)
	assert.Equal(t, "auth-settings-3", auth[0].ID, "store order is preserved")
	assert.Equal(t, "auth-health-1", auth[1].ID)

	t.Run("categories partition the store", func(t *testing.T) {
		seen := make(map[string]int)
		for _, c := range domain.Categories {
			for _, r := range store.ByCategory(string(c)) {
				assert.Contains(t, r.ID, string(c)+"-")
				seen[r.ID]++
			}
		}
		assert.Len(t, seen, store.Len())
		for id, n := range seen {
			assert.Equal(t, 1, n, id)
		}
	})

	t.Run("clear empties every projection", func(t *testing.T) {
		store.Clear()
		assert.Empty(t, store.All())
		for _, c := range domain.Categories {
			assert.Empty(t, store.ByCategory(string(c)))
		}
		assert.Empty(t, store.ByCategory(""))
		require.NoError(t, store.Add(result("auth", "health", 1)), "ids can be reused after clear")
	})
}

func TestStore_CountByStatus(t *testing.T) {
	store := NewStore()
	for i := 0; i < 4; i++ {
		require.NoError(t, store.Add(result("rest", "root", int64(i))))
	}
	ok := domain.StatusSuccess
	require.NoError(t, store.Update("rest-root-0", domain.ResultUpdate{Status: &ok}))
	require.NoError(t, store.Update("rest-root-2", domain.ResultUpdate{Status: &ok}))

	assert.Equal(t, 2, store.CountByStatus(domain.StatusSuccess))
	assert.Equal(t, 2, store.CountByStatus(domain.StatusRunning))
	assert.Equal(t, 0, store.CountByStatus(domain.StatusError))
}
