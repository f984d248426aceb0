package audit

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestRecordInsertsOneRowPerInvocation(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, "get_findings", "ok", 120*time.Millisecond))
	require.NoError(t, store.Record(ctx, "get_findings", "not_found", 40*time.Millisecond))
	require.NoError(t, store.Record(ctx, "list_products", "ok", 15*time.Millisecond))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var total int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM invocations`).Scan(&total))
	assert.Equal(t, 3, total)

	var kind string
	var durationMS int
	require.NoError(t, db.QueryRow(
		`SELECT status_kind, duration_ms FROM invocations WHERE tool = 'get_findings' AND status_kind = 'not_found'`,
	).Scan(&kind, &durationMS))
	assert.Equal(t, "not_found", kind)
	assert.Equal(t, 40, durationMS)
}

func TestRecordAssignsUniqueIDs(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, store.Record(ctx, "ping", "ok", time.Millisecond))
	}

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var distinct int
	require.NoError(t, db.QueryRow(`SELECT COUNT(DISTINCT id) FROM invocations`).Scan(&distinct))
	assert.Equal(t, 10, distinct)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Record(context.Background(), "ping", "ok", time.Millisecond))
	require.NoError(t, first.Close())

	// Reopening an existing database must keep prior rows.
	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.Record(context.Background(), "ping", "ok", time.Millisecond))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var total int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM invocations`).Scan(&total))
	assert.Equal(t, 2, total)
}

func TestOpenFailsOnUnwritablePath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "nested", "audit.db"))
	require.Error(t, err)
}
