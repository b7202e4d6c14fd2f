package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"news_gateway/internal/db"

	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) *db.SQLiteStore {
	t.Helper()
	store, err := db.NewSQLite(filepath.Join(t.TempDir(), "articles.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, newSQLite(t))
}

func TestSQLiteStore_MigrateIsIdempotent(t *testing.T) {
	store := newSQLite(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSQLiteStore_EmptyCollection(t *testing.T) {
	store := newSQLite(t)

	articles, err := store.FetchAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, articles)
	require.Empty(t, articles)
}
