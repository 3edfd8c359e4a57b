package storage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/cabin-manager/internal/config"
	"github.com/sakif/cabin-manager/internal/repository/sqlite"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestOpen_SQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cabin.db")

	store, err := Open(context.Background(), config.Storage{DBPath: path}, logger)
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &sqlite.DB{}, store)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_InMemory(t *testing.T) {
	store, err := Open(context.Background(), config.Storage{DBPath: ":memory:"}, logger)
	require.NoError(t, err)
	defer store.Close()

	items, err := store.TodoList().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOpen_BadDatabaseURL(t *testing.T) {
	_, err := Open(context.Background(), config.Storage{DatabaseURL: "://not a url"}, logger)
	assert.Error(t, err)
}
