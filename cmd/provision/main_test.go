package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/cabin-manager/internal/model"
	"github.com/sakif/cabin-manager/internal/repository/sqlite"
)

func TestRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cabin.db")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_PATH", dbPath)

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, run(ctx, logger, "anna", "long-enough", "user", ""))

	err := run(ctx, logger, "anna", "long-enough", "USER", "")
	assert.EqualError(t, err, "that username is already taken")

	err = run(ctx, logger, "bob", "short", "USER", "")
	assert.Error(t, err)

	require.NoError(t, run(ctx, logger, "anna", "", "", "admin"))

	err = run(ctx, logger, "nobody", "", "", "ADMIN")
	assert.EqualError(t, err, "no such user")

	err = run(ctx, logger, "anna", "", "", "OWNER")
	assert.EqualError(t, err, "role must be ADMIN, USER or DUMMY")

	db, err := sqlite.New(dbPath)
	require.NoError(t, err)
	defer db.Close()

	u, err := db.Users().GetUserByUsername(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
}
