package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitializeDB(t *testing.T) {
	DB, err := Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { DB.Close() })

	require.NoError(t, InitializeDB(DB))
	// Running twice must be harmless.
	require.NoError(t, InitializeDB(DB))

	_, err = DB.Exec(`INSERT INTO users (player_id, username, password_hash) VALUES (?, ?, ?)`, "p1", "alice", "hash")
	require.NoError(t, err)

	var count int
	require.NoError(t, DB.Get(&count, `SELECT COUNT(*) FROM users`))
	require.Equal(t, 1, count)

	_, err = DB.Exec(`INSERT INTO users (player_id, username, password_hash) VALUES (?, ?, ?)`, "p2", "alice", "hash")
	require.Error(t, err, "usernames are unique")
}
