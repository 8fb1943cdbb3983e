package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSchemaBootstrapsVersion(t *testing.T) {
	db := testDB(t)
	version, err := GetSchemaVersion(db.conn)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)
}

func TestForeignKeysEnforced(t *testing.T) {
	db := testDB(t)
	var fkEnabled int
	require.NoError(t, db.conn.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled))
	assert.Equal(t, 1, fkEnabled)
}
