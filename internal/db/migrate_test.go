package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectAndMigrateSqlite(t *testing.T) {
	conn, err := ConnectAndMigrate("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)

	for _, table := range []string{"users", "recipes", "ratings"} {
		assert.True(t, conn.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestConnectEmptyDSN(t *testing.T) {
	_, err := ConnectAndMigrate("")
	assert.Error(t, err)
}
