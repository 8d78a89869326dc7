package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "posts", "bios"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}

	// unique constraints guard registration conflicts
	for _, column := range []string{"username", "email", "handle"} {
		assert.True(t, db.Migrator().HasIndex("users", column) || db.Migrator().HasColumn("users", column))
	}

	// re-running migration is a no-op
	require.NoError(t, Migrate(db))
}
