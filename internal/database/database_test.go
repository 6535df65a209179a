package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookstore/internal/entities"
)

func TestNewDatabase_CreatesSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(dbPath, false)
	require.NoError(t, err)
	defer db.Close()

	migrator := db.DB.Migrator()
	assert.True(t, migrator.HasTable("books"))
	assert.True(t, migrator.HasTable("admins"))
	assert.True(t, migrator.HasTable("audit_events"))
	assert.True(t, migrator.HasColumn(&entities.Admin{}, "password"))

	assert.NoError(t, db.Ping())
}

func TestNewDatabase_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(dbPath, false)
	require.NoError(t, err)
	require.NoError(t, db.DB.Create(&entities.Book{Name: "Persistent", Price: 1, Stock: 1}).Error)
	require.NoError(t, db.Close())

	db, err = NewDatabase(dbPath, false)
	require.NoError(t, err)
	defer db.Close()

	var count int64
	require.NoError(t, db.DB.Model(&entities.Book{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, ":memory:", dsn(":memory:"))
	assert.Equal(t, "a.db?mode=ro", dsn("a.db?mode=ro"))
	assert.Equal(t, "a.db?_busy_timeout=5000&_journal_mode=WAL", dsn("a.db"))
}
