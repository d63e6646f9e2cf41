package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/contact-desk/config"
	"github.com/d60-Lab/contact-desk/internal/model"
)

func TestInitDB_SQLiteFile(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "nested", "contacts.db"),
		LogLevel: "silent",
	}}
	db, err := InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable("contacts"))
	assert.True(t, db.Migrator().HasIndex(&model.Message{}, "idx_contacts_created_at"))

	m := &model.Message{Name: "Jane", Email: "jane@example.com", Message: "hello there world"}
	require.NoError(t, db.Create(m).Error)
	assert.NotZero(t, m.ID)
	assert.Equal(t, time.UTC, m.CreatedAt.Location())
	assert.False(t, m.ReadStatus)
}

func TestInitDB_UnsupportedDriver(t *testing.T) {
	_, err := InitDB(&config.Config{Database: config.DatabaseConfig{Driver: "mysql"}})
	assert.Error(t, err)
}
