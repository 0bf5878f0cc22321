package database

import (
	"Drive/internal/config"
	"Drive/internal/models"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	dialector, err := Dialector(config.DatabaseConfig{Driver: config.DriverPostgres, Host: "db", Name: "drive"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", dialector.Name())

	dialector, err = Dialector(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", dialector.Name())

	_, err = Dialector(config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestSetupDatabase_SQLite(t *testing.T) {
	cfg := &config.Configuration{Database: config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "drive.db"),
	}}

	db, err := SetupDatabase(cfg)
	require.NoError(t, err)
	defer CloseDatabase(db)

	assert.True(t, db.Migrator().HasTable(&models.Folder{}))
	assert.True(t, db.Migrator().HasTable(&models.File{}))
	assert.True(t, db.Migrator().HasIndex(&models.File{}, "Key"))
}
