package repository

import (
	"Drive/internal/models"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.Folder{}, &models.File{}))
	return db
}

func newFolder(t *testing.T, repo FolderRepository, parent, name string) *models.Folder {
	t.Helper()
	folder := &models.Folder{Entry: models.Entry{Parent: parent, Name: name, CreatedBy: "user-1"}}
	require.NoError(t, repo.Create(folder))
	return folder
}

func newFile(t *testing.T, repo FileRepository, parent, name string) *models.File {
	t.Helper()
	file := &models.File{
		Entry: models.Entry{Parent: parent, Name: name, CreatedBy: "user-1"},
		Key:   "user-1/" + parent + "/" + name,
		Type:  "application/pdf",
		Size:  42,
	}
	require.NoError(t, repo.Create(file))
	return file
}
