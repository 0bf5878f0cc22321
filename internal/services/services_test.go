package services

import (
	"Drive/internal/config"
	"Drive/internal/models"
	"Drive/internal/repository"
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockBlobStore) PresignedPutURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) ScheduleSweep() {
	m.Called()
}

type testEnv struct {
	db         *gorm.DB
	folderRepo repository.FolderRepository
	fileRepo   repository.FileRepository
	config     *config.Configuration
	logService LogService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.Folder{}, &models.File{}))

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Configuration{}
	cfg.Server.CleanConfig = config.CleanConfig{Schedule: "@every 1h", Delay: 10 * time.Millisecond, Workers: 4}
	cfg.Storage.UploadExpiry = 15 * time.Minute

	return &testEnv{
		db:         db,
		folderRepo: repository.NewFolderRepository(db),
		fileRepo:   repository.NewFileRepository(db),
		config:     cfg,
		logService: LogService{Log: log},
	}
}

func (e *testEnv) driveService(blobStore *MockBlobStore, scheduler SweepScheduler) DriveService {
	return NewDriveService(e.folderRepo, e.fileRepo, blobStore, scheduler, e.config, e.logService)
}

func (e *testEnv) janitor(blobStore *MockBlobStore) *Janitor {
	return NewJanitorService(e.folderRepo, e.fileRepo, blobStore, e.logService, e.config)
}

func (e *testEnv) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(model).Count(&count).Error)
	return count
}

func mustCreateFolder(t *testing.T, svc DriveService, parent, name string) *models.Folder {
	t.Helper()
	folder, err := svc.CreateFolder(parent, name, "user-1")
	require.NoError(t, err)
	return folder
}
