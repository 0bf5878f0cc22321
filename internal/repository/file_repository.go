package repository

import (
	"Drive/internal/models"
	"gorm.io/gorm"
)

type FileRepository interface {
	EntryRepository[models.File]
	CreateBatch(files []models.File) error
}

type FileRepositoryImpl struct {
	EntryRepository[models.File]
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &FileRepositoryImpl{
		EntryRepository: NewEntryRepository[models.File](db),
		db:              db,
	}
}

func (r *FileRepositoryImpl) CreateBatch(files []models.File) error {
	if len(files) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&files, 100).Error
	})
}
