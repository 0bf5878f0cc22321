package repository

import (
	"Drive/internal/models"
	"errors"
	"gorm.io/gorm"
)

type FolderRepository interface {
	EntryRepository[models.Folder]
	FindLiveByNameAndParent(name string, parent string) (*models.Folder, error)
}

type FolderRepositoryImpl struct {
	EntryRepository[models.Folder]
	db *gorm.DB
}

func NewFolderRepository(db *gorm.DB) FolderRepository {
	return &FolderRepositoryImpl{
		EntryRepository: NewEntryRepository[models.Folder](db),
		db:              db,
	}
}

func (r *FolderRepositoryImpl) FindLiveByNameAndParent(name string, parent string) (*models.Folder, error) {
	var folder models.Folder
	err := r.db.Where("name = ? AND parent = ? AND to_delete = ?", name, parent, false).First(&folder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &folder, nil
}
