package repository

import (
	"errors"
	"gorm.io/gorm"
)

// batchSize bounds the ids bound to a single IN clause. Both sqlite and
// postgres cap the number of parameters in one statement.
const batchSize = 500

// inBatches calls fn on consecutive slices of ids, at most batchSize long.
func inBatches(ids []string, fn func(batch []string) error) error {
	for start := 0; start < len(ids); start += batchSize {
		end := min(start+batchSize, len(ids))
		if err := fn(ids[start:end]); err != nil {
			return err
		}
	}
	return nil
}

type EntryRepositoryImpl[T any] struct {
	GenericRepository[T]
	db *gorm.DB
}

func NewEntryRepository[T any](db *gorm.DB) EntryRepository[T] {
	return &EntryRepositoryImpl[T]{
		GenericRepository: NewGenericRepository[T](db),
		db:                db,
	}
}

func (r *EntryRepositoryImpl[T]) live() *gorm.DB {
	var entity T
	return r.db.Model(&entity).Where("to_delete = ?", false)
}

// FindLiveByID returns nil, nil when no live row carries the id.
func (r *EntryRepositoryImpl[T]) FindLiveByID(id string) (*T, error) {
	var entity T
	err := r.live().Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

func (r *EntryRepositoryImpl[T]) FindLiveChildren(parent string) ([]T, error) {
	var entities []T
	err := r.live().Where("parent = ?", parent).Order("name").Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return entities, nil
}

// FindChildIDs returns the ids of every row, live or not, whose parent is in
// parents.
func (r *EntryRepositoryImpl[T]) FindChildIDs(parents []string) ([]string, error) {
	if len(parents) == 0 {
		return nil, nil
	}
	var entity T
	var ids []string
	err := inBatches(parents, func(batch []string) error {
		var found []string
		if err := r.db.Model(&entity).Where("parent IN ?", batch).Pluck("id", &found).Error; err != nil {
			return err
		}
		ids = append(ids, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *EntryRepositoryImpl[T]) FindDeleted() ([]T, error) {
	var entities []T
	err := r.db.Where("to_delete = ?", true).Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *EntryRepositoryImpl[T]) MarkToDelete(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var entity T
	var marked int64
	err := inBatches(ids, func(batch []string) error {
		result := r.db.Model(&entity).
			Where("id IN ? AND to_delete = ?", batch, false).
			Update("to_delete", true)
		marked += result.RowsAffected
		return result.Error
	})
	return marked, err
}

func (r *EntryRepositoryImpl[T]) UpdateParent(ids []string, parent string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var moved int64
	err := inBatches(ids, func(batch []string) error {
		result := r.live().Where("id IN ?", batch).Update("parent", parent)
		moved += result.RowsAffected
		return result.Error
	})
	return moved, err
}

func (r *EntryRepositoryImpl[T]) UpdateName(id string, name string) (int64, error) {
	result := r.live().Where("id = ?", id).Update("name", name)
	return result.RowsAffected, result.Error
}

// HardDeleteByIDs removes rows physically. Only rows already marked for
// deletion are removed.
func (r *EntryRepositoryImpl[T]) HardDeleteByIDs(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var entity T
	var deleted int64
	err := inBatches(ids, func(batch []string) error {
		result := r.db.Where("id IN ? AND to_delete = ?", batch, true).Delete(&entity)
		deleted += result.RowsAffected
		return result.Error
	})
	return deleted, err
}
