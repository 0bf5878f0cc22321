package repository

type GenericRepository[T any] interface {
	Create(entity *T) error
	FindByID(id string) (*T, error)
	FindAll() ([]T, error)
}

// EntryRepository holds the tree operations shared by the file and folder
// tables. Batch methods ignore ids that do not exist and report the number of
// rows they touched.
type EntryRepository[T any] interface {
	GenericRepository[T]
	FindLiveByID(id string) (*T, error)
	FindLiveChildren(parent string) ([]T, error)
	FindChildIDs(parents []string) ([]string, error)
	FindDeleted() ([]T, error)
	MarkToDelete(ids []string) (int64, error)
	UpdateParent(ids []string, parent string) (int64, error)
	UpdateName(id string, name string) (int64, error)
	HardDeleteByIDs(ids []string) (int64, error)
}
