package services

import (
	"Drive/internal/config"
	"Drive/internal/dto"
	"Drive/internal/helpers"
	"Drive/internal/mapper"
	"Drive/internal/models"
	"Drive/internal/repository"
	"Drive/internal/storage"
	"context"
	"errors"
	"fmt"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"path"
	"sort"
	"strings"
)

const maxNameLength = 255

// SweepScheduler decouples a delete request from the sweep that physically
// removes what it marked.
type SweepScheduler interface {
	ScheduleSweep()
}

type DriveService interface {
	GetDrive(parent string) (*dto.DriveListingDTO, error)
	CreateFolder(parent, name, actor string) (*models.Folder, error)
	CollectDescendants(ids []string) (IDSet, error)
	MarkForDeletion(ids []string) (int64, error)
	DeleteFilesOrFolders(ids []string) error
	MoveFilesOrFolders(ids []string, parent string) error
	RenameFileOrFolder(id, name string) error
	SaveFilesToDb(files []dto.NewFileDTO, actor string) ([]models.File, error)
	NewUploadTarget(ctx context.Context, actor, name string) (*dto.UploadTargetDTO, error)
}

// IDSet is an unordered set of entry ids.
type IDSet map[string]struct{}

func (s IDSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Slice returns the ids in lexical order.
func (s IDSet) Slice() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type driveServiceImpl struct {
	folderRepo    repository.FolderRepository
	fileRepo      repository.FileRepository
	blobStore     storage.BlobStore
	scheduler     SweepScheduler
	configuration *config.Configuration
	logService    LogService
}

func NewDriveService(
	folderRepo repository.FolderRepository,
	fileRepo repository.FileRepository,
	blobStore storage.BlobStore,
	scheduler SweepScheduler,
	configuration *config.Configuration,
	logService LogService,
) DriveService {
	return &driveServiceImpl{
		folderRepo:    folderRepo,
		fileRepo:      fileRepo,
		blobStore:     blobStore,
		scheduler:     scheduler,
		configuration: configuration,
		logService:    logService,
	}
}

func nameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.RuneLength(1, maxNameLength),
		validation.By(func(value interface{}) error {
			if strings.Contains(value.(string), "/") {
				return errors.New("must not contain '/'")
			}
			return nil
		}),
	}
}

func (s *driveServiceImpl) GetDrive(parent string) (*dto.DriveListingDTO, error) {
	if err := validation.Validate(parent, validation.Required); err != nil {
		return nil, validationError(fmt.Errorf("parent: %w", err))
	}

	listing := &dto.DriveListingDTO{}
	if models.IsNamespace(parent) {
		listing.CurrentFolder = *mapper.RootRefDTO(parent)
	} else {
		current, err := s.folderRepo.FindLiveByID(parent)
		if err != nil {
			return nil, fmt.Errorf("failed to load folder %s: %w", parent, err)
		}
		if current == nil {
			return nil, fmt.Errorf("folder %s: %w", parent, ErrNotFound)
		}
		listing.CurrentFolder = *mapper.ToFolderRefDTO(current)

		if models.IsNamespace(current.Parent) {
			listing.ParentFolder = mapper.RootRefDTO(current.Parent)
		} else {
			up, err := s.folderRepo.FindLiveByID(current.Parent)
			if err != nil {
				return nil, fmt.Errorf("failed to load parent folder %s: %w", current.Parent, err)
			}
			if up != nil {
				listing.ParentFolder = mapper.ToFolderRefDTO(up)
			} else {
				s.logService.Log.WithFields(logrus.Fields{
					"folder": current.ID,
					"parent": current.Parent,
				}).Debug("parent folder missing or marked for deletion")
			}
		}
	}

	folders, err := s.folderRepo.FindLiveChildren(parent)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	files, err := s.fileRepo.FindLiveChildren(parent)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	listing.Folders = mapper.FoldersToEntryDTOs(folders)
	listing.Files = mapper.FilesToEntryDTOs(files)
	return listing, nil
}

func (s *driveServiceImpl) CreateFolder(parent, name, actor string) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	err := validation.Errors{
		"parent": validation.Validate(parent, validation.Required),
		"name":   validation.Validate(name, nameRules()...),
		"actor":  validation.Validate(actor, validation.Required),
	}.Filter()
	if err != nil {
		return nil, validationError(err)
	}
	if err := s.resolveParent(parent); err != nil {
		return nil, err
	}

	existing, err := s.folderRepo.FindLiveByNameAndParent(name, parent)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate names: %w", err)
	}
	if existing != nil {
		return nil, &DuplicateNameError{Parent: parent, Name: name, ExistingID: existing.ID}
	}

	folder := &models.Folder{
		Entry: models.Entry{
			Parent:    parent,
			Name:      name,
			CreatedBy: actor,
		},
	}
	if err := s.folderRepo.Create(folder); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	s.logService.Log.WithFields(logrus.Fields{
		"folder": folder.ID,
		"parent": parent,
		"actor":  actor,
	}).Info("folder created")
	return folder, nil
}

// CollectDescendants walks the parent relation breadth first, one batched
// query per level, and returns the starting ids plus everything below them.
// The visited set keeps the walk finite even if the stored tree has a cycle.
func (s *driveServiceImpl) CollectDescendants(ids []string) (IDSet, error) {
	collected := make(IDSet, len(ids))
	frontier := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || collected.Contains(id) {
			continue
		}
		collected[id] = struct{}{}
		frontier = append(frontier, id)
	}

	for len(frontier) > 0 {
		fileIDs, err := s.fileRepo.FindChildIDs(frontier)
		if err != nil {
			return nil, fmt.Errorf("failed to collect files: %w", err)
		}
		for _, id := range fileIDs {
			collected[id] = struct{}{}
		}

		folderIDs, err := s.folderRepo.FindChildIDs(frontier)
		if err != nil {
			return nil, fmt.Errorf("failed to collect folders: %w", err)
		}
		next := make([]string, 0, len(folderIDs))
		for _, id := range folderIDs {
			if collected.Contains(id) {
				continue
			}
			collected[id] = struct{}{}
			next = append(next, id)
		}
		frontier = next
	}
	return collected, nil
}

func (s *driveServiceImpl) MarkForDeletion(ids []string) (int64, error) {
	targets, err := s.CollectDescendants(ids)
	if err != nil {
		return 0, err
	}
	if len(targets) == 0 {
		return 0, nil
	}
	targetIDs := targets.Slice()

	folders, err := s.folderRepo.MarkToDelete(targetIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to mark folders: %w", err)
	}
	files, err := s.fileRepo.MarkToDelete(targetIDs)
	if err != nil {
		return folders, fmt.Errorf("failed to mark files: %w", err)
	}
	return folders + files, nil
}

func (s *driveServiceImpl) DeleteFilesOrFolders(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	marked, err := s.MarkForDeletion(ids)
	if err != nil {
		return err
	}
	s.logService.Log.WithFields(logrus.Fields{
		"requested": len(ids),
		"marked":    marked,
	}).Info("entries marked for deletion")
	s.scheduler.ScheduleSweep()
	return nil
}

func (s *driveServiceImpl) MoveFilesOrFolders(ids []string, parent string) error {
	if err := validation.Validate(parent, validation.Required); err != nil {
		return validationError(fmt.Errorf("parent: %w", err))
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.resolveParent(parent); err != nil {
		return err
	}
	if err := s.checkNotIntoDescendant(ids, parent); err != nil {
		return err
	}

	folders, err := s.folderRepo.UpdateParent(ids, parent)
	if err != nil {
		return fmt.Errorf("failed to move folders: %w", err)
	}
	files, err := s.fileRepo.UpdateParent(ids, parent)
	if err != nil {
		return fmt.Errorf("failed to move files: %w", err)
	}
	if moved := folders + files; moved < int64(len(ids)) {
		s.logService.Log.WithFields(logrus.Fields{
			"requested": len(ids),
			"moved":     moved,
			"parent":    parent,
		}).Warn("some entries were not found and were skipped")
	}
	return nil
}

// checkNotIntoDescendant walks up from parent to its namespace and fails if
// one of the moved ids is on the way.
func (s *driveServiceImpl) checkNotIntoDescendant(ids []string, parent string) error {
	moving := make(IDSet, len(ids))
	for _, id := range ids {
		moving[id] = struct{}{}
	}
	visited := make(IDSet)
	current := parent
	for !models.IsNamespace(current) && !visited.Contains(current) {
		if moving.Contains(current) {
			return ErrInvalidMove
		}
		visited[current] = struct{}{}
		folder, err := s.folderRepo.FindLiveByID(current)
		if err != nil {
			return fmt.Errorf("failed to resolve ancestors of %s: %w", parent, err)
		}
		if folder == nil {
			return nil
		}
		current = folder.Parent
	}
	return nil
}

func (s *driveServiceImpl) RenameFileOrFolder(id, name string) error {
	name = strings.TrimSpace(name)
	err := validation.Errors{
		"id":   validation.Validate(id, validation.Required),
		"name": validation.Validate(name, nameRules()...),
	}.Filter()
	if err != nil {
		return validationError(err)
	}

	renamed, err := s.folderRepo.UpdateName(id, name)
	if err != nil {
		return fmt.Errorf("failed to rename folder: %w", err)
	}
	if renamed > 0 {
		return nil
	}
	renamed, err = s.fileRepo.UpdateName(id, name)
	if err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	if renamed == 0 {
		s.logService.Log.WithField("id", id).Debug("rename target not found")
	}
	return nil
}

func (s *driveServiceImpl) SaveFilesToDb(files []dto.NewFileDTO, actor string) ([]models.File, error) {
	if err := validation.Validate(actor, validation.Required); err != nil {
		return nil, validationError(fmt.Errorf("actor: %w", err))
	}
	resolved := make(IDSet)
	entries := make([]models.File, 0, len(files))
	for i := range files {
		file := files[i]
		file.Name = strings.TrimSpace(file.Name)
		err := validation.ValidateStruct(&file,
			validation.Field(&file.Parent, validation.Required),
			validation.Field(&file.Name, nameRules()...),
			validation.Field(&file.Key, validation.Required),
			validation.Field(&file.Size, validation.Min(int64(0))),
		)
		if err != nil {
			return nil, validationError(fmt.Errorf("file %d: %w", i, err))
		}
		if !resolved.Contains(file.Parent) {
			if err := s.resolveParent(file.Parent); err != nil {
				return nil, err
			}
			resolved[file.Parent] = struct{}{}
		}
		if file.Type == "" {
			file.Type = helpers.GetContentType(file.Name)
		}
		entries = append(entries, mapper.ToFileModel(file, actor))
	}

	if err := s.fileRepo.CreateBatch(entries); err != nil {
		return nil, fmt.Errorf("failed to save files: %w", err)
	}
	s.logService.Log.WithFields(logrus.Fields{
		"count": len(entries),
		"actor": actor,
	}).Info("files saved")
	return entries, nil
}

func (s *driveServiceImpl) NewUploadTarget(ctx context.Context, actor, name string) (*dto.UploadTargetDTO, error) {
	name = strings.TrimSpace(name)
	if name != "" {
		name = path.Base(name)
	}
	err := validation.Errors{
		"actor": validation.Validate(actor, validation.Required),
		"name":  validation.Validate(name, nameRules()...),
	}.Filter()
	if err != nil {
		return nil, validationError(err)
	}
	key := fmt.Sprintf("%s/%s/%s", actor, uuid.NewString(), name)
	url, err := s.blobStore.PresignedPutURL(ctx, key, s.configuration.Storage.UploadExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}
	return &dto.UploadTargetDTO{Key: key, URL: url}, nil
}

// resolveParent accepts a namespace sentinel or the id of a live folder.
func (s *driveServiceImpl) resolveParent(parent string) error {
	if models.IsNamespace(parent) {
		return nil
	}
	folder, err := s.folderRepo.FindLiveByID(parent)
	if err != nil {
		return fmt.Errorf("failed to resolve parent %s: %w", parent, err)
	}
	if folder == nil {
		return fmt.Errorf("%s: %w", parent, ErrParentNotFound)
	}
	return nil
}
