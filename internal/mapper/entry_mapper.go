package mapper

import (
	"Drive/internal/dto"
	"Drive/internal/models"
	"strings"
)

func FolderToEntryDTO(folder *models.Folder) dto.EntryDTO {
	return dto.EntryDTO{
		ID:        folder.ID,
		Kind:      dto.KindFolder,
		Parent:    folder.Parent,
		Name:      folder.Name,
		CreatedBy: folder.CreatedBy,
		CreatedAt: folder.CreatedAt,
	}
}

func FileToEntryDTO(file *models.File) dto.EntryDTO {
	return dto.EntryDTO{
		ID:        file.ID,
		Kind:      dto.KindFile,
		Parent:    file.Parent,
		Name:      file.Name,
		CreatedBy: file.CreatedBy,
		CreatedAt: file.CreatedAt,
		Key:       file.Key,
		Type:      file.Type,
		Size:      file.Size,
	}
}

func FoldersToEntryDTOs(folders []models.Folder) []dto.EntryDTO {
	entries := make([]dto.EntryDTO, 0, len(folders))
	for i := range folders {
		entries = append(entries, FolderToEntryDTO(&folders[i]))
	}
	return entries
}

func FilesToEntryDTOs(files []models.File) []dto.EntryDTO {
	entries := make([]dto.EntryDTO, 0, len(files))
	for i := range files {
		entries = append(entries, FileToEntryDTO(&files[i]))
	}
	return entries
}

func ToFolderRefDTO(folder *models.Folder) *dto.FolderRefDTO {
	return &dto.FolderRefDTO{
		ID:     folder.ID,
		Name:   folder.Name,
		Parent: folder.Parent,
	}
}

// RootRefDTO builds the synthetic descriptor used in place of a folder when the
// listing sits directly under a namespace.
func RootRefDTO(namespace string) *dto.FolderRefDTO {
	name := namespace
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return &dto.FolderRefDTO{
		ID:   namespace,
		Name: name,
		Root: true,
	}
}

func ToFileModel(d dto.NewFileDTO, actor string) models.File {
	return models.File{
		Entry: models.Entry{
			Parent:    d.Parent,
			Name:      d.Name,
			CreatedBy: actor,
		},
		Key:  d.Key,
		Type: d.Type,
		Size: d.Size,
	}
}
