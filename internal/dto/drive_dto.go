package dto

import "time"

const (
	KindFile   = "file"
	KindFolder = "folder"
)

type EntryDTO struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Parent    string    `json:"parent"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	Key       string    `json:"key,omitempty"`
	Type      string    `json:"type,omitempty"`
	Size      int64     `json:"size"`
}

// FolderRefDTO describes a folder for breadcrumb navigation. Root is set when
// the reference is a namespace rather than a stored folder.
type FolderRefDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
	Root   bool   `json:"root,omitempty"`
}

type DriveListingDTO struct {
	Folders       []EntryDTO    `json:"folders"`
	Files         []EntryDTO    `json:"files"`
	CurrentFolder FolderRefDTO  `json:"current_folder"`
	ParentFolder  *FolderRefDTO `json:"parent_folder,omitempty"`
}

type NewFileDTO struct {
	Parent string `json:"parent"`
	Name   string `json:"name"`
	Key    string `json:"key"`
	Type   string `json:"type"`
	Size   int64  `json:"size"`
}

type UploadTargetDTO struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
