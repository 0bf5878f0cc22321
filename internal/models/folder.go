package models

type Folder struct {
	Entry
}
