package models

type File struct {
	Entry
	Key  string `gorm:"type:text;not null;uniqueIndex" json:"key"`
	Type string `gorm:"type:varchar(255);not null" json:"type"`
	Size int64  `gorm:"not null;default:0" json:"size"`
}
