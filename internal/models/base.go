package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

// Entry holds the fields shared by files and folders.
type Entry struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Parent    string    `gorm:"type:varchar(36);not null;index" json:"parent"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedBy string    `gorm:"type:varchar(255);not null;index" json:"created_by"`
	ToDelete  bool      `gorm:"not null;default:false;index" json:"to_delete,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
