package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event is a scientific event participation (conference, workshop, forum).
// Category and date are optional.
type Event struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"not null;size:255"`
	Category    string          `json:"category" gorm:"size:100"`
	Date        *datatypes.Date `json:"date" gorm:"index"`
	Description string          `json:"description" gorm:"size:2000"`

	Authors []User `json:"authors,omitempty" gorm:"many2many:event_user;"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Event) TableName() string {
	return "events"
}
