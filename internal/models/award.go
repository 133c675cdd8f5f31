package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Award struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null;size:255"`
	Type        string         `json:"type" gorm:"not null;size:100"`
	Date        datatypes.Date `json:"date" gorm:"not null;index"`
	Description string         `json:"description" gorm:"size:2000"`

	Authors []User `json:"authors,omitempty" gorm:"many2many:award_user;"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Award) TableName() string {
	return "awards"
}
