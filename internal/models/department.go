package models

import (
	"time"

	"gorm.io/gorm"
)

type Department struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;not null;size:255"`
	Description string `json:"description" gorm:"size:1000"`

	// Current head of the department, if any. The head is always a member.
	HeadUserID *uint `json:"head_user_id"`
	Head       *User `json:"head,omitempty" gorm:"foreignKey:HeadUserID"`

	// Computed in list queries
	MemberCount int64 `json:"member_count" gorm:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Department) TableName() string {
	return "departments"
}
