package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PublicationType string

const (
	PublicationJournal     PublicationType = "journal"
	PublicationBook        PublicationType = "book"
	PublicationBookChapter PublicationType = "book_chapter"
)

func ValidPublicationTypes() []PublicationType {
	return []PublicationType{PublicationJournal, PublicationBook, PublicationBookChapter}
}

// Publication is a published result. Exactly one detail record (Magazine, Book
// or Chapter) exists per publication, keyed by the publication's own ID, and
// must match the publication type.
type Publication struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"not null;size:255"`
	Type        PublicationType `json:"type" gorm:"not null;size:30;index"`
	Date        datatypes.Date  `json:"date" gorm:"not null;index"`
	Description string          `json:"description" gorm:"size:2000"`

	Authors []User `json:"authors,omitempty" gorm:"many2many:publication_user;"`

	Magazine *Magazine `json:"magazine,omitempty" gorm:"foreignKey:PublicationID"`
	Book     *Book     `json:"book,omitempty" gorm:"foreignKey:PublicationID"`
	Chapter  *Chapter  `json:"chapter,omitempty" gorm:"foreignKey:PublicationID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Publication) TableName() string {
	return "publications"
}

// Detail returns the detail record matching the publication type, or nil.
func (p *Publication) Detail() interface{} {
	switch p.Type {
	case PublicationJournal:
		if p.Magazine != nil {
			return p.Magazine
		}
	case PublicationBook:
		if p.Book != nil {
			return p.Book
		}
	case PublicationBookChapter:
		if p.Chapter != nil {
			return p.Chapter
		}
	}
	return nil
}

// Magazine holds journal article details.
type Magazine struct {
	PublicationID uint   `json:"publication_id" gorm:"primaryKey"`
	Name          string `json:"name" gorm:"not null;size:255"`
	Number        string `json:"number" gorm:"size:50"`
	Volume        string `json:"volume" gorm:"size:50"`
	DOI           string `json:"doi" gorm:"size:255"`
}

func (Magazine) TableName() string {
	return "magazines"
}

// Book holds book publication details.
type Book struct {
	PublicationID uint   `json:"publication_id" gorm:"primaryKey"`
	Editorial     string `json:"editorial" gorm:"not null;size:255"`
	Place         string `json:"place" gorm:"size:255"`
}

func (Book) TableName() string {
	return "books"
}

// Chapter holds book chapter details.
type Chapter struct {
	PublicationID uint   `json:"publication_id" gorm:"primaryKey"`
	BookName      string `json:"book_name" gorm:"not null;size:255"`
	Author        string `json:"author" gorm:"size:255"`
	Editorial     string `json:"editorial" gorm:"size:255"`
	Place         string `json:"place" gorm:"size:255"`
}

func (Chapter) TableName() string {
	return "chapters"
}
