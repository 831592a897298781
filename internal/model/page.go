package model

import "time"

// Page is a sluggable, publishable unit of site content.
// Blocks and versions are scoped by the page id.
type Page struct {
	ID              string `gorm:"primaryKey;uuid;not null"`
	Slug            string `gorm:"uniqueIndex;not null"`
	Title           string `gorm:"not null"`
	MetaTitle       string
	MetaDescription string
	IsPublished     bool `gorm:"not null;default:false"`
	PublishedAt     *time.Time
	// LastVersionNumber is the highest version number ever issued for the page.
	// It is never decremented, so numbers are not reused after a version is deleted.
	LastVersionNumber int64 `gorm:"not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Page) TableName() string {
	return "pages"
}
