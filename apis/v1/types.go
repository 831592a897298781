package v1

import (
	"encoding/json"
	"time"
)

type Page struct {
	Id                string     `json:"id"`
	Slug              string     `json:"slug"`
	Title             string     `json:"title"`
	MetaTitle         string     `json:"meta_title,omitempty"`
	MetaDescription   string     `json:"meta_description,omitempty"`
	IsPublished       bool       `json:"is_published"`
	PublishedAt       *time.Time `json:"published_at,omitempty"`
	LastVersionNumber int64      `json:"last_version_number"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type Block struct {
	Id        string          `json:"id,omitempty"`
	PageId    string          `json:"page_id"`
	BlockType string          `json:"block_type"`
	Name      string          `json:"name"`
	Content   json.RawMessage `json:"content"`
	Position  int32           `json:"position"`
	IsVisible bool            `json:"is_visible"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

type Version struct {
	Id            string    `json:"id"`
	PageId        string    `json:"page_id"`
	VersionNumber int64     `json:"version_number"`
	Notes         *string   `json:"notes,omitempty"`
	BlockCount    int32     `json:"block_count"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
