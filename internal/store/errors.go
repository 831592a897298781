package store

import "errors"

var (
	ErrPageNotFound    = errors.New("page not found")
	ErrBlockNotFound   = errors.New("content block not found")
	ErrVersionNotFound = errors.New("page version not found")
	ErrSlugTaken       = errors.New("page slug is already in use")
)
