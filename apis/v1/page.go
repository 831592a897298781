package v1

import "errors"

type CreatePageRequest struct {
	Title string `json:"title"`
	// Slug is derived from the title when empty.
	Slug            string `json:"slug,omitempty"`
	MetaTitle       string `json:"meta_title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
}

func (r *CreatePageRequest) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	return nil
}

type CreatePageResponse struct {
	Page *Page `json:"page"`
}

type GetPageRequest struct {
	Id   string `json:"id,omitempty"`
	Slug string `json:"slug,omitempty"`
}

func (r *GetPageRequest) Validate() error {
	if r.Id == "" && r.Slug == "" {
		return errors.New("id or slug is required")
	}
	return nil
}

type GetPageResponse struct {
	Page *Page `json:"page"`
}

type ListPagesRequest struct {
	Offset int32 `json:"offset,omitempty"`
	Limit  int32 `json:"limit,omitempty"`
}

func (r *ListPagesRequest) Validate() error {
	if r.Offset < 0 || r.Limit < 0 {
		return errors.New("offset and limit must not be negative")
	}
	return nil
}

type ListPagesResponse struct {
	Pages []*Page `json:"pages"`
	Total int64   `json:"total"`
}

type UpdatePageRequest struct {
	Id              string  `json:"id"`
	Title           *string `json:"title,omitempty"`
	Slug            *string `json:"slug,omitempty"`
	MetaTitle       *string `json:"meta_title,omitempty"`
	MetaDescription *string `json:"meta_description,omitempty"`
}

func (r *UpdatePageRequest) Validate() error {
	if r.Id == "" {
		return errors.New("id is required")
	}
	if r.Title != nil && *r.Title == "" {
		return errors.New("title must not be empty")
	}
	return nil
}

type UpdatePageResponse struct {
	Page *Page `json:"page"`
}

type PublishPageRequest struct {
	Id string `json:"id"`
}

func (r *PublishPageRequest) Validate() error {
	if r.Id == "" {
		return errors.New("id is required")
	}
	return nil
}

type PublishPageResponse struct {
	Page *Page `json:"page"`
}

type UnpublishPageRequest struct {
	Id string `json:"id"`
}

func (r *UnpublishPageRequest) Validate() error {
	if r.Id == "" {
		return errors.New("id is required")
	}
	return nil
}

type UnpublishPageResponse struct {
	Page *Page `json:"page"`
}

type DeletePageRequest struct {
	Id      string `json:"id"`
	Confirm bool   `json:"confirm"`
}

func (r *DeletePageRequest) Validate() error {
	if r.Id == "" {
		return errors.New("id is required")
	}
	return nil
}

type DeletePageResponse struct{}
