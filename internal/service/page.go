package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	v1 "github.com/emrgen/pagebuilder/apis/v1"
	"github.com/emrgen/pagebuilder/internal/builder"
	"github.com/emrgen/pagebuilder/internal/model"
	"github.com/emrgen/pagebuilder/internal/queue"
	"github.com/emrgen/pagebuilder/internal/store"
	"github.com/emrgen/pagebuilder/internal/util"
)

// maxSlugAttempts bounds the numbered variants tried for a slug derived from a title.
const maxSlugAttempts = 50

var (
	_ v1.PageServiceServer = (*PageService)(nil)
)

// NewPageService creates a new PageService.
func NewPageService(editor *Editor) *PageService {
	return &PageService{editor: editor}
}

// PageService manages the pages that own content blocks.
type PageService struct {
	editor *Editor
	v1.UnimplementedPageServiceServer
}

// CreatePage creates a page. Without a slug one is derived from the title,
// numbered when the plain one is taken.
func (p *PageService) CreatePage(ctx context.Context, request *v1.CreatePageRequest) (resp *v1.CreatePageResponse, err error) {
	defer func() { err = done("create_page", err) }()

	page := &model.Page{
		Title:           strings.TrimSpace(request.Title),
		MetaTitle:       request.MetaTitle,
		MetaDescription: request.MetaDescription,
	}

	if request.Slug != "" {
		if !util.IsValidSlug(request.Slug) {
			return nil, ErrInvalidSlug
		}
		page.Slug = request.Slug
		if err := p.editor.store.CreatePage(ctx, page); err != nil {
			return nil, err
		}
		return &v1.CreatePageResponse{Page: pageToProto(page)}, nil
	}

	base := util.Slugify(page.Title)
	if base == "" {
		return nil, fmt.Errorf("%w: no slug can be derived from %q", ErrInvalidSlug, page.Title)
	}
	for n := 1; n <= maxSlugAttempts; n++ {
		page.ID = ""
		page.Slug = util.NumberedSlug(base, n)
		err = p.editor.store.CreatePage(ctx, page)
		if !errors.Is(err, store.ErrSlugTaken) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	logrus.Infof("created page %s (%s)", page.ID, page.Slug)

	return &v1.CreatePageResponse{Page: pageToProto(page)}, nil
}

// GetPage retrieves a page by id or slug.
func (p *PageService) GetPage(ctx context.Context, request *v1.GetPageRequest) (resp *v1.GetPageResponse, err error) {
	defer func() { err = done("get_page", err) }()

	var page *model.Page
	if request.Id != "" {
		page, err = p.editor.store.GetPage(ctx, request.Id)
	} else {
		page, err = p.editor.store.GetPageBySlug(ctx, request.Slug)
	}
	if err != nil {
		return nil, err
	}

	return &v1.GetPageResponse{Page: pageToProto(page)}, nil
}

func (p *PageService) ListPages(ctx context.Context, request *v1.ListPagesRequest) (resp *v1.ListPagesResponse, err error) {
	defer func() { err = done("list_pages", err) }()

	pages, total, err := p.editor.store.ListPages(ctx, int(request.Offset), int(request.Limit))
	if err != nil {
		return nil, err
	}

	res := &v1.ListPagesResponse{Pages: make([]*v1.Page, 0, len(pages)), Total: total}
	for _, page := range pages {
		res.Pages = append(res.Pages, pageToProto(page))
	}

	return res, nil
}

// UpdatePage changes the title, slug or SEO fields of a page.
func (p *PageService) UpdatePage(ctx context.Context, request *v1.UpdatePageRequest) (resp *v1.UpdatePageResponse, err error) {
	defer func() { err = done("update_page", err) }()

	page, err := p.editor.store.GetPage(ctx, request.Id)
	if err != nil {
		return nil, err
	}

	if request.Title != nil {
		page.Title = strings.TrimSpace(*request.Title)
	}
	if request.Slug != nil {
		if !util.IsValidSlug(*request.Slug) {
			return nil, ErrInvalidSlug
		}
		page.Slug = *request.Slug
	}
	if request.MetaTitle != nil {
		page.MetaTitle = *request.MetaTitle
	}
	if request.MetaDescription != nil {
		page.MetaDescription = *request.MetaDescription
	}

	return savePage(ctx, p.editor, page, "", func(page *model.Page) *v1.UpdatePageResponse {
		return &v1.UpdatePageResponse{Page: pageToProto(page)}
	})
}

// PublishPage marks a page published. Publishing again keeps the first publish time.
func (p *PageService) PublishPage(ctx context.Context, request *v1.PublishPageRequest) (resp *v1.PublishPageResponse, err error) {
	defer func() { err = done("publish_page", err) }()

	page, err := p.editor.store.GetPage(ctx, request.Id)
	if err != nil {
		return nil, err
	}

	if !page.IsPublished {
		now := time.Now().UTC()
		page.IsPublished = true
		page.PublishedAt = &now
	}

	return savePage(ctx, p.editor, page, queue.EventPagePublished, func(page *model.Page) *v1.PublishPageResponse {
		return &v1.PublishPageResponse{Page: pageToProto(page)}
	})
}

func (p *PageService) UnpublishPage(ctx context.Context, request *v1.UnpublishPageRequest) (resp *v1.UnpublishPageResponse, err error) {
	defer func() { err = done("unpublish_page", err) }()

	page, err := p.editor.store.GetPage(ctx, request.Id)
	if err != nil {
		return nil, err
	}

	page.IsPublished = false
	page.PublishedAt = nil

	return savePage(ctx, p.editor, page, queue.EventPageUnpublished, func(page *model.Page) *v1.UnpublishPageResponse {
		return &v1.UnpublishPageResponse{Page: pageToProto(page)}
	})
}

// DeletePage deletes a page with its blocks and versions. It must be confirmed.
func (p *PageService) DeletePage(ctx context.Context, request *v1.DeletePageRequest) (resp *v1.DeletePageResponse, err error) {
	defer func() { err = done("delete_page", err) }()

	if !request.Confirm {
		return nil, builder.ErrNotConfirmed
	}

	if err := p.editor.store.DeletePage(ctx, request.Id); err != nil {
		return nil, err
	}

	p.editor.invalidate(ctx, request.Id)
	p.editor.publish(ctx, &queue.PageEvent{Kind: queue.EventPageDeleted, PageID: request.Id, At: time.Now().UTC()})
	logrus.Infof("deleted page %s", request.Id)

	return &v1.DeletePageResponse{}, nil
}

// savePage stores page and publishes kind when it is set.
func savePage[R any](ctx context.Context, editor *Editor, page *model.Page, kind queue.EventKind, res func(*model.Page) R) (R, error) {
	var zero R

	page.UpdatedAt = time.Now().UTC()
	if err := editor.store.UpdatePage(ctx, page); err != nil {
		return zero, err
	}
	if kind != "" {
		editor.publish(ctx, &queue.PageEvent{Kind: kind, PageID: page.ID, At: page.UpdatedAt})
	}

	return res(page), nil
}
