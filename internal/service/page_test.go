package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	v1 "github.com/emrgen/pagebuilder/apis/v1"
	"github.com/emrgen/pagebuilder/internal/queue"
)

func TestPageService_CreatePage(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	tests := []struct {
		name string
		req  *v1.CreatePageRequest
		slug string
		code codes.Code
	}{
		{name: "derived slug", req: &v1.CreatePageRequest{Title: "Summer Bootcamp"}, slug: "summer-bootcamp"},
		{name: "numbered when taken", req: &v1.CreatePageRequest{Title: "Summer  Bootcamp!"}, slug: "summer-bootcamp-2"},
		{name: "accents folded", req: &v1.CreatePageRequest{Title: "Café Crème"}, slug: "cafe-creme"},
		{name: "explicit slug", req: &v1.CreatePageRequest{Title: "Home", Slug: "home"}, slug: "home"},
		{name: "explicit slug taken", req: &v1.CreatePageRequest{Title: "Home again", Slug: "home"}, code: codes.AlreadyExists},
		{name: "invalid slug", req: &v1.CreatePageRequest{Title: "Bad", Slug: "Not A Slug"}, code: codes.InvalidArgument},
		{name: "no slug from title", req: &v1.CreatePageRequest{Title: "!!!"}, code: codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.pages.CreatePage(ctx, tt.req)
			if tt.code != codes.OK {
				assertCode(t, tt.code, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.slug, res.Page.Slug)
			assert.NotEmpty(t, res.Page.Id)
			assert.False(t, res.Page.IsPublished)

			got, err := f.pages.GetPage(ctx, &v1.GetPageRequest{Slug: tt.slug})
			require.NoError(t, err)
			assert.Equal(t, res.Page.Id, got.Page.Id)
		})
	}

	list, err := f.pages.ListPages(ctx, &v1.ListPagesRequest{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), list.Total)
	assert.Len(t, list.Pages, 2)
}

func TestPageService_UpdatePage(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	page := f.page(t, "About")
	other := f.page(t, "Contact")

	title, slug, meta := "About us", "about-us", "Who we are"
	res, err := f.pages.UpdatePage(ctx, &v1.UpdatePageRequest{Id: page.Id, Title: &title, Slug: &slug, MetaDescription: &meta})
	require.NoError(t, err)
	assert.Equal(t, "About us", res.Page.Title)
	assert.Equal(t, "about-us", res.Page.Slug)
	assert.Equal(t, "Who we are", res.Page.MetaDescription)

	_, err = f.pages.UpdatePage(ctx, &v1.UpdatePageRequest{Id: other.Id, Slug: &slug})
	assertCode(t, codes.AlreadyExists, err)

	bad := "about us"
	_, err = f.pages.UpdatePage(ctx, &v1.UpdatePageRequest{Id: other.Id, Slug: &bad})
	assertCode(t, codes.InvalidArgument, err)

	_, err = f.pages.UpdatePage(ctx, &v1.UpdatePageRequest{Id: "missing", Title: &title})
	assertCode(t, codes.NotFound, err)
}

func TestPageService_PublishUnpublish(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	page := f.page(t, "Launch")

	published, err := f.pages.PublishPage(ctx, &v1.PublishPageRequest{Id: page.Id})
	require.NoError(t, err)
	assert.True(t, published.Page.IsPublished)
	require.NotNil(t, published.Page.PublishedAt)

	again, err := f.pages.PublishPage(ctx, &v1.PublishPageRequest{Id: page.Id})
	require.NoError(t, err)
	assert.True(t, published.Page.PublishedAt.Equal(*again.Page.PublishedAt))

	unpublished, err := f.pages.UnpublishPage(ctx, &v1.UnpublishPageRequest{Id: page.Id})
	require.NoError(t, err)
	assert.False(t, unpublished.Page.IsPublished)
	assert.Nil(t, unpublished.Page.PublishedAt)

	got, err := f.pages.GetPage(ctx, &v1.GetPageRequest{Id: page.Id})
	require.NoError(t, err)
	assert.False(t, got.Page.IsPublished)

	assert.Equal(t, []queue.EventKind{
		queue.EventPagePublished,
		queue.EventPagePublished,
		queue.EventPageUnpublished,
	}, f.eventKinds())
}

func TestPageService_DeletePage(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	page := f.page(t, "Old promo")
	f.addBlocks(t, page.Id, "hero", "cta")
	_, err := f.versions.CreateVersion(ctx, &v1.CreateVersionRequest{PageId: page.Id})
	require.NoError(t, err)
	_, err = f.blocks.ListBlocks(ctx, &v1.ListBlocksRequest{PageId: page.Id})
	require.NoError(t, err)
	require.True(t, f.redis.Exists("page:"+page.Id+":blocks"))

	_, err = f.pages.DeletePage(ctx, &v1.DeletePageRequest{Id: page.Id})
	assertCode(t, codes.FailedPrecondition, err)

	_, err = f.pages.DeletePage(ctx, &v1.DeletePageRequest{Id: page.Id, Confirm: true})
	require.NoError(t, err)
	assert.False(t, f.redis.Exists("page:"+page.Id+":blocks"))

	_, err = f.pages.GetPage(ctx, &v1.GetPageRequest{Id: page.Id})
	assertCode(t, codes.NotFound, err)
	_, err = f.blocks.ListBlocks(ctx, &v1.ListBlocksRequest{PageId: page.Id})
	assertCode(t, codes.NotFound, err)

	_, err = f.pages.DeletePage(ctx, &v1.DeletePageRequest{Id: page.Id, Confirm: true})
	assertCode(t, codes.NotFound, err)
}
