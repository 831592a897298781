// Package service implements the page builder rpc services.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/metadata"

	v1 "github.com/emrgen/pagebuilder/apis/v1"
	"github.com/emrgen/pagebuilder/internal/builder"
	"github.com/emrgen/pagebuilder/internal/cache"
	"github.com/emrgen/pagebuilder/internal/content"
	"github.com/emrgen/pagebuilder/internal/metrics"
	"github.com/emrgen/pagebuilder/internal/model"
	"github.com/emrgen/pagebuilder/internal/queue"
	"github.com/emrgen/pagebuilder/internal/store"
)

// ActorHeader carries the name recorded as the creator of versions.
const ActorHeader = "x-actor"

var eventKinds = map[builder.ChangeKind]queue.EventKind{
	builder.ChangeBlockCreated:    queue.EventBlockCreated,
	builder.ChangeBlockUpdated:    queue.EventBlockUpdated,
	builder.ChangeBlockDeleted:    queue.EventBlockDeleted,
	builder.ChangeBlocksReordered: queue.EventBlocksReordered,
	builder.ChangeVersionCreated:  queue.EventVersionCreated,
	builder.ChangeVersionRestored: queue.EventVersionRestored,
}

// Editor opens page builders for the services and fans their changes out to the
// block cache, the event publisher and the metrics.
type Editor struct {
	store  store.Store
	cache  cache.BlockCache
	events queue.Publisher
	opts   []builder.Option
}

func NewEditor(s store.Store, c cache.BlockCache, events queue.Publisher, opts ...builder.Option) *Editor {
	if c == nil {
		c = cache.Nop{}
	}
	if events == nil {
		events = queue.Nop{}
	}

	return &Editor{
		store:  s,
		cache:  c,
		events: events,
		opts:   opts,
	}
}

// open returns a builder for an existing page. confirm answers every
// confirmation the builder asks for during this request.
func (e *Editor) open(ctx context.Context, pageID string, confirm bool) (*builder.Builder, error) {
	if _, err := e.store.GetPage(ctx, pageID); err != nil {
		return nil, err
	}

	opts := make([]builder.Option, 0, len(e.opts)+3)
	opts = append(opts, e.opts...)
	opts = append(opts,
		builder.WithConfirmer(builder.Confirmed(confirm)),
		builder.WithActor(actorFromContext(ctx)),
		builder.WithListener(e.listener(ctx)),
	)

	return builder.New(e.store, pageID, opts...), nil
}

// load opens the builder and fetches the page blocks into its mirror.
func (e *Editor) load(ctx context.Context, pageID string, confirm bool) (*builder.Builder, error) {
	b, err := e.open(ctx, pageID, confirm)
	if err != nil {
		return nil, err
	}
	if _, err := b.Load(ctx); err != nil {
		return nil, err
	}

	return b, nil
}

func (e *Editor) listener(ctx context.Context) func(builder.Change) {
	ctx = context.WithoutCancel(ctx)

	return func(c builder.Change) {
		switch c.Kind {
		case builder.ChangeVersionCreated:
			metrics.VersionsCreatedTotal.Inc()
		case builder.ChangeVersionRestored:
			metrics.VersionsRestoredTotal.Inc()
			e.invalidate(ctx, c.PageID)
		default:
			e.invalidate(ctx, c.PageID)
		}

		e.publish(ctx, &queue.PageEvent{
			Kind:          eventKinds[c.Kind],
			PageID:        c.PageID,
			BlockID:       c.BlockID,
			VersionNumber: c.VersionNumber,
			At:            time.Now().UTC(),
		})
	}
}

// blocks returns the ordered blocks of a page, from the cache when possible. The
// loaded blocks are only cached if the page was not invalidated while loading.
func (e *Editor) blocks(ctx context.Context, pageID string) ([]*v1.Block, error) {
	log := logrus.WithField("page_id", pageID)

	rows, ok, err := e.cache.GetBlocks(ctx, pageID)
	if err != nil {
		log.Warnf("read block cache: %v", err)
	}
	if ok {
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return rowsToProto(rows), nil
	}
	metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()

	gen, genErr := e.cache.Generation(ctx, pageID)
	if genErr != nil {
		log.Warnf("read block cache generation: %v", genErr)
	}

	b, err := e.load(ctx, pageID, false)
	if err != nil {
		return nil, err
	}

	rows = blockRows(b.Blocks())
	if genErr == nil {
		err := e.cache.SetBlocks(ctx, pageID, gen, rows)
		switch {
		case errors.Is(err, cache.ErrStale):
			log.Debugf("skip caching blocks: %v", err)
		case err != nil:
			log.Warnf("write block cache: %v", err)
		}
	}

	return rowsToProto(rows), nil
}

func (e *Editor) invalidate(ctx context.Context, pageID string) {
	if err := e.cache.Invalidate(ctx, pageID); err != nil {
		logrus.WithField("page_id", pageID).Warnf("invalidate block cache: %v", err)
	}
}

func (e *Editor) publish(ctx context.Context, event *queue.PageEvent) {
	if err := e.events.Publish(ctx, event); err != nil {
		logrus.WithField("page_id", event.PageID).Warnf("publish %s: %v", event.Kind, err)
	}
}

// done records the outcome of an operation and converts its error to a status.
func done(op string, err error) error {
	metrics.BuilderOperationsTotal.WithLabelValues(op, metrics.Outcome(err)).Inc()
	return toStatus(err)
}

func actorFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if vals := md.Get(ActorHeader); len(vals) > 0 {
		return vals[0]
	}

	return ""
}

// blockRow keeps the stored content bytes; blocks built in memory without them are
// encoded from their typed content.
func blockRow(b *builder.Block) *model.ContentBlock {
	data := b.Raw
	if len(data) == 0 {
		data, _ = content.Encode(b.Content)
	}

	return &model.ContentBlock{
		ID:        b.ID,
		PageID:    b.PageID,
		BlockType: string(b.Type),
		Name:      b.Name,
		Content:   data,
		Position:  b.Position,
		IsVisible: b.IsVisible,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func blockRows(blocks []*builder.Block) []*model.ContentBlock {
	rows := make([]*model.ContentBlock, 0, len(blocks))
	for _, b := range blocks {
		rows = append(rows, blockRow(b))
	}

	return rows
}

func rowToProto(row *model.ContentBlock) *v1.Block {
	block := &v1.Block{
		Id:        row.ID,
		PageId:    row.PageID,
		BlockType: row.BlockType,
		Name:      row.Name,
		Content:   []byte(row.Content),
		Position:  int32(row.Position),
		IsVisible: row.IsVisible,
	}
	if !row.CreatedAt.IsZero() {
		createdAt := row.CreatedAt
		block.CreatedAt = &createdAt
	}
	if !row.UpdatedAt.IsZero() {
		updatedAt := row.UpdatedAt
		block.UpdatedAt = &updatedAt
	}

	return block
}

func rowsToProto(rows []*model.ContentBlock) []*v1.Block {
	blocks := make([]*v1.Block, 0, len(rows))
	for _, row := range rows {
		blocks = append(blocks, rowToProto(row))
	}

	return blocks
}

func blockToProto(b *builder.Block) *v1.Block {
	return rowToProto(blockRow(b))
}

func blocksToProto(blocks []*builder.Block) []*v1.Block {
	return rowsToProto(blockRows(blocks))
}

func versionToProto(v *builder.Version) *v1.Version {
	return &v1.Version{
		Id:            v.ID,
		PageId:        v.PageID,
		VersionNumber: v.Number,
		Notes:         v.Notes,
		BlockCount:    int32(v.BlockCount),
		CreatedBy:     v.CreatedBy,
		CreatedAt:     v.CreatedAt,
	}
}

func pageToProto(p *model.Page) *v1.Page {
	return &v1.Page{
		Id:                p.ID,
		Slug:              p.Slug,
		Title:             p.Title,
		MetaTitle:         p.MetaTitle,
		MetaDescription:   p.MetaDescription,
		IsPublished:       p.IsPublished,
		PublishedAt:       p.PublishedAt,
		LastVersionNumber: p.LastVersionNumber,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
