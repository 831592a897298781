package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/emrgen/pagebuilder/internal/compress"
	"github.com/emrgen/pagebuilder/internal/model"
)

const (
	// pageBlocksIndex records every page with cached blocks.
	pageBlocksIndex = "page:blocks:cached"
	defaultTTL      = 10 * time.Minute
	generationTTL   = 24 * time.Hour
)

func pageBlocksKey(pageID string) string {
	return "page:" + pageID + ":blocks"
}

func pageGenerationKey(pageID string) string {
	return "page:" + pageID + ":blocks:gen"
}

// NewRedisClient connects to redis and checks the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		Protocol: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

var _ BlockCache = (*RedisBlockCache)(nil)

// RedisBlockCache stores the gzip compressed JSON block list of a page under
// page:<id>:blocks.
type RedisBlockCache struct {
	client  *redis.Client
	encoder compress.Compress
	ttl     time.Duration
}

func NewRedisBlockCache(client *redis.Client, ttl time.Duration) *RedisBlockCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &RedisBlockCache{client: client, encoder: compress.NewGZip(), ttl: ttl}
}

func (r *RedisBlockCache) GetBlocks(ctx context.Context, pageID string) ([]*model.ContentBlock, bool, error) {
	res := r.client.Get(ctx, pageBlocksKey(pageID))
	if errors.Is(res.Err(), redis.Nil) {
		return nil, false, nil
	}
	if res.Err() != nil {
		return nil, false, res.Err()
	}

	buf, err := res.Bytes()
	if err != nil {
		return nil, false, err
	}

	data, err := r.encoder.Decode(buf)
	if err != nil {
		return nil, false, err
	}

	blocks := make([]*model.ContentBlock, 0)
	if err := json.Unmarshal(data, &blocks); err != nil {
		// a corrupt entry is dropped and treated as a miss
		logrus.Warnf("dropping cached blocks of page %s: %v", pageID, err)
		_ = r.Invalidate(ctx, pageID)
		return nil, false, nil
	}

	return blocks, true, nil
}

func (r *RedisBlockCache) Generation(ctx context.Context, pageID string) (int64, error) {
	gen, err := r.client.Get(ctx, pageGenerationKey(pageID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	return gen, err
}

// SetBlocks writes the blocks in a transaction that watches the generation key, so
// an Invalidate racing with the write makes it fail instead of being overwritten.
func (r *RedisBlockCache) SetBlocks(ctx context.Context, pageID string, gen int64, blocks []*model.ContentBlock) error {
	if blocks == nil {
		blocks = make([]*model.ContentBlock, 0)
	}

	data, err := json.Marshal(blocks)
	if err != nil {
		return err
	}

	encoded, err := r.encoder.Encode(data)
	if err != nil {
		return err
	}

	genKey := pageGenerationKey(pageID)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return ErrStale
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			if err := p.Set(ctx, pageBlocksKey(pageID), encoded, r.ttl).Err(); err != nil {
				return err
			}

			return p.SAdd(ctx, pageBlocksIndex, pageID).Err()
		})

		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStale
	}

	return err
}

// Invalidate drops the cached blocks and bumps the page generation.
func (r *RedisBlockCache) Invalidate(ctx context.Context, pageID string) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if err := p.Incr(ctx, pageGenerationKey(pageID)).Err(); err != nil {
			return err
		}
		if err := p.Expire(ctx, pageGenerationKey(pageID), generationTTL).Err(); err != nil {
			return err
		}
		if err := p.Del(ctx, pageBlocksKey(pageID)).Err(); err != nil {
			return err
		}

		return p.SRem(ctx, pageBlocksIndex, pageID).Err()
	})

	return err
}

// CachedPages lists the pages that had blocks cached and not invalidated since.
// Entries may have expired in the meantime.
func (r *RedisBlockCache) CachedPages(ctx context.Context) ([]string, error) {
	return r.client.SMembers(ctx, pageBlocksIndex).Result()
}
