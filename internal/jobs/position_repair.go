package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/emrgen/pagebuilder/internal/cache"
	"github.com/emrgen/pagebuilder/internal/metrics"
	"github.com/emrgen/pagebuilder/internal/store"
)

// PositionRepairTask re-packs pages whose block positions are not a dense 0..n-1,
// which a failed reorder or an interrupted delete can leave behind.
type PositionRepairTask struct {
	store    store.Store
	cache    cache.BlockCache
	schedule string
	timeout  time.Duration
}

func NewPositionRepairTask(schedule string, store store.Store, cache cache.BlockCache) *PositionRepairTask {
	return &PositionRepairTask{
		store:    store,
		cache:    cache,
		schedule: schedule,
		timeout:  time.Minute,
	}
}

func (p *PositionRepairTask) ID() string {
	return "position_repair"
}

func (p *PositionRepairTask) Schedule() string {
	return p.schedule
}

func (p *PositionRepairTask) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	repaired, err := p.Repair(ctx)
	metrics.JobRunsTotal.WithLabelValues(p.ID(), metrics.Outcome(err)).Inc()
	if err != nil {
		logrus.Errorf("repair block positions: %v", err)
		return
	}
	if repaired > 0 {
		logrus.Infof("re-packed block positions of %d pages", repaired)
	}
}

// Repair re-packs every sparse page and returns how many were changed.
func (p *PositionRepairTask) Repair(ctx context.Context) (int, error) {
	pageIDs, err := p.store.ListSparsePageIDs(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, pageID := range pageIDs {
		moved, err := p.store.RepackBlocks(ctx, pageID)
		if err != nil {
			return repaired, err
		}
		if moved == 0 {
			continue
		}

		if err := p.cache.Invalidate(ctx, pageID); err != nil {
			logrus.WithField("page_id", pageID).Warnf("invalidate cached blocks: %v", err)
		}
		logrus.WithField("page_id", pageID).Infof("re-packed %d block positions", moved)
		metrics.PagesRepairedTotal.Inc()
		repaired++
	}

	return repaired, nil
}
