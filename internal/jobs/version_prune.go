package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/emrgen/pagebuilder/internal/metrics"
	"github.com/emrgen/pagebuilder/internal/store"
)

const pruneBatchSize = 100

// VersionPruneTask keeps the newest versions of every page and deletes the rest.
// The per-page version counter is untouched, so pruned numbers are never issued again.
type VersionPruneTask struct {
	store    store.Store
	keep     int
	schedule string
	timeout  time.Duration
}

func NewVersionPruneTask(schedule string, keep int, store store.Store) *VersionPruneTask {
	return &VersionPruneTask{
		store:    store,
		keep:     keep,
		schedule: schedule,
		timeout:  time.Minute,
	}
}

func (v *VersionPruneTask) ID() string {
	return "version_prune"
}

func (v *VersionPruneTask) Schedule() string {
	return v.schedule
}

func (v *VersionPruneTask) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	removed, err := v.Prune(ctx)
	metrics.JobRunsTotal.WithLabelValues(v.ID(), metrics.Outcome(err)).Inc()
	if err != nil {
		logrus.Errorf("prune versions: %v", err)
		return
	}
	if removed > 0 {
		logrus.Infof("pruned %d page versions", removed)
	}
}

// Prune applies the retention to every page and returns the number of removed versions.
// A keep of zero disables pruning.
func (v *VersionPruneTask) Prune(ctx context.Context) (int64, error) {
	if v.keep <= 0 {
		return 0, nil
	}

	var removed int64
	for offset := 0; ; offset += pruneBatchSize {
		pages, _, err := v.store.ListPages(ctx, offset, pruneBatchSize)
		if err != nil {
			return removed, err
		}

		for _, page := range pages {
			n, err := v.store.PrunePageVersions(ctx, page.ID, v.keep)
			if err != nil {
				return removed, err
			}
			removed += n
			metrics.VersionsPrunedTotal.Add(float64(n))
		}

		if len(pages) < pruneBatchSize {
			return removed, nil
		}
	}
}
