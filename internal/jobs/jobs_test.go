package jobs

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emrgen/pagebuilder/internal/cache"
	"github.com/emrgen/pagebuilder/internal/model"
	"github.com/emrgen/pagebuilder/internal/store"
	"github.com/emrgen/pagebuilder/internal/tester"
)

type countingJob struct {
	runs     atomic.Int32
	schedule string
	release  chan struct{}
}

func (c *countingJob) ID() string       { return "counting" }
func (c *countingJob) Schedule() string { return c.schedule }
func (c *countingJob) Run() {
	c.runs.Add(1)
	if c.release != nil {
		<-c.release
	}
}

func TestTaskExecutor_Schedules(t *testing.T) {
	job := &countingJob{schedule: "@every 1s"}
	executor := NewTaskExecutor(job)
	require.NoError(t, executor.Run())
	defer executor.Stop()

	assert.Eventually(t, func() bool {
		return job.runs.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)
}

func TestTaskExecutor_InvalidSchedule(t *testing.T) {
	executor := NewTaskExecutor(&countingJob{schedule: "whenever"})
	assert.Error(t, executor.Run())
}

func TestTaskExecutor_SkipsOverlappingRuns(t *testing.T) {
	job := &countingJob{release: make(chan struct{})}
	executor := NewTaskExecutor()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		executor.RunNow(job)
	}()

	assert.Eventually(t, func() bool { return job.runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, executor.RunNow(job))

	close(job.release)
	wg.Wait()
	assert.True(t, executor.RunNow(job))
	assert.Equal(t, int32(2), job.runs.Load())
}

func TestVersionPruneTask(t *testing.T) {
	db := tester.TestDB(t)
	s := store.NewGormStore(db)
	ctx := context.TODO()

	pages := []*model.Page{tester.CreatePage(t, db), tester.CreatePage(t, db)}
	for _, page := range pages {
		for i := 0; i < 4; i++ {
			_, err := s.CreatePageVersion(ctx, page.ID, store.VersionOptions{})
			require.NoError(t, err)
		}
	}

	removed, err := NewVersionPruneTask("@every 1h", 0, s).Prune(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	task := NewVersionPruneTask("@every 1h", 3, s)
	removed, err = task.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	for _, page := range pages {
		versions, err := s.ListPageVersions(ctx, page.ID)
		require.NoError(t, err)
		require.Len(t, versions, 3)
		assert.Equal(t, int64(4), versions[0].VersionNumber)
		assert.Equal(t, int64(2), versions[2].VersionNumber)
	}

	task.Run()
	v, err := s.CreatePageVersion(ctx, pages[0].ID, store.VersionOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.VersionNumber)
}

type recordingCache struct {
	cache.Nop
	invalidated []string
}

func (r *recordingCache) Invalidate(_ context.Context, pageID string) error {
	r.invalidated = append(r.invalidated, pageID)
	return nil
}

func TestPositionRepairTask(t *testing.T) {
	db := tester.TestDB(t)
	s := store.NewGormStore(db)
	ctx := context.TODO()

	sparse := tester.CreatePage(t, db)
	dense := tester.CreatePage(t, db)
	for _, position := range []int{0, 2, 2, 7} {
		require.NoError(t, s.CreateBlock(ctx, &model.ContentBlock{PageID: sparse.ID, BlockType: "text", Name: "t", Position: position}))
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, s.CreateBlock(ctx, &model.ContentBlock{PageID: dense.ID, BlockType: "text", Name: "t", Position: i}))
	}

	c := &recordingCache{}
	task := NewPositionRepairTask("@every 10m", s, c)
	repaired, err := task.Repair(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)
	assert.Equal(t, []string{sparse.ID}, c.invalidated)

	blocks, err := s.ListBlocks(ctx, sparse.ID)
	require.NoError(t, err)
	for i, b := range blocks {
		assert.Equal(t, i, b.Position)
	}

	repaired, err = task.Repair(ctx)
	require.NoError(t, err)
	assert.Zero(t, repaired)
}
