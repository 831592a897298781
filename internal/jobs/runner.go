package jobs

import (
	mapset "github.com/deckarep/golang-set/v2"
	cron "github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

type Job interface {
	ID() string
	Run()
}

type CronJob interface {
	Schedule() string
	Job
}

// TaskExecutor runs cron jobs. A job is skipped while its previous run is still going.
type TaskExecutor struct {
	cron    *cron.Cron
	jobs    []CronJob
	running mapset.Set[string]
}

func NewTaskExecutor(jobs ...CronJob) *TaskExecutor {
	return &TaskExecutor{
		cron:    cron.New(),
		jobs:    jobs,
		running: mapset.NewSet[string](),
	}
}

// Run schedules every job and starts the cron in its own goroutine.
func (t *TaskExecutor) Run() error {
	for _, job := range t.jobs {
		err := t.cron.AddFunc(job.Schedule(), func() {
			t.RunNow(job)
		})
		if err != nil {
			logrus.Errorf("failed to add task %s to cron: %v", job.ID(), err)
			return err
		}
		logrus.Infof("scheduled task %s: %s", job.ID(), job.Schedule())
	}

	t.cron.Start()

	return nil
}

// RunNow runs job in the calling goroutine unless it is already running.
func (t *TaskExecutor) RunNow(job Job) bool {
	if !t.running.Add(job.ID()) {
		logrus.Warnf("task %s is already running", job.ID())
		return false
	}
	defer t.running.Remove(job.ID())

	job.Run()

	return true
}

func (t *TaskExecutor) Stop() {
	logrus.Infof("stopping all tasks")
	t.cron.Stop()
}
