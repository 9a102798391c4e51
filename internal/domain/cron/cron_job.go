package cron

import (
	"context"
	"sync"
	"time"

	"github.com/questx-lab/stakeboard/pkg/xcontext"
)

type CronJob interface {
	Do(context.Context)

	// RunNow reports whether the job runs once as soon as the manager starts,
	// instead of waiting for Next.
	RunNow() bool
	Next() time.Time
}

type CronJobManager struct {
	mutex   sync.Mutex
	running sync.WaitGroup
	jobs    map[CronJob]*time.Timer
	stopped bool
	done    chan struct{}
}

func NewCronJobManager() *CronJobManager {
	return &CronJobManager{
		jobs: make(map[CronJob]*time.Timer),
		done: make(chan struct{}),
	}
}

func (m *CronJobManager) Register(job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.jobs[job] = nil
}

// Start schedules every registered job and blocks until Cancel is called and
// every running job has returned.
func (m *CronJobManager) Start(ctx context.Context) {
	m.mutex.Lock()
	if m.stopped {
		m.mutex.Unlock()
		return
	}

	jobs := make([]CronJob, 0, len(m.jobs))
	for job := range m.jobs {
		jobs = append(jobs, job)
	}
	m.mutex.Unlock()

	xcontext.Logger(ctx).Infof("Cron job manager started")
	for _, job := range jobs {
		if job.RunNow() {
			go m.run(ctx, job)
		} else {
			m.schedule(ctx, job)
		}
	}

	<-m.done
	m.running.Wait()
	xcontext.Logger(ctx).Infof("Cron job manager stopped")
}

// Cancel stops scheduling. A job which is running finishes its current round.
// It is safe to call before Start and more than once.
func (m *CronJobManager) Cancel(ctx context.Context) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.stopped {
		return
	}
	m.stopped = true

	for _, timer := range m.jobs {
		if timer != nil {
			timer.Stop()
		}
	}

	m.jobs = make(map[CronJob]*time.Timer)
	close(m.done)
}

func (m *CronJobManager) run(ctx context.Context, job CronJob) {
	m.mutex.Lock()
	if m.stopped {
		m.mutex.Unlock()
		return
	}
	m.running.Add(1)
	m.mutex.Unlock()

	defer m.running.Done()

	xcontext.Logger(ctx).Infof("%T is running", job)
	job.Do(ctx)
	xcontext.Logger(ctx).Infof("%T done", job)

	m.schedule(ctx, job)
}

func (m *CronJobManager) schedule(ctx context.Context, job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Cancelled jobs are no longer in the list.
	if _, ok := m.jobs[job]; ok {
		m.jobs[job] = time.AfterFunc(time.Until(job.Next()), func() { m.run(ctx, job) })
	}
}
