// Package scheduler 封装 gocron/v2，记录每个任务的运行状态供调试接口查看.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yeisme/pixels/pkg/log"
)

// updateInterval 定义状态刷新间隔.
const updateInterval = 10 * time.Second

// ErrJobNotFound 任务不存在.
var ErrJobNotFound = errors.New("job not found")

// JobStatus 表示任务的状态类型.
type JobStatus string

const (
	StatusScheduled JobStatus = "scheduled" // 任务已调度
	StatusRunning   JobStatus = "running"   // 任务正在运行
	StatusError     JobStatus = "error"     // 最近一次运行失败
)

// JobFunc 任务函数，返回的错误记录在 JobInfo.Error 中.
type JobFunc func(ctx context.Context) error

// JobInfo 表示定时任务的信息.
type JobInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CronExpr    string    `json:"cron_expr"`
	NextRun     time.Time `json:"next_run"`
	LastRun     time.Time `json:"last_run,omitzero"`
	LastSuccess time.Time `json:"last_success,omitzero"`
	Runs        int64     `json:"runs"`
	Status      JobStatus `json:"status"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Scheduler 定时任务调度器.
type Scheduler struct {
	scheduler gocron.Scheduler
	jobs      map[string]gocron.Job // 以任务名称为键
	jobInfos  map[string]*JobInfo   // 以任务名称为键
	jobIDs    map[uuid.UUID]string  // 任务ID到名称
	mu        sync.RWMutex
	logger    zerolog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewScheduler 创建调度器，任务按 UTC 解释 cron 表达式.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	scheduler := &Scheduler{
		scheduler: s,
		jobs:      make(map[string]gocron.Job),
		jobInfos:  make(map[string]*JobInfo),
		jobIDs:    make(map[uuid.UUID]string),
		logger:    log.Component("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
	}

	go scheduler.jobStatusUpdater()

	return scheduler, nil
}

// AddCron 添加一个基于 cron 表达式的定时任务，同名任务只能存在一个.
// ctx 会传给每次执行的 job.
func (s *Scheduler) AddCron(ctx context.Context, name, cronExpr string, job JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job with name %s already exists", name)
	}

	j, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(s.wrap(name, job), ctx),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("add job %s: %w", name, err)
	}

	now := time.Now()
	nextRun, _ := j.NextRun()

	s.jobs[name] = j
	s.jobIDs[j.ID()] = name
	s.jobInfos[name] = &JobInfo{
		ID:        j.ID().String(),
		Name:      name,
		CronExpr:  cronExpr,
		NextRun:   nextRun,
		Status:    StatusScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.logger.Info().Str("job", name).Str("cron", cronExpr).Msg("Added cron job")

	return nil
}

// wrap 记录任务状态并恢复 panic.
func (s *Scheduler) wrap(name string, job JobFunc) func(ctx context.Context) {
	return func(ctx context.Context) {
		s.setStatus(name, StatusRunning, nil)

		var err error

		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in job: %v", r)
			}

			if err != nil {
				s.logger.Error().Err(err).Str("job", name).Msg("Job failed")
				s.setStatus(name, StatusError, err)

				return
			}

			s.setStatus(name, StatusScheduled, nil)
		}()

		err = job(ctx)
	}
}

// RunNow 立即执行一次任务，不影响原有调度.
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	job, ok := s.jobs[name]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	return job.RunNow()
}

// RemoveJob 通过 ID 移除任务.
func (s *Scheduler) RemoveJob(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, exists := s.jobIDs[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	if err := s.scheduler.RemoveJob(id); err != nil {
		return err
	}

	delete(s.jobs, name)
	delete(s.jobInfos, name)
	delete(s.jobIDs, id)

	s.logger.Info().Str("job", name).Msg("Removed job")

	return nil
}

// GetJobInfoByName 通过名称获取任务信息副本.
func (s *Scheduler) GetJobInfoByName(name string) (JobInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, exists := s.jobInfos[name]
	if !exists {
		return JobInfo{}, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	return *info, nil
}

// GetJobInfos 返回所有任务信息，按名称排序.
func (s *Scheduler) GetJobInfos() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]JobInfo, 0, len(s.jobInfos))
	for _, info := range s.jobInfos {
		jobs = append(jobs, *info)
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })

	return jobs
}

// JobsWaitingInQueue 等待执行的任务数.
func (s *Scheduler) JobsWaitingInQueue() int {
	return s.scheduler.JobsWaitingInQueue()
}

// Start 启动调度器.
func (s *Scheduler) Start() {
	s.logger.Info().Int("jobs", len(s.scheduler.Jobs())).Msg("Starting scheduler")
	s.scheduler.Start()
}

// Stop 停止调度器并等待正在执行的任务结束.
func (s *Scheduler) Stop() error {
	s.logger.Info().Msg("Stopping scheduler")
	s.cancel()

	return s.scheduler.Shutdown()
}

// jobStatusUpdater 定期刷新下次运行时间.
func (s *Scheduler) jobStatusUpdater() {
	ticker := time.NewTicker(updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.refreshRunTimes()
		}
	}
}

func (s *Scheduler) refreshRunTimes() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, job := range s.jobs {
		info := s.jobInfos[name]
		if info == nil {
			continue
		}

		if nextRun, err := job.NextRun(); err == nil {
			info.NextRun = nextRun
		}

		info.UpdatedAt = time.Now()
	}
}

// setStatus 更新任务状态，err 为 nil 表示成功.
func (s *Scheduler) setStatus(name string, status JobStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, exists := s.jobInfos[name]
	if !exists {
		return
	}

	now := time.Now()
	info.Status = status
	info.UpdatedAt = now

	switch status {
	case StatusRunning:
		info.LastRun = now
		info.Runs++
	case StatusError:
		info.Error = err.Error()
	default:
		info.Error = ""
		info.LastSuccess = now
	}
}
