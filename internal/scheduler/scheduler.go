package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one periodic job. Run returns how many items it handled.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) (int, error)
}

// Scheduler runs background tasks on tickers until stopped.
type Scheduler struct {
	tasks    []Task
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func New(logger *zap.Logger, tasks ...Task) *Scheduler {
	return &Scheduler{
		tasks:    tasks,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start launches every task with a positive interval. Each runs once
// immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("starting background scheduler", zap.Int("tasks", len(s.tasks)))

	for _, task := range s.tasks {
		if task.Interval <= 0 || task.Run == nil {
			s.logger.Info("task disabled", zap.String("task", task.Name))
			continue
		}
		s.wg.Add(1)
		go s.loop(ctx, task)
	}
}

// Stop signals every task and waits for the running ones to return.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, task Task) {
	defer s.wg.Done()

	s.runOnce(ctx, task)

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx, task)
		case <-s.stopChan:
			s.logger.Info("task stopped", zap.String("task", task.Name))
			return
		case <-ctx.Done():
			s.logger.Info("task cancelled", zap.String("task", task.Name))
			return
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panicked", zap.String("task", task.Name), zap.Any("panic", r))
		}
	}()

	n, err := task.Run(ctx)
	if err != nil {
		s.logger.Error("task failed", zap.String("task", task.Name), zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("task completed", zap.String("task", task.Name), zap.Int("items", n))
	}
}
