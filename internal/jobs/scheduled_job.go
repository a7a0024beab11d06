package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Metrics counts job runs. *metrics.Collector implements it.
type Metrics interface {
	JobRun(job string, err error)
}

type nopMetrics struct{}

func (nopMetrics) JobRun(string, error) {}

// cronLogger routes cron's own messages to zap.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

// scheduledJob runs fn on a cron schedule. Stop cancels the context of a
// run in progress and waits for it to return.
type scheduledJob struct {
	name     string
	schedule string
	fn       func(ctx context.Context) error
	metrics  Metrics
	logger   *zap.Logger

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

func newScheduledJob(name, schedule string, fn func(ctx context.Context) error, metrics Metrics, logger *zap.Logger) *scheduledJob {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &scheduledJob{
		name:     name,
		schedule: schedule,
		fn:       fn,
		metrics:  metrics,
		logger:   logger.With(zap.String("component", name)),
	}
}

func (j *scheduledJob) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cron != nil {
		return fmt.Errorf("%s already started", j.name)
	}

	ctx, cancel := context.WithCancel(context.Background())
	clog := cronLogger{log: j.logger.Sugar()}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(clog),
		cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
	)
	if _, err := c.AddFunc(j.schedule, func() { j.runOnce(ctx) }); err != nil {
		cancel()
		return fmt.Errorf("schedule %s %q: %w", j.name, j.schedule, err)
	}

	c.Start()
	j.cron, j.cancel = c, cancel
	j.logger.Info("job started", zap.String("schedule", j.schedule))
	return nil
}

func (j *scheduledJob) Stop() {
	j.mu.Lock()
	c, cancel := j.cron, j.cancel
	j.cron, j.cancel = nil, nil
	j.mu.Unlock()
	if c == nil {
		return
	}

	cancel()
	<-c.Stop().Done()
	j.logger.Info("job stopped")
}

func (j *scheduledJob) runOnce(ctx context.Context) {
	err := j.fn(ctx)
	j.metrics.JobRun(j.name, err)
	if err != nil && ctx.Err() == nil {
		j.logger.Error("job run failed", zap.Error(err))
	}
}
