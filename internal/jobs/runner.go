package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/safiro-portal/internal/logging"
	"github.com/Spok95/safiro-portal/internal/metrics"
)

type Job func(ctx context.Context) error

type Runner struct {
	ctx context.Context
	log *zap.Logger
}

func New(ctx context.Context, log *zap.Logger) *Runner {
	return &Runner{ctx: ctx, log: logging.OrNop(log)}
}

// Every запускает fn раз в interval, пока жив контекст раннера. Ошибка не останавливает цикл.
func (r *Runner) Every(interval time.Duration, name string, fn Job) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-t.C:
				r.runOnce(name, fn)
			}
		}
	}()
}

func (r *Runner) runOnce(name string, fn Job) {
	start := time.Now()
	err := fn(r.ctx)
	if err != nil {
		r.log.Warn("job failed", zap.String("job", name), zap.Error(err))
	}
	metrics.ObserveJob(name, err != nil, time.Since(start))
}
