// internal/app/system/tasks/jobs.go

// Package tasks runs periodic background jobs off the request path.
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/rolehub/internal/app/ops"
	"go.uber.org/zap"
)

// Job is a named function run on a fixed interval until the context is
// cancelled.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// StartAll launches one goroutine per job. A failing run is logged and
// retried on the next tick; jobs stop when ctx is done.
func StartAll(ctx context.Context, logger *zap.Logger, jobs ...Job) {
	for _, job := range jobs {
		job := job
		go func() {
			ticker := time.NewTicker(job.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := job.Run(ctx); err != nil {
						logger.Warn("background job failed",
							zap.String("job", job.Name),
							zap.Error(err))
					}
				}
			}
		}()
	}
}

// RoleResetJob resets every role's round when a new month starts. The
// check runs hourly; the reset fires once per calendar month, on the
// first run that observes the month change. State is in memory only, so
// a restart on the 1st may reset again; resets are idempotent enough
// for that to be harmless (scores are already zero).
func RoleResetJob(svc *ops.Service, logger *zap.Logger) Job {
	lastMonth := time.Now().UTC().Month()
	return Job{
		Name:     "monthly-role-reset",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			now := time.Now().UTC()
			if now.Month() == lastMonth {
				return nil
			}
			n, err := svc.ResetAllRoles(ctx)
			if err != nil {
				return err
			}
			lastMonth = now.Month()
			logger.Info("monthly role reset complete",
				zap.Int("roles", n),
				zap.String("month", now.Month().String()))
			return nil
		},
	}
}
