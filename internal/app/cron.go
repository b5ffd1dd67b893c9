package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jamespheffernan/words-on-phone-server/internal/modules/quota"
	pkgcron "github.com/jamespheffernan/words-on-phone-server/internal/pkg/cron"
	"github.com/jamespheffernan/words-on-phone-server/internal/pkg/taskqueue"
)

const (
	taskRetention  = 7 * 24 * time.Hour
	quotaRetention = 30 * 24 * time.Hour
)

func registerCronJobs(sched *pkgcron.Scheduler, ledger *quota.Ledger, tasks *taskqueue.Service, logger *zap.Logger) {
	sched.Register(pkgcron.Job{
		Name:        "purge_completed_tasks",
		Description: "Remove finished generation tasks older than the retention window",
		Interval:    time.Hour,
		Fn: func(ctx context.Context) error {
			before := time.Now().Add(-taskRetention).UnixMilli()
			return tasks.DeleteCompleted(ctx, before)
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "purge_quota_entries",
		Description: "Remove daily quota rows past the retention window",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			day := time.Now().Add(-quotaRetention).Format("2006-01-02")
			n, err := ledger.PurgeBefore(day)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("purged quota entries", zap.Int64("rows", n))
			}
			return nil
		},
	})
}
