package app

import (
	"context"
	"fmt"
	"time"

	"github.com/nitaidalal/blog-core/internal/models"
	pkgcron "github.com/nitaidalal/blog-core/internal/pkg/cron"
	pkgredis "github.com/nitaidalal/blog-core/internal/pkg/redis"
	"github.com/nitaidalal/blog-core/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

// registerCronJobs registers all scheduled background jobs.
func (a *App) registerCronJobs() {
	db := a.db
	log := a.logger.Named("cron")

	a.sched.Register(pkgcron.Job{
		Name:        "purge_deleted_rows",
		Description: "Hard-delete soft-deleted rows older than 90 days",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().AddDate(0, 0, -90)
			targets := []interface{}{
				&models.BlogModel{},
				&models.CommentModel{},
				&models.UserModel{},
				&models.ContactModel{},
			}
			var purged int64
			for _, model := range targets {
				result := db.Unscoped().
					Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
					Delete(model)
				if result.Error != nil {
					log.Warn("purge failed", zap.Error(result.Error))
					return result.Error
				}
				purged += result.RowsAffected
			}
			log.Info(fmt.Sprintf("purged %d soft-deleted rows", purged))
			return nil
		},
	})

	a.sched.Register(pkgcron.Job{
		Name:        "prune_blast_tasks",
		Description: "Remove finished newsletter blast records older than 7 days",
		Interval:    12 * time.Hour,
		Fn: func(ctx context.Context) error {
			if pkgredis.Default == nil {
				return nil
			}
			tasks := taskqueue.NewService(pkgredis.Default)
			cutoff := time.Now().Add(-7 * 24 * time.Hour)
			if err := tasks.PruneFinished(ctx, cutoff); err != nil {
				log.Warn("blast task prune failed", zap.Error(err))
				return err
			}
			return nil
		},
	})
}
