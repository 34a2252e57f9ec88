package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const purgeDeletedFoods = `
	DELETE FROM foods
	 WHERE deleted = true
	   AND deleted_at < $1`

// PurgeDeleted removes food items soft-deleted before cutoff and returns how
// many rows went. Their notes follow through the foreign key cascade.
func PurgeDeleted(ctx context.Context, db *sql.DB, cutoff time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, purgeDeletedFoods, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge deleted foods: %w", err)
	}
	return res.RowsAffected()
}

// StartSoftDeleteCleaner runs PurgeDeleted every interval for items deleted
// more than retention ago, until ctx is cancelled.
func StartSoftDeleteCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	log = log.With(zap.Duration("retention", retention))
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				removed, err := PurgeDeleted(ctx, db, now.Add(-retention))
				switch {
				case err != nil:
					log.Error("failed to purge soft-deleted foods", zap.Error(err))
				case removed > 0:
					log.Info("purged soft-deleted foods", zap.Int64("removed", removed))
				}
			}
		}
	}()
}
