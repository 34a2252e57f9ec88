package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/FoodKeeper/internal/models"
)

// ErrStale is returned by Refresh when its result was superseded and discarded.
var ErrStale = errors.New("stale response discarded")

// Fetcher loads the full food list from the server.
type Fetcher interface {
	ListFoods(ctx context.Context, search, category string) ([]models.FoodItem, error)
}

// Refresh fetches the full list and stores it in ls unless a newer fetch
// started meanwhile.
func Refresh(ctx context.Context, f Fetcher, ls *LocalStorage) error {
	ticket := ls.BeginFetch()
	foods, err := f.ListFoods(ctx, "", "")
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	if ctx.Err() != nil || !ls.Apply(ticket, foods, time.Now()) {
		return ErrStale
	}
	return ls.Save()
}

// StartAutoRefresh refreshes ls every interval until ctx is cancelled.
func StartAutoRefresh(ctx context.Context, f Fetcher, ls *LocalStorage, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				err := Refresh(ctx, f, ls)
				switch {
				case err == nil:
					log.Debug("food list refreshed")
				case errors.Is(err, ErrStale):
					log.Debug("refresh result discarded")
				default:
					log.Warn("background refresh failed", zap.Error(err))
				}
			}
		}
	}()
}
