package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/marknotes/notes-service/internal/service"
)

// StartExpirySweeper periodically hard-deletes expired self-destructing
// notes. Read paths already treat expired notes as absent; the sweeper only
// reclaims storage, so a missed tick is harmless. Stops when ctx is done.
func StartExpirySweeper(ctx context.Context, notes *service.NoteService, interval time.Duration, logger *zap.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := notes.SweepExpired(ctx)
				if err != nil {
					logger.Error("expiry sweep failed", zap.Error(err))
					continue
				}
				if removed > 0 {
					logger.Info("expired notes removed", zap.Int64("count", removed))
				}
			}
		}
	}()
}
