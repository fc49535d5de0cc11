package app

import (
	"context"
	"time"

	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/interfaces"
)

// startIndexRefresh re-fetches the dashboard index quotes on a fixed
// interval so they stay inside the freshness window.
func startIndexRefresh(ctx context.Context, marketService interfaces.MarketService, logger *common.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Index refresh: stopped")
			return
		case <-ticker.C:
			start := time.Now()
			quotes, err := marketService.GetIndices(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("Index refresh: failed")
				continue
			}
			logger.Info().
				Int("quotes", len(quotes)).
				Dur("elapsed", time.Since(start)).
				Msg("Index refresh: complete")
		}
	}
}
