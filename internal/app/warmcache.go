package app

import (
	"context"
	"os"
	"time"

	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/interfaces"
)

// warmCache pre-fetches the dashboard index quotes and their default-range
// histories on startup so the first user query is fast.
func warmCache(ctx context.Context, marketService interfaces.MarketService, config *common.Config, logger *common.Logger) {
	if os.Getenv("WONDASH_WARM_CACHE") == "off" {
		logger.Info().Msg("Warm cache: disabled via WONDASH_WARM_CACHE=off")
		return
	}

	start := time.Now()
	logger.Info().Int("indices", len(config.Market.Indices)).Msg("Warm cache: starting")

	if _, err := marketService.GetIndices(ctx); err != nil {
		logger.Warn().Err(err).Msg("Warm cache: index quotes failed")
	}

	warmed := 0
	for _, symbol := range config.Market.Indices {
		if ctx.Err() != nil {
			return
		}
		if _, err := marketService.GetSeries(ctx, symbol, config.Analytics.DefaultRange); err != nil {
			logger.Warn().Str("symbol", symbol).Err(err).Msg("Warm cache: series fetch failed")
			continue
		}
		warmed++
	}

	logger.Info().
		Int("series", warmed).
		Dur("elapsed", time.Since(start)).
		Msg("Warm cache: complete")
}
