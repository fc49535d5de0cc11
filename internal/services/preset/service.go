// Package preset serves the built-in model portfolios and their backtest
// scores.
package preset

import (
	"context"
	"fmt"

	"github.com/jkwon/wondash/internal/analytics"
	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/interfaces"
	"github.com/jkwon/wondash/internal/models"
)

// Presets is the built-in model portfolio library. Weights sum to 1 per
// preset. ETF proxies are used so every component has a public price series.
var Presets = []models.PresetPortfolio{
	{
		ID:          "classic-60-40",
		Name:        "Classic 60/40",
		Description: "60% global equities, 40% US treasuries",
		Assets: []models.PresetAsset{
			{Symbol: "VT", Weight: 0.60},
			{Symbol: "IEF", Weight: 0.40},
		},
	},
	{
		ID:          "all-weather",
		Name:        "All Weather",
		Description: "Risk-balanced mix of equities, bonds, gold and commodities",
		Assets: []models.PresetAsset{
			{Symbol: "VTI", Weight: 0.30},
			{Symbol: "TLT", Weight: 0.40},
			{Symbol: "IEF", Weight: 0.15},
			{Symbol: "GLD", Weight: 0.075},
			{Symbol: "DBC", Weight: 0.075},
		},
	},
	{
		ID:          "kospi-tilt",
		Name:        "KOSPI Tilt",
		Description: "Half domestic large caps, half US equities",
		Assets: []models.PresetAsset{
			{Symbol: "069500.KS", Weight: 0.50},
			{Symbol: "SPY", Weight: 0.50},
		},
	},
	{
		ID:          "tech-growth",
		Name:        "Tech Growth",
		Description: "Concentrated technology exposure",
		Assets: []models.PresetAsset{
			{Symbol: "QQQ", Weight: 0.70},
			{Symbol: "SPY", Weight: 0.30},
		},
	},
}

// Service implements PresetService.
type Service struct {
	presets []models.PresetPortfolio
	prober  *analytics.Prober
	logger  *common.Logger
}

// NewService creates a preset service scoring against the market service's
// cached series.
func NewService(market interfaces.MarketService, cfg *common.Config, logger *common.Logger) *Service {
	prober := analytics.NewProber(market.GetSeries, analytics.ProberConfig{
		Ranges:             cfg.Analytics.ProbeRanges,
		MinRawObservations: cfg.Analytics.MinRawObservations,
		MinAlignedLength:   cfg.Analytics.MinAlignedLength,
		Location:           cfg.Market.Location(),
	})
	return &Service{
		presets: Presets,
		prober:  prober,
		logger:  logger,
	}
}

// List returns the preset library.
func (s *Service) List() []models.PresetPortfolio {
	return s.presets
}

// Score backtests one preset by ID. Insufficient history yields the "N/A"
// sentinel, not an error.
func (s *Service) Score(ctx context.Context, id string) (*models.PresetScore, error) {
	for _, p := range s.presets {
		if p.ID == id {
			score, err := s.prober.Score(ctx, p.Assets)
			if err != nil {
				return nil, err
			}
			score.PresetID = p.ID
			return &score, nil
		}
	}
	return nil, fmt.Errorf("unknown preset '%s'", id)
}

// ScoreAll backtests every preset sequentially. Presets that cannot be
// scored carry the "N/A" sentinel; the only error surfaced is context
// cancellation.
func (s *Service) ScoreAll(ctx context.Context) ([]models.PresetScore, error) {
	scores := make([]models.PresetScore, 0, len(s.presets))
	for _, p := range s.presets {
		score, err := s.prober.Score(ctx, p.Assets)
		if err != nil {
			return nil, err
		}
		score.PresetID = p.ID
		if score.Range == "N/A" {
			s.logger.Debug().Str("preset", p.ID).Msg("No window with enough history")
		}
		scores = append(scores, score)
	}
	return scores, nil
}

// Ensure Service implements PresetService
var _ interfaces.PresetService = (*Service)(nil)
