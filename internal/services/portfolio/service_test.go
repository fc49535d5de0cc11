package portfolio

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/models"
	"github.com/jkwon/wondash/internal/storage/memory"
)

// fakeMarket serves canned series keyed by symbol|range.
type fakeMarket struct {
	series map[string]*models.PriceSeries
}

func (f *fakeMarket) GetSeries(_ context.Context, symbol, rng string) (*models.PriceSeries, error) {
	s, ok := f.series[symbol+"|"+rng]
	if !ok {
		return nil, fmt.Errorf("series %s/%s: no data", symbol, rng)
	}
	return s, nil
}

func (f *fakeMarket) GetIndices(_ context.Context) ([]models.Quote, error) {
	return nil, nil
}

func (f *fakeMarket) Search(_ context.Context, _ string) ([]models.SymbolMatch, error) {
	return nil, nil
}

func ptr(v float64) *float64 { return &v }

// dailySeries builds n daily observations ending today, all at the given close.
func dailySeries(symbol, rng string, n int, close float64) *models.PriceSeries {
	start := time.Now().AddDate(0, 0, -n)
	ts := make([]int64, n)
	closes := make([]*float64, n)
	for i := 0; i < n; i++ {
		ts[i] = start.AddDate(0, 0, i).Unix()
		closes[i] = ptr(close)
	}
	return &models.PriceSeries{
		Symbol:     symbol,
		Range:      rng,
		Timestamps: ts,
		Closes:     closes,
		FetchedAt:  time.Now(),
	}
}

func newTestService(market *fakeMarket) *Service {
	return NewService(memory.NewManager(), market, nil, common.NewDefaultConfig(), common.NewSilentLogger())
}

func TestSavePortfolioClassifiesAndRounds(t *testing.T) {
	svc := newTestService(&fakeMarket{})

	saved, err := svc.SavePortfolio(context.Background(), "u1", "retirement", []models.Holding{
		{Symbol: "005930.ks", Quantity: 10.00004},
		{Symbol: "035720.KQ", Quantity: 3},
		{Symbol: "AAPL", Quantity: 1.5},
	})
	require.NoError(t, err)
	require.Len(t, saved.Holdings, 3)

	assert.Equal(t, "005930.KS", saved.Holdings[0].Symbol)
	assert.Equal(t, models.CurrencyDomestic, saved.Holdings[0].Class)
	assert.Equal(t, 10.0, saved.Holdings[0].Quantity)
	assert.Equal(t, models.CurrencyDomestic, saved.Holdings[1].Class)
	assert.Equal(t, models.CurrencyForeign, saved.Holdings[2].Class)

	loaded, err := svc.GetPortfolio(context.Background(), "u1", "retirement")
	require.NoError(t, err)
	assert.Len(t, loaded.Holdings, 3)
}

func TestSavePortfolioRejectsBadInput(t *testing.T) {
	svc := newTestService(&fakeMarket{})
	ctx := context.Background()

	_, err := svc.SavePortfolio(ctx, "u1", "  ", nil)
	assert.Error(t, err)

	_, err = svc.SavePortfolio(ctx, "u1", "p", []models.Holding{{Symbol: ""}})
	assert.Error(t, err)

	_, err = svc.SavePortfolio(ctx, "u1", "p", []models.Holding{{Symbol: "AAPL", Quantity: -1}})
	assert.Error(t, err)
}

func TestAnalyzeMixedCurrencies(t *testing.T) {
	market := &fakeMarket{series: map[string]*models.PriceSeries{
		"AAPL|5y":      dailySeries("AAPL", "5y", 30, 2),
		"005930.KS|5y": dailySeries("005930.KS", "5y", 30, 500),
		"KRW=X|5y":     dailySeries("KRW=X", "5y", 30, 1300),
	}}
	svc := newTestService(market)
	ctx := context.Background()

	_, err := svc.SavePortfolio(ctx, "u1", "mixed", []models.Holding{
		{Symbol: "AAPL", Quantity: 10},
		{Symbol: "005930.KS", Quantity: 10},
	})
	require.NoError(t, err)

	report, err := svc.Analyze(ctx, "u1", "mixed", "5y")
	require.NoError(t, err)

	// 10 * 2 * 1300 + 10 * 500 = 31000 on every date
	require.NotEmpty(t, report.Points)
	assert.InDelta(t, 31000, report.Points[len(report.Points)-1].Value, 1e-9)
	assert.InDelta(t, 0, report.TotalReturnPct, 1e-9)
	assert.Equal(t, "5y", report.Range)
	assert.Empty(t, report.Summary)
}

func TestAnalyzeFXFallbackWhenSeriesMissing(t *testing.T) {
	market := &fakeMarket{series: map[string]*models.PriceSeries{
		"AAPL|5y": dailySeries("AAPL", "5y", 30, 2),
	}}
	svc := newTestService(market)
	ctx := context.Background()

	_, err := svc.SavePortfolio(ctx, "u1", "us", []models.Holding{{Symbol: "AAPL", Quantity: 10}})
	require.NoError(t, err)

	report, err := svc.Analyze(ctx, "u1", "us", "5y")
	require.NoError(t, err)

	// 10 * 2 * 1200 fallback rate
	assert.InDelta(t, 24000, report.Points[len(report.Points)-1].Value, 1e-9)
}

func TestAnalyzeSkipsUnfetchableHolding(t *testing.T) {
	market := &fakeMarket{series: map[string]*models.PriceSeries{
		"005930.KS|5y": dailySeries("005930.KS", "5y", 30, 500),
	}}
	svc := newTestService(market)
	ctx := context.Background()

	_, err := svc.SavePortfolio(ctx, "u1", "partial", []models.Holding{
		{Symbol: "005930.KS", Quantity: 10},
		{Symbol: "DELISTED.KS", Quantity: 100},
	})
	require.NoError(t, err)

	report, err := svc.Analyze(ctx, "u1", "partial", "5y")
	require.NoError(t, err)
	assert.InDelta(t, 5000, report.Points[len(report.Points)-1].Value, 1e-9)
}

func TestAnalyzeFailsWhenNothingFetches(t *testing.T) {
	svc := newTestService(&fakeMarket{})
	ctx := context.Background()

	_, err := svc.SavePortfolio(ctx, "u1", "ghost", []models.Holding{{Symbol: "NOPE.KS", Quantity: 1}})
	require.NoError(t, err)

	_, err = svc.Analyze(ctx, "u1", "ghost", "5y")
	assert.Error(t, err)
}

func TestAnalyzeUnknownPortfolio(t *testing.T) {
	svc := newTestService(&fakeMarket{})
	_, err := svc.Analyze(context.Background(), "u1", "missing", "5y")
	assert.Error(t, err)
}

func TestRenderChartProducesPNG(t *testing.T) {
	market := &fakeMarket{series: map[string]*models.PriceSeries{
		"005930.KS|1y": dailySeries("005930.KS", "1y", 30, 500),
	}}
	svc := newTestService(market)
	ctx := context.Background()

	_, err := svc.SavePortfolio(ctx, "u1", "chart", []models.Holding{{Symbol: "005930.KS", Quantity: 10}})
	require.NoError(t, err)

	png, err := svc.RenderChart(ctx, "u1", "chart", "1y")
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestRenderValuationChartNeedsTwoPoints(t *testing.T) {
	_, err := RenderValuationChart("p", []models.ValuationPoint{{Date: time.Now(), Value: 1}})
	assert.Error(t, err)
}

func TestDeletePortfolio(t *testing.T) {
	svc := newTestService(&fakeMarket{})
	ctx := context.Background()

	_, err := svc.SavePortfolio(ctx, "u1", "gone", []models.Holding{{Symbol: "AAPL", Quantity: 1}})
	require.NoError(t, err)
	require.NoError(t, svc.DeletePortfolio(ctx, "u1", "gone"))

	_, err = svc.GetPortfolio(ctx, "u1", "gone")
	assert.Error(t, err)
}
