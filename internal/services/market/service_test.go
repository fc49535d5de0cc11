package market

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/models"
	"github.com/jkwon/wondash/internal/storage/memory"
)

// fakeClient serves canned data and can be flipped into failure mode.
type fakeClient struct {
	charts  map[string]*models.PriceSeries
	quotes  map[string]*models.Quote
	matches []models.SymbolMatch
	fail    bool
	calls   int
}

func (f *fakeClient) GetChart(_ context.Context, symbol, rng string) (*models.PriceSeries, error) {
	f.calls++
	if f.fail {
		return nil, fmt.Errorf("chart %s: upstream down", symbol)
	}
	s, ok := f.charts[symbol+"|"+rng]
	if !ok {
		return nil, fmt.Errorf("chart %s: no data", symbol)
	}
	return s, nil
}

func (f *fakeClient) GetQuote(_ context.Context, symbol string) (*models.Quote, error) {
	f.calls++
	if f.fail {
		return nil, fmt.Errorf("quote %s: upstream down", symbol)
	}
	q, ok := f.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("quote %s: no data", symbol)
	}
	return q, nil
}

func (f *fakeClient) Search(_ context.Context, query string) ([]models.SymbolMatch, error) {
	if f.fail {
		return nil, fmt.Errorf("search %q: upstream down", query)
	}
	return f.matches, nil
}

func freshSeries(symbol, rng string, fetchedAt time.Time) *models.PriceSeries {
	close := 100.0
	return &models.PriceSeries{
		Symbol:     symbol,
		Range:      rng,
		Timestamps: []int64{1704153600},
		Closes:     []*float64{&close},
		FetchedAt:  fetchedAt,
	}
}

func TestGetSeriesFetchesAndCaches(t *testing.T) {
	store := memory.NewManager()
	client := &fakeClient{charts: map[string]*models.PriceSeries{
		"005930.KS|1y": freshSeries("005930.KS", "1y", time.Now()),
	}}
	svc := NewService(store, client, nil, common.NewSilentLogger())

	series, err := svc.GetSeries(context.Background(), "005930.KS", "1y")
	if err != nil {
		t.Fatalf("GetSeries failed: %v", err)
	}
	if series.Symbol != "005930.KS" {
		t.Errorf("symbol = %s", series.Symbol)
	}

	cached, err := store.MarketData().GetSeries(context.Background(), "005930.KS", "1y")
	if err != nil {
		t.Fatalf("series was not cached: %v", err)
	}
	if cached.Len() != 1 {
		t.Errorf("cached observations = %d, want 1", cached.Len())
	}
}

func TestGetSeriesServesFreshCacheWithoutFetch(t *testing.T) {
	store := memory.NewManager()
	client := &fakeClient{}
	svc := NewService(store, client, nil, common.NewSilentLogger())

	seed := freshSeries("005930.KS", "1y", time.Now())
	if err := store.MarketData().SaveSeries(context.Background(), seed); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.GetSeries(context.Background(), "005930.KS", "1y"); err != nil {
		t.Fatalf("GetSeries failed: %v", err)
	}
	if client.calls != 0 {
		t.Errorf("fresh cache must not trigger a fetch, got %d calls", client.calls)
	}
}

func TestGetSeriesStaleFallbackOnFetchFailure(t *testing.T) {
	store := memory.NewManager()
	client := &fakeClient{fail: true}
	svc := NewService(store, client, nil, common.NewSilentLogger())

	stale := freshSeries("005930.KS", "1y", time.Now().Add(-48*time.Hour))
	if err := store.MarketData().SaveSeries(context.Background(), stale); err != nil {
		t.Fatal(err)
	}

	series, err := svc.GetSeries(context.Background(), "005930.KS", "1y")
	if err != nil {
		t.Fatalf("stale fallback should not error: %v", err)
	}
	if series.Len() != 1 {
		t.Errorf("stale series observations = %d, want 1", series.Len())
	}
}

func TestGetSeriesFailsWithoutCache(t *testing.T) {
	store := memory.NewManager()
	client := &fakeClient{fail: true}
	svc := NewService(store, client, nil, common.NewSilentLogger())

	if _, err := svc.GetSeries(context.Background(), "005930.KS", "1y"); err == nil {
		t.Fatal("expected error when fetch fails with no cached copy")
	}
}

func TestGetIndicesSkipsUnavailableSymbols(t *testing.T) {
	store := memory.NewManager()
	client := &fakeClient{quotes: map[string]*models.Quote{
		"^KS11": {Symbol: "^KS11", Price: 2600, Timestamp: time.Now()},
		"^GSPC": {Symbol: "^GSPC", Price: 5500, Timestamp: time.Now()},
	}}
	svc := NewService(store, client, []string{"^KS11", "^GSPC", "^MISSING"}, common.NewSilentLogger())

	quotes, err := svc.GetIndices(context.Background())
	if err != nil {
		t.Fatalf("GetIndices failed: %v", err)
	}
	if len(quotes) != 2 {
		t.Errorf("quotes = %d, want 2", len(quotes))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	svc := NewService(memory.NewManager(), &fakeClient{}, nil, common.NewSilentLogger())
	if _, err := svc.Search(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty query")
	}
}
