package collector

import (
	"context"
	"time"

	"MarketBriefing/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Closes   map[string][]float64 // per-symbol closes, oldest first
	Failures map[string]error     // per-symbol errors
	Err      error                // batch error
	Calls    int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Separator() rune { return '-' }

func (m *MockFetcher) FetchSeries(ctx context.Context, symbols []string, _ int) (map[string]model.SeriesResult, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[string]model.SeriesResult, len(symbols))
	for _, sym := range symbols {
		if err, ok := m.Failures[sym]; ok {
			out[sym] = model.SeriesResult{Series: model.PriceSeries{Symbol: sym}, Err: err}
			continue
		}
		closes, ok := m.Closes[sym]
		if !ok {
			out[sym] = model.SeriesResult{Series: model.PriceSeries{Symbol: sym}, Err: ErrNoData}
			continue
		}
		out[sym] = model.SeriesResult{Series: mockSeries(sym, closes)}
	}
	return out, nil
}

func mockSeries(sym string, closes []float64) model.PriceSeries {
	base := time.Date(2024, 1, 1, 21, 0, 0, 0, time.UTC)
	points := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = model.PricePoint{Time: base.AddDate(0, 0, i), Close: c}
	}
	return model.PriceSeries{Symbol: sym, Points: points}
}
