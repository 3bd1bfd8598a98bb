package calculator

import (
	"errors"
	"math"

	"MarketBriefing/internal/model"
)

var (
	// ErrShortSeries is returned when a series has fewer than two observations.
	ErrShortSeries = errors.New("not enough data for change calculation")
	// ErrNonPositivePrice is returned when the base price is zero or negative.
	ErrNonPositivePrice = errors.New("first close must be positive")
	// ErrNonFinitePrice is returned for NaN or infinite closes.
	ErrNonFinitePrice = errors.New("close must be finite")
	// ErrUnorderedSeries is returned when timestamps do not strictly increase.
	ErrUnorderedSeries = errors.New("timestamps must be strictly increasing")
)

// PercentChange returns (last - first) / first * 100 over the series window.
func PercentChange(series model.PriceSeries) (float64, error) {
	if series.Len() < 2 {
		return 0, ErrShortSeries
	}
	first := series.First().Close
	if first <= 0 {
		return 0, ErrNonPositivePrice
	}
	last := series.Last().Close
	return (last - first) / first * 100, nil
}

// ValidateSeries checks that timestamps strictly increase and every close is
// finite and positive.
func ValidateSeries(series model.PriceSeries) error {
	for i, p := range series.Points {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			return ErrNonFinitePrice
		}
		if p.Close <= 0 {
			return ErrNonPositivePrice
		}
		if i > 0 && !p.Time.After(series.Points[i-1].Time) {
			return ErrUnorderedSeries
		}
	}
	return nil
}

// Tail returns the most recent n observations of the series.
func Tail(series model.PriceSeries, n int) model.PriceSeries {
	if n <= 0 || series.Len() <= n {
		return series
	}
	return model.PriceSeries{
		Symbol: series.Symbol,
		Points: series.Points[series.Len()-n:],
	}
}
