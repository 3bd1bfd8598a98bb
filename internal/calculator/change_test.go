package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"MarketBriefing/internal/model"
)

func series(closes ...float64) model.PriceSeries {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	pts := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		pts[i] = model.PricePoint{Time: base.AddDate(0, 0, i), Close: c}
	}
	return model.PriceSeries{Symbol: "TEST", Points: pts}
}

func TestPercentChange_Formula(t *testing.T) {
	tests := []struct {
		closes []float64
	}{
		{[]float64{100, 110}},
		{[]float64{50, 45}},
		{[]float64{10, 12, 9, 13.37}},
		{[]float64{3.3, 7.7}},
		{[]float64{0.01, 0.5, 1000}},
	}
	for _, tt := range tests {
		first := tt.closes[0]
		last := tt.closes[len(tt.closes)-1]
		want := (last - first) / first * 100
		got, err := PercentChange(series(tt.closes...))
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", tt.closes, err)
		}
		if got != want {
			t.Errorf("%v: expected %v, got %v", tt.closes, want, got)
		}
	}
}

func TestPercentChange_Flat(t *testing.T) {
	got, err := PercentChange(series(42, 40, 44, 42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Errorf("expected 0 for unchanged price, got %v", got)
	}
}

func TestPercentChange_Scenario(t *testing.T) {
	up, _ := PercentChange(series(100, 110))
	down, _ := PercentChange(series(50, 45))
	if up != 10 {
		t.Errorf("expected +10, got %v", up)
	}
	if down != -10 {
		t.Errorf("expected -10, got %v", down)
	}
}

func TestPercentChange_Invalid(t *testing.T) {
	if _, err := PercentChange(series(10)); !errors.Is(err, ErrShortSeries) {
		t.Errorf("single point: expected ErrShortSeries, got %v", err)
	}
	if _, err := PercentChange(series()); !errors.Is(err, ErrShortSeries) {
		t.Errorf("empty: expected ErrShortSeries, got %v", err)
	}
	if _, err := PercentChange(series(0, 10)); !errors.Is(err, ErrNonPositivePrice) {
		t.Errorf("zero base: expected ErrNonPositivePrice, got %v", err)
	}
	if _, err := PercentChange(series(-5, 10)); !errors.Is(err, ErrNonPositivePrice) {
		t.Errorf("negative base: expected ErrNonPositivePrice, got %v", err)
	}
}

func TestValidateSeries(t *testing.T) {
	if err := ValidateSeries(series(1, 2, 3)); err != nil {
		t.Errorf("valid series rejected: %v", err)
	}
	if err := ValidateSeries(series(1, 0, 3)); err == nil {
		t.Error("expected error for zero close")
	}
	s := series(1, 2)
	s.Points[1].Time = s.Points[0].Time
	if err := ValidateSeries(s); !errors.Is(err, ErrUnorderedSeries) {
		t.Errorf("repeated timestamp: expected ErrUnorderedSeries, got %v", err)
	}
	s = series(100, 110)
	s.Points[0], s.Points[1] = s.Points[1], s.Points[0]
	if err := ValidateSeries(s); !errors.Is(err, ErrUnorderedSeries) {
		t.Errorf("reversed series: expected ErrUnorderedSeries, got %v", err)
	}
	for _, c := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := ValidateSeries(series(10, c, 12)); !errors.Is(err, ErrNonFinitePrice) {
			t.Errorf("close %v: expected ErrNonFinitePrice, got %v", c, err)
		}
	}
}

func TestTail(t *testing.T) {
	s := series(1, 2, 3, 4, 5)
	got := Tail(s, 3)
	if got.Len() != 3 || got.First().Close != 3 || got.Last().Close != 5 {
		t.Errorf("unexpected tail: %+v", got.Points)
	}
	if Tail(s, 10).Len() != 5 {
		t.Error("tail longer than series should return the whole series")
	}
	if Tail(s, 0).Len() != 5 {
		t.Error("non-positive n should return the whole series")
	}
}
