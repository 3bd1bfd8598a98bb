package ranker

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"MarketBriefing/internal/model"
)

var t0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func series(sym string, closes ...float64) model.PriceSeries {
	pts := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		pts[i] = model.PricePoint{Time: t0.AddDate(0, 0, i), Close: c}
	}
	return model.PriceSeries{Symbol: sym, Points: pts}
}

func TestRank_Scenario(t *testing.T) {
	in := map[string]model.PriceSeries{
		"A": series("A", 100, 110),
		"B": series("B", 50, 45),
		"C": series("C", 10),
	}
	rep := Rank(in, 1)
	if len(rep.Gainers) != 1 || rep.Gainers[0].Symbol != "A" || rep.Gainers[0].ChangePct != 10 {
		t.Errorf("unexpected gainers: %+v", rep.Gainers)
	}
	if len(rep.Losers) != 1 || rep.Losers[0].Symbol != "B" || rep.Losers[0].ChangePct != -10 {
		t.Errorf("unexpected losers: %+v", rep.Losers)
	}
	if rep.Valid != 2 {
		t.Errorf("expected 2 valid records (C excluded), got %d", rep.Valid)
	}
	if rep.Gainers[0].LastClose != 110 || rep.Gainers[0].FirstClose != 100 {
		t.Errorf("unexpected closes: %+v", rep.Gainers[0])
	}
}

func TestRank_EmptyMapping(t *testing.T) {
	rep := Rank(map[string]model.PriceSeries{}, DefaultK)
	if rep.Gainers == nil || rep.Losers == nil {
		t.Fatal("expected non-nil empty lists")
	}
	if len(rep.Gainers) != 0 || len(rep.Losers) != 0 || rep.Valid != 0 {
		t.Errorf("expected empty report, got %+v", rep)
	}
	rep = Rank(nil, DefaultK)
	if len(rep.Gainers) != 0 || len(rep.Losers) != 0 {
		t.Errorf("expected empty report for nil mapping, got %+v", rep)
	}
}

func TestRank_SkipsNonPositiveBase(t *testing.T) {
	in := map[string]model.PriceSeries{
		"ZERO": series("ZERO", 0, 10),
		"NEG":  series("NEG", -1, 10),
		"OK":   series("OK", 10, 11),
	}
	rep := Rank(in, 5)
	if rep.Valid != 1 || len(rep.Gainers) != 1 || rep.Gainers[0].Symbol != "OK" {
		t.Errorf("expected only OK to survive, got %+v", rep)
	}
}

func TestRank_SkipsUnorderedSeries(t *testing.T) {
	rev := series("REV", 100, 110)
	rev.Points[0], rev.Points[1] = rev.Points[1], rev.Points[0]
	in := map[string]model.PriceSeries{
		"REV": rev,
		"OK":  series("OK", 50, 55),
	}
	rep := Rank(in, 1)
	if rep.Valid != 1 {
		t.Fatalf("expected out-of-order series to be excluded, got %+v", rep)
	}
	if rep.Gainers[0].Symbol != "OK" || rep.Losers[0].Symbol != "OK" {
		t.Errorf("expected only OK ranked, got gainers %+v losers %+v", rep.Gainers, rep.Losers)
	}
}

func TestRank_SkipsNonFiniteCloses(t *testing.T) {
	in := map[string]model.PriceSeries{
		"NAN":  series("NAN", 100, math.NaN()),
		"INF":  series("INF", 100, math.Inf(1)),
		"NINF": series("NINF", math.Inf(-1), 100),
		"MID":  series("MID", 100, math.NaN(), 120),
		"OK":   series("OK", 100, 90),
	}
	rep := Rank(in, 5)
	if rep.Valid != 1 || len(rep.Gainers) != 1 || len(rep.Losers) != 1 {
		t.Fatalf("expected only OK to survive, got %+v", rep)
	}
	if rep.Gainers[0].Symbol != "OK" || rep.Gainers[0].ChangePct != -10 {
		t.Errorf("unexpected record: %+v", rep.Gainers[0])
	}
}

func TestRank_LengthBounds(t *testing.T) {
	in := map[string]model.PriceSeries{}
	for i := 0; i < 25; i++ {
		sym := fmt.Sprintf("S%02d", i)
		in[sym] = series(sym, 100, 100+float64(i))
	}
	in["SHORT"] = series("SHORT", 5)

	for _, k := range []int{0, 1, 10, 24, 25, 26, 100} {
		rep := Rank(in, k)
		want := min(max(k, 0), 25)
		if len(rep.Gainers) != want || len(rep.Losers) != want {
			t.Errorf("k=%d: expected %d entries, got %d gainers %d losers",
				k, want, len(rep.Gainers), len(rep.Losers))
		}
	}
}

func TestRank_Ordering(t *testing.T) {
	in := map[string]model.PriceSeries{
		"UP5":   series("UP5", 100, 105),
		"UP20":  series("UP20", 100, 120),
		"DOWN3": series("DOWN3", 100, 97),
		"DOWN9": series("DOWN9", 100, 91),
		"FLAT":  series("FLAT", 100, 100),
	}
	rep := Rank(in, 5)
	var gainers, losers []string
	for _, r := range rep.Gainers {
		gainers = append(gainers, r.Symbol)
	}
	for _, r := range rep.Losers {
		losers = append(losers, r.Symbol)
	}
	wantG := []string{"UP20", "UP5", "FLAT", "DOWN3", "DOWN9"}
	wantL := []string{"DOWN9", "DOWN3", "FLAT", "UP5", "UP20"}
	if !reflect.DeepEqual(gainers, wantG) {
		t.Errorf("gainers: expected %v, got %v", wantG, gainers)
	}
	if !reflect.DeepEqual(losers, wantL) {
		t.Errorf("losers: expected %v, got %v", wantL, losers)
	}
}

func TestRank_TieBreakBySymbol(t *testing.T) {
	in := map[string]model.PriceSeries{
		"MSFT": series("MSFT", 100, 110),
		"AAPL": series("AAPL", 200, 220),
		"GOOG": series("GOOG", 50, 55),
	}
	rep := Rank(in, 2)
	if rep.Gainers[0].Symbol != "AAPL" || rep.Gainers[1].Symbol != "GOOG" {
		t.Errorf("gainer ties should break by symbol, got %+v", rep.Gainers)
	}
	if rep.Losers[0].Symbol != "AAPL" || rep.Losers[1].Symbol != "GOOG" {
		t.Errorf("loser ties should break by symbol, got %+v", rep.Losers)
	}
}

func TestRank_Idempotent(t *testing.T) {
	in := map[string]model.PriceSeries{}
	for i := 0; i < 40; i++ {
		sym := fmt.Sprintf("T%02d", i)
		// Several symbols share the same change so ties must be resolved.
		in[sym] = series(sym, 100, 100+float64(i%4))
	}
	first := Rank(in, 10)
	for i := 0; i < 20; i++ {
		if got := Rank(in, 10); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d produced a different report", i)
		}
	}
}
