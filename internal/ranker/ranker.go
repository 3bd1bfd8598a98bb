package ranker

import (
	"sort"

	"MarketBriefing/internal/calculator"
	"MarketBriefing/internal/model"
)

// DefaultK is the number of gainers and losers reported when none is configured.
const DefaultK = 10

// Records computes a MoverRecord for every series that can be measured.
// Series that are short, out of time order, or carry a non-finite or
// non-positive close are skipped. The result is sorted by symbol.
func Records(series map[string]model.PriceSeries) []model.MoverRecord {
	records := make([]model.MoverRecord, 0, len(series))
	for sym, s := range series {
		if calculator.ValidateSeries(s) != nil {
			continue
		}
		pct, err := calculator.PercentChange(s)
		if err != nil {
			continue
		}
		records = append(records, model.MoverRecord{
			Symbol:     sym,
			FirstClose: s.First().Close,
			LastClose:  s.Last().Close,
			ChangePct:  pct,
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Symbol < records[j].Symbol })
	return records
}

// Rank selects the k biggest gainers and the k biggest losers.
// Equal changes are ordered by symbol in both lists.
func Rank(series map[string]model.PriceSeries, k int) model.RankedReport {
	records := Records(series)
	report := model.RankedReport{
		Gainers: []model.MoverRecord{},
		Losers:  []model.MoverRecord{},
		Valid:   len(records),
	}
	if k <= 0 || len(records) == 0 {
		return report
	}

	desc := make([]model.MoverRecord, len(records))
	copy(desc, records)
	sort.SliceStable(desc, func(i, j int) bool {
		if desc[i].ChangePct != desc[j].ChangePct {
			return desc[i].ChangePct > desc[j].ChangePct
		}
		return desc[i].Symbol < desc[j].Symbol
	})

	asc := make([]model.MoverRecord, len(records))
	copy(asc, records)
	sort.SliceStable(asc, func(i, j int) bool {
		if asc[i].ChangePct != asc[j].ChangePct {
			return asc[i].ChangePct < asc[j].ChangePct
		}
		return asc[i].Symbol < asc[j].Symbol
	})

	n := min(k, len(records))
	report.Gainers = desc[:n]
	report.Losers = asc[:n]
	return report
}
