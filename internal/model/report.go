package model

// MoverRecord is one symbol's move over the lookback window.
type MoverRecord struct {
	Symbol     string  `json:"symbol"`
	FirstClose float64 `json:"first_close"`
	LastClose  float64 `json:"last_close"`
	ChangePct  float64 `json:"change_pct"`
}

// RankedReport holds the top gainers (descending change) and the top
// losers (ascending change).
type RankedReport struct {
	Gainers []MoverRecord `json:"gainers"`
	Losers  []MoverRecord `json:"losers"`
	Valid   int           `json:"valid"` // records that passed validation
}
