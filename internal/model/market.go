package model

import "time"

// PricePoint is a single closing price observation.
type PricePoint struct {
	Time  time.Time
	Close float64
}

// PriceSeries holds closing prices for one symbol, oldest first.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

// First returns the earliest observation. The series must not be empty.
func (s PriceSeries) First() PricePoint { return s.Points[0] }

// Last returns the latest observation. The series must not be empty.
func (s PriceSeries) Last() PricePoint { return s.Points[len(s.Points)-1] }

// Len returns the number of observations.
func (s PriceSeries) Len() int { return len(s.Points) }

// SeriesResult is what a price provider returns for one requested symbol:
// either a series or the reason it could not produce one.
type SeriesResult struct {
	Series PriceSeries
	Err    error
}
