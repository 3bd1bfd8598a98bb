package collector

import "fmt"

// RetrievalError means the provider's batch call failed outright.
type RetrievalError struct {
	Provider string
	Err      error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s retrieval failed: %v", e.Provider, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// Reasons a symbol is dropped from the resolution.
const (
	ReasonFetch     = "fetch"
	ReasonShort     = "short"
	ReasonMalformed = "malformed"
)

// SymbolError records why a single symbol was excluded.
type SymbolError struct {
	Symbol string
	Reason string
	Err    error
}

func (e *SymbolError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Symbol, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", e.Symbol, e.Reason, e.Err)
}

func (e *SymbolError) Unwrap() error { return e.Err }
