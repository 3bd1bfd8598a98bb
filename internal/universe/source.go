package universe

import (
	"context"
	"fmt"
	"strings"
)

// Source yields raw symbol strings for one index or list.
type Source interface {
	Fetch(ctx context.Context) ([]string, error)
	Name() string
}

// StaticSource returns a fixed symbol list. It backs the fallback universe.
type StaticSource struct {
	Label   string
	Symbols []string
}

func (s *StaticSource) Name() string { return s.Label }

func (s *StaticSource) Fetch(_ context.Context) ([]string, error) {
	out := make([]string, len(s.Symbols))
	copy(out, s.Symbols)
	return out, nil
}

// FetchError means no universe could be obtained from any configured source.
type FetchError struct {
	Errs []error
}

func (e *FetchError) Error() string {
	if len(e.Errs) == 0 {
		return "universe fetch: no symbols"
	}
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("universe fetch: %s", strings.Join(msgs, "; "))
}

func (e *FetchError) Unwrap() []error { return e.Errs }
