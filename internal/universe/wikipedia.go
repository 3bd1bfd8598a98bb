package universe

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// symbolHeaders are the column headings index pages use for the ticker column.
var symbolHeaders = []string{"symbol", "ticker", "epic", "ticker symbol"}

// WikipediaSource scrapes a symbol column out of an index membership table.
type WikipediaSource struct {
	Label  string
	URL    string
	Table  string // CSS selector for the table; empty scans every wikitable
	Column string // header text of the symbol column; empty tries symbolHeaders
	Client *resty.Client
}

// NewRestyClient builds the HTTP client shared by the scrapers, with optional proxy support.
func NewRestyClient(timeout time.Duration, proxyURL string) *resty.Client {
	c := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "Mozilla/5.0")
	if proxyURL != "" {
		c.SetProxy(proxyURL)
	}
	return c
}

func (w *WikipediaSource) Name() string { return w.Label }

// Fetch downloads the page and returns the raw cell text of the symbol column.
func (w *WikipediaSource) Fetch(ctx context.Context) ([]string, error) {
	resp, err := w.Client.R().SetContext(ctx).Get(w.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch page: %w", w.Label, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s: fetch page: status %d", w.Label, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("%s: parse page: %w", w.Label, err)
	}

	selector := w.Table
	if selector == "" {
		selector = "table.wikitable"
	}

	var symbols []string
	doc.Find(selector).EachWithBreak(func(_ int, table *goquery.Selection) bool {
		col := w.symbolColumn(table)
		if col < 0 {
			return true
		}
		symbols = extractColumn(table, col)
		return len(symbols) == 0
	})
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%s: no symbol column found in %q", w.Label, selector)
	}
	return symbols, nil
}

// symbolColumn returns the index of the symbol column in the table header, or -1.
func (w *WikipediaSource) symbolColumn(table *goquery.Selection) int {
	wanted := symbolHeaders
	if w.Column != "" {
		wanted = []string{strings.ToLower(w.Column)}
	}
	found := -1
	table.Find("tr").First().Find("th").EachWithBreak(func(i int, th *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(th.Text()))
		for _, h := range wanted {
			if text == h {
				found = i
				return false
			}
		}
		return true
	})
	return found
}

func extractColumn(table *goquery.Selection, col int) []string {
	var out []string
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() <= col {
			return
		}
		text := strings.TrimSpace(cells.Eq(col).Text())
		if text != "" {
			out = append(out, text)
		}
	})
	return out
}
