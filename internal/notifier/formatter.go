package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/pretty"

	"MarketBriefing/internal/model"
	"MarketBriefing/internal/universe"
)

// Briefing is everything a rendered report shows.
type Briefing struct {
	Date     time.Time               `json:"date"`
	RunID    string                  `json:"run_id"`
	Window   int                     `json:"window_sessions"`
	Indices  []universe.IndexSummary `json:"indices"`
	Fallback bool                    `json:"fallback_universe"`
	Universe int                     `json:"universe_size"`
	Dropped  int                     `json:"dropped"`
	Report   model.RankedReport      `json:"report"`
}

// Subject returns the email subject line for the briefing.
func (b *Briefing) Subject() string {
	return fmt.Sprintf("Market Briefing: %s", b.Date.Format("2006-01-02"))
}

// FormatPrice renders a price with two decimals.
func FormatPrice(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatPct renders a signed percentage with two decimals, e.g. "+10.00%".
func FormatPct(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	s := d.StringFixed(2)
	if d.IsPositive() {
		s = "+" + s
	}
	return s + "%"
}

// FormatText formats the briefing as a plain-text email body.
func FormatText(b *Briefing) string {
	var sb strings.Builder

	sb.WriteString("Hello,\n\n")
	sb.WriteString(fmt.Sprintf("Here is your market update for %s (last %d sessions):\n\n",
		b.Date.Format("2006-01-02"), b.Window))

	for _, idx := range b.Indices {
		if idx.Err != "" {
			sb.WriteString(fmt.Sprintf("%s Fetch Error: %s\n", idx.Name, idx.Err))
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: %d companies listed.\n", idx.Name, idx.Count))
	}
	if b.Fallback {
		sb.WriteString("Index pages unavailable, using the fallback symbol list.\n")
	}
	sb.WriteString(fmt.Sprintf("Ranked %d of %d symbols (%d skipped).\n\n",
		b.Report.Valid, b.Universe, b.Dropped))

	writeTextTable(&sb, "Top gainers", b.Report.Gainers)
	sb.WriteString("\n")
	writeTextTable(&sb, "Top losers", b.Report.Losers)

	sb.WriteString("\nBest regards,\nYour Market Bot\n")
	return sb.String()
}

func writeTextTable(sb *strings.Builder, title string, records []model.MoverRecord) {
	sb.WriteString(title + ":\n")
	if len(records) == 0 {
		sb.WriteString("  (none)\n")
		return
	}
	for i, r := range records {
		sb.WriteString(fmt.Sprintf("  %2d. %-10s %10s  %9s\n", i+1, r.Symbol, FormatPrice(r.LastClose), FormatPct(r.ChangePct)))
	}
}

var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"price": FormatPrice,
	"pct":   FormatPct,
	"inc":   func(i int) int { return i + 1 },
	"date":  func(t time.Time) string { return t.Format("2006-01-02") },
}).Parse(`<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif;">
<h2>Market Briefing {{date .Date}}</h2>
<p>Moves over the last {{.Window}} sessions.</p>
<ul>
{{- range .Indices}}
{{- if .Err}}
<li>{{.Name}} Fetch Error: {{.Err}}</li>
{{- else}}
<li>{{.Name}}: {{.Count}} companies listed.</li>
{{- end}}
{{- end}}
</ul>
{{- if .Fallback}}
<p><em>Index pages unavailable, using the fallback symbol list.</em></p>
{{- end}}
<p>Ranked {{.Report.Valid}} of {{.Universe}} symbols ({{.Dropped}} skipped).</p>
<h3>Top gainers</h3>
{{template "table" .Report.Gainers}}
<h3>Top losers</h3>
{{template "table" .Report.Losers}}
<p style="color:#888;font-size:small;">run {{.RunID}}</p>
</body></html>
{{define "table"}}
{{- if .}}
<table border="1" cellpadding="4" cellspacing="0">
<tr><th>#</th><th>Symbol</th><th>Last</th><th>Change</th></tr>
{{- range $i, $r := .}}
<tr><td>{{inc $i}}</td><td>{{$r.Symbol}}</td><td align="right">{{price $r.LastClose}}</td><td align="right">{{pct $r.ChangePct}}</td></tr>
{{- end}}
</table>
{{- else}}
<p>(none)</p>
{{- end}}
{{end}}`))

// FormatHTML formats the briefing as an HTML email body.
func FormatHTML(b *Briefing) (string, error) {
	var buf bytes.Buffer
	if err := htmlReport.Execute(&buf, b); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

// FormatJSON returns the briefing as indented JSON.
func FormatJSON(b *Briefing) ([]byte, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshal briefing: %w", err)
	}
	return pretty.Pretty(raw), nil
}
