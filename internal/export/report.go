// Package export renders a Ready report as JSON, CSV or XLSX.
package export

import (
	"time"

	"fjacquet/statement-report/internal/aggregator"
	"fjacquet/statement-report/internal/assembler"
	"fjacquet/statement-report/internal/models"
)

// GroupReport is one payer with its payments and monthly totals.
type GroupReport struct {
	Payer    string            `json:"payer"`
	Total    float64           `json:"total"`
	Count    int               `json:"count"`
	Years    models.YearBucket `json:"years"`
	Payments []models.TypedRow `json:"payments"`
}

// Report is the exported view of one statement import.
type Report struct {
	SessionID   string                 `json:"session_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Summary     aggregator.Summary     `json:"summary"`
	Groups      []GroupReport          `json:"groups"`
	Rows        []models.TypedRow      `json:"-"`
	Dropped     []assembler.DroppedRow `json:"dropped,omitempty"`
}

// NewReport derives the exported view from an assembly result. Groups are
// ascending by total.
func NewReport(sessionID string, result assembler.Result, summary aggregator.Summary) Report {
	rows := result.Ordered()
	groups := aggregator.GroupByPayer(rows)

	out := Report{
		SessionID:   sessionID,
		GeneratedAt: time.Now().UTC(),
		Summary:     summary,
		Groups:      make([]GroupReport, 0, len(groups)),
		Rows:        rows,
		Dropped:     result.Dropped,
	}
	for _, g := range groups {
		out.Groups = append(out.Groups, GroupReport{
			Payer:    g.Payer,
			Total:    g.TotalAmount,
			Count:    len(g.Rows),
			Years:    aggregator.ToYearlyBuckets(g.Rows),
			Payments: g.Rows,
		})
	}
	return out
}
