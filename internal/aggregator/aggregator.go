// Package aggregator derives the grouped and time-bucketed views of a report.
//
// All functions are pure: they hold no state and are cheap enough at
// statement scale to be recomputed on every request.
package aggregator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"fjacquet/statement-report/internal/currencyutils"
	"fjacquet/statement-report/internal/dateutils"
	"fjacquet/statement-report/internal/logging"
	"fjacquet/statement-report/internal/models"
)

// EmptyQuotedPayer is the payer text left by an empty quoted cell. Rows
// carrying it have no payer and are never grouped.
const EmptyQuotedPayer = `""`

// GroupByPayer groups rows by exact payer text, ordered by ascending total
// amount. Groups with equal totals are ordered by payer. Rows keep their
// input order inside a group.
func GroupByPayer(rows []models.TypedRow) []models.PayerGroup {
	index := make(map[string]int)
	var groups []models.PayerGroup
	var totals []currencyutils.Accumulator

	for _, row := range rows {
		if row.Payer == EmptyQuotedPayer {
			continue
		}
		i, ok := index[row.Payer]
		if !ok {
			i = len(groups)
			index[row.Payer] = i
			groups = append(groups, models.PayerGroup{Payer: row.Payer})
			totals = append(totals, currencyutils.Accumulator{})
		}
		groups[i].Rows = append(groups[i].Rows, row)
		totals[i].Add(row.Amount)
	}

	for i := range groups {
		groups[i].TotalAmount = totals[i].Float64()
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].TotalAmount != groups[j].TotalAmount {
			return groups[i].TotalAmount < groups[j].TotalAmount
		}
		return groups[i].Payer < groups[j].Payer
	})
	return groups
}

// ToYearlyBuckets sums amounts per UTC calendar month for every year that
// has at least one row. Every year holds all twelve months, zero-filled.
func ToYearlyBuckets(rows []models.TypedRow) models.YearBucket {
	sums := make(map[int]map[int]*currencyutils.Accumulator)
	for _, row := range rows {
		year, month := dateutils.YearMonth(row.Date)
		months, ok := sums[year]
		if !ok {
			months = make(map[int]*currencyutils.Accumulator, 12)
			for m := 1; m <= 12; m++ {
				months[m] = &currencyutils.Accumulator{}
			}
			sums[year] = months
		}
		months[month].Add(row.Amount)
	}

	buckets := make(models.YearBucket, len(sums))
	for year, months := range sums {
		out := make(map[int]float64, 12)
		for m, acc := range months {
			out[m] = acc.Float64()
		}
		buckets[year] = out
	}
	return buckets
}

// FindGroup returns the group of payer.
func FindGroup(groups []models.PayerGroup, payer string) (models.PayerGroup, bool) {
	for _, g := range groups {
		if g.Payer == payer {
			return g, true
		}
	}
	return models.PayerGroup{}, false
}

// DateRange is the span of booking dates covered by a set of rows.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsZero reports whether the range is empty.
func (dr DateRange) IsZero() bool {
	return dr.Start.IsZero() || dr.End.IsZero()
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s", dateutils.ToISODate(dr.Start), dateutils.ToISODate(dr.End))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start, end := dr.Start, dr.End
	if start.IsZero() || (!other.Start.IsZero() && other.Start.Before(start)) {
		start = other.Start
	}
	if end.IsZero() || (!other.End.IsZero() && other.End.After(end)) {
		end = other.End
	}
	return DateRange{Start: start, End: end}
}

// CalculateDateRange returns the earliest and latest date of rows.
func CalculateDateRange(rows []models.TypedRow) DateRange {
	var dr DateRange
	for _, row := range rows {
		dr = dr.Merge(DateRange{Start: row.Date, End: row.Date})
	}
	return dr
}

// Duplicate is a pair of rows that look like the same payment booked twice.
type Duplicate struct {
	First  models.TypedRow
	Second models.TypedRow
}

// DetectDuplicates pairs rows with the same calendar date, amount and payer
// (compared case-insensitively, ignoring surrounding space). Each row is
// reported at most once, paired with its earliest match.
func DetectDuplicates(rows []models.TypedRow) []Duplicate {
	var out []Duplicate
	for i := 0; i < len(rows)-1; i++ {
		for j := i + 1; j < len(rows); j++ {
			if arePotentialDuplicates(rows[i], rows[j]) {
				out = append(out, Duplicate{First: rows[i], Second: rows[j]})
				break
			}
		}
	}
	return out
}

func arePotentialDuplicates(a, b models.TypedRow) bool {
	if dateutils.CompareDates(a.Date, b.Date) != 0 {
		return false
	}
	if a.Amount != b.Amount {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(a.Payer), strings.TrimSpace(b.Payer))
}

// Summary is the headline view of a report.
type Summary struct {
	Rows       int       `json:"rows"`
	Payers     int       `json:"payers"`
	Total      float64   `json:"total"` // sum over payer groups
	Range      DateRange `json:"range"`
	Duplicates int       `json:"duplicates"`
}

// Aggregator computes report summaries and logs what it finds.
type Aggregator struct {
	logger logging.Logger
}

// NewAggregator creates an Aggregator.
func NewAggregator(logger logging.Logger) *Aggregator {
	return &Aggregator{logger: logging.OrDefault(logger)}
}

// Summarize computes the summary of rows. Potential duplicates are logged
// as warnings but kept.
func (a *Aggregator) Summarize(rows []models.TypedRow) Summary {
	groups := GroupByPayer(rows)
	var total currencyutils.Accumulator
	for _, g := range groups {
		total.Add(g.TotalAmount)
	}

	dups := DetectDuplicates(rows)
	for _, d := range dups {
		a.logger.Warn("Potential duplicate payment",
			logging.F(logging.FieldPayer, d.First.Payer),
			logging.F("date", dateutils.ToISODate(d.First.Date)),
			logging.F("amount", d.First.Amount))
	}

	s := Summary{
		Rows:       len(rows),
		Payers:     len(groups),
		Total:      total.Float64(),
		Range:      CalculateDateRange(rows),
		Duplicates: len(dups),
	}
	a.logger.Info("Summarized report",
		logging.F(logging.FieldCount, s.Rows),
		logging.F("payers", s.Payers),
		logging.F("range", s.Range.String()))
	return s
}
