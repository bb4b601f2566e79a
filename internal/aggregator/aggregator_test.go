package aggregator

import (
	"math/rand"
	"testing"
	"time"

	"fjacquet/statement-report/internal/assembler"
	"fjacquet/statement-report/internal/logging"
	"fjacquet/statement-report/internal/models"
	"fjacquet/statement-report/internal/tokenizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func row(payer string, date time.Time, amount float64) models.TypedRow {
	return models.TypedRow{Payer: payer, Date: date, Amount: amount}
}

type fixedRoles map[int]models.ColumnRole

func (f fixedRoles) Role(column int) models.ColumnRole { return f[column] }

func TestStatementToGroupsAndBuckets(t *testing.T) {
	table := tokenizer.Tokenize("Bob;10.01.2024;100,50\r\nBob;15.02.2024;50,00", false)
	result := assembler.Assemble(table.Columns, fixedRoles{
		0: models.PaymentRecipient(),
		1: models.PaymentDate(),
		2: models.PaymentAmount(),
	})

	groups := GroupByPayer(result.Ordered())
	require.Len(t, groups, 1)
	assert.Equal(t, "Bob", groups[0].Payer)
	assert.Equal(t, 150.5, groups[0].TotalAmount)
	assert.Len(t, groups[0].Rows, 2)

	buckets := ToYearlyBuckets(groups[0].Rows)
	require.Len(t, buckets, 1)
	year := buckets[2024]
	require.Len(t, year, 12)
	assert.Equal(t, 100.5, year[1])
	assert.Equal(t, 50.0, year[2])
	for m := 3; m <= 12; m++ {
		assert.Equal(t, 0.0, year[m], "month %d", m)
	}
}

func TestStatementWithOverflowingAmount(t *testing.T) {
	table := tokenizer.Tokenize("Bob;10.01.2024;1e400\r\nBob;11.01.2024;5,00", false)
	result := assembler.Assemble(table.Columns, fixedRoles{
		0: models.PaymentRecipient(),
		1: models.PaymentDate(),
		2: models.PaymentAmount(),
	})

	var groups []models.PayerGroup
	require.NotPanics(t, func() { groups = GroupByPayer(result.Ordered()) })
	require.Len(t, groups, 1)
	assert.Equal(t, 5.0, groups[0].TotalAmount)

	require.NotPanics(t, func() {
		s := NewAggregator(logging.NewDiscardLogger()).Summarize(result.Ordered())
		assert.Equal(t, 1, s.Rows)
	})
	assert.Equal(t, 5.0, ToYearlyBuckets(groups[0].Rows)[2024][1])
}

func TestGroupByPayer_OrderedByTotal(t *testing.T) {
	rows := []models.TypedRow{
		row("Rent", day(2024, 1, 1), -900),
		row("Salary", day(2024, 1, 25), 3000),
		row("Grocer", day(2024, 1, 3), -40.1),
		row("Grocer", day(2024, 1, 10), -59.9),
		row("Cafe", day(2024, 1, 4), 3),
		row("Bakery", day(2024, 1, 5), 3),
	}

	groups := GroupByPayer(rows)
	payers := make([]string, len(groups))
	for i, g := range groups {
		payers[i] = g.Payer
	}

	assert.Equal(t, []string{"Rent", "Grocer", "Bakery", "Cafe", "Salary"}, payers)
	grocer, ok := FindGroup(groups, "Grocer")
	require.True(t, ok)
	assert.Equal(t, -100.0, grocer.TotalAmount)
	assert.Equal(t, day(2024, 1, 3), grocer.Rows[0].Date, "input order kept within group")

	_, ok = FindGroup(groups, "Nobody")
	assert.False(t, ok)
}

func TestGroupByPayer_ExactMatch(t *testing.T) {
	groups := GroupByPayer([]models.TypedRow{
		row("Bob", day(2024, 1, 1), 1),
		row("bob", day(2024, 1, 1), 2),
		row("Bob ", day(2024, 1, 1), 3),
	})
	assert.Len(t, groups, 3)
}

func TestGroupByPayer_ExcludesEmptyQuotedPayer(t *testing.T) {
	groups := GroupByPayer([]models.TypedRow{
		row(`""`, day(2024, 1, 1), 10),
		row("Bob", day(2024, 1, 1), 1),
		row(`""`, day(2024, 2, 1), 20),
	})

	require.Len(t, groups, 1)
	assert.Equal(t, "Bob", groups[0].Payer)
	for _, g := range groups {
		for _, r := range g.Rows {
			assert.NotEqual(t, EmptyQuotedPayer, r.Payer)
		}
	}
}

func TestGroupByPayer_Empty(t *testing.T) {
	assert.Empty(t, GroupByPayer(nil))
}

func TestToYearlyBuckets_MultipleYears(t *testing.T) {
	buckets := ToYearlyBuckets([]models.TypedRow{
		row("A", day(2023, 12, 31), 0.1),
		row("A", day(2023, 12, 1), 0.2),
		row("A", day(2025, 6, 15), -5),
	})

	assert.Equal(t, []int{2023, 2025}, buckets.Years())
	assert.Equal(t, 0.3, buckets[2023][12])
	assert.Equal(t, -5.0, buckets[2025][6])
	_, has2024 := buckets[2024]
	assert.False(t, has2024, "years without rows are not invented")
}

func TestToYearlyBuckets_UsesUTC(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	buckets := ToYearlyBuckets([]models.TypedRow{
		row("A", time.Date(2025, 1, 1, 0, 30, 0, 0, cet), 7),
	})

	require.Contains(t, buckets, 2024)
	assert.Equal(t, 7.0, buckets[2024][12])
}

func TestToYearlyBuckets_AlwaysTwelveMonths(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for round := 0; round < 100; round++ {
		var rows []models.TypedRow
		for i := rng.Intn(20); i > 0; i-- {
			rows = append(rows, row("p", day(2000+rng.Intn(5), 1+rng.Intn(12), 1+rng.Intn(28)), float64(rng.Intn(100))))
		}
		for year, months := range ToYearlyBuckets(rows) {
			require.Len(t, months, 12, "year %d", year)
			for m := 1; m <= 12; m++ {
				_, ok := months[m]
				assert.True(t, ok, "year %d month %d", year, m)
			}
		}
	}
}

func TestDateRange(t *testing.T) {
	dr := CalculateDateRange([]models.TypedRow{
		row("A", day(2024, 3, 1), 1),
		row("A", day(2024, 1, 5), 1),
		row("A", day(2024, 2, 1), 1),
	})
	assert.Equal(t, "2024-01-05_2024-03-01", dr.String())

	assert.True(t, CalculateDateRange(nil).IsZero())
	assert.Equal(t, "", DateRange{}.String())

	merged := DateRange{}.Merge(DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 2)})
	assert.Equal(t, day(2024, 1, 1), merged.Start)
}

func TestDetectDuplicates(t *testing.T) {
	rows := []models.TypedRow{
		row("Bob", day(2024, 1, 10), 5),
		row("bob ", day(2024, 1, 10), 5),
		row("Bob", day(2024, 1, 11), 5),
		row("Bob", day(2024, 1, 10), 6),
	}

	dups := DetectDuplicates(rows)
	require.Len(t, dups, 1)
	assert.Equal(t, "bob ", dups[0].Second.Payer)
}

func TestAggregator_Summarize(t *testing.T) {
	mock := logging.NewMockLogger()
	s := NewAggregator(mock).Summarize([]models.TypedRow{
		row("Bob", day(2024, 1, 10), 5),
		row("Bob", day(2024, 1, 10), 5),
		row("Alice", day(2024, 2, 1), -2.5),
		row(`""`, day(2024, 2, 2), 100),
	})

	assert.Equal(t, 4, s.Rows)
	assert.Equal(t, 2, s.Payers)
	assert.Equal(t, 7.5, s.Total)
	assert.Equal(t, 1, s.Duplicates)
	assert.Equal(t, "2024-01-10_2024-02-02", s.Range.String())
	assert.Len(t, mock.GetEntriesByLevel("WARN"), 1)
}
