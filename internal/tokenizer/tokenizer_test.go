package tokenizer

import (
	"testing"

	"fjacquet/statement-report/internal/logging"
	"fjacquet/statement-report/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCell(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "quoted value is unwrapped", raw: `"Bob"`, want: "Bob"},
		{name: "escaped quote is decoded", raw: `"say \"hi\""`, want: `say "hi"`},
		{name: "backslash escape is decoded", raw: `"a\\b"`, want: `a\b`},
		{name: "plain text is kept", raw: "Bob", want: "Bob"},
		{name: "empty quotes are kept", raw: `""`, want: `""`},
		{name: "empty cell stays empty", raw: "", want: ""},
		{name: "unterminated quote is kept", raw: `"Bob`, want: `"Bob`},
		{name: "number is kept", raw: "100,50", want: "100,50"},
		{name: "invalid escape is kept", raw: `"a\qb"`, want: `"a\qb"`},
		{name: "inner quotes without wrapping are kept", raw: `Bob "the builder"`, want: `Bob "the builder"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCell(tt.raw))
		})
	}
}

func TestNormalizeCell_Idempotent(t *testing.T) {
	for _, s := range []string{"Bob", "10.01.2024", "100,50", "", `""`, "Miete Januar", "ä ö ü"} {
		once := NormalizeCell(s)
		assert.Equal(t, s, once)
		assert.Equal(t, once, NormalizeCell(once))
	}
}

func TestTokenize_NoHeaders(t *testing.T) {
	table := Tokenize("Bob;10.01.2024;100,50\r\nBob;15.02.2024;50,00", false)

	assert.Empty(t, table.Headers)
	assert.Equal(t, 2, table.RowCount)
	require.Len(t, table.Columns, 3)

	assert.Equal(t, 0, table.Columns[0].Index)
	assert.Equal(t, []string{"Bob", "Bob"}, table.Columns[0].Values())
	assert.Equal(t, []string{"10.01.2024", "15.02.2024"}, table.Columns[1].Values())
	assert.Equal(t, []string{"100,50", "50,00"}, table.Columns[2].Values())
	assert.Equal(t, models.RowID(1), table.Columns[2].Cells[1].Row)
}

func TestTokenize_WithHeaders(t *testing.T) {
	text := "\"Empfänger\";\"Datum\";\"Betrag\"\r\n\"Bob\";\"10.01.2024\";\"100,50\""
	table := Tokenize(text, true)

	assert.Equal(t, map[int]string{0: "Empfänger", 1: "Datum", 2: "Betrag"}, table.Headers)
	assert.Equal(t, 1, table.RowCount)
	require.Len(t, table.Columns, 3)
	assert.Equal(t, "Bob", table.Columns[0].Cells[0].Value)
	assert.Equal(t, models.RowID(0), table.Columns[0].Cells[0].Row)
	assert.Equal(t, "Betrag", table.Header(2))
}

func TestTokenize_DropsBlankColumns(t *testing.T) {
	table := Tokenize("Bob;;10.01.2024;\r\nAlice;;11.01.2024;", false)

	require.Len(t, table.Columns, 2)
	assert.Equal(t, 0, table.Columns[0].Index)
	assert.Equal(t, 2, table.Columns[1].Index, "indices stay stable after filtering")

	_, ok := table.Column(1)
	assert.False(t, ok)
}

func TestTokenize_EmptyInput(t *testing.T) {
	assert.Empty(t, Tokenize("", false).Columns)
	assert.Empty(t, Tokenize("", true).Columns)
	assert.Empty(t, Tokenize(";;;\r\n;;", false).Columns)
}

func TestTokenize_RaggedRows(t *testing.T) {
	table := Tokenize("Bob;10.01.2024;100,50\r\nShort\r\nAlice;12.01.2024;20,00;note", false)

	require.Len(t, table.Columns, 4)
	amounts := table.Columns[2]
	require.Len(t, amounts.Cells, 2, "short row contributes no cell")
	assert.Equal(t, models.RowID(0), amounts.Cells[0].Row)
	assert.Equal(t, models.RowID(2), amounts.Cells[1].Row, "row identity survives the gap")

	notes := table.Columns[3]
	require.Len(t, notes.Cells, 1)
	assert.Equal(t, models.RowID(2), notes.Cells[0].Row)
}

func TestTokenize_OnlySplitsOnCRLF(t *testing.T) {
	table := Tokenize("Bob;1\nAlice;2", false)

	require.Len(t, table.Columns, 3)
	assert.Equal(t, 1, table.RowCount)
	assert.Equal(t, "1\nAlice", table.Columns[1].Cells[0].Value)
}

func TestTokenizer_CustomOptions(t *testing.T) {
	tok := New(Options{RowSeparator: "\n", Delimiter: ","}, logging.NewMockLogger())
	table := tok.Tokenize("payee,date\nBob,10.01.2024\n", true)

	assert.Equal(t, "payee", table.Headers[0])
	require.Len(t, table.Columns, 2)
	assert.Equal(t, []string{"Bob"}, table.Columns[0].Values())
}

func TestTokenize_BlankLinesHaveNoCells(t *testing.T) {
	table := Tokenize("Bob;10.01.2024\r\n\r\nAlice;11.01.2024\r\n", false)

	assert.Equal(t, 4, table.RowCount)
	require.Len(t, table.Columns, 2)
	payers := table.Columns[0]
	require.Len(t, payers.Cells, 2)
	assert.Equal(t, models.RowID(0), payers.Cells[0].Row)
	assert.Equal(t, models.RowID(2), payers.Cells[1].Row)
}

func TestNew_DefaultsEmptyOptions(t *testing.T) {
	tok := New(Options{}, nil)
	assert.Equal(t, DefaultOptions(), tok.Options())
}

func TestTokenizer_LogsSummary(t *testing.T) {
	mock := logging.NewMockLogger()
	New(DefaultOptions(), mock).Tokenize("a;b", false)

	entries := mock.GetEntriesByLevel("DEBUG")
	require.Len(t, entries, 1)
	v, ok := entries[0].FieldValue("columns")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}
