// Package tokenizer splits statement text into column-major raw cells.
//
// Tokenization never fails: malformed or empty input yields a table with no
// columns. Each data row gets a models.RowID equal to its position among the
// data rows, and every cell carries that identifier so that rows of unequal
// length stay correlated by row rather than by position within a column.
package tokenizer

import (
	"sort"
	"strings"

	"fjacquet/statement-report/internal/logging"
	"fjacquet/statement-report/internal/models"
)

const (
	// DefaultRowSeparator separates the rows of a statement export.
	DefaultRowSeparator = "\r\n"
	// DefaultDelimiter separates the fields of a row.
	DefaultDelimiter = ";"
)

// Options controls how statement text is split.
type Options struct {
	RowSeparator string
	Delimiter    string
}

// DefaultOptions returns the CRLF / semicolon layout of bank statement exports.
func DefaultOptions() Options {
	return Options{RowSeparator: DefaultRowSeparator, Delimiter: DefaultDelimiter}
}

func (o Options) withDefaults() Options {
	if o.RowSeparator == "" {
		o.RowSeparator = DefaultRowSeparator
	}
	if o.Delimiter == "" {
		o.Delimiter = DefaultDelimiter
	}
	return o
}

// Tokenizer turns statement text into a models.Table.
type Tokenizer struct {
	opts   Options
	logger logging.Logger
}

// New creates a Tokenizer. Empty option fields fall back to the defaults.
func New(opts Options, logger logging.Logger) *Tokenizer {
	return &Tokenizer{
		opts:   opts.withDefaults(),
		logger: logging.OrDefault(logger),
	}
}

// Tokenize splits text with the default options and no logging.
func Tokenize(text string, hasHeaders bool) models.Table {
	return New(DefaultOptions(), logging.NewDiscardLogger()).Tokenize(text, hasHeaders)
}

// Options returns the effective options of the tokenizer.
func (t *Tokenizer) Options() Options {
	return t.opts
}

// Tokenize splits text into rows and fields, transposes them into columns
// and drops columns whose cells are all empty after normalization.
func (t *Tokenizer) Tokenize(text string, hasHeaders bool) models.Table {
	rows := strings.Split(text, t.opts.RowSeparator)

	headers := make(map[int]string)
	if hasHeaders {
		for i, h := range strings.Split(rows[0], t.opts.Delimiter) {
			headers[i] = NormalizeCell(h)
		}
		rows = rows[1:]
	}

	byIndex := make(map[int][]models.Cell)
	for r, row := range rows {
		// A blank line, such as the one after a trailing separator, has no
		// fields but still takes up its row identifier.
		if row == "" {
			continue
		}
		for i, field := range strings.Split(row, t.opts.Delimiter) {
			byIndex[i] = append(byIndex[i], models.Cell{
				Row:   models.RowID(r),
				Value: NormalizeCell(field),
			})
		}
	}

	indices := make([]int, 0, len(byIndex))
	for i := range byIndex {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	columns := make([]models.RawColumn, 0, len(indices))
	blank := 0
	for _, i := range indices {
		col := models.RawColumn{Index: i, Cells: byIndex[i]}
		if col.IsBlank() {
			blank++
			continue
		}
		columns = append(columns, col)
	}

	t.logger.Debug("Tokenized statement",
		logging.F(logging.FieldCount, len(rows)),
		logging.F("columns", len(columns)),
		logging.F("blank_columns", blank),
		logging.F(logging.FieldDelimiter, t.opts.Delimiter))

	return models.Table{
		Headers:  headers,
		Columns:  columns,
		RowCount: len(rows),
	}
}
