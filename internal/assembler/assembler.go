// Package assembler turns classified raw columns into typed payment rows.
//
// Every column is parsed on its own according to its role, producing one
// partial map per field keyed by models.RowID. A TypedRow is emitted for a
// row only when the payer, date and amount maps all hold an entry for it;
// a row missing any of the three is left out of the result. Parse failures
// never surface as errors. They are reported through Result.Diagnostics and
// Result.Dropped alongside the rows.
package assembler

import (
	"sort"
	"time"

	"fjacquet/statement-report/internal/currencyutils"
	"fjacquet/statement-report/internal/dateutils"
	"fjacquet/statement-report/internal/logging"
	"fjacquet/statement-report/internal/models"
	"fjacquet/statement-report/internal/parsererror"
)

// Field names used in diagnostics.
const (
	FieldPayer  = "payer"
	FieldDate   = "date"
	FieldAmount = "amount"
)

// RoleSource supplies the role of each column. *classifier.Classifier
// implements it.
type RoleSource interface {
	Role(column int) models.ColumnRole
}

// Diagnostic describes one cell that could not be parsed for its role.
type Diagnostic struct {
	Row    models.RowID `json:"row"`
	Column int          `json:"column"`
	Field  string       `json:"field"`
	Value  string       `json:"value"`
	Reason string       `json:"reason"`
	Err    error        `json:"-"`
}

// DroppedRow is a row that appeared in the statement but produced no
// TypedRow, with the required fields it lacked.
type DroppedRow struct {
	Row     models.RowID `json:"row"`
	Missing []string     `json:"missing"`
}

// Result is the outcome of an assembly.
type Result struct {
	Rows        map[models.RowID]models.TypedRow
	Diagnostics []Diagnostic
	Dropped     []DroppedRow
}

// Ordered returns the assembled rows sorted by row identifier.
func (r Result) Ordered() []models.TypedRow {
	ids := make([]models.RowID, 0, len(r.Rows))
	for id := range r.Rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]models.TypedRow, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.Rows[id])
	}
	return out
}

// partials holds the per-field parses of one statement.
type partials struct {
	payers  map[models.RowID]string
	dates   map[models.RowID]time.Time
	amounts map[models.RowID]float64
	info    map[models.RowID][]models.InfoField
	seen    map[models.RowID]bool
}

// Assembler joins per-column parses into typed rows.
type Assembler struct {
	logger logging.Logger
}

// New creates an Assembler.
func New(logger logging.Logger) *Assembler {
	return &Assembler{logger: logging.OrDefault(logger)}
}

// Assemble parses columns with the given roles and joins them by row.
func Assemble(columns []models.RawColumn, roles RoleSource) Result {
	return New(logging.NewDiscardLogger()).Assemble(columns, roles)
}

// Assemble parses columns with the given roles and joins them by row.
func (a *Assembler) Assemble(columns []models.RawColumn, roles RoleSource) Result {
	p := partials{
		payers:  make(map[models.RowID]string),
		dates:   make(map[models.RowID]time.Time),
		amounts: make(map[models.RowID]float64),
		info:    make(map[models.RowID][]models.InfoField),
		seen:    make(map[models.RowID]bool),
	}
	var diags []Diagnostic

	sorted := make([]models.RawColumn, len(columns))
	copy(sorted, columns)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	for _, col := range sorted {
		for _, cell := range col.Cells {
			p.seen[cell.Row] = true
		}

		role := roles.Role(col.Index)
		switch role.Kind {
		case models.RolePaymentRecipient:
			diags = append(diags, parsePayers(col, p.payers)...)
		case models.RolePaymentDate:
			diags = append(diags, parseDates(col, p.dates)...)
		case models.RolePaymentAmount:
			diags = append(diags, parseAmounts(col, p.amounts)...)
		case models.RoleCommonInfo:
			for _, cell := range col.Cells {
				p.info[cell.Row] = append(p.info[cell.Row], models.InfoField{Label: role.Label, Value: cell.Value})
			}
		}
	}

	result := join(p)
	result.Diagnostics = diags

	for _, d := range diags {
		a.logger.Debug("Cell rejected",
			logging.F(logging.FieldRow, int(d.Row)),
			logging.F(logging.FieldColumn, d.Column),
			logging.F(logging.FieldField, d.Field),
			logging.F(logging.FieldReason, d.Reason))
	}
	if len(result.Dropped) > 0 {
		a.logger.Info("Rows dropped during assembly",
			logging.F(logging.FieldDropped, len(result.Dropped)),
			logging.F(logging.FieldCount, len(result.Rows)))
	} else {
		a.logger.Debug("Assembled rows", logging.F(logging.FieldCount, len(result.Rows)))
	}
	return result
}

// join emits a row for every identifier present in payers, dates and amounts.
func join(p partials) Result {
	rows := make(map[models.RowID]models.TypedRow)
	for id, payer := range p.payers {
		date, ok := p.dates[id]
		if !ok {
			continue
		}
		amount, ok := p.amounts[id]
		if !ok {
			continue
		}
		extra := p.info[id]
		if extra == nil {
			extra = []models.InfoField{}
		}
		rows[id] = models.TypedRow{
			Row:    id,
			Payer:  payer,
			Date:   date,
			Amount: amount,
			Extra:  extra,
		}
	}

	var dropped []DroppedRow
	for id := range p.seen {
		if _, ok := rows[id]; ok {
			continue
		}
		var missing []string
		if _, ok := p.payers[id]; !ok {
			missing = append(missing, FieldPayer)
		}
		if _, ok := p.dates[id]; !ok {
			missing = append(missing, FieldDate)
		}
		if _, ok := p.amounts[id]; !ok {
			missing = append(missing, FieldAmount)
		}
		dropped = append(dropped, DroppedRow{Row: id, Missing: missing})
	}
	sort.Slice(dropped, func(i, j int) bool { return dropped[i].Row < dropped[j].Row })

	return Result{Rows: rows, Dropped: dropped}
}

func parsePayers(col models.RawColumn, into map[models.RowID]string) []Diagnostic {
	var diags []Diagnostic
	for _, cell := range col.Cells {
		if cell.Value == "" {
			diags = append(diags, newDiagnostic(col.Index, cell, FieldPayer, parsererror.ErrEmptyField))
			continue
		}
		into[cell.Row] = cell.Value
	}
	return diags
}

func parseDates(col models.RawColumn, into map[models.RowID]time.Time) []Diagnostic {
	var diags []Diagnostic
	for _, cell := range col.Cells {
		t, err := dateutils.ParseStatementDate(cell.Value)
		if err != nil {
			diags = append(diags, newDiagnostic(col.Index, cell, FieldDate, err))
			continue
		}
		into[cell.Row] = t
	}
	return diags
}

func parseAmounts(col models.RawColumn, into map[models.RowID]float64) []Diagnostic {
	var diags []Diagnostic
	for _, cell := range col.Cells {
		f, err := currencyutils.ParseAmountFloat(cell.Value)
		if err != nil {
			diags = append(diags, newDiagnostic(col.Index, cell, FieldAmount, err))
			continue
		}
		into[cell.Row] = f
	}
	return diags
}

func newDiagnostic(column int, cell models.Cell, field string, cause error) Diagnostic {
	err := &parsererror.ParseError{Field: field, Value: cell.Value, Err: cause}
	return Diagnostic{
		Row:    cell.Row,
		Column: column,
		Field:  field,
		Value:  cell.Value,
		Reason: err.Error(),
		Err:    err,
	}
}
