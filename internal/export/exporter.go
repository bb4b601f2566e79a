package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fjacquet/statement-report/internal/config"
	"fjacquet/statement-report/internal/currencyutils"
	"fjacquet/statement-report/internal/dateutils"
	"fjacquet/statement-report/internal/fileutils"
	"fjacquet/statement-report/internal/logging"
	"fjacquet/statement-report/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

// DefaultDelimiter separates CSV fields, matching the statement exports.
const DefaultDelimiter = ';'

// csvRow is the CSV form of a TypedRow. Dates use DD.MM.YYYY and amounts a
// decimal comma, as in the statements themselves.
type csvRow struct {
	Date   string `csv:"Date"`
	Payer  string `csv:"Payer"`
	Amount string `csv:"Amount"`
	Info   string `csv:"Info"`
}

func toCSVRow(r models.TypedRow) csvRow {
	parts := make([]string, 0, len(r.Extra))
	for _, f := range r.Extra {
		parts = append(parts, f.Label+": "+f.Value)
	}
	return csvRow{
		Date:   dateutils.FormatStatementDate(r.Date),
		Payer:  r.Payer,
		Amount: currencyutils.FormatAmount(r.Amount),
		Info:   strings.Join(parts, " | "),
	}
}

// Exporter writes reports in the supported formats.
type Exporter struct {
	delimiter rune
	logger    logging.Logger
}

// NewExporter creates an Exporter using the default CSV delimiter.
func NewExporter(logger logging.Logger) *Exporter {
	return &Exporter{
		delimiter: DefaultDelimiter,
		logger:    logging.OrDefault(logger),
	}
}

// WithDelimiter returns a copy of e writing CSV fields separated by d.
func (e *Exporter) WithDelimiter(d rune) *Exporter {
	c := *e
	c.delimiter = d
	return &c
}

// Write renders report in format to w.
func (e *Exporter) Write(w io.Writer, format string, report Report) error {
	switch strings.ToLower(format) {
	case config.FormatJSON:
		return e.WriteJSON(w, report)
	case config.FormatCSV:
		return e.WriteCSV(w, report.Rows)
	case config.FormatXLSX:
		return e.WriteXLSX(w, report)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// ExportFile renders report in format to filePath, creating parent
// directories as needed.
func (e *Exporter) ExportFile(filePath, format string, report Report) error {
	file, err := fileutils.CreateFile(filePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			e.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := e.Write(file, format, report); err != nil {
		e.logger.WithError(err).Error("Failed to export report",
			logging.F(logging.FieldOutputFile, filePath),
			logging.F(logging.FieldFormat, format))
		return err
	}

	e.logger.Info("Exported report",
		logging.F(logging.FieldOutputFile, filePath),
		logging.F(logging.FieldFormat, format),
		logging.F(logging.FieldCount, len(report.Rows)))
	return nil
}

// WriteJSON writes the report as indented JSON.
func (e *Exporter) WriteJSON(w io.Writer, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}

// WriteCSV writes the rows with a header line.
func (e *Exporter) WriteCSV(w io.Writer, rows []models.TypedRow) error {
	out := make([]csvRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, toCSVRow(r))
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = e.delimiter
	if err := gocsv.MarshalCSV(out, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// Sheet names of the XLSX export.
const (
	SheetPayers   = "Payers"
	SheetMonthly  = "Monthly"
	SheetPayments = "Payments"
)

// WriteXLSX writes a workbook with one sheet of payer totals, one of
// per-year month totals per payer and one of all payments.
func (e *Exporter) WriteXLSX(w io.Writer, report Report) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetPayers); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for _, name := range []string{SheetMonthly, SheetPayments} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	payers := [][]interface{}{{"Payer", "Total", "Payments"}}
	for _, g := range report.Groups {
		payers = append(payers, []interface{}{g.Payer, g.Total, g.Count})
	}
	if err := writeRows(f, SheetPayers, payers); err != nil {
		return err
	}

	monthly := [][]interface{}{{"Payer", "Year", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}}
	for _, g := range report.Groups {
		for _, year := range g.Years.Years() {
			line := []interface{}{g.Payer, year}
			for m := 1; m <= 12; m++ {
				line = append(line, g.Years[year][m])
			}
			monthly = append(monthly, line)
		}
	}
	if err := writeRows(f, SheetMonthly, monthly); err != nil {
		return err
	}

	payments := [][]interface{}{{"Date", "Payer", "Amount", "Info"}}
	for _, r := range report.Rows {
		c := toCSVRow(r)
		payments = append(payments, []interface{}{c.Date, r.Payer, r.Amount, c.Info})
	}
	if err := writeRows(f, SheetPayments, payments); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
