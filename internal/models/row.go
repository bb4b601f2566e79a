package models

import "time"

// InfoField is one auxiliary value of a row, labelled by its column.
type InfoField struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// TypedRow is a fully parsed payment. Row only correlates the partial field
// parses during assembly; two TypedRows are the same payment when payer,
// date, amount and extra match.
type TypedRow struct {
	Row    RowID       `json:"-" yaml:"-"`
	Payer  string      `json:"payer" yaml:"payer"`
	Date   time.Time   `json:"date" yaml:"date"`
	Amount float64     `json:"amount" yaml:"amount"`
	Extra  []InfoField `json:"extra" yaml:"extra"`
}

// Info returns the value of the first auxiliary field with label.
func (r TypedRow) Info(label string) (string, bool) {
	for _, f := range r.Extra {
		if f.Label == label {
			return f.Value, true
		}
	}
	return "", false
}
