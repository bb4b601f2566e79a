// Package classifier assigns semantic roles to the columns of a tokenized
// statement.
//
// The recipient, date and amount roles are single-owner slots: each holds at
// most one column index, so assigning one of them to a column moves it away
// from whichever column held it before. Any number of columns may carry
// auxiliary CommonInfo labels. Columns nobody classified stay unset.
package classifier

import (
	"fmt"
	"sort"

	"fjacquet/statement-report/internal/logging"
	"fjacquet/statement-report/internal/models"
)

// Classifier holds the role of every column of one statement.
type Classifier struct {
	known   map[int]bool
	headers map[int]string
	owners  map[models.RoleKind]int
	info    map[int]string
	logger  logging.Logger
}

// New creates a Classifier for the columns of table with every column unset.
func New(table models.Table, logger logging.Logger) *Classifier {
	c := &Classifier{
		known:   make(map[int]bool, len(table.Columns)),
		headers: make(map[int]string, len(table.Headers)),
		owners:  make(map[models.RoleKind]int, len(models.SingletonKinds)),
		info:    make(map[int]string),
		logger:  logging.OrDefault(logger),
	}
	for _, col := range table.Columns {
		c.known[col.Index] = true
	}
	for i, h := range table.Headers {
		c.headers[i] = h
	}
	return c
}

// Columns returns the classifiable column indices in ascending order.
func (c *Classifier) Columns() []int {
	out := make([]int, 0, len(c.known))
	for i := range c.known {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// AssignRole sets the role of column. Assigning a singleton role clears it
// from the column that held it before. An empty CommonInfo label defaults to
// the column header.
func (c *Classifier) AssignRole(column int, role models.ColumnRole) error {
	if !c.known[column] {
		return fmt.Errorf("unknown column %d", column)
	}

	c.release(column)

	switch {
	case role.Kind.IsSingleton():
		if prev, ok := c.owners[role.Kind]; ok && prev != column {
			c.logger.Debug("Role moved to another column",
				logging.F(logging.FieldRole, role.Kind.String()),
				logging.F("from_column", prev),
				logging.F(logging.FieldColumn, column))
		}
		c.owners[role.Kind] = column
	case role.Kind == models.RoleCommonInfo:
		label := role.Label
		if label == "" {
			label = c.DefaultLabel(column)
		}
		c.info[column] = label
	case role.Kind == models.RoleUnset:
	default:
		return fmt.Errorf("unsupported role %s", role.Kind)
	}
	return nil
}

// ClearRole returns column to the unset state.
func (c *Classifier) ClearRole(column int) error {
	if !c.known[column] {
		return fmt.Errorf("unknown column %d", column)
	}
	c.release(column)
	return nil
}

// SetCommonInfoLabel renames an auxiliary column. It fails unless the
// column currently holds the CommonInfo role.
func (c *Classifier) SetCommonInfoLabel(column int, label string) error {
	if _, ok := c.info[column]; !ok {
		return fmt.Errorf("column %d is not an info column (role %s)", column, c.Role(column))
	}
	c.info[column] = label
	return nil
}

// Role returns the current role of column.
func (c *Classifier) Role(column int) models.ColumnRole {
	for _, kind := range models.SingletonKinds {
		if owner, ok := c.owners[kind]; ok && owner == column {
			return models.ColumnRole{Kind: kind}
		}
	}
	if label, ok := c.info[column]; ok {
		return models.CommonInfo(label)
	}
	return models.Unset
}

// Roles returns the role of every known column.
func (c *Classifier) Roles() map[int]models.ColumnRole {
	out := make(map[int]models.ColumnRole, len(c.known))
	for i := range c.known {
		out[i] = c.Role(i)
	}
	return out
}

// Owner returns the column holding a singleton role.
func (c *Classifier) Owner(kind models.RoleKind) (int, bool) {
	col, ok := c.owners[kind]
	return col, ok
}

// InfoColumns returns the CommonInfo columns in ascending index order.
func (c *Classifier) InfoColumns() []int {
	out := make([]int, 0, len(c.info))
	for i := range c.info {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// IsComplete reports whether each of the recipient, date and amount roles
// is held by a column.
func (c *Classifier) IsComplete() bool {
	return len(c.Missing()) == 0
}

// Missing lists the singleton roles no column holds yet.
func (c *Classifier) Missing() []models.RoleKind {
	var missing []models.RoleKind
	for _, kind := range models.SingletonKinds {
		if _, ok := c.owners[kind]; !ok {
			missing = append(missing, kind)
		}
	}
	return missing
}

// DefaultLabel is the CommonInfo label used when none is supplied: the
// column header, or "Column N" (1-based) for statements without headers.
func (c *Classifier) DefaultLabel(column int) string {
	if h := c.headers[column]; h != "" {
		return h
	}
	return fmt.Sprintf("Column %d", column+1)
}

// Apply assigns roles in ascending column order. Unknown columns are
// skipped and reported in the returned error; the remaining roles are
// still applied.
func (c *Classifier) Apply(roles map[int]models.ColumnRole) error {
	indices := make([]int, 0, len(roles))
	for i := range roles {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	var firstErr error
	for _, i := range indices {
		if err := c.AssignRole(i, roles[i]); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// release drops whatever role column holds.
func (c *Classifier) release(column int) {
	for kind, owner := range c.owners {
		if owner == column {
			delete(c.owners, kind)
		}
	}
	delete(c.info, column)
}
