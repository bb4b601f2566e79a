// Package session runs one statement import from raw text to a Ready report.
//
// A Session moves through NotAsked, Loading, DefiningColumns and Ready.
// Loading new text always starts over and discards whatever the previous
// import held. Role edits are accepted only while columns are being
// defined; a complete Build moves the session to Ready and releases the raw
// columns. Aggregates are recomputed from the Ready rows on every call.
package session

import (
	"sync"

	"fjacquet/statement-report/internal/aggregator"
	"fjacquet/statement-report/internal/assembler"
	"fjacquet/statement-report/internal/classifier"
	"fjacquet/statement-report/internal/logging"
	"fjacquet/statement-report/internal/models"
	"fjacquet/statement-report/internal/parsererror"
	"fjacquet/statement-report/internal/tokenizer"

	"github.com/google/uuid"
)

// Session is one import pipeline. It is safe for concurrent readers once
// Ready.
type Session struct {
	mu sync.RWMutex

	id         string
	state      models.ReportState
	table      models.Table
	classifier *classifier.Classifier
	result     assembler.Result

	tokenizer *tokenizer.Tokenizer
	assembler *assembler.Assembler
	base      logging.Logger
	logger    logging.Logger
}

// New creates a session in state NotAsked.
func New(opts tokenizer.Options, logger logging.Logger) *Session {
	logger = logging.OrDefault(logger)
	s := &Session{
		tokenizer: tokenizer.New(opts, logger),
		assembler: assembler.New(logger),
		base:      logger,
	}
	s.reset()
	return s
}

// reset starts a fresh import with a new identifier.
func (s *Session) reset() {
	s.id = uuid.New().String()
	s.state = models.NotAsked()
	s.table = models.Table{}
	s.classifier = nil
	s.result = assembler.Result{}
	s.logger = s.base.WithField(logging.FieldSession, s.id)
}

// ID identifies the current import. It changes on every Begin or Load.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// State returns the current state.
func (s *Session) State() models.ReportState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Begin discards the current import and enters Loading while the caller
// reads the statement text.
func (s *Session) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.state = models.Loading()
	s.logger.Debug("Loading statement", logging.F(logging.FieldState, s.state.Kind.String()))
}

// Load tokenizes text and enters DefiningColumns. A Load outside Loading
// starts a fresh import first.
func (s *Session) Load(text string, hasHeaders bool) models.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Kind != models.StateLoading {
		s.reset()
	}

	s.table = s.tokenizer.Tokenize(text, hasHeaders)
	s.classifier = classifier.New(s.table, s.logger)
	s.state = models.DefiningColumns()

	s.logger.Info("Statement loaded",
		logging.F(logging.FieldCount, s.table.RowCount),
		logging.F(logging.FieldColumn, len(s.table.Columns)),
		logging.F(logging.FieldState, s.state.Kind.String()))
	return s.table
}

// Table returns the tokenized statement while columns are being defined.
func (s *Session) Table() (models.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.requireState("inspect columns", models.StateDefiningColumns); err != nil {
		return models.Table{}, err
	}
	return s.table, nil
}

// AssignRole sets the role of column.
func (s *Session) AssignRole(column int, role models.ColumnRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireState("assign a role", models.StateDefiningColumns); err != nil {
		return err
	}
	return s.classifier.AssignRole(column, role)
}

// ClearRole unsets the role of column.
func (s *Session) ClearRole(column int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireState("clear a role", models.StateDefiningColumns); err != nil {
		return err
	}
	return s.classifier.ClearRole(column)
}

// SetCommonInfoLabel renames an auxiliary column.
func (s *Session) SetCommonInfoLabel(column int, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireState("relabel a column", models.StateDefiningColumns); err != nil {
		return err
	}
	return s.classifier.SetCommonInfoLabel(column, label)
}

// ApplyRoles assigns every role of roles. Unknown columns are reported but
// do not stop the others from being applied.
func (s *Session) ApplyRoles(roles map[int]models.ColumnRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireState("apply roles", models.StateDefiningColumns); err != nil {
		return err
	}
	return s.classifier.Apply(roles)
}

// Suggestions proposes roles from the statement headers without applying
// them.
func (s *Session) Suggestions() (map[int]models.ColumnRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.requireState("suggest roles", models.StateDefiningColumns); err != nil {
		return nil, err
	}
	return classifier.Suggest(s.table), nil
}

// ApplySuggestions assigns the roles proposed by Suggestions.
func (s *Session) ApplySuggestions() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireState("apply suggestions", models.StateDefiningColumns); err != nil {
		return err
	}
	suggested := classifier.Suggest(s.table)
	s.logger.Debug("Applying suggested roles", logging.F(logging.FieldCount, len(suggested)))
	return s.classifier.Apply(suggested)
}

// Roles returns the current assignment of every column.
func (s *Session) Roles() (map[int]models.ColumnRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.requireState("read roles", models.StateDefiningColumns); err != nil {
		return nil, err
	}
	return s.classifier.Roles(), nil
}

// IsComplete reports whether recipient, date and amount all have a column.
func (s *Session) IsComplete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.classifier != nil && s.classifier.IsComplete()
}

// Build assembles the classified columns into rows and enters Ready. With
// an incomplete classification it returns ErrIncompleteClassification and
// the session stays in DefiningColumns.
func (s *Session) Build() (assembler.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireState("build the report", models.StateDefiningColumns); err != nil {
		return assembler.Result{}, err
	}
	if !s.classifier.IsComplete() {
		s.logger.Warn("Report requested before classification was complete",
			logging.F("missing", s.classifier.Missing()))
		return assembler.Result{}, parsererror.ErrIncompleteClassification
	}

	s.result = s.assembler.Assemble(s.table.Columns, s.classifier)
	s.state = models.Ready(s.result.Rows)
	s.table = models.Table{}
	s.classifier = nil

	s.logger.Info("Report ready",
		logging.F(logging.FieldCount, len(s.result.Rows)),
		logging.F(logging.FieldDropped, len(s.result.Dropped)),
		logging.F(logging.FieldState, s.state.Kind.String()))
	return s.result, nil
}

// Rows returns the Ready rows ordered by statement row.
func (s *Session) Rows() ([]models.TypedRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.requireState("read rows", models.StateReady); err != nil {
		return nil, err
	}
	return s.result.Ordered(), nil
}

// Result returns the rows and diagnostics of the last Build.
func (s *Session) Result() (assembler.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.requireState("read diagnostics", models.StateReady); err != nil {
		return assembler.Result{}, err
	}
	return s.result, nil
}

// Groups groups the Ready rows by payer, ascending by total.
func (s *Session) Groups() ([]models.PayerGroup, error) {
	rows, err := s.Rows()
	if err != nil {
		return nil, err
	}
	return aggregator.GroupByPayer(rows), nil
}

// Buckets returns the per-year month totals of payer. An unknown payer
// yields an empty bucket.
func (s *Session) Buckets(payer string) (models.YearBucket, error) {
	groups, err := s.Groups()
	if err != nil {
		return nil, err
	}
	group, ok := aggregator.FindGroup(groups, payer)
	if !ok {
		return models.YearBucket{}, nil
	}
	return aggregator.ToYearlyBuckets(group.Rows), nil
}

// Summary summarizes the Ready rows.
func (s *Session) Summary() (aggregator.Summary, error) {
	rows, err := s.Rows()
	if err != nil {
		return aggregator.Summary{}, err
	}
	s.mu.RLock()
	logger := s.logger
	s.mu.RUnlock()
	return aggregator.NewAggregator(logger).Summarize(rows), nil
}

func (s *Session) requireState(operation string, want models.StateKind) error {
	if s.state.Kind != want {
		return &parsererror.StateError{Operation: operation, State: s.state.Kind.String()}
	}
	return nil
}
