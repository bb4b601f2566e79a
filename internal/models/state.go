package models

// StateKind enumerates the phases of an import session.
type StateKind int

const (
	StateNotAsked StateKind = iota
	StateLoading
	StateDefiningColumns
	StateReady
)

func (s StateKind) String() string {
	switch s {
	case StateNotAsked:
		return "NotAsked"
	case StateLoading:
		return "Loading"
	case StateDefiningColumns:
		return "DefiningColumns"
	case StateReady:
		return "Ready"
	default:
		return "Unknown"
	}
}

// ReportState is the state of an import session. Rows is set only in
// StateReady.
type ReportState struct {
	Kind StateKind
	Rows map[RowID]TypedRow
}

// NotAsked is the initial state.
func NotAsked() ReportState { return ReportState{Kind: StateNotAsked} }

// Loading is the state while the statement text is being read.
func Loading() ReportState { return ReportState{Kind: StateLoading} }

// DefiningColumns is the state while columns are being classified.
func DefiningColumns() ReportState { return ReportState{Kind: StateDefiningColumns} }

// Ready is the state holding the assembled rows.
func Ready(rows map[RowID]TypedRow) ReportState {
	if rows == nil {
		rows = map[RowID]TypedRow{}
	}
	return ReportState{Kind: StateReady, Rows: rows}
}

// IsReady reports whether the state carries assembled rows.
func (s ReportState) IsReady() bool { return s.Kind == StateReady }
