package logging

// Standardized field names for structured logging across the import pipeline.
const (
	FieldFile       = "file_path"
	FieldSession    = "session_id"
	FieldState      = "state"
	FieldColumn     = "column"
	FieldRow        = "row"
	FieldRole       = "role"
	FieldLabel      = "label"
	FieldField      = "field"
	FieldValue      = "value"
	FieldPayer      = "payer"
	FieldReason     = "reason"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldCount      = "count"
	FieldDropped    = "dropped"
	FieldDelimiter  = "delimiter"
	FieldFormat     = "format"
	FieldOutputFile = "output_file"
)
