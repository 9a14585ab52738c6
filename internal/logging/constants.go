package logging

// Field names shared by every log entry that carries the same kind of value.
const (
	FieldFile       = "file_path"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldFormat     = "format"
	FieldSegment    = "segment_index"
	FieldIdentifier = "segment_id"
	FieldClaims     = "claims"
	FieldServices   = "service_lines"
	FieldWarnings   = "warnings"
	FieldCount      = "count"
	FieldDelimiter  = "delimiter"
	FieldTable      = "table"
	FieldRunID      = "run_id"
	FieldDuration   = "duration_ms"
)
