package models

import (
	"github.com/naevtamarkus/homeassistant-statistics-cli/utils"
)

//StatisticsMeta is one row of the statistics_meta reference table
type StatisticsMeta struct {
	ID                int64
	StatisticID       string
	Source            string
	UnitOfMeasurement string
}

//StatisticRow is one row of a statistics table (long-term or short-term)
type StatisticRow struct {
	ID          int64
	CreatedTs   utils.NullFloat
	MetadataID  int64
	StartTs     utils.NullFloat
	Mean        utils.NullFloat
	Min         utils.NullFloat
	Max         utils.NullFloat
	LastReset   utils.NullString
	LastResetTs utils.NullFloat
	State       utils.NullFloat
	Sum         utils.NullFloat
}

// ImportRow is one parsed CSV line before classification. Fields holds the
// raw string values by column name; an empty string means "not specified".
type ImportRow struct {
	Line   int
	Table  string
	Fields map[string]string
}

type ValueKind int

const (
	ValueInt ValueKind = iota
	ValueFloat
	ValueText
)

//FieldValue is one typed column value carried by a mutation intent
type FieldValue struct {
	Column string
	Kind   ValueKind
	Int    int64
	Float  float64
	Text   string
}

type IntentOp int

const (
	OpInsert IntentOp = iota
	OpUpdate
	OpDelete
)

func (op IntentOp) String() string {
	switch op {
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// MutationIntent is one atomic change decided at classification time.
// Insert carries Fields (including metadata_id) and MetadataID for the
// referential check; Update carries ID plus the sparse field deltas; Delete
// carries only ID.
type MutationIntent struct {
	Op         IntentOp
	Table      string
	Line       int
	ID         int64
	MetadataID int64
	Fields     []FieldValue
}

type ErrorKind string

const (
	ErrMissingTable      ErrorKind = "missing_table"
	ErrMissingMetadataID ErrorKind = "missing_metadata_id"
	ErrMissingStartTs    ErrorKind = "missing_start_ts"
	ErrUnknownMetadataID ErrorKind = "unknown_metadata_id"
	ErrInvalidValue      ErrorKind = "invalid_value"
)

// RowError is a validation error local to one input row. It never aborts a
// run; invalid rows are excluded from execution and reported.
type RowError struct {
	Line    int
	Kind    ErrorKind
	Field   string
	Message string
}

type RowClass int

const (
	ClassIntent RowClass = iota
	ClassSkip
	ClassError
)

//Classification is the outcome of classifying one import row
type Classification struct {
	Class  RowClass
	Line   int
	Intent *MutationIntent
	Err    *RowError
}

//Conflict records a duplicate (table, id) target within one run; the later row won
type Conflict struct {
	Table          string
	ID             int64
	OverriddenLine int
	WinnerLine     int
}

//Diagnostics aggregates everything the planner found besides the intents themselves
type Diagnostics struct {
	Skipped   int
	Errors    []RowError
	Conflicts []Conflict
}

// ExecutionResult is what the mutation executor produced. In dry-run mode
// Statements holds the literal SQL in planning order and nothing was written.
type ExecutionResult struct {
	DryRun     bool
	Statements []string
	Inserts    int
	Updates    int
	Deletes    int
}

//Report is the final summary of one import run
type Report struct {
	DryRun     bool
	Skipped    int
	Invalid    map[ErrorKind]int
	Conflicts  int
	Inserts    int
	Updates    int
	Deletes    int
	Errors     []RowError
	Statements []string
}

//EntitySummary is one line of the list command output
type EntitySummary struct {
	Entity string
	Count  int64
	First  float64
	Last   float64
	KB     float64
	Unit   string
}

//EntityAggregate is the per-table grouped result the summaries are built from
type EntityAggregate struct {
	MetadataID int64
	Count      int64
	First      float64
	Last       float64
}

//TableStatus is one line of the status command output
type TableStatus struct {
	Name    string
	Rows    int64
	Cols    int
	Records int64
	Bytes   int64
}

//ExportFilter carries the optional value and date range filters of the export command
type ExportFilter struct {
	After  *float64
	Before *float64
	Above  *float64
	Below  *float64
}
