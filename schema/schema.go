// Package schema is the static catalog of the recorder tables this tool
// knows how to read and mutate, plus the schema version compatibility check.
package schema

import (
	"errors"
	"fmt"

	"github.com/naevtamarkus/homeassistant-statistics-cli/config"
)

var ErrUnknownTable = errors.New("unknown table")

type ColumnKind int

const (
	ColInt ColumnKind = iota
	ColFloat
	ColText
)

// ColumnSpec describes one column of a known table. Measurement marks the
// sparse value columns of an import row, as opposed to identity columns
// (primary key, foreign key, period timestamps).
type ColumnSpec struct {
	Name        string
	Kind        ColumnKind
	Measurement bool
}

//TableSpec describes one known table
type TableSpec struct {
	Name       string
	PrimaryKey string
	Columns    []ColumnSpec
}

// statisticsColumns is shared by both statistics tables; they are
// structurally identical and differ only in retention granularity.
func statisticsColumns() []ColumnSpec {
	return []ColumnSpec{
		{Name: "id", Kind: ColInt},
		{Name: "created_ts", Kind: ColFloat},
		{Name: "metadata_id", Kind: ColInt},
		{Name: "start_ts", Kind: ColFloat},
		{Name: "mean", Kind: ColFloat, Measurement: true},
		{Name: "min", Kind: ColFloat, Measurement: true},
		{Name: "max", Kind: ColFloat, Measurement: true},
		// last_reset is the legacy ISO datetime column, kept as text
		{Name: "last_reset", Kind: ColText, Measurement: true},
		{Name: "last_reset_ts", Kind: ColFloat, Measurement: true},
		{Name: "state", Kind: ColFloat, Measurement: true},
		{Name: "sum", Kind: ColFloat, Measurement: true},
	}
}

// Describe returns the column specification of a known table. Requesting any
// other table fails with an error wrapping ErrUnknownTable.
func Describe(tableName string) (TableSpec, error) {
	switch tableName {
	case config.GetStatisticsTableName(), config.GetShortTermTableName():
		return TableSpec{Name: tableName, PrimaryKey: "id", Columns: statisticsColumns()}, nil
	case config.GetMetaTableName():
		return TableSpec{
			Name:       tableName,
			PrimaryKey: "id",
			Columns: []ColumnSpec{
				{Name: "id", Kind: ColInt},
				{Name: "statistic_id", Kind: ColText},
				{Name: "source", Kind: ColText},
				{Name: "unit_of_measurement", Kind: ColText},
			},
		}, nil
	}
	return TableSpec{}, fmt.Errorf("%w: %q", ErrUnknownTable, tableName)
}

//StatisticsTables returns the two importable statistics tables in their fixed execution order
func StatisticsTables() []string {
	return []string{config.GetStatisticsTableName(), config.GetShortTermTableName()}
}

//IsStatisticsTable reports whether name is one of the two importable tables
func IsStatisticsTable(name string) bool {
	for _, t := range StatisticsTables() {
		if t == name {
			return true
		}
	}
	return false
}

//MeasurementColumns returns the sparse value columns of a statistics row
func MeasurementColumns() []ColumnSpec {
	var cols []ColumnSpec
	for _, c := range statisticsColumns() {
		if c.Measurement {
			cols = append(cols, c)
		}
	}
	return cols
}

// CheckSchemaVersion compares the observed recorder schema version with the
// version this catalog was built against. A newer database is not fatal, but
// the caller must surface the warning since column assumptions may be stale.
func CheckSchemaVersion(observed int64) (bool, string) {
	known := config.GetKnownSchemaVersion()
	if observed > known {
		return false, fmt.Sprintf(
			"Detected schema version %d > %d. This may indicate compatibility issues. Proceed with caution.",
			observed, known)
	}
	return true, ""
}
