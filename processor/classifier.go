// Package processor implements the import reconciliation engine and the
// introspection/export operations built on top of the repository.
package processor

import (
	"fmt"
	"strings"

	"github.com/naevtamarkus/homeassistant-statistics-cli/models"
	"github.com/naevtamarkus/homeassistant-statistics-cli/schema"
	"github.com/naevtamarkus/homeassistant-statistics-cli/utils"
)

// Classify decides the intended operation for one import row. The decision is
// made exactly once; downstream stages only ever see the tagged intent.
//
// Rules in order: a row naming no known statistics table is invalid; a row
// with an id is an update (sparse patch over the present measurement fields)
// or, when every measurement field is blank, a delete; a row without an id is
// an insert requiring metadata_id and start_ts, or a skipped blank line when
// nothing at all is specified.
func Classify(row models.ImportRow) models.Classification {
	if blankRow(row) {
		return models.Classification{Class: models.ClassSkip, Line: row.Line}
	}

	if !schema.IsStatisticsTable(row.Table) {
		return rowError(row.Line, models.ErrMissingTable, "table",
			fmt.Sprintf("missing or unknown table %q", row.Table))
	}

	measurements, errClass := parseMeasurements(row)
	if errClass != nil {
		return *errClass
	}

	idRaw := strings.TrimSpace(row.Fields["id"])
	if idRaw != "" {
		id, err := utils.ParseIntField(idRaw)
		if err != nil {
			return rowError(row.Line, models.ErrInvalidValue, "id", err.Error())
		}
		if len(measurements) == 0 {
			// all value fields blank: this row removes the record
			return intent(models.MutationIntent{
				Op:    models.OpDelete,
				Table: row.Table,
				Line:  row.Line,
				ID:    id,
			})
		}
		return intent(models.MutationIntent{
			Op:     models.OpUpdate,
			Table:  row.Table,
			Line:   row.Line,
			ID:     id,
			Fields: measurements,
		})
	}

	metaRaw := strings.TrimSpace(row.Fields["metadata_id"])
	startRaw := strings.TrimSpace(row.Fields["start_ts"])
	if len(measurements) == 0 && metaRaw == "" && startRaw == "" {
		// a fully blank line is not a delete and not an error
		return models.Classification{Class: models.ClassSkip, Line: row.Line}
	}

	if metaRaw == "" {
		return rowError(row.Line, models.ErrMissingMetadataID, "metadata_id",
			"metadata_id is required for insert")
	}
	if startRaw == "" {
		return rowError(row.Line, models.ErrMissingStartTs, "start_ts",
			"start_ts is required for insert")
	}

	metadataID, err := utils.ParseIntField(metaRaw)
	if err != nil {
		return rowError(row.Line, models.ErrInvalidValue, "metadata_id", err.Error())
	}
	startTs, err := utils.ParseFloatField(startRaw)
	if err != nil {
		return rowError(row.Line, models.ErrInvalidValue, "start_ts", err.Error())
	}

	createdTs := startTs
	if createdRaw := strings.TrimSpace(row.Fields["created_ts"]); createdRaw != "" {
		createdTs, err = utils.ParseFloatField(createdRaw)
		if err != nil {
			return rowError(row.Line, models.ErrInvalidValue, "created_ts", err.Error())
		}
	}

	fields := []models.FieldValue{
		{Column: "created_ts", Kind: models.ValueFloat, Float: createdTs},
		{Column: "metadata_id", Kind: models.ValueInt, Int: metadataID},
		{Column: "start_ts", Kind: models.ValueFloat, Float: startTs},
	}
	fields = append(fields, measurements...)

	return intent(models.MutationIntent{
		Op:         models.OpInsert,
		Table:      row.Table,
		Line:       row.Line,
		MetadataID: metadataID,
		Fields:     fields,
	})
}

// parseMeasurements extracts the present measurement fields of a row in
// catalog column order. The second return value is non-nil on a parse error.
func parseMeasurements(row models.ImportRow) ([]models.FieldValue, *models.Classification) {
	var fields []models.FieldValue
	for _, col := range schema.MeasurementColumns() {
		raw := strings.TrimSpace(row.Fields[col.Name])
		if raw == "" {
			continue
		}
		if col.Kind == schema.ColText {
			fields = append(fields, models.FieldValue{Column: col.Name, Kind: models.ValueText, Text: raw})
			continue
		}
		f, err := utils.ParseFloatField(raw)
		if err != nil {
			c := rowError(row.Line, models.ErrInvalidValue, col.Name, err.Error())
			return nil, &c
		}
		fields = append(fields, models.FieldValue{Column: col.Name, Kind: models.ValueFloat, Float: f})
	}
	return fields, nil
}

// blankRow reports whether every field of the row is empty. Such lines show
// up in hand-edited CSVs and are skipped rather than rejected.
func blankRow(row models.ImportRow) bool {
	for _, v := range row.Fields {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func intent(m models.MutationIntent) models.Classification {
	return models.Classification{Class: models.ClassIntent, Line: m.Line, Intent: &m}
}

func rowError(line int, kind models.ErrorKind, field, message string) models.Classification {
	return models.Classification{
		Class: models.ClassError,
		Line:  line,
		Err:   &models.RowError{Line: line, Kind: kind, Field: field, Message: message},
	}
}
