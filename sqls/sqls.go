package sqls

import (
	"strconv"
	"strings"

	"github.com/naevtamarkus/homeassistant-statistics-cli/config"
	"github.com/naevtamarkus/homeassistant-statistics-cli/models"
	"github.com/naevtamarkus/homeassistant-statistics-cli/utils"
)

// Rebind converts ? placeholders to the $n form when the pgx driver is in
// use. sqlite3 takes ? as-is.
func Rebind(driver, query string) string {
	if driver != "pgx" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$")
			b.WriteString(strconv.Itoa(n))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

//GetSQLSelectSchemaVersion returns the SQL statement used to read the latest recorder schema version
func GetSQLSelectSchemaVersion() string {
	return "SELECT schema_version FROM " + config.GetSchemaChangesTableName() +
		" ORDER BY change_id DESC LIMIT 1"
}

//GetSQLListTables returns the table discovery SQL for the given driver
func GetSQLListTables(driver string) string {
	if driver == "pgx" {
		return `SELECT table_name FROM information_schema.tables
			WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
			ORDER BY table_name`
	}
	return `SELECT name FROM sqlite_master
			WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
			ORDER BY name`
}

//GetSQLHasTable returns the SQL statement used to check whether a table exists
func GetSQLHasTable(driver string) string {
	if driver == "pgx" {
		return `SELECT COUNT(*) FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = ?`
	}
	return `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
}

//GetSQLCountRows returns the SQL statement used to count the rows of a table
func GetSQLCountRows(table string) string {
	return `SELECT COUNT(*) FROM "` + table + `"`
}

// GetSQLSelectZeroRows returns a statement that yields the column set of a
// table without reading any data. Works on both supported drivers.
func GetSQLSelectZeroRows(table string) string {
	return `SELECT * FROM "` + table + `" LIMIT 0`
}

//GetSQLSelectAllMetadata returns the SQL statement used to load the statistics metadata table
func GetSQLSelectAllMetadata() string {
	return `SELECT id, COALESCE(statistic_id, ''), COALESCE(source, ''), COALESCE(unit_of_measurement, '')
		FROM ` + config.GetMetaTableName() + ` ORDER BY id`
}

//GetSQLSelectMetadataIDByEntity returns the SQL statement used to resolve an entity name to its metadata id
func GetSQLSelectMetadataIDByEntity() string {
	return "SELECT id FROM " + config.GetMetaTableName() + " WHERE statistic_id = ?"
}

// GetSQLSelectMetadataIDs returns the batched existence check over the
// distinct metadata ids referenced by the insert intents of one run.
func GetSQLSelectMetadataIDs(count int) string {
	placeholders := strings.TrimRight(strings.Repeat("?,", count), ",")
	return "SELECT id FROM " + config.GetMetaTableName() + " WHERE id IN (" + placeholders + ")"
}

// GetSQLSelectEntitySummaries returns the grouped aggregation behind the list
// command, with optional start_ts range bounds.
func GetSQLSelectEntitySummaries(table string, hasAfter, hasBefore bool) string {
	sql := "SELECT metadata_id, COUNT(*), MIN(start_ts), MAX(start_ts) FROM " + table
	var where []string
	if hasAfter {
		where = append(where, "start_ts >= ?")
	}
	if hasBefore {
		where = append(where, "start_ts <= ?")
	}
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	return sql + " GROUP BY metadata_id"
}

// GetSQLSelectExportRows returns the export query for one entity and table.
// The threshold filters match when any of mean, min or max falls in range,
// and both bounds together form an open interval.
func GetSQLSelectExportRows(table string, filter models.ExportFilter) string {
	sql := `SELECT id, created_ts, metadata_id, start_ts, mean, min, max, last_reset, last_reset_ts, state, sum
		FROM ` + table + ` WHERE metadata_id = ?`
	if filter.After != nil {
		sql += " AND start_ts >= ?"
	}
	if filter.Before != nil {
		sql += " AND start_ts <= ?"
	}
	switch {
	case filter.Above != nil && filter.Below != nil:
		sql += ` AND ((mean > ? AND mean < ?) OR (min > ? AND min < ?) OR (max > ? AND max < ?))`
	case filter.Above != nil:
		sql += ` AND (mean > ? OR min > ? OR max > ?)`
	case filter.Below != nil:
		sql += ` AND (mean < ? OR min < ? OR max < ?)`
	}
	return sql + " ORDER BY start_ts"
}

// BuildIntentSQL renders a mutation intent as a parameterized point statement
// plus its arguments, ready for execution inside the import transaction.
func BuildIntentSQL(intent models.MutationIntent) (string, []interface{}) {
	switch intent.Op {
	case models.OpDelete:
		return "DELETE FROM " + intent.Table + " WHERE id = ?", []interface{}{intent.ID}
	case models.OpUpdate:
		var sets []string
		var args []interface{}
		for _, f := range intent.Fields {
			sets = append(sets, f.Column+" = ?")
			args = append(args, fieldArg(f))
		}
		args = append(args, intent.ID)
		return "UPDATE " + intent.Table + " SET " + strings.Join(sets, ", ") + " WHERE id = ?", args
	default:
		var cols []string
		var marks []string
		var args []interface{}
		for _, f := range intent.Fields {
			cols = append(cols, f.Column)
			marks = append(marks, "?")
			args = append(args, fieldArg(f))
		}
		return "INSERT INTO " + intent.Table + " (" + strings.Join(cols, ", ") +
			") VALUES (" + strings.Join(marks, ", ") + ")", args
	}
}

// RenderIntent renders a mutation intent as the literal SQL text the dry-run
// mode reports. The output is directly executable against the same database.
func RenderIntent(intent models.MutationIntent) string {
	switch intent.Op {
	case models.OpDelete:
		return "DELETE FROM " + intent.Table + " WHERE id = " + strconv.FormatInt(intent.ID, 10) + ";"
	case models.OpUpdate:
		var sets []string
		for _, f := range intent.Fields {
			sets = append(sets, f.Column+" = "+fieldLiteral(f))
		}
		return "UPDATE " + intent.Table + " SET " + strings.Join(sets, ", ") +
			" WHERE id = " + strconv.FormatInt(intent.ID, 10) + ";"
	default:
		var cols []string
		var vals []string
		for _, f := range intent.Fields {
			cols = append(cols, f.Column)
			vals = append(vals, fieldLiteral(f))
		}
		return "INSERT INTO " + intent.Table + " (" + strings.Join(cols, ", ") +
			") VALUES (" + strings.Join(vals, ", ") + ");"
	}
}

func fieldArg(f models.FieldValue) interface{} {
	switch f.Kind {
	case models.ValueInt:
		return f.Int
	case models.ValueText:
		return f.Text
	default:
		return f.Float
	}
}

func fieldLiteral(f models.FieldValue) string {
	switch f.Kind {
	case models.ValueInt:
		return strconv.FormatInt(f.Int, 10)
	case models.ValueText:
		return utils.QuoteTextLiteral(f.Text)
	default:
		return utils.FormatFloatLiteral(f.Float)
	}
}
