package processor

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/naevtamarkus/homeassistant-statistics-cli/models"
	"github.com/naevtamarkus/homeassistant-statistics-cli/repository"
)

const recorderSchema = `
CREATE TABLE statistics_meta (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	statistic_id VARCHAR(255),
	source VARCHAR(32),
	unit_of_measurement VARCHAR(255)
);
CREATE TABLE statistics (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_ts DOUBLE,
	metadata_id INTEGER,
	start_ts DOUBLE,
	mean DOUBLE,
	min DOUBLE,
	max DOUBLE,
	last_reset VARCHAR(255),
	last_reset_ts DOUBLE,
	state DOUBLE,
	sum DOUBLE
);
CREATE TABLE statistics_short_term (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_ts DOUBLE,
	metadata_id INTEGER,
	start_ts DOUBLE,
	mean DOUBLE,
	min DOUBLE,
	max DOUBLE,
	last_reset VARCHAR(255),
	last_reset_ts DOUBLE,
	state DOUBLE,
	sum DOUBLE
);
CREATE TABLE schema_changes (
	change_id INTEGER PRIMARY KEY AUTOINCREMENT,
	schema_version INTEGER,
	changed TIMESTAMP
);
INSERT INTO schema_changes (schema_version) VALUES (50);
INSERT INTO statistics_meta (id, statistic_id, source, unit_of_measurement)
	VALUES (1, 'sensor.energy', 'recorder', 'kWh'), (7, 'sensor.power', 'recorder', 'W');
`

// testRepo returns a repository over a seeded in-memory recorder database,
// plus the raw handle for direct assertions.
func testRepo(t *testing.T) (repository.Repository, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// one in-memory database, not one per pooled connection
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(recorderSchema)
	require.NoError(t, err)
	return repository.NewRepository(db, "sqlite3"), db
}

// importRow builds an ImportRow the way the CSV reader would, with every
// missing column as the empty string.
func importRow(line int, table string, fields map[string]string) models.ImportRow {
	all := map[string]string{
		"table": table, "entity": "", "date": "",
		"id": "", "metadata_id": "", "created_ts": "", "start_ts": "",
		"mean": "", "min": "", "max": "", "last_reset": "", "last_reset_ts": "", "state": "", "sum": "",
	}
	for k, v := range fields {
		all[k] = v
	}
	return models.ImportRow{Line: line, Table: table, Fields: all}
}

func countRows(t *testing.T, db *sql.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
