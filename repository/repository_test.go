package repository

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naevtamarkus/homeassistant-statistics-cli/models"
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
INSERT INTO schema_changes (schema_version) VALUES (43);
INSERT INTO schema_changes (schema_version) VALUES (50);
INSERT INTO statistics_meta (id, statistic_id, source, unit_of_measurement)
	VALUES (1, 'sensor.energy', 'recorder', 'kWh'), (7, 'sensor.power', 'recorder', 'W');
`

func openTestRepo(t *testing.T) Repository {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// one in-memory database, not one per pooled connection
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(recorderSchema)
	require.NoError(t, err)
	return NewRepository(db, "sqlite3")
}

func seedStatistics(t *testing.T, repo Repository) {
	t.Helper()
	impl := repo.(*Impl)
	_, err := impl.Db.Exec(`
		INSERT INTO statistics (id, created_ts, metadata_id, start_ts, mean, min, max, state, sum) VALUES
			(1, 1704240000, 1, 1704240000, 10.0, 5.0, 15.0, NULL, 100.0),
			(2, 1704243600, 1, 1704243600, 20.0, 10.0, 30.0, NULL, 120.0),
			(3, 1704240000, 7, 1704240000, 500.0, 100.0, 900.0, NULL, NULL)`)
	require.NoError(t, err)
	_, err = impl.Db.Exec(`
		INSERT INTO statistics_short_term (id, created_ts, metadata_id, start_ts, mean, min, max) VALUES
			(1, 1704247200, 1, 1704247200, 25.0, 20.0, 30.0)`)
	require.NoError(t, err)
}

func TestSchemaVersion(t *testing.T) {
	repo := openTestRepo(t)
	version, err := repo.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(50), version)
}

func TestSchemaVersionWithoutSchemaChangesTable(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewRepository(db, "sqlite3")
	version, err := repo.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)
}

func TestHasTable(t *testing.T) {
	repo := openTestRepo(t)

	ok, err := repo.HasTable("statistics")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.HasTable("events")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTableNamesAndColumns(t *testing.T) {
	repo := openTestRepo(t)

	names, err := repo.TableNames()
	require.NoError(t, err)
	assert.Contains(t, names, "statistics")
	assert.Contains(t, names, "statistics_short_term")
	assert.Contains(t, names, "statistics_meta")

	cols, err := repo.TableColumns("statistics")
	require.NoError(t, err)
	assert.Len(t, cols, 11)
	assert.Equal(t, "id", cols[0])
}

func TestCountRows(t *testing.T) {
	repo := openTestRepo(t)
	seedStatistics(t, repo)

	count, err := repo.CountRows("statistics")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestAllMetadata(t *testing.T) {
	repo := openTestRepo(t)

	metas, err := repo.AllMetadata()
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "sensor.energy", metas[0].StatisticID)
	assert.Equal(t, "kWh", metas[0].UnitOfMeasurement)
}

func TestMetadataIDByEntity(t *testing.T) {
	repo := openTestRepo(t)

	id, found, err := repo.MetadataIDByEntity("sensor.power")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(7), id)

	_, found, err = repo.MetadataIDByEntity("sensor.missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExistingMetadataIDs(t *testing.T) {
	repo := openTestRepo(t)

	existing, err := repo.ExistingMetadataIDs([]int64{1, 7, 99})
	require.NoError(t, err)
	assert.True(t, existing[1])
	assert.True(t, existing[7])
	assert.False(t, existing[99])

	existing, err = repo.ExistingMetadataIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, existing)
}

func TestEntitySummaries(t *testing.T) {
	repo := openTestRepo(t)
	seedStatistics(t, repo)

	aggs, err := repo.EntitySummaries("statistics", nil, nil)
	require.NoError(t, err)
	require.Len(t, aggs, 2)

	byID := map[int64]models.EntityAggregate{}
	for _, a := range aggs {
		byID[a.MetadataID] = a
	}
	assert.Equal(t, int64(2), byID[1].Count)
	assert.Equal(t, float64(1704240000), byID[1].First)
	assert.Equal(t, float64(1704243600), byID[1].Last)

	after := float64(1704243000)
	aggs, err = repo.EntitySummaries("statistics", &after, nil)
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.Equal(t, int64(1), aggs[0].Count)
}

func TestExportRows(t *testing.T) {
	repo := openTestRepo(t)
	seedStatistics(t, repo)

	rows, err := repo.ExportRows("statistics", 1, models.ExportFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].ID)
	assert.True(t, rows[0].Mean.Valid)
	assert.Equal(t, 10.0, rows[0].Mean.Float64)
	assert.False(t, rows[0].State.Valid)

	above := 15.0
	rows, err = repo.ExportRows("statistics", 1, models.ExportFilter{Above: &above})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].ID)

	below := 6.0
	rows, err = repo.ExportRows("statistics", 1, models.ExportFilter{Below: &below})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].ID)
}
