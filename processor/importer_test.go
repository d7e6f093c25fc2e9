package processor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naevtamarkus/homeassistant-statistics-cli/models"
)

const importHeader = "table,entity (ignored),date (ignored),id,metadata_id,created_ts,start_ts,mean,min,max,last_reset,last_reset_ts,state,sum\n"

func TestRunImportDryRunMixedOperations(t *testing.T) {
	repo, db := testRepo(t)
	_, err := db.Exec(`INSERT INTO statistics (id, created_ts, metadata_id, start_ts, mean) VALUES
		(23, 1, 1, 1704240000, 5.0),
		(5, 1, 1, 1704243600, 1.0)`)
	require.NoError(t, err)

	input := importHeader +
		"statistics,sensor.power,2024-01-03 11:00:00,,7,,1704279600.0,3198.37,,,,,,\n" +
		"statistics,sensor.energy,2024-01-02 00:00:00,23,1,,,,,,,,,\n" +
		"statistics,sensor.energy,2024-01-02 01:00:00,5,1,,,2.5,,,,,,\n" +
		",,,,,,,,,,,,,\n"

	report, err := RunImport(repo, strings.NewReader(input), true)
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Inserts)
	assert.Equal(t, 1, report.Updates)
	assert.Equal(t, 1, report.Deletes)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Conflicts)
	assert.Empty(t, report.Errors)
	assert.Equal(t, []string{
		"DELETE FROM statistics WHERE id = 23;",
		"UPDATE statistics SET mean = 2.500000 WHERE id = 5;",
		"INSERT INTO statistics (created_ts, metadata_id, start_ts, mean) VALUES (1704279600.000000, 7, 1704279600.000000, 3198.370000);",
	}, report.Statements)

	// nothing written
	assert.Equal(t, int64(2), countRows(t, db, "statistics"))
}

func TestRunImportApply(t *testing.T) {
	repo, db := testRepo(t)
	_, err := db.Exec(`INSERT INTO statistics (id, created_ts, metadata_id, start_ts, mean) VALUES
		(23, 1, 1, 1704240000, 5.0)`)
	require.NoError(t, err)

	input := importHeader +
		"statistics,sensor.energy,2024-01-02 00:00:00,23,1,,,,,,,,,\n" +
		"statistics,sensor.power,2024-01-03 11:00:00,,7,,1704279600.0,3198.37,,,,,,\n"

	report, err := RunImport(repo, strings.NewReader(input), false)
	require.NoError(t, err)

	assert.False(t, report.DryRun)
	assert.Equal(t, 1, report.Inserts)
	assert.Equal(t, 1, report.Deletes)
	assert.Empty(t, report.Statements)

	assert.Equal(t, int64(1), countRows(t, db, "statistics"))
	var metadataID int64
	var mean float64
	require.NoError(t, db.QueryRow("SELECT metadata_id, mean FROM statistics").Scan(&metadataID, &mean))
	assert.Equal(t, int64(7), metadataID)
	assert.Equal(t, 3198.37, mean)
}

func TestRunImportDuplicateIDLastWriteWins(t *testing.T) {
	repo, db := testRepo(t)
	_, err := db.Exec(`INSERT INTO statistics (id, created_ts, metadata_id, start_ts, mean) VALUES
		(5, 1, 1, 1704243600, 1.0)`)
	require.NoError(t, err)

	input := importHeader +
		"statistics,sensor.energy,2024-01-02 01:00:00,5,1,,,1,,,,,,\n" +
		"statistics,sensor.energy,2024-01-02 01:00:00,5,1,,,2,,,,,,\n"

	report, err := RunImport(repo, strings.NewReader(input), false)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Updates)
	assert.Equal(t, 1, report.Conflicts)

	var mean float64
	require.NoError(t, db.QueryRow("SELECT mean FROM statistics WHERE id = 5").Scan(&mean))
	assert.Equal(t, 2.0, mean)
}

func TestRunImportCollectsRowErrors(t *testing.T) {
	repo, db := testRepo(t)

	input := importHeader +
		"statistics,sensor.power,,,7,,1704279600.0,3198.37,,,,,,\n" +
		"statistics,sensor.ghost,,,99,,1704279600.0,1.0,,,,,,\n" +
		"statistics,sensor.power,,,7,,,1.0,,,,,,\n" +
		"bogus,sensor.power,,,7,,1704279600.0,1.0,,,,,,\n"

	report, err := RunImport(repo, strings.NewReader(input), false)
	require.NoError(t, err)

	// the one valid row still lands
	assert.Equal(t, 1, report.Inserts)
	require.Len(t, report.Errors, 3)
	assert.Equal(t, 3, report.Errors[0].Line)
	assert.Equal(t, models.ErrUnknownMetadataID, report.Errors[0].Kind)
	assert.Equal(t, 4, report.Errors[1].Line)
	assert.Equal(t, models.ErrMissingStartTs, report.Errors[1].Kind)
	assert.Equal(t, 5, report.Errors[2].Line)
	assert.Equal(t, models.ErrMissingTable, report.Errors[2].Kind)
	assert.Equal(t, 1, report.Invalid[models.ErrUnknownMetadataID])
	assert.Equal(t, 1, report.Invalid[models.ErrMissingStartTs])
	assert.Equal(t, 1, report.Invalid[models.ErrMissingTable])

	assert.Equal(t, int64(1), countRows(t, db, "statistics"))
}

func TestRunImportHeaderRequired(t *testing.T) {
	repo, _ := testRepo(t)

	_, err := RunImport(repo, strings.NewReader(""), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header row is required")
}

func TestRunImportMissingTableColumn(t *testing.T) {
	repo, _ := testRepo(t)

	_, err := RunImport(repo, strings.NewReader("entity,id\nsensor.energy,5\n"), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no "table" column`)
}

func TestRunImportRaggedRowIsFatal(t *testing.T) {
	repo, _ := testRepo(t)

	input := importHeader +
		"statistics,sensor.energy,2024-01-02 01:00:00,5\n"

	_, err := RunImport(repo, strings.NewReader(input), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
