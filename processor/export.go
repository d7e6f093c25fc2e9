package processor

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/naevtamarkus/homeassistant-statistics-cli/config"
	"github.com/naevtamarkus/homeassistant-statistics-cli/logger"
	"github.com/naevtamarkus/homeassistant-statistics-cli/models"
	"github.com/naevtamarkus/homeassistant-statistics-cli/repository"
	"github.com/naevtamarkus/homeassistant-statistics-cli/schema"
	"github.com/naevtamarkus/homeassistant-statistics-cli/utils"
)

// ExportEntities writes the statistics rows of the named entities as CSV,
// both tables per entity, in the exact column order the import side expects.
// The entity and date columns are display only. An unknown entity is a
// warning, not a failure.
func ExportEntities(repo repository.Repository, w io.Writer, entities []string, filter models.ExportFilter, lg logger.Logger) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(config.GetCSVHeader()); err != nil {
		return err
	}

	for _, entity := range entities {
		metadataID, found, err := repo.MetadataIDByEntity(entity)
		if err != nil {
			return err
		}
		if !found {
			lg.Warn(fmt.Sprintf("Entity %q not found", entity))
			continue
		}

		for _, table := range schema.StatisticsTables() {
			rows, err := repo.ExportRows(table, metadataID, filter)
			if err != nil {
				return err
			}
			for _, row := range rows {
				if err := writer.Write(exportRecord(table, entity, row)); err != nil {
					return err
				}
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func exportRecord(table, entity string, row models.StatisticRow) []string {
	date := ""
	if row.StartTs.Valid {
		date = utils.FormatTimestamp(row.StartTs.Float64)
	}
	return []string{
		table,
		entity,
		date,
		strconv.FormatInt(row.ID, 10),
		strconv.FormatInt(row.MetadataID, 10),
		nullFloatField(row.CreatedTs),
		nullFloatField(row.StartTs),
		nullFloatField(row.Mean),
		nullFloatField(row.Min),
		nullFloatField(row.Max),
		nullStringField(row.LastReset),
		nullFloatField(row.LastResetTs),
		nullFloatField(row.State),
		nullFloatField(row.Sum),
	}
}

func nullFloatField(f utils.NullFloat) string {
	if !f.Valid {
		return ""
	}
	return utils.FormatFloatCSV(f.Float64)
}

func nullStringField(s utils.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}
