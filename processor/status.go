package processor

import (
	"github.com/naevtamarkus/homeassistant-statistics-cli/config"
	"github.com/naevtamarkus/homeassistant-statistics-cli/models"
	"github.com/naevtamarkus/homeassistant-statistics-cli/repository"
)

// CollectStatus gathers per-table row/column counts and the 8-bytes-per-field
// size estimate for every table in the database.
func CollectStatus(repo repository.Repository) ([]models.TableStatus, error) {
	names, err := repo.TableNames()
	if err != nil {
		return nil, err
	}

	statuses := make([]models.TableStatus, 0, len(names))
	for _, name := range names {
		rows, err := repo.CountRows(name)
		if err != nil {
			return nil, err
		}
		cols, err := repo.TableColumns(name)
		if err != nil {
			return nil, err
		}
		records := rows * int64(len(cols))
		statuses = append(statuses, models.TableStatus{
			Name:    name,
			Rows:    rows,
			Cols:    len(cols),
			Records: records,
			Bytes:   records * config.GetBytesPerField(),
		})
	}
	return statuses, nil
}
