package processor

import (
	"fmt"
	"math"
	"sort"

	"github.com/naevtamarkus/homeassistant-statistics-cli/config"
	"github.com/naevtamarkus/homeassistant-statistics-cli/models"
	"github.com/naevtamarkus/homeassistant-statistics-cli/repository"
	"github.com/naevtamarkus/homeassistant-statistics-cli/schema"
)

//ListOptions carries the sort and date range options of the list command
type ListOptions struct {
	Sort    string
	Reverse bool
	After   *float64
	Before  *float64
}

// ListEntities aggregates both statistics tables per entity: record count,
// first/last seen timestamps, estimated storage and unit.
func ListEntities(repo repository.Repository, opts ListOptions) ([]models.EntitySummary, error) {
	merged := make(map[int64]*models.EntityAggregate)
	for _, table := range schema.StatisticsTables() {
		aggs, err := repo.EntitySummaries(table, opts.After, opts.Before)
		if err != nil {
			return nil, err
		}
		for _, a := range aggs {
			if rec, ok := merged[a.MetadataID]; ok {
				rec.Count += a.Count
				rec.First = math.Min(rec.First, a.First)
				rec.Last = math.Max(rec.Last, a.Last)
			} else {
				agg := a
				merged[a.MetadataID] = &agg
			}
		}
	}

	metas, err := repo.AllMetadata()
	if err != nil {
		return nil, err
	}
	metaByID := make(map[int64]models.StatisticsMeta, len(metas))
	for _, m := range metas {
		metaByID[m.ID] = m
	}

	spec, err := schema.Describe(config.GetStatisticsTableName())
	if err != nil {
		return nil, err
	}
	cols := int64(len(spec.Columns))

	summaries := make([]models.EntitySummary, 0, len(merged))
	for mid, agg := range merged {
		meta := metaByID[mid]
		kb := float64(agg.Count*cols*config.GetBytesPerField()) / 1024
		summaries = append(summaries, models.EntitySummary{
			Entity: meta.StatisticID,
			Count:  agg.Count,
			First:  agg.First,
			Last:   agg.Last,
			KB:     math.Round(kb*10) / 10,
			Unit:   meta.UnitOfMeasurement,
		})
	}

	err = sortSummaries(summaries, opts)
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func sortSummaries(summaries []models.EntitySummary, opts ListOptions) error {
	var less func(a, b models.EntitySummary) bool
	switch opts.Sort {
	case "":
		// stable default so runs are comparable
		less = func(a, b models.EntitySummary) bool { return a.Entity < b.Entity }
	case "count":
		less = func(a, b models.EntitySummary) bool { return a.Count < b.Count }
	case "first":
		less = func(a, b models.EntitySummary) bool { return a.First < b.First }
	case "last":
		less = func(a, b models.EntitySummary) bool { return a.Last < b.Last }
	case "kb":
		less = func(a, b models.EntitySummary) bool { return a.KB < b.KB }
	default:
		return fmt.Errorf("invalid sort column %q: use count, first, last or kb", opts.Sort)
	}
	sort.SliceStable(summaries, func(a, b int) bool {
		if opts.Reverse {
			return less(summaries[b], summaries[a])
		}
		return less(summaries[a], summaries[b])
	})
	return nil
}
