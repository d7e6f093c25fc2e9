package processor

import (
	"fmt"
	"sort"

	"github.com/naevtamarkus/homeassistant-statistics-cli/models"
	"github.com/naevtamarkus/homeassistant-statistics-cli/repository"
	"github.com/naevtamarkus/homeassistant-statistics-cli/schema"
)

type targetKey struct {
	table string
	id    int64
}

// Plan turns the ordered classification results of one run into the ordered
// mutation intents to execute, plus the diagnostics of everything that was
// skipped, overridden or rejected.
//
// Duplicate (table, id) targets among updates and deletes resolve
// last-write-wins, each overridden intent recorded as a Conflict. Insert
// intents are validated against the metadata table with a single batched
// query; a failed check demotes the insert to an unknown_metadata_id row
// error. Validation errors never abort planning, so one corrected re-run is
// always possible. Execution order is deletes, updates, inserts per table.
func Plan(repo repository.Repository, results []models.Classification) ([]models.MutationIntent, models.Diagnostics, error) {
	var diag models.Diagnostics
	var inserts []models.MutationIntent
	keyed := make(map[targetKey]models.MutationIntent)
	keyOrder := []targetKey{}

	for _, res := range results {
		switch res.Class {
		case models.ClassSkip:
			diag.Skipped++
		case models.ClassError:
			diag.Errors = append(diag.Errors, *res.Err)
		case models.ClassIntent:
			in := *res.Intent
			if in.Op == models.OpInsert {
				inserts = append(inserts, in)
				continue
			}
			key := targetKey{table: in.Table, id: in.ID}
			if prev, ok := keyed[key]; ok {
				diag.Conflicts = append(diag.Conflicts, models.Conflict{
					Table:          key.table,
					ID:             key.id,
					OverriddenLine: prev.Line,
					WinnerLine:     in.Line,
				})
			} else {
				keyOrder = append(keyOrder, key)
			}
			keyed[key] = in
		}
	}

	inserts, insertErrors, err := checkInsertReferences(repo, inserts)
	if err != nil {
		return nil, diag, err
	}
	diag.Errors = append(diag.Errors, insertErrors...)
	sort.SliceStable(diag.Errors, func(a, b int) bool {
		return diag.Errors[a].Line < diag.Errors[b].Line
	})

	// deletes first, then updates, then inserts, per table in fixed order
	var ordered []models.MutationIntent
	for _, table := range schema.StatisticsTables() {
		for _, op := range []models.IntentOp{models.OpDelete, models.OpUpdate} {
			for _, key := range keyOrder {
				if key.table != table {
					continue
				}
				if in := keyed[key]; in.Op == op {
					ordered = append(ordered, in)
				}
			}
		}
		for _, in := range inserts {
			if in.Table == table {
				ordered = append(ordered, in)
			}
		}
	}
	return ordered, diag, nil
}

// checkInsertReferences runs the batched metadata existence check and demotes
// every insert whose metadata_id is not present in statistics_meta.
func checkInsertReferences(repo repository.Repository, inserts []models.MutationIntent) ([]models.MutationIntent, []models.RowError, error) {
	if len(inserts) == 0 {
		return inserts, nil, nil
	}

	seen := make(map[int64]bool)
	var distinct []int64
	for _, in := range inserts {
		if !seen[in.MetadataID] {
			seen[in.MetadataID] = true
			distinct = append(distinct, in.MetadataID)
		}
	}

	existing, err := repo.ExistingMetadataIDs(distinct)
	if err != nil {
		return nil, nil, err
	}

	var valid []models.MutationIntent
	var errors []models.RowError
	for _, in := range inserts {
		if existing[in.MetadataID] {
			valid = append(valid, in)
			continue
		}
		errors = append(errors, models.RowError{
			Line:    in.Line,
			Kind:    models.ErrUnknownMetadataID,
			Field:   "metadata_id",
			Message: fmt.Sprintf("metadata_id %d does not exist in statistics_meta", in.MetadataID),
		})
	}
	return valid, errors, nil
}
