package processor

import (
	"fmt"

	"github.com/naevtamarkus/homeassistant-statistics-cli/models"
	"github.com/naevtamarkus/homeassistant-statistics-cli/repository"
	"github.com/naevtamarkus/homeassistant-statistics-cli/sqls"
)

// Execute applies the planned intents inside a single transaction, or in
// dry-run mode renders each intent as the literal SQL it would have issued.
//
// Apply mode is all-or-nothing: the first failing intent rolls back the whole
// run and the error names the intent index, its source line and the driver
// error. A point update or delete that touches no row counts as a failure;
// the target id vanished between planning and execution.
//
// Dry-run mode opens no write transaction and can never fail at execution
// time.
func Execute(repo repository.Repository, intents []models.MutationIntent, dryRun bool) (models.ExecutionResult, error) {
	result := models.ExecutionResult{DryRun: dryRun}

	if dryRun {
		for _, in := range intents {
			result.Statements = append(result.Statements, sqls.RenderIntent(in))
			count(&result, in.Op)
		}
		return result, nil
	}

	tx, err := repo.Begin()
	if err != nil {
		return result, err
	}

	for idx, in := range intents {
		query, args := sqls.BuildIntentSQL(in)
		res, err := tx.Exec(sqls.Rebind(repo.Driver(), query), args...)
		if err != nil {
			tx.Rollback()
			return models.ExecutionResult{}, fmt.Errorf(
				"intent %d (%s, line %d) failed, run rolled back: %w", idx, in.Op, in.Line, err)
		}
		if in.Op != models.OpInsert {
			affected, err := res.RowsAffected()
			if err != nil {
				tx.Rollback()
				return models.ExecutionResult{}, fmt.Errorf(
					"intent %d (%s, line %d) failed, run rolled back: %w", idx, in.Op, in.Line, err)
			}
			if affected == 0 {
				tx.Rollback()
				return models.ExecutionResult{}, fmt.Errorf(
					"intent %d (%s, line %d) failed, run rolled back: no row with id %d in %s",
					idx, in.Op, in.Line, in.ID, in.Table)
			}
		}
		count(&result, in.Op)
	}

	if err := tx.Commit(); err != nil {
		return models.ExecutionResult{}, fmt.Errorf("commit failed, run rolled back: %w", err)
	}
	return result, nil
}

func count(result *models.ExecutionResult, op models.IntentOp) {
	switch op {
	case models.OpInsert:
		result.Inserts++
	case models.OpUpdate:
		result.Updates++
	case models.OpDelete:
		result.Deletes++
	}
}
