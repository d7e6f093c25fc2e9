package processor

import (
	"github.com/naevtamarkus/homeassistant-statistics-cli/models"
)

//Summarize aggregates an execution result and the planning diagnostics into the final report
func Summarize(result models.ExecutionResult, diag models.Diagnostics) models.Report {
	report := models.Report{
		DryRun:     result.DryRun,
		Skipped:    diag.Skipped,
		Invalid:    make(map[models.ErrorKind]int),
		Conflicts:  len(diag.Conflicts),
		Inserts:    result.Inserts,
		Updates:    result.Updates,
		Deletes:    result.Deletes,
		Errors:     diag.Errors,
		Statements: result.Statements,
	}
	for _, e := range diag.Errors {
		report.Invalid[e.Kind]++
	}
	return report
}
