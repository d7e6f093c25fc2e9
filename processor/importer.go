package processor

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/naevtamarkus/homeassistant-statistics-cli/models"
	"github.com/naevtamarkus/homeassistant-statistics-cli/repository"
)

// RunImport reconciles a user-edited CSV against the statistics tables:
// parse, classify, plan, execute, summarize. The whole run is one
// request/response cycle; dryRun reports the exact effect without writing.
//
// Structural CSV problems (missing header, ragged rows) are fatal input
// errors. Row-level validation problems are collected in the report and the
// remaining valid rows still proceed.
func RunImport(repo repository.Repository, input io.Reader, dryRun bool) (models.Report, error) {
	rows, err := readImportRows(input)
	if err != nil {
		return models.Report{}, err
	}

	results := make([]models.Classification, 0, len(rows))
	for _, row := range rows {
		results = append(results, Classify(row))
	}

	intents, diag, err := Plan(repo, results)
	if err != nil {
		return models.Report{}, err
	}

	result, err := Execute(repo, intents, dryRun)
	if err != nil {
		return models.Report{}, err
	}

	return Summarize(result, diag), nil
}

// readImportRows parses the CSV into named-field rows. The header row is
// required; legacy "entity (ignored)" style headers from older exports are
// accepted.
func readImportRows(input io.Reader) ([]models.ImportRow, error) {
	reader := csv.NewReader(input)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input: header row is required")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		name = strings.TrimSuffix(name, " (ignored)")
		index[name] = i
	}
	if _, ok := index["table"]; !ok {
		return nil, fmt.Errorf("CSV header has no %q column", "table")
	}

	var rows []models.ImportRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("CSV structure error at line %d: %w", line, err)
		}

		fields := make(map[string]string, len(index))
		for name, i := range index {
			fields[name] = record[i]
		}
		rows = append(rows, models.ImportRow{
			Line:   line,
			Table:  strings.TrimSpace(fields["table"]),
			Fields: fields,
		})
	}
	return rows, nil
}
