package utils

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/naevtamarkus/homeassistant-statistics-cli/config"
)

type NullFloat struct {
	sql.NullFloat64
}

type NullString struct {
	sql.NullString
}

type NullInt struct {
	sql.NullInt64
}

//TsToUTC converts a seconds-since-epoch timestamp to a UTC time
func TsToUTC(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC()
}

//FormatTimestamp formats a seconds-since-epoch timestamp for display, truncated to whole seconds
func FormatTimestamp(ts float64) string {
	return TsToUTC(ts).Truncate(time.Second).Format(config.GetDisplayDateLayout())
}

//ParseDateOption parses a --after/--before command line value into a UTC timestamp
func ParseDateOption(value string) (float64, error) {
	t, err := time.ParseInLocation(config.GetDisplayDateLayout(), value, time.UTC)
	if err != nil {
		t, err = time.ParseInLocation(config.GetDayDateLayout(), value, time.UTC)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: use %s or %s", value, config.GetDayDateLayout(), config.GetDisplayDateLayout())
	}
	return float64(t.Unix()), nil
}

// ParseFloatField parses a numeric CSV field. Parsing never coerces: anything
// that is not a plain float is an error.
func ParseFloatField(value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", value)
	}
	return f, nil
}

//ParseIntField parses an integer CSV field (ids and foreign keys)
func ParseIntField(value string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", value)
	}
	return n, nil
}

//FormatFloatLiteral renders a float the way it appears in generated SQL statements
func FormatFloatLiteral(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

//FormatFloatCSV renders a float for CSV export without losing precision
func FormatFloatCSV(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

//QuoteTextLiteral renders a text value as a single-quoted SQL literal
func QuoteTextLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
