package config

import (
	log "github.com/sirupsen/logrus"
	"github.com/tkanos/gonfig"
)

type Configuration struct {
	DB_URL           string
	DEBUG_LOGGING    bool
	LOG_FILE         string
	MAX_LOGFILE_SIZE int64
}

// GetConfig loads the configuration from the given JSON file. A missing file
// is not an error, the defaults apply.
func GetConfig(fileName string) Configuration {
	configuration := Configuration{}

	err := gonfig.GetConf(fileName, &configuration)
	if err != nil {
		log.Debug("No usable config file at ", fileName, ", using defaults")
	} else {
		log.Info("Using configurations in config file: ", fileName)
	}

	if configuration.MAX_LOGFILE_SIZE == 0 {
		configuration.MAX_LOGFILE_SIZE = 10
	}

	return configuration
}

//GetDefaultConfigFileName returns the config file checked when --config is not given
func GetDefaultConfigFileName() string {
	return "./hastats_config.json"
}

//GetDefaultDBURL returns the recorder database used when no --db-url is given
func GetDefaultDBURL() string {
	return "sqlite:///home-assistant_v2.db"
}

//GetDBURLEnvVar returns the environment variable checked for the database URL
func GetDBURLEnvVar() string {
	return "HA_DB_URL"
}

//GetKnownSchemaVersion returns the highest recorder schema version this tool was built against
func GetKnownSchemaVersion() int64 {
	return 50
}

//GetBytesPerField returns the estimated bytes per database field for size calculations
func GetBytesPerField() int64 {
	return 8
}

//GetStatisticsTableName returns the name of the long-term statistics table
func GetStatisticsTableName() string {
	return "statistics"
}

//GetShortTermTableName returns the name of the short-term statistics table
func GetShortTermTableName() string {
	return "statistics_short_term"
}

//GetMetaTableName returns the name of the statistics metadata table
func GetMetaTableName() string {
	return "statistics_meta"
}

//GetSchemaChangesTableName returns the name of the recorder schema version table
func GetSchemaChangesTableName() string {
	return "schema_changes"
}

//GetDisplayDateLayout returns the date layout used for human readable timestamps
func GetDisplayDateLayout() string {
	return "2006-01-02 15:04:05"
}

//GetDayDateLayout returns the date layout accepted for date-only command line options
func GetDayDateLayout() string {
	return "2006-01-02"
}

//GetFileDateLayout returns the date layout used when archiving log files
func GetFileDateLayout() string {
	return "20060102150405"
}

//GetCSVHeader returns the exact column order of the import/export CSV contract
func GetCSVHeader() []string {
	return []string{
		"table", "entity", "date",
		"id", "metadata_id", "created_ts", "start_ts",
		"mean", "min", "max", "last_reset", "last_reset_ts", "state", "sum",
	}
}
