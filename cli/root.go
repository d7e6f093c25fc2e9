// Package cli wires the subcommands of the hastats tool. Table, CSV and
// report output goes to stdout; log lines go through the logger so the two
// never mix.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/naevtamarkus/homeassistant-statistics-cli/config"
	"github.com/naevtamarkus/homeassistant-statistics-cli/database"
	"github.com/naevtamarkus/homeassistant-statistics-cli/logger"
	"github.com/naevtamarkus/homeassistant-statistics-cli/repository"
	"github.com/naevtamarkus/homeassistant-statistics-cli/schema"
)

var (
	version   = "dev"
	buildTime = "unknown"
	sha1ver   = "none"
)

//SetVersionInfo stores the build metadata injected through ldflags in main
func SetVersionInfo(v, built, sha string) {
	if v != "" {
		version = v
	}
	if built != "" {
		buildTime = built
	}
	if sha != "" {
		sha1ver = sha
	}
}

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// app holds everything a command needs once open() has run: resolved
// configuration, the logger and the repository over the recorder database.
type app struct {
	dbURL   string
	cfgFile string
	debug   bool

	cfg           config.Configuration
	log           logger.Logger
	repo          repository.Repository
	driver        string
	schemaVersion int64
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "hastats",
		Short:         "Manage Home Assistant recorder statistics",
		Long:          "Command-line interface for exploring, exporting and importing the statistics tables of a Home Assistant recorder database.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.dbURL, "db-url", "",
		"Database URL of the recorder database (default "+config.GetDefaultDBURL()+")")
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "",
		"Path to a JSON configuration file (default "+config.GetDefaultConfigFileName()+")")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		newStatusCmd(a),
		newListCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// open resolves the database URL with precedence flag > environment > config
// file > default, sets up logging and connects. The schema version warning is
// surfaced here, once, before any command work.
func (a *app) open() error {
	cfgFile := a.cfgFile
	if cfgFile == "" {
		cfgFile = config.GetDefaultConfigFileName()
	}
	a.cfg = config.GetConfig(cfgFile)

	lg, _ := logger.NewLogger(a.cfg.LOG_FILE, a.cfg.MAX_LOGFILE_SIZE, a.debug || a.cfg.DEBUG_LOGGING)
	a.log = lg

	dbURL := a.dbURL
	if dbURL == "" {
		dbURL = os.Getenv(config.GetDBURLEnvVar())
	}
	if dbURL == "" {
		dbURL = a.cfg.DB_URL
	}
	if dbURL == "" {
		dbURL = config.GetDefaultDBURL()
	}

	db, driver, err := database.InitDB(dbURL)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.driver = driver
	a.repo = repository.NewRepository(db, driver)

	a.schemaVersion, err = a.repo.SchemaVersion()
	if err != nil {
		a.repo.Close()
		return err
	}
	if compatible, warning := schema.CheckSchemaVersion(a.schemaVersion); !compatible {
		a.log.Warn(warning)
	}
	return nil
}

func (a *app) close() {
	if a.repo != nil {
		a.repo.Close()
	}
	if a.log != nil {
		a.log.Close()
	}
}
