package database

import (
	"database/sql"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// ParseDBURL maps a SQLAlchemy-style database URL, as used by the Home
// Assistant recorder, to a database/sql driver name and DSN.
//
//	sqlite:///home-assistant_v2.db  -> sqlite3, home-assistant_v2.db
//	sqlite:////data/ha.db           -> sqlite3, /data/ha.db
//	postgresql://user@host/hass     -> pgx, unchanged URL
//
// A bare file path is treated as a SQLite database. MySQL recorder databases
// are not supported.
func ParseDBURL(dbURL string) (string, string, error) {
	switch {
	case strings.HasPrefix(dbURL, "sqlite://"), strings.HasPrefix(dbURL, "sqlite3://"):
		rest := dbURL[strings.Index(dbURL, "://")+3:]
		var path string
		if strings.HasPrefix(rest, "//") {
			// four slashes in the URL mean an absolute path
			path = rest[1:]
		} else {
			path = strings.TrimPrefix(rest, "/")
		}
		if path == "" {
			return "", "", fmt.Errorf("empty sqlite database path in %q", dbURL)
		}
		return "sqlite3", path, nil
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		return "pgx", dbURL, nil
	case strings.Contains(dbURL, "://"):
		return "", "", fmt.Errorf("unsupported database URL scheme in %q (sqlite and postgresql are supported)", dbURL)
	default:
		// a plain path is the recorder's sqlite file
		return "sqlite3", dbURL, nil
	}
}

// InitDB opens a connection to the recorder database and verifies it.
// It returns the handle together with the resolved driver name.
func InitDB(dbURL string) (*sql.DB, string, error) {
	driver, dsn, err := ParseDBURL(dbURL)
	if err != nil {
		log.Error(err)
		return nil, "", err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		log.Error(err)
		return nil, "", err
	}
	err = db.Ping()
	if err != nil {
		log.Error(err)
		db.Close()
		return nil, "", err
	}
	return db, driver, nil
}
