package sqlite

import (
	"fmt"
	"os"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var commonStatements = []string{
	`PRAGMA foreign_keys = ON`,
}

// config defines the information needed to connect to and create a sqlite database file.
type config struct {
	path      string
	overwrite bool
}

func (c config) connectionString() string {
	if c.path == "" {
		return ":memory:"
	}
	return fmt.Sprintf("file:%s?cache=shared", c.path)
}

// open a new connection to the sqlite database file, removing any existing file first
// when overwrite is requested.
func open(cfg config) (*gorm.DB, error) {
	if cfg.overwrite && cfg.path != "" {
		if err := os.Remove(cfg.path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("unable to remove existing DB file: %w", err)
		}
	}

	dbObj, err := gorm.Open(sqlite.Open(cfg.connectionString()), &gorm.Config{Logger: newLogger()})
	if err != nil {
		return nil, fmt.Errorf("unable to connect to DB: %w", err)
	}

	for _, sqlStmt := range commonStatements {
		if err := dbObj.Exec(sqlStmt).Error; err != nil {
			return nil, fmt.Errorf("unable to apply DB statement %q: %w", sqlStmt, err)
		}
	}

	return dbObj, nil
}
