package configuration

import (
	"database/sql"
	"fmt"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Database points at either a local sqlite file or a remote
// libsql/turso instance. A remote url wins when both are set.
type Database struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

// OpenDB opens the configured database and applies schema, which must
// be idempotent (CREATE TABLE IF NOT EXISTS and the like).
func (config Database) OpenDB(schema string) (*sql.DB, error) {
	db, err := config.open()
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (config Database) open() (*sql.DB, error) {
	if config.Url != "" {
		connStr := config.Url
		if config.AuthToken != "" {
			connStr = fmt.Sprintf("%s?authToken=%s", config.Url, config.AuthToken)
		}
		return sql.Open("libsql", connStr)
	}

	if config.File == "" {
		return nil, fmt.Errorf("database config requires either a file or a url")
	}
	db, err := sql.Open("sqlite", config.File)
	if err != nil {
		return nil, err
	}
	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	return db, nil
}
