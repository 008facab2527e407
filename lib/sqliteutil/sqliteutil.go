package sqliteutil

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	devenv "ulhiking-backend/dev/env"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Config points either at a local sqlite file or a remote libsql database.
// When Url is set it takes priority over File.
type Config struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (c Config) Empty() bool {
	return c.File == "" && c.Url == ""
}

// OpenDB opens the configured database and runs `schema` against it.
func (c Config) OpenDB(schema string) (*sql.DB, error) {
	db, err := c.open()
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

func (c Config) open() (*sql.DB, error) {
	if c.Url != "" {
		values := url.Values{}
		if c.AuthToken != "" {
			values.Add("authToken", c.AuthToken)
		}
		return sql.Open("libsql", c.Url+"?"+values.Encode())
	}
	if c.File == "" {
		return nil, fmt.Errorf("a path was not specified")
	}
	return OpenFile(c.File)
}

// OpenFile opens a local sqlite database, `path` may be `:memory:` or start with <dev_state>.
func OpenFile(path string) (*sql.DB, error) {
	if path != ":memory:" {
		var err error
		path, err = devenv.ResolvePath(path)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite only allows a single writer, see
	// https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	if path != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}
