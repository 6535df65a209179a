package database

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// DriverName is the sqlite3 driver with the application's SQL functions registered.
//
// unicode_lower(x) folds case for any script. The built-in LOWER only folds ASCII.
const DriverName = "sqlite3_bookstore"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("unicode_lower", strings.ToLower, true)
		},
	})
}
