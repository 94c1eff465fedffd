package repository

import (
	"database/sql"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// sqliteDriverName is the mattn driver with unicode_lower registered on every
// connection. SQLite's own LOWER only folds ASCII, which would make name
// filters disagree with the file backend for names like "Übungen".
const sqliteDriverName = "sqlite3_learnmap"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("unicode_lower", strings.ToLower, true)
		},
	})
}
