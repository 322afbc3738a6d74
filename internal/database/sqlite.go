package database

import (
	"database/sql"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteDriverName is the go-sqlite3 driver every sqlite connection uses.
// Its LOWER folds all Unicode letters; the builtin only folds ASCII, which
// would make case-insensitive search miss names like "Élodie".
const SQLiteDriverName = "sqlite3_recordhub"

var registerSQLite sync.Once

// SQLiteDialector returns a GORM dialector for dsn on SQLiteDriverName.
func SQLiteDialector(dsn string) gorm.Dialector {
	registerSQLite.Do(func() {
		sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("lower", unicodeLower, true)
			},
		})
	})
	return sqlite.New(sqlite.Config{DriverName: SQLiteDriverName, DSN: dsn})
}

// unicodeLower mirrors LOWER: text is folded, NULL stays NULL and other
// values pass through.
func unicodeLower(v any) any {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		if s == nil {
			return nil
		}
		return strings.ToLower(string(s))
	default:
		return v
	}
}
