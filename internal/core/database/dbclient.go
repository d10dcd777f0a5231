package db

import (
	"strconv"
	"strings"
)

// dialect captures the few differences between the SQL backends the
// translation memory runs on.
type dialect struct {
	name   string
	driver string
	// tableExistsQuery takes the table name as its only argument.
	tableExistsQuery string
	numbered         bool
}

var (
	sqliteDialect = dialect{
		name:             "sqlite",
		driver:           "sqlite",
		tableExistsQuery: `SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)`,
	}
	postgresDialect = dialect{
		name:             "postgres",
		driver:           "pgx",
		tableExistsQuery: `SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = ?)`,
		numbered:         true,
	}
)

// dialectFor picks the backend from the DSN: postgres:// and postgresql://
// URLs go to pgx, anything else is a SQLite path. A "sqlite://" prefix is
// accepted and stripped.
func dialectFor(dsn string) (dialect, string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgresDialect, dsn
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqliteDialect, strings.TrimPrefix(dsn, "sqlite://")
	}
	return sqliteDialect, dsn
}

// rebind rewrites ? placeholders as $1, $2, ... for Postgres. Queries here
// never contain a literal question mark.
func (d dialect) rebind(q string) string {
	if !d.numbered {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
