package sqlite

import (
	"strings"

	"steamload/internal/schema"
)

// MapType maps a logical column kind into a SQLite column type.
//
// SQLite is dynamically typed, so this mapping picks canonical affinities:
//   - int       -> INTEGER
//   - real      -> REAL
//   - timestamp -> TIMESTAMP (NUMERIC affinity; CURRENT_TIMESTAMP stores
//     ISO-8601 text)
//   - others    -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case schema.KindInt:
		return "INTEGER"
	case schema.KindReal:
		return "REAL"
	case schema.KindTimestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}
