package postgres

import (
	"strings"

	"steamload/internal/schema"
)

// MapType maps a logical column kind into a Postgres SQL type.
//
//	int       -> BIGINT
//	real      -> DOUBLE PRECISION
//	timestamp -> TIMESTAMPTZ
//	others    -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case schema.KindInt:
		return "BIGINT"
	case schema.KindReal:
		return "DOUBLE PRECISION"
	case schema.KindTimestamp:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}
