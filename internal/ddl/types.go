package ddl

// ColumnDef describes a single column in a table definition. It uses simple,
// database-agnostic fields; dialect packages supply SQLType.
//
// Fields:
//   - Name: logical column name (unquoted; quoting happens at render time)
//   - SQLType: target SQL type (e.g., INTEGER, REAL, TEXT, TIMESTAMPTZ)
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Default: raw default expression (e.g., 0, CURRENT_TIMESTAMP)
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the table name (FQN, optionally "schema.table") and an
// ordered list of columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// IndexDef describes a secondary index over one or more columns of Table.
type IndexDef struct {
	Name    string
	Table   string
	Columns []string
}
