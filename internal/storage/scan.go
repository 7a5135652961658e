package storage

import (
	"database/sql"
	"fmt"

	"tabload/pkg/records"
)

// ScanRows converts database/sql rows into Records keyed by the result's
// column names. []byte values are copied into strings since drivers may
// reuse the buffer between scans. It is shared by the database/sql-backed
// repositories (sqlite, mysql, mssql).
func ScanRows(rows *sql.Rows) ([]records.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	var out []records.Record
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec := make(records.Record, len(cols))
		for i, c := range cols {
			switch v := vals[i].(type) {
			case []byte:
				rec[c] = string(v)
			default:
				rec[c] = v
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
