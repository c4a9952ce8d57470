package sql

import (
	"database/sql"
	"fmt"
	"time"
)

// ScanRow reads the current row of rows into normalized values.
func ScanRow(rows *sql.Rows, columnCount int) ([]interface{}, error) {
	values := make([]interface{}, columnCount)
	scanTargets := make([]interface{}, columnCount)
	for i := range values {
		scanTargets[i] = &values[i]
	}

	if err := rows.Scan(scanTargets...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	for i := range values {
		values[i] = NormalizeValue(values[i])
	}
	return values, nil
}

// NormalizeValue converts database/sql scanned values to standard Go types.
func NormalizeValue(v interface{}) interface{} {
	if v == nil {
		return nil
	}

	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	case int64, float64, bool, string:
		return val
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case float32:
		return float64(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
