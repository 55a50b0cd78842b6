package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Times are stored as unix milliseconds so both drivers read them back the same way.
func toMillis(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().UnixMilli()
}

func fromMillis(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.UnixMilli(v.Int64).UTC()
}

func intOrNull(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullToInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func floatOrNull(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullToFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func valueOrEmpty(v sql.NullString) string {
	if v.Valid {
		return v.String
	}
	return ""
}

func statsToJSON(stats map[string]any) (any, error) {
	if len(stats) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(stats)
	if err != nil {
		return nil, fmt.Errorf("error encoding stats: %w", err)
	}
	return string(b), nil
}

func statsFromJSON(v sql.NullString) (map[string]any, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	var stats map[string]any
	if err := json.Unmarshal([]byte(v.String), &stats); err != nil {
		return nil, fmt.Errorf("error decoding stats: %w", err)
	}
	return stats, nil
}
