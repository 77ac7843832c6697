package postgres

import (
	"database/sql"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/lib/pq"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// pqStringArray keeps empty slices as empty arrays rather than NULL columns.
func pqStringArray(values []string) pq.StringArray {
	if len(values) == 0 {
		return pq.StringArray{}
	}
	return pq.StringArray(values)
}

func encodeJSONMap[V any](value map[string]V) string {
	if len(value) == 0 {
		return "{}"
	}
	encoded, err := sonic.Marshal(value)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

func decodeJSONMap[V any](raw string) map[string]V {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]V{}
	}
	out := make(map[string]V)
	if err := sonic.Unmarshal([]byte(raw), &out); err != nil {
		return map[string]V{}
	}
	return out
}
