package postgres

import (
	"database/sql"
	"errors"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
)

// insertBatchSize keeps multi-row inserts under the protocol's 65535
// bind-parameter limit for every table here.
const insertBatchSize = 500

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func nullableInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func nullInt64ToIntPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}

func encodeExtended(value gamelog.ExtendedStats) string {
	encoded, err := sonic.Marshal(value)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

func decodeExtended(raw string) gamelog.ExtendedStats {
	var out gamelog.ExtendedStats
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out
	}
	if err := sonic.Unmarshal([]byte(raw), &out); err != nil {
		return gamelog.ExtendedStats{}
	}
	return out
}

func chunk[T any](items []T, size int) [][]T {
	if size < 1 {
		size = 1
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
