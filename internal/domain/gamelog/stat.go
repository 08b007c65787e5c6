package gamelog

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownStat = errors.New("unknown stat")

// Stat names a box-score metric that can be forecast.
type Stat string

const (
	StatPoints   Stat = "points"
	StatRebounds Stat = "rebounds"
	StatAssists  Stat = "assists"
)

var AllStats = map[Stat]struct{}{
	StatPoints:   {},
	StatRebounds: {},
	StatAssists:  {},
}

var statAliases = map[string]Stat{
	"points":      StatPoints,
	"pts":         StatPoints,
	"puntos":      StatPoints,
	"rebounds":    StatRebounds,
	"reb":         StatRebounds,
	"rebotes":     StatRebounds,
	"assists":     StatAssists,
	"ast":         StatAssists,
	"asistencias": StatAssists,
}

// ParseStat accepts canonical names, short box-score labels and the Spanish
// column names used by the scraped dataset.
func ParseStat(raw string) (Stat, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return StatPoints, nil
	}
	s, ok := statAliases[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStat, raw)
	}
	return s, nil
}

func (s Stat) Valid() bool {
	_, ok := AllStats[s]
	return ok
}

func (s Stat) String() string {
	return string(s)
}
