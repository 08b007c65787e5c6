package gamelog

import (
	"math"
	"sort"
	"time"
)

// Chronological returns a copy of records sorted by game time, oldest first.
func Chronological(records []GameRecord) []GameRecord {
	out := make([]GameRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PlayedAt.Before(out[j].PlayedAt)
	})
	return out
}

// ForPlayer returns the player's records in chronological order.
func ForPlayer(records []GameRecord, player string) []GameRecord {
	out := make([]GameRecord, 0, 16)
	for _, r := range records {
		if r.Player == player {
			out = append(out, r)
		}
	}
	return Chronological(out)
}

// GroupByPlayer splits records per player, each group chronological.
func GroupByPlayer(records []GameRecord) map[string][]GameRecord {
	grouped := make(map[string][]GameRecord)
	for _, r := range records {
		grouped[r.Player] = append(grouped[r.Player], r)
	}
	for player, games := range grouped {
		grouped[player] = Chronological(games)
	}
	return grouped
}

// Players returns the distinct player names in sorted order.
func Players(records []GameRecord) []string {
	seen := make(map[string]struct{}, len(records))
	out := make([]string, 0, 16)
	for _, r := range records {
		if _, ok := seen[r.Player]; ok {
			continue
		}
		seen[r.Player] = struct{}{}
		out = append(out, r.Player)
	}
	sort.Strings(out)
	return out
}

// Values projects a sequence onto one stat.
func Values(records []GameRecord, s Stat) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Value(s)
	}
	return out
}

// Dedupe keeps the last record seen for each (player, game time) key.
func Dedupe(records []GameRecord) []GameRecord {
	index := make(map[Key]int, len(records))
	out := make([]GameRecord, 0, len(records))
	for _, r := range records {
		if i, ok := index[r.Key()]; ok {
			out[i] = r
			continue
		}
		index[r.Key()] = len(out)
		out = append(out, r)
	}
	return out
}

// GapDays returns the whole days elapsed between two game times.
func GapDays(earlier, later time.Time) int {
	return int(math.Floor(later.Sub(earlier).Hours() / 24))
}

// DeriveRestDays fills RestDays for every record from the gap to the
// same player's previous game. The result is sorted by player then time.
func DeriveRestDays(records []GameRecord) []GameRecord {
	grouped := GroupByPlayer(records)
	out := make([]GameRecord, 0, len(records))
	for _, player := range Players(records) {
		games := grouped[player]
		for i := range games {
			if i == 0 {
				games[i].RestDays = nil
			} else {
				games[i].RestDays = Int(GapDays(games[i-1].PlayedAt, games[i].PlayedAt))
			}
			out = append(out, games[i])
		}
	}
	return out
}

// RetentionPolicy bounds the history kept per player.
type RetentionPolicy struct {
	MaxAge       time.Duration
	MaxPerPlayer int
}

// Apply drops records older than MaxAge relative to now and keeps only the
// newest MaxPerPlayer games of each player. Zero values disable a bound.
func (p RetentionPolicy) Apply(records []GameRecord, now time.Time) []GameRecord {
	cutoff := time.Time{}
	if p.MaxAge > 0 {
		cutoff = now.Add(-p.MaxAge)
	}

	grouped := GroupByPlayer(records)
	out := make([]GameRecord, 0, len(records))
	for _, player := range Players(records) {
		games := grouped[player]
		kept := games[:0:0]
		for _, g := range games {
			if !cutoff.IsZero() && g.PlayedAt.Before(cutoff) {
				continue
			}
			kept = append(kept, g)
		}
		if p.MaxPerPlayer > 0 && len(kept) > p.MaxPerPlayer {
			kept = kept[len(kept)-p.MaxPerPlayer:]
		}
		out = append(out, kept...)
	}
	return out
}
