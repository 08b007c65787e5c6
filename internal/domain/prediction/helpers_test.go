package prediction

import (
	"time"

	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
)

var seasonStart = time.Date(2026, 1, 2, 0, 30, 0, 0, time.UTC)

// playerHistory builds a chronological history with games two days apart,
// alternating home and away, with rest days derived.
func playerHistory(player string, points []float64) []gamelog.GameRecord {
	records := make([]gamelog.GameRecord, 0, len(points))
	for i, p := range points {
		records = append(records, gamelog.GameRecord{
			Player:     player,
			TeamID:     "lal",
			PlayedAt:   seasonStart.AddDate(0, 0, 2*i),
			Home:       i%2 == 0,
			Points:     p,
			Rebounds:   p / 3,
			Assists:    p / 4,
			Minutes:    28 + float64(i%4),
			Efficiency: p / 18,
		})
	}
	return gamelog.DeriveRestDays(records)
}
