package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
	"github.com/riskibarqy/nba-props/internal/domain/roster"
)

var testNow = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

func testDirectory(t *testing.T) *roster.Static {
	t.Helper()

	dir, err := roster.NewStatic(
		[]roster.Team{
			{ID: "lal", Name: "Los Angeles Lakers", ProviderID: 3427},
			{ID: "bos", Name: "Boston Celtics", ProviderID: 3422},
		},
		[]roster.Player{
			{Name: "LeBron James", TeamID: "lal", ProviderID: 817181},
			{Name: "Austin Reaves", TeamID: "lal", ProviderID: 990033},
			{Name: "Bronny James", TeamID: "lal"},
			{Name: "Jayson Tatum", TeamID: "bos", ProviderID: 831023},
		},
	)
	if err != nil {
		t.Fatalf("build directory: %v", err)
	}
	return dir
}

// playerGames builds n chronological games two days apart ending before testNow.
func playerGames(player, teamID string, n int, points, minutes float64) []gamelog.GameRecord {
	start := testNow.AddDate(0, 0, -2*n)
	out := make([]gamelog.GameRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, gamelog.GameRecord{
			Player:     player,
			TeamID:     teamID,
			PlayedAt:   start.AddDate(0, 0, 2*i),
			Home:       i%2 == 0,
			Points:     points + float64(i%3),
			Rebounds:   points / 4,
			Assists:    points / 5,
			Minutes:    minutes,
			Efficiency: 1.1,
		})
	}
	return out
}

func lakersHistory() []gamelog.GameRecord {
	var out []gamelog.GameRecord
	out = append(out, playerGames("LeBron James", "lal", 8, 26, 35)...)
	out = append(out, playerGames("Austin Reaves", "lal", 8, 16, 31)...)
	out = append(out, playerGames("Bronny James", "lal", 2, 4, 9)...)
	return gamelog.DeriveRestDays(out)
}

func ctxMatcher(ctx context.Context) func(context.Context) bool {
	return func(v context.Context) bool { return v == ctx }
}
