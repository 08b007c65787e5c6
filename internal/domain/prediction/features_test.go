package prediction

import (
	"math"
	"reflect"
	"testing"

	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
)

func TestBuildTable_ShortHistoryIsEmpty(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 2, 3} {
		points := make([]float64, n)
		for i := range points {
			points[i] = 10
		}
		if got := BuildTable(playerHistory("A", points), gamelog.StatPoints).Len(); got != 0 {
			t.Fatalf("history of %d games: got %d rows, want 0", n, got)
		}
	}
}

func TestBuildTable_FirstRowUsesPriorGamesOnly(t *testing.T) {
	t.Parallel()

	history := playerHistory("A", []float64{10, 12, 11, 14, 13, 15, 16, 18})
	table := BuildTable(history, gamelog.StatPoints)
	if table.Len() != 5 {
		t.Fatalf("unexpected rows: got=%d want=5", table.Len())
	}
	if len(table.Labels) != table.Len() {
		t.Fatalf("labels and rows differ: %d vs %d", len(table.Labels), table.Len())
	}

	row := table.Rows[0]
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{name: "avg3", got: row.Avg3, want: 11},
		{name: "avg7", got: row.Avg7, want: 11},
		{name: "std", got: row.StdRecent, want: 1},
		{name: "coef var", got: row.CoefVar, want: 1.0 / 11},
		{name: "trend", got: row.Trend5, want: 0.5},
		{name: "max3", got: row.MaxRecent3, want: 12},
		{name: "min3", got: row.MinRecent3, want: 10},
		{name: "range3", got: row.RangeRecent3, want: 2},
		{name: "above avg", got: row.AboveAvgRecent3, want: 1},
		{name: "rest", got: row.RestDays, want: 2},
		{name: "home flag of target", got: row.Home, want: 0},
		{name: "label", got: table.Labels[0], want: 14},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Fatalf("%s: got=%v want=%v", c.name, c.got, c.want)
		}
	}

	last := table.Rows[4]
	if math.Abs(last.Avg7-13) > 1e-9 {
		t.Fatalf("window should hold 7 games: avg7 got=%v want=13", last.Avg7)
	}
}

func TestBuildTable_NoLeakageFromLaterGames(t *testing.T) {
	t.Parallel()

	points := []float64{10, 12, 11, 14, 13, 15, 16, 18}
	base := BuildTable(playerHistory("A", points), gamelog.StatPoints)

	changed := append([]float64(nil), points...)
	changed[len(changed)-1] = 99
	mutated := BuildTable(playerHistory("A", changed), gamelog.StatPoints)

	for i := 0; i < base.Len(); i++ {
		if !reflect.DeepEqual(base.Rows[i], mutated.Rows[i]) {
			t.Fatalf("row %d changed after editing a later game", i)
		}
	}
}

func TestBuildTable_Idempotent(t *testing.T) {
	t.Parallel()

	history := playerHistory("A", []float64{10, 12, 11, 14, 13, 15, 16})
	first := BuildTable(history, gamelog.StatPoints)
	second := BuildTable(history, gamelog.StatPoints)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("feature tables differ between identical calls")
	}
}

func TestBuildTable_DegenerateAndMissingFields(t *testing.T) {
	t.Parallel()

	history := playerHistory("A", []float64{0, 0, 0, 0, 0})
	history[1].Extended.FieldGoalPct = gamelog.Float(0.6)

	table := BuildTable(history, gamelog.StatPoints)
	row := table.Rows[0]
	if row.CoefVar != 0 {
		t.Fatalf("zero mean must yield zero cv, got %v", row.CoefVar)
	}
	if math.Abs(row.FieldGoalPctAvg-0.2) > 1e-9 {
		t.Fatalf("missing fields should count as zero: got=%v want=0.2", row.FieldGoalPctAvg)
	}
	if row.StealsAvg != 0 {
		t.Fatalf("absent field should default to zero, got %v", row.StealsAvg)
	}
	for _, v := range row.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite feature value in %v", row.Values())
		}
	}
}

func TestBuildTable_BackToBackAndHomeSplit(t *testing.T) {
	t.Parallel()

	history := playerHistory("A", []float64{10, 20, 30, 40})
	history[1].PlayedAt = history[0].PlayedAt.AddDate(0, 0, 1)
	history = gamelog.DeriveRestDays(history)

	row := BuildTable(history, gamelog.StatPoints).Rows[0]
	if row.BackToBackAvg != 20 {
		t.Fatalf("unexpected back-to-back avg: got=%v want=20", row.BackToBackAvg)
	}
	// Home games are 10 and 30, the away game is 20.
	if row.HomeAwayDiff != 0 {
		t.Fatalf("unexpected home/away diff: got=%v want=0", row.HomeAwayDiff)
	}
}

func TestBuildNext_UsesCallerContext(t *testing.T) {
	t.Parallel()

	history := playerHistory("A", []float64{10, 12, 11, 14, 13, 15, 16, 18, 20})
	v, ok := BuildNext(history, gamelog.StatPoints, NextGame{Home: false, RestDays: 0})
	if !ok {
		t.Fatalf("expected next vector")
	}
	if v.Home != 0 || v.RestDays != 0 {
		t.Fatalf("caller context not applied: home=%v rest=%v", v.Home, v.RestDays)
	}
	if math.Abs(v.Avg7-15.285714285714286) > 1e-9 {
		t.Fatalf("inference window should be the last 7 games, avg7=%v", v.Avg7)
	}
	if len(v.Values()) != len(FeatureNames) {
		t.Fatalf("feature width mismatch: %d vs %d", len(v.Values()), len(FeatureNames))
	}

	if _, ok := BuildNext(nil, gamelog.StatPoints, DefaultNextGame()); ok {
		t.Fatalf("expected no vector for empty history")
	}
}
