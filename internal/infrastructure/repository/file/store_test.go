package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/nba-props/internal/domain/absence"
	"github.com/riskibarqy/nba-props/internal/domain/dataset"
	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
)

var tipOff = time.Date(2026, 2, 10, 0, 30, 0, 0, time.UTC)

func TestStore_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	records := []gamelog.GameRecord{
		{Player: "Anthony Edwards", TeamID: "min", PlayedAt: tipOff.AddDate(0, 0, 2), Points: 31, Minutes: 37, RestDays: gamelog.Int(2),
			Extended: gamelog.ExtendedStats{ThreesMade: gamelog.Float(4)}},
		{Player: "Anthony Edwards", TeamID: "min", PlayedAt: tipOff, Points: 27, Minutes: 36},
		{Player: "Rudy Gobert", TeamID: "min", PlayedAt: tipOff, Points: 10, Rebounds: 14, Minutes: 33},
	}
	if err := store.ReplaceAll(ctx, records); err != nil {
		t.Fatalf("replace games: %v", err)
	}
	if err := store.Absences().ReplaceAll(ctx, []absence.Absence{
		{Player: "Mike Conley", TeamID: "min", Reason: "injured: wrist", ReportedAt: tipOff},
	}); err != nil {
		t.Fatalf("replace absences: %v", err)
	}
	meta := dataset.Metadata{UpdatedAt: tipOff, Records: 3, Players: 2, Teams: 1, Absences: 1, DurationMs: 820}
	if err := store.SaveMetadata(ctx, meta); err != nil {
		t.Fatalf("save metadata: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}

	edwards, err := reopened.ListByPlayer(ctx, "Anthony Edwards")
	if err != nil {
		t.Fatalf("list by player: %v", err)
	}
	if len(edwards) != 2 || edwards[0].Points != 27 || edwards[1].Points != 31 {
		t.Fatalf("unexpected history: %+v", edwards)
	}
	if rest, ok := edwards[1].Rest(); !ok || rest != 2 {
		t.Fatalf("unexpected rest days got=%d ok=%v", rest, ok)
	}
	if gamelog.Or(edwards[1].Extended.ThreesMade) != 4 || edwards[1].Extended.Steals != nil {
		t.Fatalf("unexpected extended stats: %+v", edwards[1].Extended)
	}

	team, _ := reopened.ListByTeam(ctx, "min")
	if len(team) != 3 {
		t.Fatalf("unexpected team records got=%d want=3", len(team))
	}

	absences, _ := reopened.Absences().ListByTeam(ctx, "min")
	if len(absences) != 1 || absences[0].Reason != "injured: wrist" {
		t.Fatalf("unexpected absences: %+v", absences)
	}

	gotMeta, ok, err := reopened.LoadMetadata(ctx)
	if err != nil || !ok {
		t.Fatalf("load metadata ok=%v err=%v", ok, err)
	}
	if !gotMeta.UpdatedAt.Equal(meta.UpdatedAt) || gotMeta.Records != 3 || gotMeta.DurationMs != 820 {
		t.Fatalf("unexpected metadata: %+v", gotMeta)
	}

	size, err := reopened.SizeBytes(ctx)
	if err != nil {
		t.Fatalf("size bytes: %v", err)
	}
	if size <= 0 {
		t.Fatalf("expected positive size, got=%d", size)
	}
}

func TestStore_EmptyDirectory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "data"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	all, err := store.ListAll(ctx)
	if err != nil || len(all) != 0 {
		t.Fatalf("expected empty history, got=%d err=%v", len(all), err)
	}
	if _, ok, _ := store.LoadMetadata(ctx); ok {
		t.Fatalf("expected no metadata in a new store")
	}
	if size, _ := store.SizeBytes(ctx); size != 0 {
		t.Fatalf("expected zero size, got=%d", size)
	}
}

func TestStore_RejectsCorruptDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, gamesFile), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	if _, err := Open(dir); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestStore_InvalidAbsenceKeepsPreviousFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	repo := store.Absences()
	if err := repo.ReplaceAll(ctx, []absence.Absence{{Player: "Mike Conley", TeamID: "min"}}); err != nil {
		t.Fatalf("replace absences: %v", err)
	}
	if err := repo.ReplaceAll(ctx, []absence.Absence{{Player: "Mike Conley"}}); err == nil {
		t.Fatalf("expected validation error")
	}
	items, _ := repo.ListAll(ctx)
	if len(items) != 1 {
		t.Fatalf("unexpected absences got=%d want=1", len(items))
	}
}

func TestOpen_RequiresDirectory(t *testing.T) {
	t.Parallel()

	if _, err := Open("  "); err == nil {
		t.Fatalf("expected error for empty directory")
	}
}
