package dataset

import (
	"testing"
	"time"

	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []gamelog.GameRecord{
		{Player: "A", TeamID: "bos", PlayedAt: day.AddDate(0, 0, 2)},
		{Player: "A", TeamID: "bos", PlayedAt: day},
		{Player: "B", TeamID: "nyk", PlayedAt: day.AddDate(0, 0, 5)},
	}

	got := Summarize(records)
	if got.Records != 3 || got.Players != 2 || got.Teams != 2 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if !got.Oldest.Equal(day) || !got.Newest.Equal(day.AddDate(0, 0, 5)) {
		t.Fatalf("unexpected span: oldest=%s newest=%s", got.Oldest, got.Newest)
	}

	if empty := Summarize(nil); empty.Records != 0 || !empty.Oldest.IsZero() {
		t.Fatalf("unexpected empty summary: %+v", empty)
	}
}
