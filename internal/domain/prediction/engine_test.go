package prediction

import (
	"math"
	"slices"
	"testing"

	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
)

func TestEngine_Predict(t *testing.T) {
	t.Parallel()

	engine := DefaultEngine()
	tests := []struct {
		name     string
		points   []float64
		wantOK   bool
		wantTier Tier
	}{
		{name: "seven games select primary", points: []float64{10, 12, 11, 14, 13, 15, 16}, wantOK: true, wantTier: TierPrimary},
		{name: "two games cannot predict", points: []float64{10, 12}, wantOK: false},
		{name: "three games fall back", points: []float64{8, 10, 9}, wantOK: true, wantTier: TierFallback},
		{name: "four games fall back", points: []float64{8, 10, 9, 11}, wantOK: true, wantTier: TierFallback},
		{name: "no games", points: nil, wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			history := append(playerHistory("Subject", tc.points), playerHistory("Teammate", []float64{20, 21, 22, 23, 24, 25})...)
			result, ok := engine.Predict(history, "Subject", gamelog.StatPoints, DefaultNextGame())
			if ok != tc.wantOK {
				t.Fatalf("unexpected availability: got=%v want=%v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if result.Tier != tc.wantTier {
				t.Fatalf("unexpected tier: got=%s want=%s", result.Tier, tc.wantTier)
			}
			if result.Player != "Subject" || result.Games != len(tc.points) {
				t.Fatalf("result not scoped to subject: %+v", result)
			}
			if result.Prediction < 0 || math.IsNaN(result.Prediction) || math.IsInf(result.Prediction, 0) {
				t.Fatalf("invalid prediction %v", result.Prediction)
			}
			if !result.Interval.Contains(result.Prediction) {
				t.Fatalf("interval %+v does not bound %v", result.Interval, result.Prediction)
			}
			if result.Confidence < 0 || result.Confidence > 100 {
				t.Fatalf("confidence out of range: %v", result.Confidence)
			}

			switch result.Tier {
			case TierPrimary:
				if result.Primary == nil || result.Fallback != nil {
					t.Fatalf("primary result must carry primary diagnostics only")
				}
			case TierFallback:
				if result.Fallback == nil || !slices.Contains(result.Fallback.Models, ModelWMA) {
					t.Fatalf("fallback result must list WMA: %+v", result.Fallback)
				}
			}
		})
	}
}

func TestEngine_WithSeedIsDeterministic(t *testing.T) {
	t.Parallel()

	history := playerHistory("A", []float64{22, 18, 25, 30, 21, 19, 27, 24, 26, 20, 23})
	engine := DefaultEngine().WithSeed(7)

	first, ok := engine.Predict(history, "A", gamelog.StatPoints, DefaultNextGame())
	if !ok {
		t.Fatalf("expected prediction")
	}
	second, _ := engine.Predict(history, "A", gamelog.StatPoints, DefaultNextGame())
	if first.Prediction != second.Prediction || first.Primary.MAE != second.Primary.MAE {
		t.Fatalf("same seed produced different results: %+v vs %+v", first, second)
	}
}

func TestEngine_PredictsOtherStats(t *testing.T) {
	t.Parallel()

	history := playerHistory("A", []float64{18, 24, 21, 27, 30, 24})
	for _, s := range []gamelog.Stat{gamelog.StatRebounds, gamelog.StatAssists} {
		result, ok := DefaultEngine().Predict(history, "A", s, NextGame{Home: false, RestDays: 1})
		if !ok {
			t.Fatalf("%s: expected prediction", s)
		}
		if result.Stat != s {
			t.Fatalf("unexpected stat: got=%s want=%s", result.Stat, s)
		}
	}
}
