package prediction

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
)

func TestPredictFallback_ThreeGamesUsesWMAOnly(t *testing.T) {
	t.Parallel()

	result, ok := PredictFallback(playerHistory("A", []float64{8, 10, 9}), gamelog.StatPoints, DefaultFallbackConfig())
	if !ok {
		t.Fatalf("expected fallback result")
	}
	if !reflect.DeepEqual(result.Fallback.Models, []string{ModelWMA}) {
		t.Fatalf("unexpected models: %v", result.Fallback.Models)
	}
	if result.Prediction != 9.2 {
		t.Fatalf("unexpected prediction: got=%v want=9.2", result.Prediction)
	}
	if result.Confidence != 60 {
		t.Fatalf("unexpected confidence: got=%v want=60", result.Confidence)
	}
	if math.Abs(result.Interval.Width()-3) > 1e-9 {
		t.Fatalf("interval width should be 3 std: got=%v", result.Interval.Width())
	}
	if result.Tier != TierFallback {
		t.Fatalf("unexpected tier: %s", result.Tier)
	}
}

func TestPredictFallback_MembersByHistoryLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		games int
		want  []string
	}{
		{name: "six games", games: 6, want: []string{ModelWMA}},
		{name: "seven games", games: 7, want: []string{ModelRegression, ModelWMA}},
		{name: "ten games", games: 10, want: []string{ModelForest, ModelRegression, ModelWMA}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			points := make([]float64, tc.games)
			for i := range points {
				points[i] = 12 + float64(i%3)
			}
			result, ok := PredictFallback(playerHistory("A", points), gamelog.StatPoints, DefaultFallbackConfig())
			if !ok {
				t.Fatalf("expected result")
			}
			if !reflect.DeepEqual(result.Fallback.Models, tc.want) {
				t.Fatalf("unexpected models: got=%v want=%v", result.Fallback.Models, tc.want)
			}
			if result.Prediction < 0 || !result.Interval.Contains(result.Prediction) {
				t.Fatalf("invalid result: %+v", result)
			}
		})
	}
}

func TestPredictFallback_TrendAndStreakNudges(t *testing.T) {
	t.Parallel()

	result, ok := PredictFallback(playerHistory("A", []float64{5, 5, 5, 10, 10, 10}), gamelog.StatPoints, DefaultFallbackConfig())
	if !ok {
		t.Fatalf("expected result")
	}
	// WMA of the last five is 9, trend adds 0.3*5 and the hot streak adds 1.5.
	if result.Prediction != 12 {
		t.Fatalf("unexpected prediction: got=%v want=12", result.Prediction)
	}
	want := []string{"trend +5.0", "hot streak +1.5"}
	if !reflect.DeepEqual(result.Fallback.Notes, want) {
		t.Fatalf("unexpected notes: got=%v want=%v", result.Fallback.Notes, want)
	}
}

func TestPredictFallback_ColdStreakAndVolatility(t *testing.T) {
	t.Parallel()

	result, ok := PredictFallback(playerHistory("A", []float64{30, 2, 28, 3, 2, 1}), gamelog.StatPoints, DefaultFallbackConfig())
	if !ok {
		t.Fatalf("expected result")
	}

	joined := strings.Join(result.Fallback.Notes, ";")
	for _, want := range []string{"cold streak -1.5", "high volatility -1.0"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing note %q in %v", want, result.Fallback.Notes)
		}
	}
	if result.Prediction < 0 || result.Interval.Lower < 0 {
		t.Fatalf("prediction and lower bound must be non-negative: %+v", result)
	}
}

func TestPredictFallback_IntervalWidensWithVolatility(t *testing.T) {
	t.Parallel()

	calm, _ := PredictFallback(playerHistory("A", []float64{10, 11, 10, 11, 10}), gamelog.StatPoints, DefaultFallbackConfig())
	wild, _ := PredictFallback(playerHistory("A", []float64{4, 17, 5, 16, 10}), gamelog.StatPoints, DefaultFallbackConfig())
	if wild.Interval.Width() < calm.Interval.Width() {
		t.Fatalf("volatile history produced narrower interval: %v < %v", wild.Interval.Width(), calm.Interval.Width())
	}
	if wild.Confidence >= calm.Confidence {
		t.Fatalf("volatile history should lower confidence: %v >= %v", wild.Confidence, calm.Confidence)
	}
}

func TestPredictFallback_TooShort(t *testing.T) {
	t.Parallel()

	if _, ok := PredictFallback(playerHistory("A", []float64{10, 12}), gamelog.StatPoints, DefaultFallbackConfig()); ok {
		t.Fatalf("expected no result for 2 games")
	}
}

func TestWeightedMovingAverage(t *testing.T) {
	t.Parallel()

	if got := weightedMovingAverage([]float64{100, 1, 2, 3, 4, 5}, 5); math.Abs(got-55.0/15) > 1e-9 {
		t.Fatalf("unexpected wma: got=%v", got)
	}
	if got := weightedMovingAverage([]float64{7}, 5); got != 7 {
		t.Fatalf("single value wma: got=%v want=7", got)
	}
}
