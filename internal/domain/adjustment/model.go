package adjustment

import "github.com/riskibarqy/nba-props/internal/domain/gamelog"

type Category string

const (
	CategoryBeneficiary Category = "absence_beneficiary"
	CategoryReturn      Category = "return_from_absence"
)

type ConfidenceLabel string

const (
	ConfidenceLow    ConfidenceLabel = "low"
	ConfidenceMedium ConfidenceLabel = "medium"
	ConfidenceHigh   ConfidenceLabel = "high"
)

// Adjustment is one applied correction to a base prediction.
type Adjustment struct {
	Category      Category
	Delta         float64
	Reason        string
	AbsentPlayers []string
	GapDays       int
}

// Result holds the base and final predictions and the adjustments between them.
type Result struct {
	Base        float64
	Final       float64
	Adjustments []Adjustment
	Confidence  ConfidenceLabel
}

func (r Result) Has(c Category) bool {
	for _, a := range r.Adjustments {
		if a.Category == c {
			return true
		}
	}
	return false
}

// Config holds the heuristic constants of the adjustment layer. They are
// judgment calls, not fitted values.
type Config struct {
	RedistributionFactor float64
	ReturnPenaltyFactor  float64
	ReturnGapDays        int
	Beneficiaries        int
}

func DefaultConfig() Config {
	return Config{
		RedistributionFactor: 0.7,
		ReturnPenaltyFactor:  0.15,
		ReturnGapDays:        10,
		Beneficiaries:        3,
	}
}

// StatLine is a per-game average box score.
type StatLine struct {
	Points   float64
	Rebounds float64
	Assists  float64
	Minutes  float64
}

func (l StatLine) Value(s gamelog.Stat) float64 {
	switch s {
	case gamelog.StatRebounds:
		return l.Rebounds
	case gamelog.StatAssists:
		return l.Assists
	default:
		return l.Points
	}
}

func (l StatLine) add(o StatLine) StatLine {
	return StatLine{
		Points:   l.Points + o.Points,
		Rebounds: l.Rebounds + o.Rebounds,
		Assists:  l.Assists + o.Assists,
		Minutes:  l.Minutes + o.Minutes,
	}
}

func (l StatLine) scale(f float64) StatLine {
	return StatLine{
		Points:   l.Points * f,
		Rebounds: l.Rebounds * f,
		Assists:  l.Assists * f,
		Minutes:  l.Minutes * f,
	}
}

func averageLine(games []gamelog.GameRecord) StatLine {
	if len(games) == 0 {
		return StatLine{}
	}
	var sum StatLine
	for _, g := range games {
		sum = sum.add(StatLine{Points: g.Points, Rebounds: g.Rebounds, Assists: g.Assists, Minutes: g.Minutes})
	}
	return sum.scale(1 / float64(len(games)))
}
