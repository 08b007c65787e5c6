package adjustment

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
)

// NameResolver maps an absence report name to the roster's spelling.
type NameResolver interface {
	Canonical(name string) (string, bool)
}

type Adjuster struct {
	cfg   Config
	names NameResolver
}

// NewAdjuster builds an adjuster. A nil resolver matches absence names against
// the history by exact string equality only.
func NewAdjuster(cfg Config, names NameResolver) *Adjuster {
	return &Adjuster{cfg: cfg, names: names}
}

// Adjust applies either the beneficiary boost or the return-from-absence
// penalty to base, never both. absent is the absence report for the team's
// next game; names that do not resolve to a player in teamHistory are
// ignored. An empty report leaves base unchanged.
func (a *Adjuster) Adjust(base float64, player string, teamHistory []gamelog.GameRecord, absent []string, s gamelog.Stat) Result {
	result := Result{
		Base:        base,
		Final:       base,
		Adjustments: []Adjustment{},
		Confidence:  ConfidenceMedium,
	}
	if len(absent) == 0 {
		return result
	}

	impact := ComputeImpact(teamHistory, a.resolve(absent, teamHistory), a.cfg)
	if b, ok := impact.Beneficiary(player); ok {
		boost := b.Boost.Value(s)
		names := impact.AbsentNames()
		result.Final = max(0, base+boost)
		result.Confidence = ConfidenceHigh
		result.Adjustments = append(result.Adjustments, Adjustment{
			Category:      CategoryBeneficiary,
			Delta:         boost,
			Reason:        fmt.Sprintf("%+.1f %s expected from extra usage with %s out", boost, s, strings.Join(names, ", ")),
			AbsentPlayers: names,
		})
		return result
	}

	games := gamelog.ForPlayer(teamHistory, player)
	if len(games) < 2 {
		return result
	}
	gap := gamelog.GapDays(games[len(games)-2].PlayedAt, games[len(games)-1].PlayedAt)
	if gap <= a.cfg.ReturnGapDays {
		return result
	}

	penalty := base * a.cfg.ReturnPenaltyFactor
	result.Final = max(0, base-penalty)
	result.Confidence = ConfidenceMedium
	result.Adjustments = append(result.Adjustments, Adjustment{
		Category: CategoryReturn,
		Delta:    -penalty,
		Reason:   fmt.Sprintf("first game back after %d days out, %.0f%% caution penalty", gap, a.cfg.ReturnPenaltyFactor*100),
		GapDays:  gap,
	})
	return result
}

// Impact exposes the absence impact used by Adjust for reporting.
func (a *Adjuster) Impact(teamHistory []gamelog.GameRecord, absent []string) Impact {
	return ComputeImpact(teamHistory, a.resolve(absent, teamHistory), a.cfg)
}

func (a *Adjuster) resolve(absent []string, teamHistory []gamelog.GameRecord) []string {
	known := make(map[string]struct{})
	for _, p := range gamelog.Players(teamHistory) {
		known[p] = struct{}{}
	}

	out := make([]string, 0, len(absent))
	for _, name := range absent {
		if a.names != nil {
			canonical, ok := a.names.Canonical(name)
			if !ok {
				continue
			}
			name = canonical
		}
		if _, ok := known[name]; ok {
			out = append(out, name)
		}
	}
	return out
}
