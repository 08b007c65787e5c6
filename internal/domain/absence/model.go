package absence

import (
	"fmt"
	"strings"
	"time"
)

// Absence is one entry of a team's next-game absence report. Player may be
// missing from the stored history, e.g. a two-way or newly signed player.
type Absence struct {
	Player     string
	TeamID     string
	Reason     string
	ReportedAt time.Time
}

func (a Absence) Validate() error {
	if strings.TrimSpace(a.Player) == "" {
		return fmt.Errorf("absence player is required")
	}
	if strings.TrimSpace(a.TeamID) == "" {
		return fmt.Errorf("absence team id is required")
	}
	return nil
}

// Names returns the player names of the absences in input order.
func Names(items []Absence) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.Player)
	}
	return out
}
