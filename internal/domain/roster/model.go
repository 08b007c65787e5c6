package roster

import (
	"fmt"
	"strings"
)

// Team is static reference data for one franchise.
type Team struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ProviderID int64  `json:"provider_id"`
}

// Player is static reference data for one rostered player.
type Player struct {
	Name       string `json:"name"`
	TeamID     string `json:"team_id"`
	Position   string `json:"position,omitempty"`
	ProviderID int64  `json:"provider_id"`
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if strings.TrimSpace(p.TeamID) == "" {
		return fmt.Errorf("player team id is required")
	}
	return nil
}

// Directory resolves names against the known roster.
type Directory interface {
	// TeamOf returns the team of a canonical player name.
	TeamOf(player string) (string, bool)
	// Canonical maps a loosely spelled name to the roster's spelling.
	Canonical(name string) (string, bool)
	Players(teamID string) []Player
	Teams() []Team
}
