package roster

import (
	"fmt"
	"sort"
	"strings"
)

// Static is an immutable in-memory Directory.
type Static struct {
	teams      []Team
	teamByID   map[string]Team
	players    map[string]Player
	normalized map[string]string
	byTeam     map[string][]Player
}

func NewStatic(teams []Team, players []Player) (*Static, error) {
	s := &Static{
		teams:      make([]Team, 0, len(teams)),
		teamByID:   make(map[string]Team, len(teams)),
		players:    make(map[string]Player, len(players)),
		normalized: make(map[string]string, len(players)),
		byTeam:     make(map[string][]Player, len(teams)),
	}

	for _, t := range teams {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, ok := s.teamByID[t.ID]; ok {
			return nil, fmt.Errorf("duplicate team id %q", t.ID)
		}
		s.teamByID[t.ID] = t
		s.teams = append(s.teams, t)
	}

	for _, p := range players {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, ok := s.teamByID[p.TeamID]; !ok {
			return nil, fmt.Errorf("player %q references unknown team %q", p.Name, p.TeamID)
		}
		if _, ok := s.players[p.Name]; ok {
			return nil, fmt.Errorf("duplicate player %q", p.Name)
		}
		s.players[p.Name] = p
		s.normalized[normalizeName(p.Name)] = p.Name
		s.byTeam[p.TeamID] = append(s.byTeam[p.TeamID], p)
	}

	sort.Slice(s.teams, func(i, j int) bool { return s.teams[i].ID < s.teams[j].ID })
	return s, nil
}

func (s *Static) TeamOf(player string) (string, bool) {
	p, ok := s.players[player]
	if !ok {
		return "", false
	}
	return p.TeamID, true
}

func (s *Static) Canonical(name string) (string, bool) {
	if _, ok := s.players[name]; ok {
		return name, true
	}
	canonical, ok := s.normalized[normalizeName(name)]
	return canonical, ok
}

func (s *Static) Players(teamID string) []Player {
	items := s.byTeam[teamID]
	out := make([]Player, len(items))
	copy(out, items)
	return out
}

func (s *Static) Teams() []Team {
	out := make([]Team, len(s.teams))
	copy(out, s.teams)
	return out
}

func (s *Static) Team(teamID string) (Team, bool) {
	t, ok := s.teamByID[teamID]
	return t, ok
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
