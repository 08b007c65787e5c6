package roster

import (
	"os"
	"strings"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	domainroster "github.com/riskibarqy/nba-props/internal/domain/roster"
)

type rosterDocument struct {
	Teams   []domainroster.Team   `json:"teams"`
	Players []domainroster.Player `json:"players"`
}

// Load reads a roster document from path and builds a static directory.
func Load(path string) (*domainroster.Static, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, crerr.New("roster path is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, crerr.Wrapf(err, "read roster %s", path)
	}

	dir, err := Parse(raw)
	if err != nil {
		return nil, crerr.Wrapf(err, "load roster %s", path)
	}
	return dir, nil
}

func Parse(raw []byte) (*domainroster.Static, error) {
	var doc rosterDocument
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, crerr.Wrap(err, "decode roster")
	}
	if len(doc.Teams) == 0 {
		return nil, crerr.New("roster has no teams")
	}

	for i := range doc.Teams {
		doc.Teams[i].ID = strings.ToLower(strings.TrimSpace(doc.Teams[i].ID))
		doc.Teams[i].Name = strings.TrimSpace(doc.Teams[i].Name)
	}
	for i := range doc.Players {
		doc.Players[i].Name = strings.TrimSpace(doc.Players[i].Name)
		doc.Players[i].TeamID = strings.ToLower(strings.TrimSpace(doc.Players[i].TeamID))
		doc.Players[i].Position = strings.ToUpper(strings.TrimSpace(doc.Players[i].Position))
	}

	dir, err := domainroster.NewStatic(doc.Teams, doc.Players)
	if err != nil {
		return nil, crerr.Wrap(err, "build roster")
	}
	return dir, nil
}
