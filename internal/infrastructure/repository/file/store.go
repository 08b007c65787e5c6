package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/nba-props/internal/domain/absence"
	"github.com/riskibarqy/nba-props/internal/domain/dataset"
	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
)

const (
	gamesFile    = "games.json"
	absencesFile = "absences.json"
	metadataFile = "metadata.json"
)

// Store keeps the history, the absence reports and the ingestion metadata
// as JSON documents in one directory. It implements gamelog.Repository,
// absence.Repository, dataset.Repository and dataset.SizeReporter.
type Store struct {
	dir      string
	games    *document[[]gameRecordDocument]
	absences *document[[]absenceDocument]
	meta     *document[dataset.Metadata]
}

func Open(dir string) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, crerr.New("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, crerr.Wrapf(err, "create data directory %s", dir)
	}

	games, err := openDocument[[]gameRecordDocument](filepath.Join(dir, gamesFile))
	if err != nil {
		return nil, err
	}
	absences, err := openDocument[[]absenceDocument](filepath.Join(dir, absencesFile))
	if err != nil {
		return nil, err
	}
	meta, err := openDocument[dataset.Metadata](filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}

	return &Store{dir: dir, games: games, absences: absences, meta: meta}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) ListAll(_ context.Context) ([]gamelog.GameRecord, error) {
	return s.selectGames(func(gamelog.GameRecord) bool { return true }), nil
}

func (s *Store) ListByTeam(_ context.Context, teamID string) ([]gamelog.GameRecord, error) {
	return s.selectGames(func(r gamelog.GameRecord) bool { return r.TeamID == teamID }), nil
}

func (s *Store) ListByPlayer(_ context.Context, player string) ([]gamelog.GameRecord, error) {
	return s.selectGames(func(r gamelog.GameRecord) bool { return r.Player == player }), nil
}

func (s *Store) selectGames(keep func(gamelog.GameRecord) bool) []gamelog.GameRecord {
	var out []gamelog.GameRecord
	s.games.read(func(docs []gameRecordDocument, _ bool) {
		out = make([]gamelog.GameRecord, 0, len(docs))
		for _, doc := range docs {
			record := doc.toDomain()
			if keep(record) {
				out = append(out, record)
			}
		}
	})
	return gamelog.Chronological(out)
}

func (s *Store) ReplaceAll(_ context.Context, records []gamelog.GameRecord) error {
	records = gamelog.Chronological(gamelog.Dedupe(records))
	docs := make([]gameRecordDocument, 0, len(records))
	for _, r := range records {
		docs = append(docs, gameRecordToDocument(r))
	}
	return s.games.write(docs)
}

// Absences exposes the absence side of the store as an absence.Repository.
func (s *Store) Absences() *AbsenceRepository {
	return &AbsenceRepository{store: s}
}

func (s *Store) SaveMetadata(_ context.Context, m dataset.Metadata) error {
	m.UpdatedAt = m.UpdatedAt.UTC()
	return s.meta.write(m)
}

func (s *Store) LoadMetadata(_ context.Context) (dataset.Metadata, bool, error) {
	var (
		out dataset.Metadata
		ok  bool
	)
	s.meta.read(func(m dataset.Metadata, exists bool) {
		out, ok = m, exists
	})
	return out, ok, nil
}

// SizeBytes sums the size of the three documents.
func (s *Store) SizeBytes(_ context.Context) (int64, error) {
	var total int64
	for _, sizeOf := range []func() (int64, error){s.games.size, s.absences.size, s.meta.size} {
		n, err := sizeOf()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

type AbsenceRepository struct {
	store *Store
}

func (r *AbsenceRepository) ListAll(_ context.Context) ([]absence.Absence, error) {
	return r.selectAbsences(func(absence.Absence) bool { return true }), nil
}

func (r *AbsenceRepository) ListByTeam(_ context.Context, teamID string) ([]absence.Absence, error) {
	return r.selectAbsences(func(a absence.Absence) bool { return a.TeamID == teamID }), nil
}

func (r *AbsenceRepository) selectAbsences(keep func(absence.Absence) bool) []absence.Absence {
	var out []absence.Absence
	r.store.absences.read(func(docs []absenceDocument, _ bool) {
		out = make([]absence.Absence, 0, len(docs))
		for _, doc := range docs {
			item := doc.toDomain()
			if keep(item) {
				out = append(out, item)
			}
		}
	})
	return out
}

func (r *AbsenceRepository) ReplaceAll(_ context.Context, items []absence.Absence) error {
	docs := make([]absenceDocument, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return crerr.Wrapf(err, "absence %q", item.Player)
		}
		docs = append(docs, absenceDocument{
			Player:     item.Player,
			TeamID:     item.TeamID,
			Reason:     item.Reason,
			ReportedAt: item.ReportedAt.UTC(),
		})
	}
	return r.store.absences.write(docs)
}

type absenceDocument struct {
	Player     string    `json:"player"`
	TeamID     string    `json:"team_id"`
	Reason     string    `json:"reason"`
	ReportedAt time.Time `json:"reported_at"`
}

func (d absenceDocument) toDomain() absence.Absence {
	return absence.Absence{Player: d.Player, TeamID: d.TeamID, Reason: d.Reason, ReportedAt: d.ReportedAt}
}
