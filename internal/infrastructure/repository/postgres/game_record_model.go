package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
)

type gameRecordTableModel struct {
	Player           string        `db:"player"`
	ProviderPlayerID int64         `db:"provider_player_id"`
	TeamID           string        `db:"team_id"`
	EventID          int64         `db:"event_id"`
	PlayedAt         time.Time     `db:"played_at"`
	Opponent         string        `db:"opponent"`
	Home             bool          `db:"home"`
	Points           float64       `db:"points"`
	Rebounds         float64       `db:"rebounds"`
	Assists          float64       `db:"assists"`
	Minutes          float64       `db:"minutes"`
	Efficiency       float64       `db:"efficiency"`
	RestDays         sql.NullInt64 `db:"rest_days"`
	Extended         string        `db:"extended_stats"`
}

func gameRecordToRow(r gamelog.GameRecord) gameRecordTableModel {
	return gameRecordTableModel{
		Player:           r.Player,
		ProviderPlayerID: r.ProviderPlayerID,
		TeamID:           r.TeamID,
		EventID:          r.EventID,
		PlayedAt:         r.PlayedAt.UTC(),
		Opponent:         r.Opponent,
		Home:             r.Home,
		Points:           r.Points,
		Rebounds:         r.Rebounds,
		Assists:          r.Assists,
		Minutes:          r.Minutes,
		Efficiency:       r.Efficiency,
		RestDays:         nullableInt(r.RestDays),
		Extended:         encodeExtended(r.Extended),
	}
}

func gameRecordFromRow(row gameRecordTableModel) gamelog.GameRecord {
	return gamelog.GameRecord{
		Player:           row.Player,
		ProviderPlayerID: row.ProviderPlayerID,
		TeamID:           row.TeamID,
		EventID:          row.EventID,
		PlayedAt:         row.PlayedAt.UTC(),
		Opponent:         row.Opponent,
		Home:             row.Home,
		Points:           row.Points,
		Rebounds:         row.Rebounds,
		Assists:          row.Assists,
		Minutes:          row.Minutes,
		Efficiency:       row.Efficiency,
		RestDays:         nullInt64ToIntPtr(row.RestDays),
		Extended:         decodeExtended(row.Extended),
	}
}

type absenceTableModel struct {
	Player     string    `db:"player"`
	TeamID     string    `db:"team_id"`
	Reason     string    `db:"reason"`
	ReportedAt time.Time `db:"reported_at"`
}

type metadataTableModel struct {
	ID        int       `db:"id"`
	Payload   string    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}
