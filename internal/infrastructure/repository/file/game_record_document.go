package file

import (
	"time"

	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
)

type gameRecordDocument struct {
	Player           string                `json:"player"`
	ProviderPlayerID int64                 `json:"provider_player_id,omitempty"`
	TeamID           string                `json:"team_id"`
	EventID          int64                 `json:"event_id,omitempty"`
	PlayedAt         time.Time             `json:"played_at"`
	Opponent         string                `json:"opponent,omitempty"`
	Home             bool                  `json:"home"`
	Points           float64               `json:"points"`
	Rebounds         float64               `json:"rebounds"`
	Assists          float64               `json:"assists"`
	Minutes          float64               `json:"minutes"`
	Efficiency       float64               `json:"efficiency"`
	RestDays         *int                  `json:"rest_days,omitempty"`
	Extended         gamelog.ExtendedStats `json:"extended"`
}

func gameRecordToDocument(r gamelog.GameRecord) gameRecordDocument {
	return gameRecordDocument{
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
		RestDays:         r.RestDays,
		Extended:         r.Extended,
	}
}

func (d gameRecordDocument) toDomain() gamelog.GameRecord {
	return gamelog.GameRecord{
		Player:           d.Player,
		ProviderPlayerID: d.ProviderPlayerID,
		TeamID:           d.TeamID,
		EventID:          d.EventID,
		PlayedAt:         d.PlayedAt.UTC(),
		Opponent:         d.Opponent,
		Home:             d.Home,
		Points:           d.Points,
		Rebounds:         d.Rebounds,
		Assists:          d.Assists,
		Minutes:          d.Minutes,
		Efficiency:       d.Efficiency,
		RestDays:         d.RestDays,
		Extended:         d.Extended,
	}
}
