package sofascore

type eventsEnvelope struct {
	Events      []eventPayload `json:"events"`
	HasNextPage bool           `json:"hasNextPage"`
}

type eventPayload struct {
	ID             int64             `json:"id"`
	StartTimestamp int64             `json:"startTimestamp"`
	Tournament     tournamentPayload `json:"tournament"`
	HomeTeam       teamPayload       `json:"homeTeam"`
	AwayTeam       teamPayload       `json:"awayTeam"`
	Status         statusPayload     `json:"status"`
}

type tournamentPayload struct {
	Name             string `json:"name"`
	UniqueTournament struct {
		Name string `json:"name"`
	} `json:"uniqueTournament"`
}

type teamPayload struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

type statusPayload struct {
	Code int    `json:"code"`
	Type string `json:"type"`
}

type playerStatisticsEnvelope struct {
	Statistics *statisticsPayload `json:"statistics"`
}

type statisticsPayload struct {
	SecondsPlayed         int      `json:"secondsPlayed"`
	Points                float64  `json:"points"`
	Rebounds              float64  `json:"rebounds"`
	Assists               float64  `json:"assists"`
	FieldGoalsAttempted   float64  `json:"fieldGoalsAttempted"`
	FieldGoalPercentage   *float64 `json:"fieldGoalPercentage"`
	ThreePointsPercentage *float64 `json:"threePointsPercentage"`
	FreeThrowsPercentage  *float64 `json:"freeThrowsPercentage"`
	ThreePointsMade       *float64 `json:"threePointsMade"`
	Steals                *float64 `json:"steals"`
	Blocks                *float64 `json:"blocks"`
	Turnovers             *float64 `json:"turnovers"`
	PlusMinus             *float64 `json:"plusMinusValue"`
	OffensiveRebounds     *float64 `json:"offensiveRebounds"`
	DefensiveRebounds     *float64 `json:"defensiveRebounds"`
}

type lineupsEnvelope struct {
	Home lineupSide `json:"home"`
	Away lineupSide `json:"away"`
}

type lineupSide struct {
	MissingPlayers []missingPlayerPayload `json:"missingPlayers"`
}

type missingPlayerPayload struct {
	Player struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"player"`
	Type        string `json:"type"`
	Description string `json:"description"`
	// Reason is a free-text string on some feeds and a numeric code on others.
	Reason any `json:"reason"`
}
