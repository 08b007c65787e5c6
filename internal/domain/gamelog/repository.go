package gamelog

import "context"

// Repository stores the rolling game history. ReplaceAll swaps the whole
// dataset in one step.
type Repository interface {
	ListAll(ctx context.Context) ([]GameRecord, error)
	ListByTeam(ctx context.Context, teamID string) ([]GameRecord, error)
	ListByPlayer(ctx context.Context, player string) ([]GameRecord, error)
	ReplaceAll(ctx context.Context, records []GameRecord) error
}
