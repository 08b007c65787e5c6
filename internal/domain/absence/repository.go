package absence

import "context"

// Repository describes absence persistence needs from use cases.
type Repository interface {
	ListAll(ctx context.Context) ([]Absence, error)
	ListByTeam(ctx context.Context, teamID string) ([]Absence, error)
	ReplaceAll(ctx context.Context, items []Absence) error
}
