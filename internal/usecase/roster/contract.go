package roster

import (
	"context"

	domsub "github.com/subwatch/subwatch/internal/domain/subscription"
)

// Repository persists the watched subscription roster.
type Repository interface {
	Add(ctx context.Context, ref domsub.Ref) error
	Get(ctx context.Context, name string) (domsub.Ref, error)
	Remove(ctx context.Context, name string) error
	UpdateNote(ctx context.Context, name, note string) error
	List(ctx context.Context) ([]domsub.Ref, error)
}
