package check

import (
	"context"

	"github.com/subwatch/subwatch/internal/domain/status"
	domsub "github.com/subwatch/subwatch/internal/domain/subscription"
)

// RosterReader lists the subscriptions to check.
type RosterReader interface {
	List(ctx context.Context) ([]domsub.Ref, error)
}

// Checker resolves a single subscription into a status.
type Checker interface {
	Check(ctx context.Context, ref domsub.Ref) status.Status
}
