package inspect

import (
	"context"

	"github.com/subwatch/subwatch/internal/domain/status"
)

// Inspector resolves a bare subscription URL through the full strategy chain.
type Inspector interface {
	Inspect(ctx context.Context, rawURL string) status.Status
}

// Namer resolves a provider name for a subscription URL.
type Namer interface {
	Resolve(ctx context.Context, rawURL string) string
}
