package telegram

import (
	"context"

	"github.com/subwatch/subwatch/internal/domain/status"
	domsub "github.com/subwatch/subwatch/internal/domain/subscription"
	inspectuc "github.com/subwatch/subwatch/internal/usecase/inspect"
)

// Roster manages the watched subscription set.
type Roster interface {
	Add(ctx context.Context, name, url, note string) error
	Remove(ctx context.Context, name string) error
	SetNote(ctx context.Context, name, note string) error
	List(ctx context.Context) ([]domsub.Ref, error)
}

// CheckRunner runs the batch check over the whole roster.
type CheckRunner interface {
	Run(ctx context.Context) ([]status.Status, error)
}

// InspectRunner inspects the first URL found in free-form text.
type InspectRunner interface {
	Run(ctx context.Context, text string) (inspectuc.Report, bool)
}

// GroupRegistry tracks which group chats may use the bot.
type GroupRegistry interface {
	Add(ctx context.Context, chatID int64) error
	Remove(ctx context.Context, chatID int64) error
	Contains(ctx context.Context, chatID int64) (bool, error)
	List(ctx context.Context) ([]int64, error)
}

// Settings persists the daily check hour.
type Settings interface {
	SetCheckHour(ctx context.Context, hour int) error
}
