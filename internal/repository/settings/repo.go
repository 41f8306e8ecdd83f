// Package settings persists runtime-adjustable settings, currently the hour
// of day for the scheduled batch check.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/subwatch/subwatch/internal/db"
)

type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo stores settings under {prefix}setting:{name}.
type Repo struct {
	store  store
	prefix string
}

func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix + "setting:"}
}

// CheckHour returns the persisted check hour, or fallback when none is set.
func (r *Repo) CheckHour(ctx context.Context, fallback int) (int, error) {
	raw, err := r.store.Get(ctx, r.prefix+"check_hour")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return fallback, nil
		}
		return 0, fmt.Errorf("load check hour: %w", err)
	}
	hour, err := strconv.Atoi(string(raw))
	if err != nil || hour < 0 || hour > 23 {
		return fallback, nil
	}
	return hour, nil
}

// SetCheckHour persists the check hour. Hour must be within 0..23.
func (r *Repo) SetCheckHour(ctx context.Context, hour int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("check hour %d out of range", hour)
	}
	if err := r.store.Set(ctx, r.prefix+"check_hour", []byte(strconv.Itoa(hour))); err != nil {
		return fmt.Errorf("store check hour: %w", err)
	}
	return nil
}
