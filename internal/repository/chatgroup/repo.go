// Package chatgroup tracks which Telegram group chats are authorized to run
// bot commands, backed by a Redis set.
package chatgroup

import (
	"context"
	"fmt"
	"sort"
	"strconv"
)

type store interface {
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SIsMember(ctx context.Context, key string, member string) (bool, error)
}

// Repo stores authorized chat ids under {prefix}groups.
type Repo struct {
	store store
	key   string
}

func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, key: keyPrefix + "groups"}
}

// Add authorizes a chat id.
func (r *Repo) Add(ctx context.Context, chatID int64) error {
	if err := r.store.SAdd(ctx, r.key, strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("add group %d: %w", chatID, err)
	}
	return nil
}

// Remove revokes a chat id.
func (r *Repo) Remove(ctx context.Context, chatID int64) error {
	if err := r.store.SRem(ctx, r.key, strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("remove group %d: %w", chatID, err)
	}
	return nil
}

// Contains reports whether a chat id is authorized.
func (r *Repo) Contains(ctx context.Context, chatID int64) (bool, error) {
	ok, err := r.store.SIsMember(ctx, r.key, strconv.FormatInt(chatID, 10))
	if err != nil {
		return false, fmt.Errorf("check group %d: %w", chatID, err)
	}
	return ok, nil
}

// List returns all authorized chat ids in ascending order. Members that do
// not parse as integers are skipped.
func (r *Repo) List(ctx context.Context) ([]int64, error) {
	members, err := r.store.SMembers(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
