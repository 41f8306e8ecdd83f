// Package subscription persists the watched subscription roster as Redis
// hashes keyed by name.
package subscription

import (
	"context"
	"fmt"
	"sort"

	"github.com/subwatch/subwatch/internal/domain"
	domsub "github.com/subwatch/subwatch/internal/domain/subscription"
)

// store is the consumer interface for roster operations (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo stores subscription refs under {prefix}sub:{name}.
type Repo struct {
	store  store
	prefix string
}

// New creates a subscription repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

func (r *Repo) key(name string) string {
	return r.prefix + "sub:" + name
}

// Add stores a new ref. Returns domain.ErrAlreadyExists when the name is taken.
func (r *Repo) Add(ctx context.Context, ref domsub.Ref) error {
	key := r.key(ref.Name())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check subscription %s: %w", ref.Name(), err)
	}
	if exists {
		return fmt.Errorf("subscription %s: %w", ref.Name(), domain.ErrAlreadyExists)
	}
	if err := r.store.HSet(ctx, key, refToHash(ref)); err != nil {
		return fmt.Errorf("store subscription %s: %w", ref.Name(), err)
	}
	return nil
}

// Get returns the ref stored under name.
func (r *Repo) Get(ctx context.Context, name string) (domsub.Ref, error) {
	m, err := r.store.HGetAll(ctx, r.key(name))
	if err != nil {
		return domsub.Ref{}, fmt.Errorf("load subscription %s: %w", name, err)
	}
	if len(m) == 0 {
		return domsub.Ref{}, fmt.Errorf("subscription %s: %w", name, domain.ErrNotFound)
	}
	return refFromHash(m), nil
}

// Remove deletes the ref stored under name.
func (r *Repo) Remove(ctx context.Context, name string) error {
	key := r.key(name)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check subscription %s: %w", name, err)
	}
	if !exists {
		return fmt.Errorf("subscription %s: %w", name, domain.ErrNotFound)
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("delete subscription %s: %w", name, err)
	}
	return nil
}

// UpdateNote replaces the note on an existing ref.
func (r *Repo) UpdateNote(ctx context.Context, name, note string) error {
	ref, err := r.Get(ctx, name)
	if err != nil {
		return err
	}
	updated := ref.WithNote(note)
	if err := r.store.HSet(ctx, r.key(name), refToHash(updated)); err != nil {
		return fmt.Errorf("update subscription %s: %w", name, err)
	}
	return nil
}

// List returns all stored refs sorted by name.
func (r *Repo) List(ctx context.Context) ([]domsub.Ref, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"sub:*")
	if err != nil {
		return nil, fmt.Errorf("scan subscriptions: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}

	refs := make([]domsub.Ref, 0, len(hashes))
	for _, m := range hashes {
		if len(m) == 0 {
			continue // key expired between Scan and HGetAll
		}
		refs = append(refs, refFromHash(m))
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name() < refs[j].Name() })
	return refs, nil
}
