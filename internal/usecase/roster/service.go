// Package roster manages the set of watched subscriptions.
package roster

import (
	"context"
	"fmt"

	domsub "github.com/subwatch/subwatch/internal/domain/subscription"
)

// Service handles roster management.
type Service struct {
	repo Repository
}

// New creates a Service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add validates and stores a new subscription.
func (s *Service) Add(ctx context.Context, name, url, note string) error {
	ref, err := domsub.New(name, url, note)
	if err != nil {
		return fmt.Errorf("add subscription: %w", err)
	}
	return s.repo.Add(ctx, ref)
}

// Remove deletes a subscription by name.
func (s *Service) Remove(ctx context.Context, name string) error {
	return s.repo.Remove(ctx, name)
}

// SetNote replaces the note on a subscription.
func (s *Service) SetNote(ctx context.Context, name, note string) error {
	return s.repo.UpdateNote(ctx, name, note)
}

// Get returns a single subscription by name.
func (s *Service) Get(ctx context.Context, name string) (domsub.Ref, error) {
	return s.repo.Get(ctx, name)
}

// List returns all subscriptions sorted by name.
func (s *Service) List(ctx context.Context) ([]domsub.Ref, error) {
	return s.repo.List(ctx)
}
