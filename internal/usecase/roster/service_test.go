package roster

import (
	"context"
	"errors"
	"testing"

	domsub "github.com/subwatch/subwatch/internal/domain/subscription"
)

type mockRepo struct {
	addFn        func(ctx context.Context, ref domsub.Ref) error
	getFn        func(ctx context.Context, name string) (domsub.Ref, error)
	removeFn     func(ctx context.Context, name string) error
	updateNoteFn func(ctx context.Context, name, note string) error
	listFn       func(ctx context.Context) ([]domsub.Ref, error)
}

func (m *mockRepo) Add(ctx context.Context, ref domsub.Ref) error {
	if m.addFn != nil {
		return m.addFn(ctx, ref)
	}
	return nil
}

func (m *mockRepo) Get(ctx context.Context, name string) (domsub.Ref, error) {
	if m.getFn != nil {
		return m.getFn(ctx, name)
	}
	return domsub.Ref{}, nil
}

func (m *mockRepo) Remove(ctx context.Context, name string) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, name)
	}
	return nil
}

func (m *mockRepo) UpdateNote(ctx context.Context, name, note string) error {
	if m.updateNoteFn != nil {
		return m.updateNoteFn(ctx, name, note)
	}
	return nil
}

func (m *mockRepo) List(ctx context.Context) ([]domsub.Ref, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func TestService_Add(t *testing.T) {
	var stored domsub.Ref
	repo := &mockRepo{
		addFn: func(_ context.Context, ref domsub.Ref) error {
			stored = ref
			return nil
		},
	}
	svc := New(repo)

	err := svc.Add(context.Background(), "airport-a", "https://example.com/sub", "primary")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if stored.Name() != "airport-a" || stored.Note() != "primary" {
		t.Errorf("stored ref: %+v", stored)
	}
}

func TestService_Add_InvalidURL(t *testing.T) {
	svc := New(&mockRepo{})

	err := svc.Add(context.Background(), "airport-a", "ftp://example.com/sub", "")
	if err == nil {
		t.Fatal("expected error for non-http url")
	}
}

func TestService_Add_EmptyName(t *testing.T) {
	svc := New(&mockRepo{})

	err := svc.Add(context.Background(), "", "https://example.com/sub", "")
	if err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestService_Add_RepoError(t *testing.T) {
	wantErr := errors.New("boom")
	repo := &mockRepo{
		addFn: func(_ context.Context, _ domsub.Ref) error { return wantErr },
	}
	svc := New(repo)

	err := svc.Add(context.Background(), "a", "https://example.com/sub", "")
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestService_SetNote(t *testing.T) {
	var gotName, gotNote string
	repo := &mockRepo{
		updateNoteFn: func(_ context.Context, name, note string) error {
			gotName, gotNote = name, note
			return nil
		},
	}
	svc := New(repo)

	if err := svc.SetNote(context.Background(), "airport-a", "backup line"); err != nil {
		t.Fatalf("SetNote: %v", err)
	}
	if gotName != "airport-a" || gotNote != "backup line" {
		t.Errorf("got %q/%q", gotName, gotNote)
	}
}
