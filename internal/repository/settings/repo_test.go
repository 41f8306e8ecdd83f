package settings

import (
	"context"
	"testing"

	"github.com/subwatch/subwatch/internal/db"
)

type mockStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func TestRepo_CheckHour(t *testing.T) {
	store := &mockStore{
		getFn: func(_ context.Context, key string) ([]byte, error) {
			if key != "subwatch:setting:check_hour" {
				t.Errorf("key = %q", key)
			}
			return []byte("14"), nil
		},
	}
	repo := New(store, "subwatch:")

	hour, err := repo.CheckHour(context.Background(), 9)
	if err != nil {
		t.Fatalf("CheckHour: %v", err)
	}
	if hour != 14 {
		t.Errorf("hour = %d, want 14", hour)
	}
}

func TestRepo_CheckHour_FallbackWhenUnset(t *testing.T) {
	store := &mockStore{
		getFn: func(_ context.Context, _ string) ([]byte, error) {
			return nil, &db.Error{Op: db.OpGet, Err: db.ErrKeyNotFound}
		},
	}
	repo := New(store, "subwatch:")

	hour, err := repo.CheckHour(context.Background(), 9)
	if err != nil {
		t.Fatalf("CheckHour: %v", err)
	}
	if hour != 9 {
		t.Errorf("hour = %d, want fallback 9", hour)
	}
}

func TestRepo_CheckHour_FallbackOnGarbage(t *testing.T) {
	store := &mockStore{
		getFn: func(_ context.Context, _ string) ([]byte, error) {
			return []byte("25"), nil
		},
	}
	repo := New(store, "subwatch:")

	hour, err := repo.CheckHour(context.Background(), 9)
	if err != nil {
		t.Fatalf("CheckHour: %v", err)
	}
	if hour != 9 {
		t.Errorf("hour = %d, want fallback 9", hour)
	}
}

func TestRepo_SetCheckHour(t *testing.T) {
	var gotKey, gotValue string
	store := &mockStore{
		setFn: func(_ context.Context, key string, value []byte) error {
			gotKey = key
			gotValue = string(value)
			return nil
		},
	}
	repo := New(store, "subwatch:")

	if err := repo.SetCheckHour(context.Background(), 21); err != nil {
		t.Fatalf("SetCheckHour: %v", err)
	}
	if gotKey != "subwatch:setting:check_hour" {
		t.Errorf("key = %q", gotKey)
	}
	if gotValue != "21" {
		t.Errorf("value = %q", gotValue)
	}
}

func TestRepo_SetCheckHour_OutOfRange(t *testing.T) {
	repo := New(&mockStore{}, "subwatch:")
	if err := repo.SetCheckHour(context.Background(), 24); err == nil {
		t.Fatal("expected error for hour 24")
	}
}
