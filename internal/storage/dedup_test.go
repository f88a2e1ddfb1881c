package storage

import (
	"errors"
	"testing"
	"time"
)

func TestMemoryDedupStore(t *testing.T) {
	t.Parallel()

	store := NewMemoryDedupStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	seen, err := store.Seen(t.Context(), "orders:555")
	if err != nil {
		t.Fatalf("Seen() error = %v", err)
	}
	if seen {
		t.Fatal("Seen() = true for unmarked key")
	}

	if err := store.Mark(t.Context(), "orders:555", time.Hour); err != nil {
		t.Fatalf("Mark() error = %v", err)
	}

	seen, err = store.Seen(t.Context(), "orders:555")
	if err != nil {
		t.Fatalf("Seen() error = %v", err)
	}
	if !seen {
		t.Fatal("Seen() = false for marked key")
	}

	// other orders are unaffected
	seen, err = store.Seen(t.Context(), "orders:777")
	if err != nil {
		t.Fatalf("Seen() error = %v", err)
	}
	if seen {
		t.Fatal("Seen() = true for different key")
	}
}

func TestMemoryDedupStore_Expiry(t *testing.T) {
	t.Parallel()

	store := NewMemoryDedupStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Mark(t.Context(), "orders:555", 10*time.Millisecond); err != nil {
		t.Fatalf("Mark() error = %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	seen, err := store.Seen(t.Context(), "orders:555")
	if err != nil {
		t.Fatalf("Seen() error = %v", err)
	}
	if seen {
		t.Fatal("Seen() = true after TTL expiry")
	}
}

func TestMemoryStateStore_TakeConsumes(t *testing.T) {
	t.Parallel()

	store := NewMemoryStateStore()
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Set(t.Context(), "state-1", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := store.Take(t.Context(), "state-1"); err != nil {
		t.Fatalf("Take() error = %v", err)
	}

	// second take must fail: states are one-time
	if err := store.Take(t.Context(), "state-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Take() second call error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStateStore_UnknownState(t *testing.T) {
	t.Parallel()

	store := NewMemoryStateStore()
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Take(t.Context(), "never-issued"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Take() error = %v, want ErrNotFound", err)
	}
}
