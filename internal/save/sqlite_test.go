package save_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/peterkuimelis/cardcrawl/internal/save"
)

func openTempStore(t *testing.T, slot string) *save.SQLiteStore {
	t.Helper()
	store, err := save.OpenSQLite(filepath.Join(t.TempDir(), "saves.db"), slot)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := save.OpenSQLite("", ""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTempStore(t, "")

	if _, err := store.Load(ctx); !errors.Is(err, save.ErrNotFound) {
		t.Fatalf("load empty store: got %v, want ErrNotFound", err)
	}

	p := save.NewProgress()
	p.PlayerID = "p-1"
	p.LastSaved = time.Date(2026, time.February, 22, 16, 40, 0, 0, time.UTC)
	p.Items["health_potion"] = 2
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	p.Player.Gold = 300
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("save over existing slot: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.PlayerID != "p-1" {
		t.Fatalf("player id = %q, want %q", got.PlayerID, "p-1")
	}
	if got.Player.Gold != 300 {
		t.Fatalf("gold = %d, want 300", got.Player.Gold)
	}
	if got.Items["health_potion"] != 2 {
		t.Fatalf("health potions = %d, want 2", got.Items["health_potion"])
	}

	if err := store.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, save.ErrNotFound) {
		t.Fatalf("load after delete: got %v, want ErrNotFound", err)
	}
}

func TestSQLiteSlotsAreIndependent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "saves.db")
	a, err := save.OpenSQLite(path, "a")
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := save.OpenSQLite(path, "b")
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if err := a.Save(ctx, save.NewProgress()); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Load(ctx); !errors.Is(err, save.ErrNotFound) {
		t.Fatalf("slot b should be empty, got %v", err)
	}
}
