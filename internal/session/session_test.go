package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/cardcrawl/internal/game"
	"github.com/peterkuimelis/cardcrawl/internal/log"
	"github.com/peterkuimelis/cardcrawl/internal/save"
	"github.com/peterkuimelis/cardcrawl/internal/session"
)

type recorder struct {
	mu     sync.Mutex
	events []log.GameEvent
}

func (r *recorder) Notify(_ context.Context, ev log.GameEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func newSession(t *testing.T, store save.Store) *session.Session {
	t.Helper()
	s, err := session.New(context.Background(), game.Config{Store: store, Seed: 1, NoShuffle: true}, nil)
	require.NoError(t, err)
	return s
}

func setGold(s *session.Session, gold int) {
	s.Inspect(func(_ *game.Battle, p *save.Progress) { p.Player.Gold = gold })
}

func TestNewCreatesProfile(t *testing.T) {
	store := save.NewMemoryStore()
	newSession(t, store)

	saved, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, saved.PlayerID)
	assert.Equal(t, []int{1}, saved.UnlockedLevels)
}

func TestNewLoadsExistingProfile(t *testing.T) {
	ctx := context.Background()
	store := save.NewMemoryStore()
	p := save.NewProgress()
	p.Player.Gold = 500
	p.UnlockLevel(2)
	require.NoError(t, store.Save(ctx, p))

	s := newSession(t, store)
	s.Inspect(func(b *game.Battle, p *save.Progress) {
		assert.Nil(t, b)
		assert.Equal(t, 500, p.Player.Gold)
	})
	levels := s.Levels()
	require.Len(t, levels, 5)
	assert.True(t, levels[1].Unlocked)
	assert.False(t, levels[2].Unlocked)
}

func TestStartBattleChecksUnlocks(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, nil)

	assert.ErrorIs(t, s.StartBattle(ctx, 99), game.ErrUnknownLevel)
	assert.ErrorIs(t, s.StartBattle(ctx, 2), session.ErrLevelLocked)
	require.NoError(t, s.StartBattle(ctx, 1))

	st := s.State()
	assert.Equal(t, game.StatePlayerActive, st.Phase)
	assert.Equal(t, 1, st.TurnCount)

	_, err := s.PlayCard(ctx, 0)
	require.NoError(t, err)
	require.NoError(t, s.EndTurn(ctx))
	assert.Equal(t, 3, s.State().TurnCount)
}

func TestSubscribersReceiveEvents(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, nil)
	rec := &recorder{}
	unsubscribe := s.Subscribe(rec)

	require.NoError(t, s.StartBattle(ctx, 1))
	seen := rec.count()
	assert.Positive(t, seen)

	unsubscribe()
	require.NoError(t, s.EndTurn(ctx))
	assert.Equal(t, seen, rec.count())
}

func TestBuyCard(t *testing.T) {
	ctx := context.Background()
	store := save.NewMemoryStore()
	s := newSession(t, store)

	assert.ErrorIs(t, s.BuyCard(ctx, "skill_draw"), session.ErrNotEnoughGold)
	assert.ErrorIs(t, s.BuyCard(ctx, "nope"), game.ErrInvalidCard)

	setGold(s, 100)
	require.NoError(t, s.BuyCard(ctx, "skill_draw"))

	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, saved.Player.Gold)
	assert.Contains(t, saved.OwnedCards, "skill_draw")
}

func TestBuyItem(t *testing.T) {
	ctx := context.Background()
	store := save.NewMemoryStore()
	s := newSession(t, store)
	setGold(s, 120)

	assert.ErrorIs(t, s.BuyItem(ctx, "elixir"), game.ErrUnknownItem)
	require.NoError(t, s.BuyItem(ctx, "health_potion"))
	require.NoError(t, s.BuyItem(ctx, "health_potion"))
	assert.ErrorIs(t, s.BuyItem(ctx, "health_potion"), session.ErrNotEnoughGold)

	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Items["health_potion"])
	assert.Equal(t, 20, saved.Player.Gold)
}

type flakyStore struct {
	*save.MemoryStore
	fail bool
}

func (f *flakyStore) Save(ctx context.Context, p *save.Progress) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.MemoryStore.Save(ctx, p)
}

func TestPurchaseRolledBackWhenSaveFails(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: save.NewMemoryStore()}
	s := newSession(t, store)
	setGold(s, 200)

	var gold, owned, items int
	s.Inspect(func(_ *game.Battle, p *save.Progress) {
		gold, owned, items = p.Player.Gold, len(p.OwnedCards), len(p.Items)
	})

	store.fail = true
	assert.Error(t, s.BuyCard(ctx, "skill_draw"))
	assert.Error(t, s.BuyItem(ctx, "health_potion"))

	s.Inspect(func(_ *game.Battle, p *save.Progress) {
		assert.Equal(t, gold, p.Player.Gold)
		assert.Len(t, p.OwnedCards, owned)
		assert.Len(t, p.Items, items)
		assert.NotContains(t, p.Items, "health_potion")
	})

	store.fail = false
	require.NoError(t, s.BuyItem(ctx, "health_potion"))
	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Items["health_potion"])
	assert.Equal(t, 150, saved.Player.Gold)
}

func TestUseItemSavesInventory(t *testing.T) {
	ctx := context.Background()
	store := save.NewMemoryStore()
	s := newSession(t, store)
	setGold(s, 50)
	require.NoError(t, s.BuyItem(ctx, "health_potion"))
	require.NoError(t, s.StartBattle(ctx, 1))

	_, err := s.UseItem(ctx, "health_potion")
	require.NoError(t, err)

	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, saved.Items["health_potion"])
}

func TestEquip(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, nil)

	assert.ErrorIs(t, s.Equip(ctx, nil), session.ErrEmptyDeck)
	assert.ErrorIs(t, s.Equip(ctx, []string{"attack_heavy"}), session.ErrNotOwned)
	six := []string{"attack_basic", "attack_basic", "attack_basic", "attack_basic", "attack_basic", "attack_basic"}
	assert.ErrorIs(t, s.Equip(ctx, six), session.ErrNotOwned, "only five copies are owned")

	require.NoError(t, s.Equip(ctx, []string{"attack_basic", "defense_basic"}))
	s.Inspect(func(_ *game.Battle, p *save.Progress) {
		assert.Equal(t, []string{"attack_basic", "defense_basic"}, p.EquippedCards)
	})

	require.NoError(t, s.StartBattle(ctx, 1))
	assert.ErrorIs(t, s.Equip(ctx, []string{"attack_basic"}), session.ErrInBattle)
}

func TestEquipLoadout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decks.yaml")
	data := "decks:\n  - name: Lean\n    cards:\n      - {id: attack_basic, count: 3}\n      - {id: defense_basic, count: 2}\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	s := newSession(t, nil)
	name, err := s.EquipLoadout(context.Background(), path, 1)
	require.NoError(t, err)
	assert.Equal(t, "Lean", name)
	s.Inspect(func(_ *game.Battle, p *save.Progress) {
		assert.Len(t, p.EquippedCards, 5)
	})

	_, err = s.EquipLoadout(context.Background(), path, 2)
	assert.Error(t, err)
}

func TestResetAndSettings(t *testing.T) {
	ctx := context.Background()
	store := save.NewMemoryStore()
	s := newSession(t, store)
	setGold(s, 300)

	settings := save.DefaultSettings()
	settings.Difficulty = "hard"
	require.NoError(t, s.SaveSettings(ctx, settings))
	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hard", saved.Settings.Difficulty)

	require.NoError(t, s.Reset(ctx))
	s.Inspect(func(_ *game.Battle, p *save.Progress) {
		assert.Zero(t, p.Player.Gold)
		assert.Equal(t, save.DefaultSettings(), p.Settings)
	})
	unlocked, total := s.AchievementCounts()
	assert.Zero(t, unlocked)
	assert.Equal(t, 5, total)
}
