// Package session wraps one player's profile and battle behind a single
// lock so frontends can drive the game from any goroutine.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/peterkuimelis/cardcrawl/internal/achievement"
	"github.com/peterkuimelis/cardcrawl/internal/catalog"
	"github.com/peterkuimelis/cardcrawl/internal/game"
	"github.com/peterkuimelis/cardcrawl/internal/log"
	"github.com/peterkuimelis/cardcrawl/internal/save"
)

var (
	ErrLevelLocked   = errors.New("level is locked")
	ErrNotForSale    = errors.New("not for sale")
	ErrNotEnoughGold = errors.New("not enough gold")
	ErrNotOwned      = errors.New("card not owned")
	ErrEmptyDeck     = errors.New("deck is empty")
	ErrInBattle      = errors.New("battle in progress")
)

// Session is one player's game: the saved profile, the battle manager that
// plays for it and the subscribers watching its events.
type Session struct {
	mu           sync.Mutex
	catalog      *catalog.Catalog
	saves        *save.Manager
	achievements *achievement.Engine
	progress     *save.Progress
	battles      *game.BattleManager

	subMu sync.Mutex
	subs  map[int]game.Presenter
	next  int
	seq   int
}

// New loads (or creates) the profile in cfg.Store and prepares a battle
// manager for it. A nil store keeps progress in memory.
func New(ctx context.Context, cfg game.Config, clock save.Clock) (*Session, error) {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	store := cfg.Store
	if store == nil {
		store = save.NewMemoryStore()
	}
	saves := save.NewManager(store, clock)
	progress, err := saves.LoadOrNew(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	s := &Session{
		catalog:      cfg.Catalog,
		saves:        saves,
		achievements: achievement.New(cfg.Catalog, saves, clock),
		progress:     progress,
		subs:         map[int]game.Presenter{},
	}
	cfg.Store = saves
	cfg.Achievements = s.achievements
	cfg.Presenters = append(cfg.Presenters, s)
	s.battles = game.NewBattleManager(cfg, progress)
	return s, nil
}

// Catalog returns the content the session plays with.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Subscribe registers p for every battle event. The returned func removes it.
func (s *Session) Subscribe(p game.Presenter) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = p
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Notify numbers an event and fans it out to subscribers.
func (s *Session) Notify(ctx context.Context, event log.GameEvent) error {
	s.subMu.Lock()
	s.seq++
	event.Seq = s.seq
	subs := make([]game.Presenter, 0, len(s.subs))
	for _, p := range s.subs {
		subs = append(subs, p)
	}
	s.subMu.Unlock()

	var errs []error
	for _, p := range subs {
		if err := p.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StartBattle begins a battle on an unlocked level.
func (s *Session) StartBattle(ctx context.Context, levelID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalog.Level(levelID) == nil {
		return fmt.Errorf("%w: %d", game.ErrUnknownLevel, levelID)
	}
	if !s.progress.IsLevelUnlocked(levelID) {
		return fmt.Errorf("%w: %d", ErrLevelLocked, levelID)
	}
	return s.battles.StartBattle(ctx, levelID)
}

func (s *Session) PlayCard(ctx context.Context, handIndex int) (game.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battles.PlayCard(ctx, handIndex)
}

func (s *Session) EndTurn(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battles.EndTurn(ctx)
}

// UseItem consumes an item in battle and saves the smaller inventory.
func (s *Session) UseItem(ctx context.Context, itemID string) (game.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.battles.UseItem(ctx, itemID)
	if err != nil {
		return res, err
	}
	if err := s.saves.Save(ctx, s.progress); err != nil {
		return res, err
	}
	return res, nil
}

// inBattle reports whether a battle is underway. Must be called with mu held.
func (s *Session) inBattle() bool {
	b := s.battles.Battle()
	return b != nil && !b.Over()
}

// BuyCard spends gold on a catalog card and adds it to the collection.
// Nothing changes when the profile cannot be saved.
func (s *Session) BuyCard(ctx context.Context, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	card := s.catalog.Card(cardID)
	if card == nil {
		return fmt.Errorf("%w: %q", game.ErrInvalidCard, cardID)
	}
	gold, owned := s.progress.Player.Gold, len(s.progress.OwnedCards)
	if err := s.spend(cardID, card.Price); err != nil {
		return err
	}
	s.progress.OwnedCards = append(s.progress.OwnedCards, cardID)
	if err := s.saves.Save(ctx, s.progress); err != nil {
		s.progress.Player.Gold = gold
		s.progress.OwnedCards = s.progress.OwnedCards[:owned]
		return err
	}
	s.collectionChanged(ctx)
	return nil
}

// BuyItem spends gold on one item.
func (s *Session) BuyItem(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.catalog.Item(itemID)
	if item == nil {
		return fmt.Errorf("%w: %q", game.ErrUnknownItem, itemID)
	}
	gold := s.progress.Player.Gold
	if err := s.spend(itemID, item.Price); err != nil {
		return err
	}
	s.progress.Items[itemID]++
	if err := s.saves.Save(ctx, s.progress); err != nil {
		s.progress.Player.Gold = gold
		if s.progress.Items[itemID]--; s.progress.Items[itemID] == 0 {
			delete(s.progress.Items, itemID)
		}
		return err
	}
	return nil
}

func (s *Session) spend(id string, price int) error {
	if price <= 0 {
		return fmt.Errorf("%w: %q", ErrNotForSale, id)
	}
	if s.progress.Player.Gold < price {
		return fmt.Errorf("%w: %q costs %d, have %d", ErrNotEnoughGold, id, price, s.progress.Player.Gold)
	}
	s.progress.Player.Gold -= price
	return nil
}

// collectionChanged re-checks the card collection achievements.
func (s *Session) collectionChanged(ctx context.Context) {
	_, err := s.achievements.Evaluate(ctx, s.progress, achievement.FactsFor(s.progress))
	if err != nil {
		_ = s.Notify(ctx, log.NewFaultEvent("unlock achievements", err))
	}
}

// Equip replaces the battle deck. Every copy must be owned.
func (s *Session) Equip(ctx context.Context, cardIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inBattle() {
		return ErrInBattle
	}
	if len(cardIDs) == 0 {
		return ErrEmptyDeck
	}
	owned := map[string]int{}
	for _, id := range s.progress.OwnedCards {
		owned[id]++
	}
	for _, id := range cardIDs {
		if owned[id] == 0 {
			return fmt.Errorf("%w: %q", ErrNotOwned, id)
		}
		owned[id]--
	}
	s.progress.EquippedCards = append([]string(nil), cardIDs...)
	return s.saves.Save(ctx, s.progress)
}

// EquipLoadout equips the nth loadout from a deck file.
func (s *Session) EquipLoadout(ctx context.Context, path string, n int) (string, error) {
	name, ids, err := s.catalog.DeckByNumber(path, n)
	if err != nil {
		return "", err
	}
	return name, s.Equip(ctx, ids)
}

// SaveSettings stores new preferences.
func (s *Session) SaveSettings(ctx context.Context, settings save.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.Settings = settings
	return s.saves.Save(ctx, s.progress)
}

// Reset wipes the profile and starts over.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inBattle() {
		return ErrInBattle
	}
	p, err := s.saves.Reset(ctx)
	if err != nil {
		return err
	}
	*s.progress = *p
	return nil
}

// LevelStatus is a level with whether the player may enter it.
type LevelStatus struct {
	*catalog.Level
	Unlocked bool
}

func (s *Session) Levels() []LevelStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LevelStatus, 0, len(s.catalog.Levels))
	for _, l := range s.catalog.Levels {
		out = append(out, LevelStatus{Level: l, Unlocked: s.progress.IsLevelUnlocked(l.ID)})
	}
	return out
}

// AchievementCounts returns how many achievements are unlocked out of all.
func (s *Session) AchievementCounts() (unlocked, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.achievements.Counts(s.progress)
}

// Inspect calls fn with the current battle (nil before the first one) and
// profile while holding the session lock. fn must not call back into the
// session.
func (s *Session) Inspect(fn func(b *game.Battle, p *save.Progress)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.battles.Battle(), s.progress)
}

// State returns the current battle state.
func (s *Session) State() game.BattleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battles.State()
}
