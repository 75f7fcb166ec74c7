// Package achievement tracks which achievements a profile has earned.
package achievement

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/peterkuimelis/cardcrawl/internal/catalog"
	"github.com/peterkuimelis/cardcrawl/internal/save"
)

// Facts is what Evaluate measures achievement conditions against.
type Facts struct {
	BattlesWon    int
	CardsOwned    int
	PlayerLevel   int
	BossDefeated  bool
	PerfectBattle bool
}

// FactsFor derives the profile-wide facts from saved progress.
func FactsFor(p *save.Progress) Facts {
	return Facts{
		BattlesWon:  p.Stats.TotalBattlesWon,
		CardsOwned:  p.DistinctCards(),
		PlayerLevel: p.Player.Level,
	}
}

// Engine unlocks achievements on a profile and persists each unlock.
type Engine struct {
	catalog *catalog.Catalog
	store   save.Store
	clock   save.Clock
}

func New(cat *catalog.Catalog, store save.Store, clock save.Clock) *Engine {
	if clock == nil {
		clock = save.SystemClock{}
	}
	return &Engine{catalog: cat, store: store, clock: clock}
}

// Unlock records id as earned. Returns false if it is unknown or already
// unlocked. A persistence failure is returned alongside a true result:
// the unlock stands in memory.
func (e *Engine) Unlock(ctx context.Context, p *save.Progress, id string) (bool, error) {
	if e.catalog.Achievement(id) == nil || p.HasAchievement(id) {
		return false, nil
	}
	p.Achievements = append(p.Achievements, id)
	if p.AchievementDates == nil {
		p.AchievementDates = map[string]time.Time{}
	}
	p.AchievementDates[id] = e.clock.Now()
	if e.store == nil {
		return true, nil
	}
	if err := e.store.Save(ctx, p); err != nil {
		return true, fmt.Errorf("failed to save achievement %s: %w", id, err)
	}
	return true, nil
}

// CheckProgress returns completion as a percentage and unlocks id once
// current reaches target.
func (e *Engine) CheckProgress(ctx context.Context, p *save.Progress, id string, current, target int) (int, error) {
	if p.HasAchievement(id) {
		return 100, nil
	}
	if target <= 0 {
		return 0, fmt.Errorf("achievement %s: target must be positive", id)
	}
	pct := min(100, current*100/target)
	if current >= target {
		if _, err := e.Unlock(ctx, p, id); err != nil {
			return 100, err
		}
		return 100, nil
	}
	return max(0, pct), nil
}

// CheckCollection unlocks id once every target is in collected.
func (e *Engine) CheckCollection(ctx context.Context, p *save.Progress, id string, collected, targets []string) (bool, error) {
	if p.HasAchievement(id) {
		return true, nil
	}
	for _, t := range targets {
		if !slices.Contains(collected, t) {
			return false, nil
		}
	}
	return e.Unlock(ctx, p, id)
}

// CheckChallenge unlocks id when the challenge was completed.
func (e *Engine) CheckChallenge(ctx context.Context, p *save.Progress, id string, completed bool) (bool, error) {
	if !completed {
		return false, nil
	}
	return e.Unlock(ctx, p, id)
}

// Evaluate checks every catalog achievement against facts and returns the
// ones unlocked by this call.
func (e *Engine) Evaluate(ctx context.Context, p *save.Progress, f Facts) ([]*catalog.Achievement, error) {
	var (
		unlocked []*catalog.Achievement
		errs     []error
	)
	for _, a := range e.catalog.Achievements {
		if p.HasAchievement(a.ID) {
			continue
		}
		var err error
		switch a.Condition.Kind {
		case catalog.ConditionBattlesWon:
			_, err = e.CheckProgress(ctx, p, a.ID, f.BattlesWon, a.Condition.Value)
		case catalog.ConditionCardsOwned:
			_, err = e.CheckProgress(ctx, p, a.ID, f.CardsOwned, a.Condition.Value)
		case catalog.ConditionPlayerLevel:
			_, err = e.CheckProgress(ctx, p, a.ID, f.PlayerLevel, a.Condition.Value)
		case catalog.ConditionBossDefeated:
			_, err = e.CheckChallenge(ctx, p, a.ID, f.BossDefeated)
		case catalog.ConditionPerfectBattle:
			_, err = e.CheckChallenge(ctx, p, a.ID, f.PerfectBattle)
		}
		if err != nil {
			errs = append(errs, err)
		}
		if p.HasAchievement(a.ID) {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked, errors.Join(errs...)
}

// Counts returns how many achievements are unlocked out of the catalog total.
func (e *Engine) Counts(p *save.Progress) (unlocked, total int) {
	for _, a := range e.catalog.Achievements {
		if p.HasAchievement(a.ID) {
			unlocked++
		}
	}
	return unlocked, len(e.catalog.Achievements)
}

// Unlocked lists the earned achievements in catalog order.
func (e *Engine) Unlocked(p *save.Progress) []*catalog.Achievement {
	var out []*catalog.Achievement
	for _, a := range e.catalog.Achievements {
		if p.HasAchievement(a.ID) {
			out = append(out, a)
		}
	}
	return out
}

// Reset clears every achievement and persists the result.
func (e *Engine) Reset(ctx context.Context, p *save.Progress) error {
	p.Achievements = []string{}
	p.AchievementDates = map[string]time.Time{}
	if e.store == nil {
		return nil
	}
	if err := e.store.Save(ctx, p); err != nil {
		return fmt.Errorf("failed to save achievement reset: %w", err)
	}
	return nil
}
