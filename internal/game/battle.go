package game

import (
	"context"

	"github.com/google/uuid"

	"github.com/peterkuimelis/cardcrawl/internal/catalog"
	"github.com/peterkuimelis/cardcrawl/internal/log"
)

// Presenter is implemented by anything that renders a battle: a terminal,
// a WebSocket client, an MCP session buffer.
type Presenter interface {
	// Notify sends a battle event notification (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// Battle is the state of one fight. Every engine operates on it explicitly.
type Battle struct {
	State   BattleState    `json:"state"`
	Stats   BattleStats    `json:"stats"`
	Player  *Combatant     `json:"player"`
	Enemy   *Combatant     `json:"enemy"`
	Deck    []string       `json:"deck"` // top of deck is last element
	Hand    []string       `json:"hand"`
	Discard []string       `json:"discard"`
	Intent  *Intent        `json:"intent"`
	Level   *catalog.Level `json:"level"`

	plan          *catalog.EnemyAction // chosen action before modifiers
	playerStunned bool
	ended         bool

	ctx        context.Context
	logger     log.EventLogger
	presenters []Presenter
	newID      func() string
}

func newBattle(level *catalog.Level, logger log.EventLogger, presenters []Presenter) *Battle {
	if logger == nil {
		logger = log.Discard{}
	}
	return &Battle{
		State:      BattleState{LevelID: level.ID},
		Level:      level,
		ctx:        context.Background(),
		logger:     logger,
		presenters: presenters,
		newID:      uuid.NewString,
	}
}

// Combatant returns the state for side.
func (b *Battle) Combatant(s Side) *Combatant {
	if s == SidePlayer {
		return b.Player
	}
	return b.Enemy
}

// Effects returns every active effect in the battle, player side first.
func (b *Battle) Effects() []*ActiveEffect {
	var out []*ActiveEffect
	if b.Player != nil {
		out = append(out, b.Player.Effects...)
	}
	if b.Enemy != nil {
		out = append(out, b.Enemy.Effects...)
	}
	return out
}

// Over reports whether the battle has been decided.
func (b *Battle) Over() bool { return b.State.IsGameOver }

// PlayerStunned reports whether the player lost this turn to a stun.
func (b *Battle) PlayerStunned() bool { return b.playerStunned }

func (b *Battle) log(event log.GameEvent) {
	event.Turn = b.State.TurnCount
	event.Phase = b.State.Phase
	b.logger.Log(event)
	// Notify presenters (ignore errors for notifications)
	for _, p := range b.presenters {
		_ = p.Notify(b.ctx, event)
	}
}

// hit deals damage to side through its shields and records it.
func (b *Battle) hit(side Side, amount int, source string) int {
	c := b.Combatant(side)
	old := c.Health
	dealt := c.TakeDamage(amount)
	b.recordDamage(side, dealt, old, source)
	return dealt
}

// hurt removes health directly, ignoring shields.
func (b *Battle) hurt(side Side, amount int, source string) int {
	c := b.Combatant(side)
	old := c.Health
	dealt := c.LoseHealth(amount)
	b.recordDamage(side, dealt, old, source)
	return dealt
}

func (b *Battle) recordDamage(side Side, dealt, oldHP int, source string) {
	c := b.Combatant(side)
	if side == SidePlayer {
		b.Stats.DamageTaken += dealt
	} else {
		b.Stats.DamageDealt += dealt
	}
	b.log(log.NewDamageEvent(side.String(), dealt, oldHP, c.Health, source))
	b.checkDeath()
}

func (b *Battle) heal(side Side, amount int, source string) int {
	c := b.Combatant(side)
	healed := c.Heal(amount)
	if side == SidePlayer {
		b.Stats.Healing += healed
	}
	b.log(log.NewHealEvent(side.String(), healed, c.Health, source))
	return healed
}

// checkDeath marks the battle decided once either side is down.
func (b *Battle) checkDeath() {
	if b.State.IsGameOver {
		return
	}
	switch {
	case !b.Enemy.IsAlive():
		b.State.IsGameOver = true
		b.State.IsVictory = true
	case !b.Player.IsAlive():
		b.State.IsGameOver = true
		b.State.IsVictory = false
	}
}
