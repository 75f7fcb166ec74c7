package game

import (
	"github.com/peterkuimelis/cardcrawl/internal/catalog"
	"github.com/peterkuimelis/cardcrawl/internal/save"
)

const (
	MaxHandSize   = 10
	TurnDrawCount = 5
)

// Attributes are transient combat modifiers, reset every battle.
type Attributes struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Intelligence int `json:"intelligence"`
	Vitality     int `json:"vitality"`
}

// Combatant is the mutable state of the player or the enemy during a battle.
type Combatant struct {
	Side       Side                  `json:"side"`
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Health     int                   `json:"health"`
	MaxHealth  int                   `json:"maxHealth"`
	Mana       int                   `json:"mana"`
	MaxMana    int                   `json:"maxMana"`
	Attack     int                   `json:"attack,omitempty"`
	Type       catalog.EnemyType     `json:"type"`
	Actions    []catalog.EnemyAction `json:"-"`
	Attributes Attributes            `json:"attributes"`
	Effects    []*ActiveEffect       `json:"effects"`

	baseMaxHealth int
	baseAttack    int
	dead          bool
}

// NewPlayer builds the player combatant from the saved profile.
func NewPlayer(p save.Player) *Combatant {
	c := &Combatant{
		Side:          SidePlayer,
		ID:            "player",
		Name:          "Player",
		MaxMana:       p.MaxMana,
		baseMaxHealth: p.MaxHealth,
	}
	c.ResetForBattle()
	return c
}

// NewEnemy instantiates an enemy from its catalog template.
func NewEnemy(e *catalog.Enemy) *Combatant {
	c := &Combatant{
		Side:          SideEnemy,
		ID:            e.ID,
		Name:          e.Name,
		Type:          e.Type,
		Actions:       e.Actions,
		baseMaxHealth: e.Health,
		baseAttack:    e.Attack,
	}
	c.ResetForBattle()
	return c
}

// ResetForBattle restores health and mana and clears every effect.
func (c *Combatant) ResetForBattle() {
	c.MaxHealth = c.baseMaxHealth
	c.Health = c.MaxHealth
	c.Mana = c.MaxMana
	c.Attack = c.baseAttack
	c.Attributes = Attributes{}
	c.Effects = nil
	c.dead = false
}

func (c *Combatant) IsAlive() bool { return !c.dead }

// TakeDamage reduces the amount by every active shield and applies the rest.
// Returns the health actually lost.
func (c *Combatant) TakeDamage(amount int) int {
	if c.dead || amount <= 0 {
		return 0
	}
	for _, e := range c.Effects {
		if e.Kind == catalog.EffectShield {
			amount = max(0, amount-int(e.Value))
		}
	}
	return c.LoseHealth(amount)
}

// LoseHealth removes health directly, ignoring shields.
func (c *Combatant) LoseHealth(amount int) int {
	if c.dead || amount <= 0 {
		return 0
	}
	lost := min(amount, c.Health)
	c.Health -= lost
	if c.Health <= 0 {
		c.Health = 0
		c.dead = true
	}
	return lost
}

// Heal restores health up to MaxHealth and returns the amount restored.
func (c *Combatant) Heal(amount int) int {
	if c.dead || amount <= 0 {
		return 0
	}
	healed := min(amount, c.MaxHealth-c.Health)
	c.Health += healed
	return healed
}

// UseMana spends mana only if all of it is available.
func (c *Combatant) UseMana(amount int) bool {
	if amount < 0 || c.Mana < amount {
		return false
	}
	c.Mana -= amount
	return true
}

// RestoreMana adds mana up to MaxMana and returns the amount restored.
func (c *Combatant) RestoreMana(amount int) int {
	if amount <= 0 {
		return 0
	}
	restored := min(amount, c.MaxMana-c.Mana)
	if restored < 0 {
		restored = 0
	}
	c.Mana += restored
	return restored
}

// Shield is the flat damage reduction currently in place.
func (c *Combatant) Shield() int {
	return int(c.Sum(catalog.EffectShield))
}

// Sum adds up the values of every active effect of kind.
func (c *Combatant) Sum(kind catalog.EffectKind) float64 {
	var total float64
	for _, e := range c.Effects {
		if e.Kind == kind {
			total += e.Value
		}
	}
	return total
}

func (c *Combatant) Has(kind catalog.EffectKind) bool {
	for _, e := range c.Effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// AddStatusEffect attaches e and applies its attribute delta immediately.
func (c *Combatant) AddStatusEffect(e *ActiveEffect) {
	c.Effects = append(c.Effects, e)
	c.applyAttribute(e, 1)
}

// RemoveStatusEffect detaches the effect with id and reverts its attribute delta.
func (c *Combatant) RemoveStatusEffect(id string) *ActiveEffect {
	for i, e := range c.Effects {
		if e.ID == id {
			c.Effects = append(c.Effects[:i], c.Effects[i+1:]...)
			c.applyAttribute(e, -1)
			return e
		}
	}
	return nil
}

func (c *Combatant) applyAttribute(e *ActiveEffect, sign int) {
	delta := sign * int(e.Value)
	switch e.Kind {
	case catalog.EffectStrength:
		c.Attributes.Strength += delta
		if c.Side == SideEnemy {
			c.Attack += delta
		}
	case catalog.EffectDexterity:
		c.Attributes.Dexterity += delta
	case catalog.EffectVitality:
		c.Attributes.Vitality += delta
		c.MaxHealth = max(1, c.MaxHealth+delta)
		if delta > 0 && !c.dead {
			c.Health += delta
		}
		c.Health = min(c.Health, c.MaxHealth)
	}
}

// OnTurnStart returns the effects that tick at the start of this side's turn.
func (c *Combatant) OnTurnStart() []*ActiveEffect {
	return c.due(TriggerTurnStart)
}

// OnTurnEnd counts down every timed effect and removes the ones that ran out.
// A shield raised during this same turn is spared one countdown.
func (c *Combatant) OnTurnEnd() []*ActiveEffect {
	var expired []*ActiveEffect
	for _, e := range append([]*ActiveEffect(nil), c.Effects...) {
		if e.Duration.IsPermanent() {
			continue
		}
		if e.fresh {
			e.fresh = false
			continue
		}
		var done bool
		e.Duration, done = e.Duration.tick()
		if done {
			c.RemoveStatusEffect(e.ID)
			expired = append(expired, e)
		}
	}
	return expired
}

func (c *Combatant) due(t Trigger) []*ActiveEffect {
	var out []*ActiveEffect
	for _, e := range c.Effects {
		if e.Trigger == t {
			out = append(out, e)
		}
	}
	return out
}
