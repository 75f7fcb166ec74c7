package net

import (
	"github.com/peterkuimelis/cardcrawl/internal/catalog"
	"github.com/peterkuimelis/cardcrawl/internal/game"
	"github.com/peterkuimelis/cardcrawl/internal/log"
	"github.com/peterkuimelis/cardcrawl/internal/save"
	"github.com/peterkuimelis/cardcrawl/internal/session"
)

// BuildStateView creates a StateView of b for the player. b may be nil
// before the first battle.
func BuildStateView(cat *catalog.Catalog, b *game.Battle, p *save.Progress) *StateView {
	sv := &StateView{
		Phase:       game.StateIdle,
		Gold:        p.Player.Gold,
		PlayerLevel: p.Player.Level,
		Items:       map[string]int{},
		You: CombatantView{
			Name:    "player",
			HP:      p.Player.MaxHealth,
			MaxHP:   p.Player.MaxHealth,
			Mana:    p.Player.MaxMana,
			MaxMana: p.Player.MaxMana,
		},
	}
	for id, n := range p.Items {
		if n > 0 {
			sv.Items[id] = n
		}
	}
	if b == nil {
		return sv
	}

	sv.Level = b.State.LevelID
	sv.Turn = b.State.TurnCount
	sv.Phase = b.State.Phase
	sv.IsYourTurn = b.State.IsPlayerTurn
	sv.GameOver = b.State.IsGameOver
	sv.Victory = b.State.IsVictory
	sv.Stunned = b.PlayerStunned()
	sv.You = CombatantViewOf(b.Player)
	enemy := CombatantViewOf(b.Enemy)
	sv.Enemy = &enemy
	sv.DeckCount, _, sv.DiscardCount = b.Counts()
	if b.Intent != nil && !b.Over() {
		sv.Intent = &IntentView{
			Kind:  b.Intent.Kind.String(),
			Value: b.Intent.Value,
			Times: b.Intent.Times,
		}
		if b.Intent.Effect != catalog.EffectNone {
			sv.Intent.Effect = b.Intent.Effect.String()
		}
	}

	canPlay := !b.Over() && b.State.Phase == game.StatePlayerActive && !b.PlayerStunned()
	for i, id := range b.Hand {
		cv := CardView{Index: i, ID: id, Name: id}
		if card := cat.Card(id); card != nil {
			cv.Name = card.Name
			cv.Type = card.Type.String()
			cv.Cost = card.Cost
			cv.Description = card.Description
			cv.Playable = canPlay && card.Cost <= b.Player.Mana
		}
		sv.Hand = append(sv.Hand, cv)
	}
	return sv
}

// CombatantViewOf summarizes one side of the battle.
func CombatantViewOf(c *game.Combatant) CombatantView {
	cv := CombatantView{
		Name:      c.Name,
		HP:        c.Health,
		MaxHP:     c.MaxHealth,
		Mana:      c.Mana,
		MaxMana:   c.MaxMana,
		Shield:    c.Shield(),
		Strength:  c.Attributes.Strength,
		Dexterity: c.Attributes.Dexterity,
	}
	for _, e := range c.Effects {
		turns := e.Duration.Remaining()
		if e.Duration.IsPermanent() {
			turns = -1
		}
		cv.Effects = append(cv.Effects, EffectView{Kind: e.Kind.String(), Value: e.Value, Turns: turns})
	}
	return cv
}

// EventViewOf converts a log event for the wire.
func EventViewOf(event log.GameEvent) *EventView {
	return &EventView{
		Seq:     event.Seq,
		Turn:    event.Turn,
		Phase:   event.Phase,
		Actor:   event.Actor,
		Type:    event.Type.String(),
		Card:    event.Card,
		Value:   event.Value,
		DelayMS: event.Delay.Milliseconds(),
		Details: event.Details,
	}
}

// ResultViewOf converts an effect result for the wire.
func ResultViewOf(r game.Result) *ResultView {
	rv := &ResultView{Success: r.Success, Amount: r.Amount, Message: r.Message}
	if r.Kind != catalog.EffectNone {
		rv.Kind = r.Kind.String()
	}
	return rv
}

// LevelViews lists the levels with their lock state.
func LevelViews(levels []session.LevelStatus) []LevelView {
	out := make([]LevelView, 0, len(levels))
	for _, l := range levels {
		out = append(out, LevelView{
			ID:         l.ID,
			Name:       l.Name,
			Difficulty: l.Difficulty,
			Enemy:      l.EnemyID,
			Unlocked:   l.Unlocked,
		})
	}
	return out
}
