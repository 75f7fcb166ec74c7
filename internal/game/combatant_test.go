package game

import (
	"testing"

	"github.com/peterkuimelis/cardcrawl/internal/catalog"
	"github.com/peterkuimelis/cardcrawl/internal/save"
)

func shieldEffect(id string, v float64) *ActiveEffect {
	return &ActiveEffect{ID: id, Kind: catalog.EffectShield, Value: v, Duration: Turns(1)}
}

func TestTakeDamageSubtractsEveryShieldFlat(t *testing.T) {
	c := NewPlayer(save.Player{MaxHealth: 50, MaxMana: 3})
	c.AddStatusEffect(shieldEffect("a", 3))
	c.AddStatusEffect(shieldEffect("b", 4))

	if got := c.TakeDamage(10); got != 3 {
		t.Errorf("expected 3 damage through 7 shield, got %d", got)
	}
	if c.Health != 47 {
		t.Errorf("expected 47 HP, got %d", c.Health)
	}
	// Shields are not consumed.
	if got := c.TakeDamage(5); got != 0 {
		t.Errorf("expected shield to absorb 5, got %d", got)
	}
	if c.Shield() != 7 {
		t.Errorf("expected shield to stay at 7, got %d", c.Shield())
	}
}

func TestDeathIsTerminal(t *testing.T) {
	c := NewEnemy(testEnemy(10))
	if got := c.TakeDamage(25); got != 10 {
		t.Errorf("expected 10 health lost, got %d", got)
	}
	if c.Health != 0 || c.IsAlive() {
		t.Fatalf("expected dead at 0 HP, got %d alive=%v", c.Health, c.IsAlive())
	}
	if c.Heal(5) != 0 || c.TakeDamage(5) != 0 || c.Health != 0 {
		t.Error("a dead combatant should ignore heals and damage")
	}
}

func TestHealAndManaClamp(t *testing.T) {
	c := NewPlayer(save.Player{MaxHealth: 30, MaxMana: 3})
	c.LoseHealth(5)
	if got := c.Heal(20); got != 5 || c.Health != 30 {
		t.Errorf("heal: got %d, health %d", got, c.Health)
	}

	if c.UseMana(4) {
		t.Error("UseMana(4) with 3 mana should fail")
	}
	if c.Mana != 3 {
		t.Errorf("failed UseMana must not spend, mana=%d", c.Mana)
	}
	if !c.UseMana(2) || c.Mana != 1 {
		t.Errorf("UseMana(2): mana=%d", c.Mana)
	}
	if got := c.RestoreMana(10); got != 2 || c.Mana != 3 {
		t.Errorf("restore: got %d, mana %d", got, c.Mana)
	}
}

func TestAttributeDeltas(t *testing.T) {
	p := NewPlayer(save.Player{MaxHealth: 50, MaxMana: 3})
	p.AddStatusEffect(&ActiveEffect{ID: "v", Kind: catalog.EffectVitality, Value: 10, Duration: Permanent()})
	if p.MaxHealth != 60 || p.Health != 60 {
		t.Errorf("vitality: %d/%d", p.Health, p.MaxHealth)
	}
	p.RemoveStatusEffect("v")
	if p.MaxHealth != 50 || p.Health != 50 {
		t.Errorf("vitality removed: %d/%d", p.Health, p.MaxHealth)
	}

	e := NewEnemy(testEnemy(20))
	e.AddStatusEffect(&ActiveEffect{ID: "s", Kind: catalog.EffectStrength, Value: 2, Duration: Turns(2)})
	if e.Attack != 3 || e.Attributes.Strength != 2 {
		t.Errorf("enemy strength: attack=%d strength=%d", e.Attack, e.Attributes.Strength)
	}
	e.RemoveStatusEffect("s")
	if e.Attack != 1 {
		t.Errorf("enemy attack after removal = %d", e.Attack)
	}
}

func TestOnTurnEndCountsDown(t *testing.T) {
	c := NewPlayer(save.Player{MaxHealth: 50, MaxMana: 3})
	c.AddStatusEffect(&ActiveEffect{ID: "p", Kind: catalog.EffectStrength, Value: 1, Duration: Permanent()})
	c.AddStatusEffect(&ActiveEffect{ID: "t", Kind: catalog.EffectDexterity, Value: 1, Duration: Turns(2)})
	c.AddStatusEffect(&ActiveEffect{ID: "f", Kind: catalog.EffectShield, Value: 5, Duration: Turns(1), fresh: true})

	if expired := c.OnTurnEnd(); len(expired) != 0 {
		t.Fatalf("nothing should expire on the first countdown, got %d", len(expired))
	}
	expired := c.OnTurnEnd()
	if len(expired) != 2 {
		t.Fatalf("expected dexterity and shield to expire, got %d", len(expired))
	}
	if len(c.Effects) != 1 || c.Effects[0].ID != "p" {
		t.Errorf("only the permanent effect should remain, got %v", c.Effects)
	}
	if c.Attributes.Dexterity != 0 {
		t.Errorf("dexterity should be reverted, got %d", c.Attributes.Dexterity)
	}
}

func TestResetForBattle(t *testing.T) {
	c := NewPlayer(save.Player{MaxHealth: 40, MaxMana: 3})
	c.AddStatusEffect(&ActiveEffect{ID: "s", Kind: catalog.EffectStrength, Value: 3, Duration: Permanent()})
	c.TakeDamage(40)
	c.ResetForBattle()
	if !c.IsAlive() || c.Health != 40 || c.Mana != 3 || len(c.Effects) != 0 || c.Attributes != (Attributes{}) {
		t.Errorf("reset left %+v", c)
	}
}

func TestDuration(t *testing.T) {
	if (Duration{}).Valid() || Turns(0).Valid() {
		t.Error("zero durations must be invalid")
	}
	if !Permanent().Valid() || !Permanent().IsPermanent() {
		t.Error("permanent should be valid")
	}
	d, done := Turns(1).tick()
	if !done || d.Remaining() != 0 {
		t.Errorf("Turns(1) tick: %v %v", d, done)
	}
	if _, done := Permanent().tick(); done {
		t.Error("permanent never runs out")
	}
}
