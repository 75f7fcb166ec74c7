package game

import (
	"math"

	"github.com/peterkuimelis/cardcrawl/internal/catalog"
	"github.com/peterkuimelis/cardcrawl/internal/log"
)

// effectDefaults fills in what a descriptor leaves out.
var effectDefaults = map[catalog.EffectKind]struct {
	value    float64
	duration int
}{
	catalog.EffectEnergy:       {1, 0},
	catalog.EffectPoison:       {1, 3},
	catalog.EffectBurn:         {2, 2},
	catalog.EffectStun:         {1, 1},
	catalog.EffectThorns:       {1, 3},
	catalog.EffectRegeneration: {2, 3},
	catalog.EffectStrength:     {1, 3},
	catalog.EffectDexterity:    {1, 3},
	catalog.EffectVitality:     {1, 3},
	catalog.EffectWeakness:     {0.25, 2},
	catalog.EffectDraw:         {1, 0},
	catalog.EffectDiscard:      {1, 0},
}

// EffectEngine resolves effect descriptors and runs timed effects.
type EffectEngine struct {
	deck *DeckEngine
}

// Apply resolves spec against target. source decides whose strength and
// weakness modify outgoing damage.
func (e *EffectEngine) Apply(b *Battle, spec catalog.EffectSpec, target Side, source Source) Result {
	if b.Over() {
		return failed(spec.Kind, "battle is over")
	}
	if spec.Value == 0 {
		spec.Value = effectDefaults[spec.Kind].value
	}
	if spec.Duration == 0 {
		spec.Duration = effectDefaults[spec.Kind].duration
	}

	switch spec.Kind {
	case catalog.EffectDamage:
		return e.damage(b, spec, target, source)
	case catalog.EffectShield:
		return e.shield(b, spec, target, source)
	case catalog.EffectHealing:
		return e.healing(b, spec, target, source)
	case catalog.EffectEnergy:
		return e.energy(b, spec, target, source)
	case catalog.EffectPoison, catalog.EffectBurn, catalog.EffectStun, catalog.EffectRegeneration:
		return e.timed(b, spec, target, source, TriggerTurnStart)
	case catalog.EffectThorns, catalog.EffectWeakness:
		return e.timed(b, spec, target, source, TriggerInstant)
	case catalog.EffectStrength, catalog.EffectDexterity, catalog.EffectVitality:
		return e.attribute(b, spec, target, source)
	case catalog.EffectDraw:
		drawn := e.deck.Draw(b, int(spec.Value))
		return Result{Success: true, Kind: spec.Kind, Amount: len(drawn), Cards: drawn}
	case catalog.EffectDiscard:
		dropped := e.deck.DiscardRandom(b, int(spec.Value))
		return Result{Success: true, Kind: spec.Kind, Amount: len(dropped), Cards: dropped}
	case catalog.EffectNone:
		return failed(spec.Kind, "effect has no type")
	default:
		return failed(spec.Kind, "unsupported effect %s", spec.Kind)
	}
}

func (e *EffectEngine) damage(b *Battle, spec catalog.EffectSpec, target Side, source Source) Result {
	if spec.Value <= 0 {
		return failed(spec.Kind, "damage needs a positive value")
	}
	times := max(1, spec.Times)
	attacker := b.Combatant(source.Side)
	total := 0
	for i := 0; i < times && !b.Over(); i++ {
		amount := spec.Value + attacker.Sum(catalog.EffectStrength)
		for _, w := range attacker.Effects {
			if w.Kind == catalog.EffectWeakness {
				amount = math.Floor(amount * (1 - w.Value))
			}
		}
		total += b.hit(target, max(1, int(amount)), source.String())
	}
	return Result{Success: true, Kind: spec.Kind, Amount: total}
}

func (e *EffectEngine) shield(b *Battle, spec catalog.EffectSpec, target Side, source Source) Result {
	c := b.Combatant(target)
	amount := int(spec.Value + c.Sum(catalog.EffectDexterity))
	if amount <= 0 {
		return failed(spec.Kind, "shield needs a positive value")
	}
	eff := e.AddActiveEffect(b, target, catalog.EffectShield, float64(amount), Turns(1), TriggerInstant, source.String())
	b.log(log.NewShieldEvent(target.String(), amount, source.String()))
	return Result{Success: true, Kind: spec.Kind, Amount: amount, Effect: eff}
}

func (e *EffectEngine) healing(b *Battle, spec catalog.EffectSpec, target Side, source Source) Result {
	if spec.Value <= 0 {
		return failed(spec.Kind, "healing needs a positive value")
	}
	healed := b.heal(target, int(spec.Value), source.String())
	return Result{Success: true, Kind: spec.Kind, Amount: healed}
}

func (e *EffectEngine) energy(b *Battle, spec catalog.EffectSpec, target Side, source Source) Result {
	c := b.Combatant(target)
	old := c.Mana
	gained := c.RestoreMana(int(spec.Value))
	b.log(log.NewManaChangeEvent(target.String(), old, c.Mana, source.String()))
	return Result{Success: true, Kind: spec.Kind, Amount: gained}
}

func (e *EffectEngine) timed(b *Battle, spec catalog.EffectSpec, target Side, source Source, trigger Trigger) Result {
	eff := e.AddActiveEffect(b, target, spec.Kind, spec.Value, Turns(spec.Duration), trigger, source.String())
	if eff == nil {
		return failed(spec.Kind, "invalid duration %d", spec.Duration)
	}
	return Result{Success: true, Kind: spec.Kind, Amount: int(spec.Value), Effect: eff}
}

func (e *EffectEngine) attribute(b *Battle, spec catalog.EffectSpec, target Side, source Source) Result {
	d, trigger := Turns(spec.Duration), TriggerInstant
	if spec.Permanent {
		d, trigger = Permanent(), TriggerPermanent
	}
	eff := e.AddActiveEffect(b, target, spec.Kind, spec.Value, d, trigger, source.String())
	if eff == nil {
		return failed(spec.Kind, "invalid duration %d", spec.Duration)
	}
	return Result{Success: true, Kind: spec.Kind, Amount: int(spec.Value), Effect: eff}
}

// AddActiveEffect attaches a new effect to owner. Returns nil for an
// invalid duration.
func (e *EffectEngine) AddActiveEffect(b *Battle, owner Side, kind catalog.EffectKind, value float64, d Duration, trigger Trigger, source string) *ActiveEffect {
	if !d.Valid() {
		return nil
	}
	eff := &ActiveEffect{
		ID:       b.newID(),
		Kind:     kind,
		Value:    value,
		Duration: d,
		Trigger:  trigger,
		Owner:    owner,
		Source:   source,
		fresh:    kind == catalog.EffectShield && b.State.IsPlayerTurn == (owner == SidePlayer),
	}
	b.Combatant(owner).AddStatusEffect(eff)
	b.log(log.NewEffectAppliedEvent(owner.String(), kind.String(), value, d.String(), source))
	return eff
}

// ProcessTurnStart ticks the turn-start effects of the side whose turn begins.
func (e *EffectEngine) ProcessTurnStart(b *Battle) {
	c := b.Combatant(b.currentSide())
	for _, eff := range c.OnTurnStart() {
		if b.Over() {
			return
		}
		e.tick(b, eff)
	}
}

// ProcessTurnEnd ticks turn-end effects of the side whose turn ends, then
// counts down its timed effects and drops the expired ones.
func (e *EffectEngine) ProcessTurnEnd(b *Battle) {
	side := b.currentSide()
	c := b.Combatant(side)
	for _, eff := range c.due(TriggerTurnEnd) {
		if b.Over() {
			return
		}
		e.tick(b, eff)
	}
	for _, eff := range c.OnTurnEnd() {
		b.log(log.NewEffectExpiredEvent(side.String(), eff.Kind.String()))
	}
}

// tick runs the periodic behaviour of an active effect.
func (e *EffectEngine) tick(b *Battle, eff *ActiveEffect) {
	switch eff.Kind {
	case catalog.EffectPoison, catalog.EffectBurn:
		b.log(log.NewEffectTickEvent(eff.Owner.String(), eff.Kind.String(), int(eff.Value)))
		b.hurt(eff.Owner, int(eff.Value), eff.Kind.String())
	case catalog.EffectRegeneration:
		b.log(log.NewEffectTickEvent(eff.Owner.String(), eff.Kind.String(), int(eff.Value)))
		b.heal(eff.Owner, int(eff.Value), eff.Kind.String())
	case catalog.EffectStun:
		// Checked by whoever acts next.
	case catalog.EffectNone, catalog.EffectDamage, catalog.EffectShield, catalog.EffectHealing,
		catalog.EffectEnergy, catalog.EffectThorns, catalog.EffectStrength, catalog.EffectDexterity,
		catalog.EffectWeakness, catalog.EffectDraw, catalog.EffectDiscard, catalog.EffectVitality:
		// Passive or one-shot: nothing happens on a tick.
	}
}

func (b *Battle) currentSide() Side {
	if b.State.IsPlayerTurn {
		return SidePlayer
	}
	return SideEnemy
}
