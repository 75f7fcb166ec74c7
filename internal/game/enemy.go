package game

import (
	"math"
	"math/rand"

	"github.com/peterkuimelis/cardcrawl/internal/catalog"
	"github.com/peterkuimelis/cardcrawl/internal/log"
)

// minAttackMultiplier bounds how far weakness can shrink an enemy attack.
const minAttackMultiplier = 0.25

// EnemyAI picks the enemy's next action and carries it out.
type EnemyAI struct {
	effects *EffectEngine
	rng     *rand.Rand
}

// Decide chooses the next action by weight and announces the resulting intent.
func (ai *EnemyAI) Decide(b *Battle) *Intent {
	action := ai.choose(b.Enemy.Actions)
	b.plan = &action
	b.Intent = ai.resolve(b, action)
	b.log(log.NewIntentEvent(b.Enemy.Name, b.Intent.Kind.String(), b.Intent.Value))
	return b.Intent
}

// Refresh recomputes the announced intent after effects changed, without
// choosing a new action.
func (ai *EnemyAI) Refresh(b *Battle) {
	if b.plan == nil || b.Over() {
		return
	}
	next := ai.resolve(b, *b.plan)
	if b.Intent == nil || *next != *b.Intent {
		b.Intent = next
		b.log(log.NewIntentEvent(b.Enemy.Name, next.Kind.String(), next.Value))
	}
}

// choose draws r in [0, total) and walks the table subtracting weights.
func (ai *EnemyAI) choose(actions []catalog.EnemyAction) catalog.EnemyAction {
	if len(actions) == 0 {
		return catalog.EnemyAction{Kind: catalog.IntentDefend}
	}
	var total float64
	for _, a := range actions {
		total += a.Weight
	}
	r := ai.rng.Float64() * total
	for _, a := range actions {
		r -= a.Weight
		if r <= 0 {
			return a
		}
	}
	return actions[0]
}

// resolve applies the enemy's current status effects to a planned action.
func (ai *EnemyAI) resolve(b *Battle, a catalog.EnemyAction) *Intent {
	enemy := b.Enemy
	if enemy.Has(catalog.EffectStun) {
		return &Intent{Kind: catalog.IntentStunned}
	}
	in := &Intent{
		Kind:     a.Kind,
		Value:    int(a.Value),
		Times:    a.Times,
		Effect:   a.Effect,
		Potency:  a.Value,
		Duration: a.Duration,
	}
	if a.Kind.IsAttack() {
		mult := math.Max(minAttackMultiplier, 1-enemy.Sum(catalog.EffectWeakness))
		in.Value = int(math.Floor((a.Value + enemy.Sum(catalog.EffectStrength)) * mult))
		in.Potency = 0
	}
	if a.Kind == catalog.IntentAttackMulti && in.Times < 1 {
		in.Times = 1
	}
	return in
}

// Execute carries out the planned action, then decides the next one.
func (ai *EnemyAI) Execute(b *Battle) {
	if b.plan == nil {
		ai.Decide(b)
	}
	in := ai.resolve(b, *b.plan)
	b.Intent = in
	enemy := b.Enemy
	src := Source{Side: SideEnemy, Name: enemy.ID}

	switch in.Kind {
	case catalog.IntentStunned:
		b.log(log.NewStunnedEvent(SideEnemy.String()))
	case catalog.IntentAttack:
		b.log(log.NewEnemyActionEvent(enemy.Name, in.Kind.String(), in.Value))
		b.hit(SidePlayer, in.Value, enemy.ID)
	case catalog.IntentAttackMulti:
		b.log(log.NewEnemyActionEvent(enemy.Name, in.Kind.String(), in.Value))
		for i := 0; i < in.Times && !b.Over(); i++ {
			b.hit(SidePlayer, in.Value, enemy.ID)
		}
	case catalog.IntentDefend:
		b.log(log.NewEnemyActionEvent(enemy.Name, in.Kind.String(), in.Value))
		ai.effects.Apply(b, catalog.EffectSpec{Kind: catalog.EffectShield, Value: in.Potency}, SideEnemy, src)
	case catalog.IntentBuff:
		b.log(log.NewEnemyActionEvent(enemy.Name, in.Effect.String(), in.Value))
		ai.effects.Apply(b, ai.spec(in), SideEnemy, src)
	case catalog.IntentDebuff:
		b.log(log.NewEnemyActionEvent(enemy.Name, in.Effect.String(), in.Value))
		ai.effects.Apply(b, ai.spec(in), SidePlayer, src)
	}

	if !b.Over() {
		ai.Decide(b)
	}
}

func (ai *EnemyAI) spec(in *Intent) catalog.EffectSpec {
	return catalog.EffectSpec{Kind: in.Effect, Value: in.Potency, Duration: in.Duration}
}
