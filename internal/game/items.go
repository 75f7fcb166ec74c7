package game

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/cardcrawl/internal/catalog"
	"github.com/peterkuimelis/cardcrawl/internal/log"
)

// UseItem consumes one item from the inventory during the player's turn.
// Max-stat potions also raise the saved profile permanently.
func (m *BattleManager) UseItem(ctx context.Context, itemID string) (res Result, err error) {
	defer m.guard("use item", &err)
	if err := m.checkActive(); err != nil {
		return Result{}, err
	}
	item := m.cfg.Catalog.Item(itemID)
	if item == nil {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownItem, itemID)
	}
	p := m.progress
	if p.Items[itemID] <= 0 {
		return Result{}, fmt.Errorf("%w: %q", ErrNoItem, itemID)
	}

	b := m.battle
	b.ctx = ctx
	src := Source{Side: SidePlayer, Name: itemID}
	p.Items[itemID]--
	b.log(log.NewItemUsedEvent(itemID, p.Items[itemID]))

	switch item.Kind {
	case catalog.ItemHeal:
		res = m.effects.Apply(b, catalog.EffectSpec{Kind: catalog.EffectHealing, Value: item.Value}, SidePlayer, src)
	case catalog.ItemMana:
		res = m.effects.Apply(b, catalog.EffectSpec{Kind: catalog.EffectEnergy, Value: item.Value}, SidePlayer, src)
	case catalog.ItemBuff:
		res = m.effects.Apply(b, catalog.EffectSpec{Kind: item.Effect, Value: item.Value, Duration: item.Duration}, SidePlayer, src)
	case catalog.ItemMaxHealthUp:
		p.Player.MaxHealth += int(item.Value)
		res = m.effects.Apply(b, catalog.EffectSpec{Kind: catalog.EffectVitality, Value: item.Value, Permanent: true}, SidePlayer, src)
	case catalog.ItemMaxManaUp:
		p.Player.MaxMana += int(item.Value)
		b.Player.MaxMana += int(item.Value)
		res = m.effects.Apply(b, catalog.EffectSpec{Kind: catalog.EffectEnergy, Value: item.Value}, SidePlayer, src)
	}

	m.ai.Refresh(b)
	if b.Over() {
		return res, m.endBattle()
	}
	return res, nil
}
