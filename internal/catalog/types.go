package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// CardType classifies cards and decides default targeting.
type CardType int

const (
	CardAttack CardType = iota
	CardDefense
	CardSkill
	CardPower
	CardCurse
)

var cardTypeNames = map[CardType]string{
	CardAttack:  "attack",
	CardDefense: "defense",
	CardSkill:   "skill",
	CardPower:   "power",
	CardCurse:   "curse",
}

func (t CardType) String() string { return nameOf(cardTypeNames, t) }

func (t CardType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *CardType) UnmarshalText(b []byte) error {
	return parseInto(t, "card type", cardTypeNames, string(b))
}

func (t *CardType) UnmarshalYAML(n *yaml.Node) error {
	return parseInto(t, "card type", cardTypeNames, n.Value)
}

type Rarity int

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

var rarityNames = map[Rarity]string{
	RarityCommon:    "common",
	RarityUncommon:  "uncommon",
	RarityRare:      "rare",
	RarityEpic:      "epic",
	RarityLegendary: "legendary",
}

func (r Rarity) String() string { return nameOf(rarityNames, r) }

func (r Rarity) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Rarity) UnmarshalText(b []byte) error {
	return parseInto(r, "rarity", rarityNames, string(b))
}

func (r *Rarity) UnmarshalYAML(n *yaml.Node) error {
	return parseInto(r, "rarity", rarityNames, n.Value)
}

// EffectKind is the closed set of effects a card, item or enemy action can carry.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectDamage
	EffectShield
	EffectHealing
	EffectEnergy
	EffectPoison
	EffectBurn
	EffectStun
	EffectThorns
	EffectRegeneration
	EffectStrength
	EffectDexterity
	EffectWeakness
	EffectDraw
	EffectDiscard
	EffectVitality
)

var effectNames = map[EffectKind]string{
	EffectNone:         "none",
	EffectDamage:       "damage",
	EffectShield:       "shield",
	EffectHealing:      "healing",
	EffectEnergy:       "energy",
	EffectPoison:       "poison",
	EffectBurn:         "burn",
	EffectStun:         "stun",
	EffectThorns:       "thorns",
	EffectRegeneration: "regeneration",
	EffectStrength:     "strength",
	EffectDexterity:    "dexterity",
	EffectWeakness:     "weakness",
	EffectDraw:         "draw",
	EffectDiscard:      "discard",
	EffectVitality:     "vitality",
}

func (k EffectKind) String() string { return nameOf(effectNames, k) }

func (k EffectKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *EffectKind) UnmarshalText(b []byte) error {
	return parseInto(k, "effect", effectNames, string(b))
}

func (k *EffectKind) UnmarshalYAML(n *yaml.Node) error {
	return parseInto(k, "effect", effectNames, n.Value)
}

// ParseEffectKind resolves an effect name such as "poison".
func ParseEffectKind(s string) (EffectKind, error) {
	var k EffectKind
	err := parseInto(&k, "effect", effectNames, s)
	return k, err
}

// Target overrides the default recipient of a card's effect.
type Target int

const (
	TargetDefault Target = iota
	TargetPlayer
	TargetEnemy
)

var targetNames = map[Target]string{
	TargetDefault: "",
	TargetPlayer:  "player",
	TargetEnemy:   "enemy",
}

func (t Target) String() string { return nameOf(targetNames, t) }

func (t Target) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Target) UnmarshalText(b []byte) error {
	return parseInto(t, "target", targetNames, string(b))
}

func (t *Target) UnmarshalYAML(n *yaml.Node) error {
	return parseInto(t, "target", targetNames, n.Value)
}

type EnemyType int

const (
	EnemyNormal EnemyType = iota
	EnemyElite
	EnemyBoss
)

var enemyTypeNames = map[EnemyType]string{
	EnemyNormal: "normal",
	EnemyElite:  "elite",
	EnemyBoss:   "boss",
}

func (t EnemyType) String() string { return nameOf(enemyTypeNames, t) }

func (t EnemyType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *EnemyType) UnmarshalText(b []byte) error {
	return parseInto(t, "enemy type", enemyTypeNames, string(b))
}

func (t *EnemyType) UnmarshalYAML(n *yaml.Node) error {
	return parseInto(t, "enemy type", enemyTypeNames, n.Value)
}

// IntentKind is what an enemy plans to do on its next turn.
type IntentKind int

const (
	IntentAttack IntentKind = iota
	IntentAttackMulti
	IntentDefend
	IntentBuff
	IntentDebuff
	IntentStunned
)

var intentNames = map[IntentKind]string{
	IntentAttack:      "attack",
	IntentAttackMulti: "attack_multi",
	IntentDefend:      "defend",
	IntentBuff:        "buff",
	IntentDebuff:      "debuff",
	IntentStunned:     "stunned",
}

func (k IntentKind) String() string { return nameOf(intentNames, k) }

func (k IntentKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *IntentKind) UnmarshalText(b []byte) error {
	return parseInto(k, "intent", intentNames, string(b))
}

func (k *IntentKind) UnmarshalYAML(n *yaml.Node) error {
	return parseInto(k, "intent", intentNames, n.Value)
}

// IsAttack reports whether the intent deals damage to the player.
func (k IntentKind) IsAttack() bool {
	return k == IntentAttack || k == IntentAttackMulti
}

type ItemKind int

const (
	ItemHeal ItemKind = iota
	ItemMana
	ItemBuff
	ItemMaxHealthUp
	ItemMaxManaUp
)

var itemKindNames = map[ItemKind]string{
	ItemHeal:        "heal",
	ItemMana:        "mana",
	ItemBuff:        "buff",
	ItemMaxHealthUp: "maxHealthUp",
	ItemMaxManaUp:   "maxManaUp",
}

func (k ItemKind) String() string { return nameOf(itemKindNames, k) }

func (k ItemKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ItemKind) UnmarshalText(b []byte) error {
	return parseInto(k, "item type", itemKindNames, string(b))
}

func (k *ItemKind) UnmarshalYAML(n *yaml.Node) error {
	return parseInto(k, "item type", itemKindNames, n.Value)
}

// ConditionKind names the statistic an achievement is measured against.
type ConditionKind int

const (
	ConditionBattlesWon ConditionKind = iota
	ConditionCardsOwned
	ConditionBossDefeated
	ConditionPerfectBattle
	ConditionPlayerLevel
)

var conditionNames = map[ConditionKind]string{
	ConditionBattlesWon:    "battles_won",
	ConditionCardsOwned:    "cards_owned",
	ConditionBossDefeated:  "boss_defeated",
	ConditionPerfectBattle: "perfect_battle",
	ConditionPlayerLevel:   "player_level",
}

func (k ConditionKind) String() string { return nameOf(conditionNames, k) }

func (k ConditionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ConditionKind) UnmarshalText(b []byte) error {
	return parseInto(k, "condition", conditionNames, string(b))
}

func (k *ConditionKind) UnmarshalYAML(n *yaml.Node) error {
	return parseInto(k, "condition", conditionNames, n.Value)
}

func nameOf[T ~int](names map[T]string, v T) string {
	if s, ok := names[v]; ok {
		return s
	}
	return fmt.Sprintf("unknown(%d)", int(v))
}

func parseInto[T ~int](dst *T, what string, names map[T]string, s string) error {
	for v, name := range names {
		if name == s {
			*dst = v
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q", what, s)
}
