package game

import (
	"context"
	"fmt"
	"testing"

	"github.com/peterkuimelis/cardcrawl/internal/achievement"
	"github.com/peterkuimelis/cardcrawl/internal/catalog"
	"github.com/peterkuimelis/cardcrawl/internal/log"
	"github.com/peterkuimelis/cardcrawl/internal/save"
)

const testCatalogYAML = `
cards:
  - {id: attack_basic, name: Strike, type: attack, rarity: common, cost: 1, effect: {type: damage, value: 6}}
  - {id: attack_multi, name: Flurry, type: attack, rarity: rare, cost: 2, effect: {type: damage, value: 4, times: 3}}
  - {id: defense_basic, name: Guard, type: defense, rarity: common, cost: 1, effect: {type: shield, value: 8}}
  - {id: defense_heal, name: Mend, type: defense, rarity: uncommon, cost: 1, effect: {type: healing, value: 8}}
  - {id: skill_draw, name: Insight, type: skill, rarity: common, cost: 1, effect: {type: draw, value: 2}}
  - {id: skill_weaken, name: Enfeeble, type: skill, rarity: uncommon, cost: 1, effect: {type: weakness, value: 0.25, duration: 2, target: enemy}}
  - {id: power_strength, name: Inner Strength, type: power, rarity: rare, cost: 2, effect: {type: strength, value: 3, permanent: true}}
  - {id: curse_blank, name: Blank, type: curse, rarity: common, cost: 0}
levels:
  - {id: 1, name: Dummy, enemy: dummy, rewards: {gold: 50, experience: 100, cards: [skill_draw]}}
  - {id: 2, name: Brute, enemy: brute, rewards: {gold: 10, experience: 10}}
  - {id: 3, name: Boss, enemy: tiny_boss, rewards: {gold: 10, experience: 10}}
enemies:
  - id: dummy
    name: Dummy
    type: normal
    health: 6
    attack: 1
    actions:
      - {type: defend, value: 1, weight: 1}
  - id: brute
    name: Brute
    type: normal
    health: 50
    attack: 100
    actions:
      - {type: attack, value: 100, weight: 1}
  - id: tiny_boss
    name: Tiny Boss
    type: boss
    health: 6
    attack: 1
    actions:
      - {type: attack, value: 10, weight: 1}
items:
  - {id: health_potion, name: Health Potion, type: heal, value: 20}
  - {id: strength_potion, name: Strength Potion, type: buff, effect: strength, value: 2, duration: 3}
  - {id: max_mana_potion, name: Arcane Potion, type: maxManaUp, value: 1}
achievements:
  - {id: first_victory, name: First Victory, condition: {type: battles_won, value: 1}}
  - {id: boss_slayer, name: Boss Slayer, condition: {type: boss_defeated, value: 1}}
  - {id: perfect_battle, name: Perfect Battle, condition: {type: perfect_battle, value: 1}}
`

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(testCatalogYAML))
	if err != nil {
		t.Fatalf("parse test catalog: %v", err)
	}
	return c
}

// testEnemy builds an enemy template with the given health and actions.
func testEnemy(health int, actions ...catalog.EnemyAction) *catalog.Enemy {
	if len(actions) == 0 {
		actions = []catalog.EnemyAction{{Kind: catalog.IntentDefend, Value: 1, Weight: 1}}
	}
	return &catalog.Enemy{ID: "target", Name: "Target", Health: health, Attack: 1, Actions: actions}
}

// testRig bundles a hand-built battle with its engines.
type testRig struct {
	b       *Battle
	logger  *log.MemoryLogger
	effects *EffectEngine
	deck    *DeckEngine
	ai      *EnemyAI
}

// newTestRig builds a battle on the player's turn against enemy, without
// going through the battle manager.
func newTestRig(t *testing.T, enemy *catalog.Enemy) *testRig {
	t.Helper()
	m := NewBattleManager(Config{Catalog: testCatalog(t), Seed: 7, NoShuffle: true}, save.NewProgress())
	logger := log.NewMemoryLogger()
	b := newBattle(&catalog.Level{ID: 1, EnemyID: enemy.ID}, logger, nil)
	n := 0
	b.newID = func() string {
		n++
		return fmt.Sprintf("fx-%d", n)
	}
	b.Player = NewPlayer(save.Player{Level: 1, MaxHealth: 80, MaxMana: 3})
	b.Enemy = NewEnemy(enemy)
	b.State.IsPlayerTurn = true
	b.State.TurnCount = 1
	return &testRig{b: b, logger: logger, effects: m.effects, deck: m.deck, ai: m.ai}
}

// newTestManager starts a battle on levelID with an unshuffled deck. The
// equipped cards are drawn in reverse order (top of deck is last).
func newTestManager(t *testing.T, levelID int, equipped ...string) (*BattleManager, *log.MemoryLogger, *save.MemoryStore) {
	t.Helper()
	cat := testCatalog(t)
	store := save.NewMemoryStore()
	logger := log.NewMemoryLogger()
	p := save.NewProgress()
	if len(equipped) > 0 {
		p.EquippedCards = equipped
	}
	m := NewBattleManager(Config{
		Catalog:      cat,
		Store:        store,
		Achievements: achievement.New(cat, store, nil),
		Logger:       logger,
		Seed:         42,
		NoShuffle:    true,
	}, p)
	if err := m.StartBattle(context.Background(), levelID); err != nil {
		t.Fatalf("start battle: %v", err)
	}
	return m, logger, store
}

// handIndex returns the first hand position holding id.
func handIndex(t *testing.T, b *Battle, id string) int {
	t.Helper()
	for i, c := range b.Hand {
		if c == id {
			return i
		}
	}
	t.Fatalf("%s not in hand %v", id, b.Hand)
	return -1
}

func countCards(piles ...[]string) map[string]int {
	out := map[string]int{}
	for _, p := range piles {
		for _, id := range p {
			out[id]++
		}
	}
	return out
}
