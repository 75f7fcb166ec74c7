package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/peterkuimelis/cardcrawl/internal/catalog"
	"github.com/peterkuimelis/cardcrawl/internal/log"
)

func TestPlayAttackFromFourCardDeck(t *testing.T) {
	r := newTestRig(t, testEnemy(30))
	// Top of the deck is the last element.
	r.b.Deck = []string{"defense_basic", "defense_basic", "attack_basic", "attack_basic"}

	if drawn := r.deck.Draw(r.b, 4); len(drawn) != 4 {
		t.Fatalf("expected 4 cards drawn, got %v", drawn)
	}
	if len(r.b.Deck) != 0 || len(r.b.Hand) != 4 {
		t.Fatalf("deck=%v hand=%v", r.b.Deck, r.b.Hand)
	}
	if r.b.Hand[0] != "attack_basic" {
		t.Fatalf("expected attack at index 0, hand=%v", r.b.Hand)
	}

	if _, err := r.deck.PlayCard(r.b, 0); err != nil {
		t.Fatal(err)
	}
	if r.b.Enemy.Health != 24 {
		t.Errorf("expected enemy at 24, got %d", r.b.Enemy.Health)
	}
	if len(r.b.Hand) != 3 || len(r.b.Discard) != 1 || r.b.Discard[0] != "attack_basic" {
		t.Errorf("hand=%v discard=%v", r.b.Hand, r.b.Discard)
	}
	if r.b.Player.Mana != 2 || r.b.Stats.CardsPlayed != 1 {
		t.Errorf("mana=%d cardsPlayed=%d", r.b.Player.Mana, r.b.Stats.CardsPlayed)
	}
}

func TestPlayCardWithoutManaIsNoOp(t *testing.T) {
	r := newTestRig(t, testEnemy(30))
	r.b.Hand = []string{"attack_multi", "attack_basic"}
	r.b.Player.Mana = 1

	_, err := r.deck.PlayCard(r.b, 0)
	if !errors.Is(err, ErrInsufficientMana) {
		t.Fatalf("expected ErrInsufficientMana, got %v", err)
	}
	if r.b.Player.Mana != 1 || len(r.b.Hand) != 2 || len(r.b.Discard) != 0 || r.b.Enemy.Health != 30 {
		t.Errorf("state changed: mana=%d hand=%v discard=%v", r.b.Player.Mana, r.b.Hand, r.b.Discard)
	}
	if len(r.logger.EventsOfType(log.EventNoMana)) != 1 {
		t.Error("expected a NoMana notice")
	}
}

func TestPlayCardRejectsBadInput(t *testing.T) {
	r := newTestRig(t, testEnemy(30))
	r.b.Hand = []string{"attack_basic", "ghost_card"}

	for _, idx := range []int{-1, 2, 1} {
		if _, err := r.deck.PlayCard(r.b, idx); !errors.Is(err, ErrInvalidCard) {
			t.Errorf("index %d: expected ErrInvalidCard, got %v", idx, err)
		}
	}
	if len(r.b.Hand) != 2 || r.b.Player.Mana != 3 {
		t.Error("invalid plays must not change state")
	}
}

func TestCardTargets(t *testing.T) {
	r := newTestRig(t, testEnemy(30))
	r.b.Hand = []string{"defense_basic", "skill_weaken"}
	r.b.Player.MaxMana, r.b.Player.Mana = 5, 5

	r.deck.PlayCard(r.b, 0)
	if r.b.Player.Shield() != 8 || r.b.Enemy.Shield() != 0 {
		t.Errorf("defense should shield the player: player=%d enemy=%d", r.b.Player.Shield(), r.b.Enemy.Shield())
	}
	r.deck.PlayCard(r.b, 0)
	if !r.b.Enemy.Has(catalog.EffectWeakness) || r.b.Player.Has(catalog.EffectWeakness) {
		t.Error("skill_weaken targets the enemy")
	}
}

func TestCardWithoutEffect(t *testing.T) {
	r := newTestRig(t, testEnemy(30))
	r.b.Hand = []string{"curse_blank"}
	res, err := r.deck.PlayCard(r.b, 0)
	if err != nil || !res.Success {
		t.Fatalf("curse_blank: %+v %v", res, err)
	}
	if len(r.b.Discard) != 1 {
		t.Error("played card should be discarded")
	}
}

func TestDrawReshufflesDiscard(t *testing.T) {
	r := newTestRig(t, testEnemy(30))
	r.b.Deck = []string{"attack_basic"}
	r.b.Discard = []string{"defense_basic", "skill_draw"}

	drawn := r.deck.Draw(r.b, 3)
	if len(drawn) != 3 {
		t.Fatalf("expected 3 cards, got %v", drawn)
	}
	if len(r.b.Discard) != 0 || len(r.b.Deck) != 0 {
		t.Errorf("deck=%v discard=%v", r.b.Deck, r.b.Discard)
	}
	if len(r.logger.EventsOfType(log.EventReshuffle)) != 1 {
		t.Error("expected one reshuffle")
	}
}

func TestDrawStopsWhenExhausted(t *testing.T) {
	r := newTestRig(t, testEnemy(30))
	r.b.Deck = []string{"attack_basic", "attack_basic"}

	if drawn := r.deck.Draw(r.b, 5); len(drawn) != 2 {
		t.Errorf("expected 2 cards from an exhausted deck, got %d", len(drawn))
	}
	if drawn := r.deck.Draw(r.b, 1); len(drawn) != 0 {
		t.Errorf("expected nothing left to draw, got %v", drawn)
	}
}

func TestDrawRespectsHandLimit(t *testing.T) {
	r := newTestRig(t, testEnemy(30))
	for i := 0; i < 12; i++ {
		r.b.Deck = append(r.b.Deck, "attack_basic")
	}
	r.b.Hand = make([]string, 8)

	if drawn := r.deck.DrawForTurn(r.b); len(drawn) != 2 {
		t.Errorf("expected DrawForTurn to draw 2 into an 8 card hand, got %d", len(drawn))
	}
	if drawn := r.deck.Draw(r.b, 3); len(drawn) != 0 {
		t.Errorf("full hand should draw nothing, got %d", len(drawn))
	}
	if len(r.logger.EventsOfType(log.EventHandFull)) != 1 {
		t.Error("expected a hand full notice")
	}
}

func TestCreateDeckFallsBackToBasics(t *testing.T) {
	r := newTestRig(t, testEnemy(30))
	r.deck.CreateDeck(r.b, []string{"nope", "also_nope"})
	got := countCards(r.b.Deck)
	if got["attack_basic"] != 5 || got["defense_basic"] != 5 || len(r.b.Deck) != 10 {
		t.Errorf("fallback deck = %v", got)
	}

	r.deck.CreateDeck(r.b, []string{"skill_draw", "nope", "attack_basic"})
	if len(r.b.Deck) != 2 {
		t.Errorf("unknown ids should be skipped, deck=%v", r.b.Deck)
	}
}

// The multiset of deck+hand+discard never changes during a battle.
func TestCardConservation(t *testing.T) {
	r := newTestRig(t, testEnemy(10000))
	r.deck.noShuffle = false
	start := []string{
		"attack_basic", "attack_basic", "attack_basic", "defense_basic", "defense_basic",
		"skill_draw", "skill_draw", "defense_heal", "attack_multi", "curse_blank",
	}
	r.deck.CreateDeck(r.b, start)
	want := countCards(start)

	rng := rand.New(rand.NewSource(1))
	for step := 0; step < 500; step++ {
		r.b.Player.Mana = r.b.Player.MaxMana
		switch rng.Intn(5) {
		case 0:
			r.deck.Draw(r.b, rng.Intn(6))
		case 1:
			if len(r.b.Hand) > 0 {
				_, _ = r.deck.PlayCard(r.b, rng.Intn(len(r.b.Hand)))
			}
		case 2:
			r.deck.DiscardHand(r.b)
		case 3:
			r.deck.DiscardRandom(r.b, rng.Intn(3))
		case 4:
			r.deck.DrawForTurn(r.b)
		}
		got := countCards(r.b.Deck, r.b.Hand, r.b.Discard)
		for id, n := range want {
			if got[id] != n {
				t.Fatalf("step %d: %s count %d, want %d", step, id, got[id], n)
			}
		}
		if len(r.b.Hand) > MaxHandSize {
			t.Fatalf("step %d: hand exceeds limit (%d)", step, len(r.b.Hand))
		}
	}
}
