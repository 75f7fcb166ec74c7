package game

import (
	"fmt"
	"math/rand"

	"github.com/peterkuimelis/cardcrawl/internal/catalog"
	"github.com/peterkuimelis/cardcrawl/internal/log"
)

// fallbackDeck is used when the player has nothing valid equipped.
var fallbackDeck = []string{
	"attack_basic", "attack_basic", "attack_basic", "attack_basic", "attack_basic",
	"defense_basic", "defense_basic", "defense_basic", "defense_basic", "defense_basic",
}

// DeckEngine moves card ids between the deck, hand and discard piles.
type DeckEngine struct {
	catalog   *catalog.Catalog
	effects   *EffectEngine
	rng       *rand.Rand
	noShuffle bool
}

// CreateDeck builds the draw pile from the equipped card ids. Unknown ids
// are skipped.
func (d *DeckEngine) CreateDeck(b *Battle, equipped []string) {
	b.Deck = b.Deck[:0]
	for _, id := range equipped {
		if d.catalog.Card(id) != nil {
			b.Deck = append(b.Deck, id)
		}
	}
	if len(b.Deck) == 0 {
		b.Deck = append(b.Deck, fallbackDeck...)
	}
	b.Hand = nil
	b.Discard = nil
	d.Shuffle(b)
}

// Shuffle randomizes the draw pile.
func (d *DeckEngine) Shuffle(b *Battle) {
	if !d.noShuffle {
		d.rng.Shuffle(len(b.Deck), func(i, j int) {
			b.Deck[i], b.Deck[j] = b.Deck[j], b.Deck[i]
		})
	}
	b.log(log.NewShuffleEvent(SidePlayer.String(), len(b.Deck)))
}

// Draw moves up to n cards from the top of the deck into the hand. The
// discard pile is shuffled back in when the deck runs out. Returns the
// cards drawn, which is fewer than n only when both piles are empty or the
// hand is full.
func (d *DeckEngine) Draw(b *Battle, n int) []string {
	var drawn []string
	for i := 0; i < n; i++ {
		if len(b.Hand) >= MaxHandSize {
			b.log(log.NewHandFullEvent(SidePlayer.String(), len(b.Hand)))
			break
		}
		if len(b.Deck) == 0 {
			if len(b.Discard) == 0 {
				break
			}
			b.Deck = append(b.Deck, b.Discard...)
			b.Discard = nil
			b.log(log.NewReshuffleEvent(SidePlayer.String(), len(b.Deck)))
			d.Shuffle(b)
		}
		id := b.Deck[len(b.Deck)-1]
		b.Deck = b.Deck[:len(b.Deck)-1]
		b.Hand = append(b.Hand, id)
		drawn = append(drawn, id)
		b.log(log.NewDrawEvent(SidePlayer.String(), id))
	}
	return drawn
}

// DrawForTurn fills the hand at the start of the player's turn.
func (d *DeckEngine) DrawForTurn(b *Battle) []string {
	return d.Draw(b, min(TurnDrawCount, MaxHandSize-len(b.Hand)))
}

// PlayCard pays for and resolves the card at handIndex. On any error the
// battle is left untouched.
func (d *DeckEngine) PlayCard(b *Battle, handIndex int) (Result, error) {
	if handIndex < 0 || handIndex >= len(b.Hand) {
		return Result{}, fmt.Errorf("%w: no card at index %d", ErrInvalidCard, handIndex)
	}
	id := b.Hand[handIndex]
	card := d.catalog.Card(id)
	if card == nil {
		return Result{}, fmt.Errorf("%w: unknown card %q", ErrInvalidCard, id)
	}
	old := b.Player.Mana
	if !b.Player.UseMana(card.Cost) {
		b.log(log.NewNoManaEvent(SidePlayer.String(), id, b.Player.Mana, card.Cost))
		return Result{}, fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientMana, id, card.Cost, b.Player.Mana)
	}

	// Draw and discard effects resolve against the hand without the played card.
	b.Hand = append(b.Hand[:handIndex], b.Hand[handIndex+1:]...)
	b.Discard = append(b.Discard, id)
	b.Stats.CardsPlayed++
	b.log(log.NewPlayCardEvent(SidePlayer.String(), id, card.Cost))
	if card.Cost > 0 {
		b.log(log.NewManaChangeEvent(SidePlayer.String(), old, b.Player.Mana, id))
	}

	if card.Effect == nil {
		return Result{Success: true, Message: "card has no effect"}, nil
	}
	return d.effects.Apply(b, *card.Effect, targetOf(card), Source{Side: SidePlayer, Name: id}), nil
}

// targetOf picks the side a card's effect lands on.
func targetOf(card *catalog.Card) Side {
	switch card.Effect.Target {
	case catalog.TargetPlayer:
		return SidePlayer
	case catalog.TargetEnemy:
		return SideEnemy
	}
	if card.Type == catalog.CardAttack {
		return SideEnemy
	}
	return SidePlayer
}

// DiscardCard moves one card from the hand to the discard pile.
func (d *DeckEngine) DiscardCard(b *Battle, handIndex int, reason string) error {
	if handIndex < 0 || handIndex >= len(b.Hand) {
		return fmt.Errorf("%w: no card at index %d", ErrInvalidCard, handIndex)
	}
	id := b.Hand[handIndex]
	b.Hand = append(b.Hand[:handIndex], b.Hand[handIndex+1:]...)
	b.Discard = append(b.Discard, id)
	b.log(log.NewDiscardEvent(SidePlayer.String(), id, reason))
	return nil
}

// DiscardHand empties the hand into the discard pile.
func (d *DeckEngine) DiscardHand(b *Battle) {
	for len(b.Hand) > 0 {
		_ = d.DiscardCard(b, 0, "end of turn")
	}
}

// DiscardRandom discards up to n random cards from the hand.
func (d *DeckEngine) DiscardRandom(b *Battle, n int) []string {
	var dropped []string
	for i := 0; i < n && len(b.Hand) > 0; i++ {
		idx := d.rng.Intn(len(b.Hand))
		dropped = append(dropped, b.Hand[idx])
		_ = d.DiscardCard(b, idx, "effect")
	}
	return dropped
}

// Counts returns the sizes of the deck, hand and discard piles.
func (b *Battle) Counts() (deck, hand, discard int) {
	return len(b.Deck), len(b.Hand), len(b.Discard)
}
