package game

import (
	"errors"
	"fmt"

	"github.com/peterkuimelis/cardcrawl/internal/catalog"
)

var (
	ErrNotPlayerTurn    = errors.New("not the player's turn")
	ErrInvalidCard      = errors.New("invalid card")
	ErrInsufficientMana = errors.New("insufficient mana")
	ErrBattleOver       = errors.New("battle is over")
	ErrNoBattle         = errors.New("no battle in progress")
	ErrUnknownLevel     = errors.New("unknown level")
	ErrUnknownItem      = errors.New("unknown item")
	ErrNoItem           = errors.New("item not in inventory")
	ErrStunned          = errors.New("player is stunned")
	ErrInternal         = errors.New("internal battle fault")
)

// --- Enums ---

// Side identifies a combatant.
type Side int

const (
	SidePlayer Side = iota
	SideEnemy
)

func (s Side) String() string {
	if s == SidePlayer {
		return "player"
	}
	return "enemy"
}

func (s Side) Opponent() Side {
	if s == SidePlayer {
		return SideEnemy
	}
	return SidePlayer
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Trigger decides when an active effect ticks.
type Trigger int

const (
	TriggerInstant Trigger = iota
	TriggerTurnStart
	TriggerTurnEnd
	TriggerPermanent
)

func (t Trigger) String() string {
	switch t {
	case TriggerTurnStart:
		return "turnStart"
	case TriggerTurnEnd:
		return "turnEnd"
	case TriggerPermanent:
		return "permanent"
	default:
		return "instant"
	}
}

func (t Trigger) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Duration is either a positive number of turns or permanent.
// The zero value is not a valid duration.
type Duration struct {
	turns     int
	permanent bool
}

func Turns(n int) Duration { return Duration{turns: n} }

func Permanent() Duration { return Duration{permanent: true} }

func (d Duration) IsPermanent() bool { return d.permanent }

// Remaining is the number of turns left; permanent durations report 0.
func (d Duration) Remaining() int { return d.turns }

func (d Duration) Valid() bool { return d.permanent || d.turns > 0 }

// tick decrements a timed duration and reports whether it has run out.
func (d Duration) tick() (Duration, bool) {
	if d.permanent {
		return d, false
	}
	d.turns--
	return d, d.turns <= 0
}

func (d Duration) String() string {
	if d.permanent {
		return "permanent"
	}
	if d.turns == 1 {
		return "1 turn"
	}
	return fmt.Sprintf("%d turns", d.turns)
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Source names what applied an effect.
type Source struct {
	Side Side   // side whose strength and weakness modify outgoing damage
	Name string // card, item, enemy or effect id
}

func (s Source) String() string {
	if s.Name == "" {
		return s.Side.String()
	}
	return s.Name
}

// ActiveEffect is a timed or permanent effect attached to one combatant.
type ActiveEffect struct {
	ID       string             `json:"id"`
	Kind     catalog.EffectKind `json:"type"`
	Value    float64            `json:"value"`
	Duration Duration           `json:"duration"`
	Trigger  Trigger            `json:"trigger"`
	Owner    Side               `json:"owner"`
	Source   string             `json:"source"`

	fresh bool // shield raised during the owner's own turn
}

// Intent is the enemy's announced next action.
type Intent struct {
	Kind     catalog.IntentKind `json:"type"`
	Value    int                `json:"value"`
	Times    int                `json:"times,omitempty"`
	Effect   catalog.EffectKind `json:"effect,omitempty"`
	Potency  float64            `json:"potency,omitempty"`
	Duration int                `json:"duration,omitempty"`
}

// BattleState is the turn bookkeeping shared by all components.
type BattleState struct {
	LevelID      int    `json:"levelId"`
	Phase        string `json:"phase"`
	IsPlayerTurn bool   `json:"isPlayerTurn"`
	TurnCount    int    `json:"turnCount"`
	IsGameOver   bool   `json:"isGameOver"`
	IsVictory    bool   `json:"isVictory"`
}

// BattleStats are counters for the current battle only.
type BattleStats struct {
	CardsPlayed int `json:"cardsPlayed"`
	DamageDealt int `json:"damageDealt"`
	DamageTaken int `json:"damageTaken"`
	Healing     int `json:"healing"`
}

// Result reports the outcome of applying one effect.
type Result struct {
	Success bool
	Kind    catalog.EffectKind
	Amount  int      // damage dealt, health healed, shield gained, mana gained
	Cards   []string // cards drawn or discarded
	Effect  *ActiveEffect
	Message string
}

func failed(kind catalog.EffectKind, format string, args ...any) Result {
	return Result{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
