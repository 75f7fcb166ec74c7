package log

import "time"

// EventType enumerates all observable battle events.
type EventType int

const (
	EventPhaseChange EventType = iota
	EventBattleStart
	EventNewTurn
	EventShuffle
	EventReshuffle
	EventDraw
	EventHandFull
	EventPlayCard
	EventNoMana
	EventDiscard
	EventDamage
	EventHeal
	EventShield
	EventManaChange
	EventEffectApplied
	EventEffectTick
	EventEffectExpired
	EventIntent
	EventEnemyAction
	EventStunned
	EventItemUsed
	EventPause
	EventVictory
	EventDefeat
	EventReward
	EventLevelUp
	EventAchievement
	EventSaved
	EventFault
	EventGameOver
)

var eventNames = [...]string{
	EventPhaseChange:   "PhaseChange",
	EventBattleStart:   "BattleStart",
	EventNewTurn:       "NewTurn",
	EventShuffle:       "Shuffle",
	EventReshuffle:     "Reshuffle",
	EventDraw:          "Draw",
	EventHandFull:      "HandFull",
	EventPlayCard:      "PlayCard",
	EventNoMana:        "NoMana",
	EventDiscard:       "Discard",
	EventDamage:        "Damage",
	EventHeal:          "Heal",
	EventShield:        "Shield",
	EventManaChange:    "ManaChange",
	EventEffectApplied: "EffectApplied",
	EventEffectTick:    "EffectTick",
	EventEffectExpired: "EffectExpired",
	EventIntent:        "Intent",
	EventEnemyAction:   "EnemyAction",
	EventStunned:       "Stunned",
	EventItemUsed:      "ItemUsed",
	EventPause:         "Pause",
	EventVictory:       "Victory",
	EventDefeat:        "Defeat",
	EventReward:        "Reward",
	EventLevelUp:       "LevelUp",
	EventAchievement:   "Achievement",
	EventSaved:         "Saved",
	EventFault:         "Fault",
	EventGameOver:      "GameOver",
}

func (e EventType) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return "Unknown"
	}
	return eventNames[e]
}

// GameEvent represents a single observable event in a battle.
type GameEvent struct {
	Seq     int           // monotonic sequence number
	Turn    int           // battle turn counter (1-based, both sides count)
	Phase   string        // battle state at the time of the event
	Actor   string        // "player", "enemy" or empty for system events
	Type    EventType     // event type
	Card    string        // card, item or achievement id (if applicable)
	Value   int           // primary magnitude: damage, heal, shield, gold...
	Delay   time.Duration // pacing hint for EventPause
	Details string        // human-readable detail string
}
