package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// EventLogger is the interface for logging battle events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.record(event)
}

func (l *MemoryLogger) record(event GameEvent) GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
	return event
}

func (l *MemoryLogger) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]GameEvent, len(l.events))
	copy(out, l.events)
	return out
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.Events() {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// Reset drops all recorded events but keeps the sequence counter running.
func (l *MemoryLogger) Reset() {
	l.mu.Lock()
	l.events = nil
	l.mu.Unlock()
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	event = l.MemoryLogger.record(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// Discard drops every event. Used where no transcript is wanted.
type Discard struct{}

func (Discard) Log(GameEvent)        {}
func (Discard) Events() []GameEvent { return nil }

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	for len(phase) < 18 {
		phase += " "
	}
	return fmt.Sprintf("T%-2d %s| %s", e.Turn, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---
// Turn and Phase are stamped by the battle when the event is logged.

func NewPhaseChangeEvent(from, to string) GameEvent {
	return GameEvent{
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("Phase %s → %s", from, to),
	}
}

func NewBattleStartEvent(levelID int, enemy string) GameEvent {
	return GameEvent{
		Type:    EventBattleStart,
		Card:    enemy,
		Value:   levelID,
		Details: fmt.Sprintf("Level %d begins against %s", levelID, enemy),
	}
}

func NewTurnEvent(turn int, actor string) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventNewTurn,
		Value:   turn,
		Details: fmt.Sprintf("=== Turn %d (%s) ===", turn, actor),
	}
}

func NewShuffleEvent(actor string, size int) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventShuffle,
		Value:   size,
		Details: fmt.Sprintf("%s shuffles a %d card deck", actor, size),
	}
}

func NewReshuffleEvent(actor string, size int) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventReshuffle,
		Value:   size,
		Details: fmt.Sprintf("%s shuffles %d discarded cards back into the deck", actor, size),
	}
}

func NewDrawEvent(actor, card string) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventDraw,
		Card:    card,
		Details: fmt.Sprintf("%s draws %s", actor, card),
	}
}

func NewHandFullEvent(actor string, size int) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventHandFull,
		Value:   size,
		Details: fmt.Sprintf("%s's hand is full (%d cards)", actor, size),
	}
}

func NewPlayCardEvent(actor, card string, cost int) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventPlayCard,
		Card:    card,
		Value:   cost,
		Details: fmt.Sprintf("%s plays %s (cost %d)", actor, card, cost),
	}
}

func NewNoManaEvent(actor, card string, have, need int) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventNoMana,
		Card:    card,
		Value:   need,
		Details: fmt.Sprintf("Not enough mana for %s (%d/%d)", card, have, need),
	}
}

func NewDiscardEvent(actor, card, reason string) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventDiscard,
		Card:    card,
		Details: fmt.Sprintf("%s discards %s (%s)", actor, card, reason),
	}
}

func NewDamageEvent(target string, amount, oldHP, newHP int, source string) GameEvent {
	return GameEvent{
		Actor:   target,
		Type:    EventDamage,
		Card:    source,
		Value:   amount,
		Details: fmt.Sprintf("%s takes %d damage from %s (HP %d → %d)", target, amount, source, oldHP, newHP),
	}
}

func NewHealEvent(target string, amount, newHP int, source string) GameEvent {
	return GameEvent{
		Actor:   target,
		Type:    EventHeal,
		Card:    source,
		Value:   amount,
		Details: fmt.Sprintf("%s heals %d from %s (HP %d)", target, amount, source, newHP),
	}
}

func NewShieldEvent(target string, amount int, source string) GameEvent {
	return GameEvent{
		Actor:   target,
		Type:    EventShield,
		Card:    source,
		Value:   amount,
		Details: fmt.Sprintf("%s gains %d shield from %s", target, amount, source),
	}
}

func NewManaChangeEvent(actor string, oldMana, newMana int, reason string) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventManaChange,
		Value:   newMana - oldMana,
		Details: fmt.Sprintf("%s mana: %d → %d (%s)", actor, oldMana, newMana, reason),
	}
}

func NewEffectAppliedEvent(target, effect string, value float64, duration string, source string) GameEvent {
	return GameEvent{
		Actor:   target,
		Type:    EventEffectApplied,
		Card:    source,
		Value:   int(value),
		Details: fmt.Sprintf("%s gains %s %g (%s) from %s", target, effect, value, duration, source),
	}
}

func NewEffectTickEvent(target, effect string, amount int) GameEvent {
	return GameEvent{
		Actor:   target,
		Type:    EventEffectTick,
		Value:   amount,
		Details: fmt.Sprintf("%s's %s triggers (%d)", target, effect, amount),
	}
}

func NewEffectExpiredEvent(target, effect string) GameEvent {
	return GameEvent{
		Actor:   target,
		Type:    EventEffectExpired,
		Details: fmt.Sprintf("%s's %s wears off", target, effect),
	}
}

func NewIntentEvent(enemy, intent string, value int) GameEvent {
	return GameEvent{
		Actor:   "enemy",
		Type:    EventIntent,
		Card:    enemy,
		Value:   value,
		Details: fmt.Sprintf("%s intends to %s (%d)", enemy, intent, value),
	}
}

func NewEnemyActionEvent(enemy, action string, value int) GameEvent {
	return GameEvent{
		Actor:   "enemy",
		Type:    EventEnemyAction,
		Card:    enemy,
		Value:   value,
		Details: fmt.Sprintf("%s uses %s (%d)", enemy, action, value),
	}
}

func NewStunnedEvent(actor string) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventStunned,
		Details: fmt.Sprintf("%s is stunned and cannot act", actor),
	}
}

func NewItemUsedEvent(item string, remaining int) GameEvent {
	return GameEvent{
		Actor:   "player",
		Type:    EventItemUsed,
		Card:    item,
		Value:   remaining,
		Details: fmt.Sprintf("player uses %s (%d left)", item, remaining),
	}
}

func NewPauseEvent(d time.Duration, reason string) GameEvent {
	return GameEvent{
		Type:    EventPause,
		Delay:   d,
		Details: fmt.Sprintf("... %s (%s)", reason, d),
	}
}

func NewVictoryEvent(enemy string) GameEvent {
	return GameEvent{
		Actor:   "player",
		Type:    EventVictory,
		Card:    enemy,
		Details: fmt.Sprintf("Victory! %s is defeated", enemy),
	}
}

func NewDefeatEvent(enemy string) GameEvent {
	return GameEvent{
		Actor:   "enemy",
		Type:    EventDefeat,
		Card:    enemy,
		Details: fmt.Sprintf("Defeat. %s wins the battle", enemy),
	}
}

func NewRewardEvent(kind string, amount int, card string) GameEvent {
	details := fmt.Sprintf("Reward: %d %s", amount, kind)
	if card != "" {
		details = fmt.Sprintf("Reward: card %s", card)
	}
	return GameEvent{
		Actor:   "player",
		Type:    EventReward,
		Card:    card,
		Value:   amount,
		Details: details,
	}
}

func NewLevelUpEvent(level int) GameEvent {
	return GameEvent{
		Actor:   "player",
		Type:    EventLevelUp,
		Value:   level,
		Details: fmt.Sprintf("Level up! Player is now level %d", level),
	}
}

func NewAchievementEvent(id, name string) GameEvent {
	return GameEvent{
		Actor:   "player",
		Type:    EventAchievement,
		Card:    id,
		Details: fmt.Sprintf("Achievement unlocked: %s", name),
	}
}

func NewSavedEvent(slot string) GameEvent {
	return GameEvent{
		Type:    EventSaved,
		Card:    slot,
		Details: fmt.Sprintf("Progress saved (%s)", slot),
	}
}

func NewFaultEvent(op string, err error) GameEvent {
	return GameEvent{
		Type:    EventFault,
		Details: fmt.Sprintf("%s failed: %v", op, err),
	}
}

func NewGameOverEvent(victory bool) GameEvent {
	result := "defeat"
	if victory {
		result = "victory"
	}
	return GameEvent{
		Type:    EventGameOver,
		Details: fmt.Sprintf("Game over (%s)", result),
	}
}
