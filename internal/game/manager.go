package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/looplab/fsm"

	"github.com/peterkuimelis/cardcrawl/internal/achievement"
	"github.com/peterkuimelis/cardcrawl/internal/catalog"
	"github.com/peterkuimelis/cardcrawl/internal/log"
	"github.com/peterkuimelis/cardcrawl/internal/save"
)

// Battle phases, driven by the manager's state machine.
const (
	StateIdle            = "idle"
	StateBattleStart     = "battle_start"
	StatePlayerTurnStart = "player_turn_start"
	StatePlayerActive    = "player_active"
	StatePlayerTurnEnd   = "player_turn_end"
	StateEnemyTurnStart  = "enemy_turn_start"
	StateEnemyActive     = "enemy_active"
	StateEnemyTurnEnd    = "enemy_turn_end"
	StateBattleEnd       = "battle_end"
)

const (
	DefaultEnemyDelay    = time.Second
	DefaultGameOverDelay = 1500 * time.Millisecond
)

// Achievements is the part of the achievement engine the manager needs.
type Achievements interface {
	Evaluate(ctx context.Context, p *save.Progress, f achievement.Facts) ([]*catalog.Achievement, error)
}

// Config holds configuration for a battle manager.
type Config struct {
	Catalog      *catalog.Catalog
	Store        save.Store   // nil disables saving
	Achievements Achievements // nil disables achievements
	Logger       log.EventLogger
	Presenters   []Presenter
	Seed         int64 // RNG seed (0 for random)
	NoShuffle    bool  // skip deck shuffle (for deterministic tests)

	// Pacing hints emitted as EventPause. The manager never sleeps.
	EnemyDelay    time.Duration
	GameOverDelay time.Duration
}

// BattleManager sequences turns and owns the current battle.
type BattleManager struct {
	cfg      Config
	progress *save.Progress
	rng      *rand.Rand
	effects  *EffectEngine
	deck     *DeckEngine
	ai       *EnemyAI
	machine  *fsm.FSM
	battle   *Battle
}

// NewBattleManager creates a manager that plays battles for progress.
func NewBattleManager(cfg Config, progress *save.Progress) *BattleManager {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewMemoryLogger()
	}
	if cfg.EnemyDelay == 0 {
		cfg.EnemyDelay = DefaultEnemyDelay
	}
	if cfg.GameOverDelay == 0 {
		cfg.GameOverDelay = DefaultGameOverDelay
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	effects := &EffectEngine{}
	deck := &DeckEngine{catalog: cfg.Catalog, effects: effects, rng: rng, noShuffle: cfg.NoShuffle}
	effects.deck = deck

	return &BattleManager{
		cfg:      cfg,
		progress: progress,
		rng:      rng,
		effects:  effects,
		deck:     deck,
		ai:       &EnemyAI{effects: effects, rng: rng},
	}
}

func (m *BattleManager) newMachine(b *Battle) *fsm.FSM {
	inBattle := []string{
		StateBattleStart, StatePlayerTurnStart, StatePlayerActive, StatePlayerTurnEnd,
		StateEnemyTurnStart, StateEnemyActive, StateEnemyTurnEnd,
	}
	return fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: "start", Src: []string{StateIdle}, Dst: StateBattleStart},
			{Name: "begin_player_turn", Src: []string{StateBattleStart, StateEnemyTurnEnd}, Dst: StatePlayerTurnStart},
			{Name: "player_ready", Src: []string{StatePlayerTurnStart}, Dst: StatePlayerActive},
			{Name: "end_player_turn", Src: []string{StatePlayerActive}, Dst: StatePlayerTurnEnd},
			{Name: "begin_enemy_turn", Src: []string{StatePlayerTurnEnd}, Dst: StateEnemyTurnStart},
			{Name: "enemy_ready", Src: []string{StateEnemyTurnStart}, Dst: StateEnemyActive},
			{Name: "end_enemy_turn", Src: []string{StateEnemyActive}, Dst: StateEnemyTurnEnd},
			{Name: "finish", Src: inBattle, Dst: StateBattleEnd},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				b.State.Phase = e.Dst
				b.log(log.NewPhaseChangeEvent(e.Src, e.Dst))
			},
		},
	)
}

func (m *BattleManager) fire(event string) error {
	if err := m.machine.Event(m.battle.ctx, event); err != nil {
		return fmt.Errorf("%w: %s from %s: %v", ErrInternal, event, m.machine.Current(), err)
	}
	return nil
}

// guard turns a panic inside a public operation into an error and a fault event.
func (m *BattleManager) guard(op string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	fault := fmt.Errorf("%w: %s: %v", ErrInternal, op, r)
	if m.battle != nil {
		m.battle.log(log.NewFaultEvent(op, fault))
	} else {
		m.cfg.Logger.Log(log.NewFaultEvent(op, fault))
	}
	*err = fault
}

// Battle returns the current battle, or nil before the first StartBattle.
func (m *BattleManager) Battle() *Battle { return m.battle }

// State returns a copy of the current battle state.
func (m *BattleManager) State() BattleState {
	if m.battle == nil {
		return BattleState{Phase: StateIdle}
	}
	return m.battle.State
}

// Stats returns the current battle's counters.
func (m *BattleManager) Stats() BattleStats {
	if m.battle == nil {
		return BattleStats{}
	}
	return m.battle.Stats
}

// Progress returns the profile battles are played for.
func (m *BattleManager) Progress() *save.Progress { return m.progress }

// Phase is the state machine's current state.
func (m *BattleManager) Phase() string {
	if m.machine == nil {
		return StateIdle
	}
	return m.machine.Current()
}

// CanAct reports whether the player may play cards or end the turn.
func (m *BattleManager) CanAct() bool {
	return m.battle != nil && !m.battle.Over() && m.machine.Is(StatePlayerActive)
}

func (m *BattleManager) checkActive() error {
	switch {
	case m.battle == nil:
		return ErrNoBattle
	case m.battle.Over():
		return ErrBattleOver
	case !m.machine.Is(StatePlayerActive):
		return ErrNotPlayerTurn
	}
	return nil
}

// StartBattle sets up a fresh battle for levelID and begins the player's
// first turn.
func (m *BattleManager) StartBattle(ctx context.Context, levelID int) (err error) {
	defer m.guard("start battle", &err)

	level := m.cfg.Catalog.Level(levelID)
	if level == nil {
		return fmt.Errorf("%w: %d", ErrUnknownLevel, levelID)
	}
	tpl := m.cfg.Catalog.Enemy(level.EnemyID)
	if tpl == nil {
		return fmt.Errorf("%w: level %d has unknown enemy %q", ErrUnknownLevel, levelID, level.EnemyID)
	}

	b := newBattle(level, m.cfg.Logger, m.cfg.Presenters)
	b.ctx = ctx
	m.battle = b
	m.machine = m.newMachine(b)
	if err := m.fire("start"); err != nil {
		return err
	}

	b.Enemy = NewEnemy(tpl)
	b.Player = NewPlayer(m.progress.Player)
	b.log(log.NewBattleStartEvent(level.ID, tpl.Name))
	m.deck.CreateDeck(b, m.progress.EquippedCards)
	m.ai.Decide(b)

	return m.startPlayerTurn()
}

func (m *BattleManager) startPlayerTurn() error {
	b := m.battle
	if err := m.fire("begin_player_turn"); err != nil {
		return err
	}
	b.State.IsPlayerTurn = true
	b.State.TurnCount++
	b.log(log.NewTurnEvent(b.State.TurnCount, SidePlayer.String()))

	m.effects.ProcessTurnStart(b)
	if b.Over() {
		return m.endBattle()
	}

	b.playerStunned = b.Player.Has(catalog.EffectStun)
	if b.playerStunned {
		b.log(log.NewStunnedEvent(SidePlayer.String()))
	}
	m.deck.DrawForTurn(b)
	old := b.Player.Mana
	b.Player.Mana = b.Player.MaxMana
	b.log(log.NewManaChangeEvent(SidePlayer.String(), old, b.Player.Mana, "new turn"))

	return m.fire("player_ready")
}

// PlayCard plays the card at handIndex during the player's turn.
func (m *BattleManager) PlayCard(ctx context.Context, handIndex int) (res Result, err error) {
	defer m.guard("play card", &err)
	if err := m.checkActive(); err != nil {
		return Result{}, err
	}
	b := m.battle
	b.ctx = ctx
	if b.playerStunned {
		return Result{}, ErrStunned
	}

	res, err = m.deck.PlayCard(b, handIndex)
	if err != nil {
		return res, err
	}
	m.ai.Refresh(b)
	if b.Over() {
		return res, m.endBattle()
	}
	return res, nil
}

// EndTurn finishes the player's turn and runs the enemy's turn to completion.
func (m *BattleManager) EndTurn(ctx context.Context) (err error) {
	defer m.guard("end turn", &err)
	if err := m.checkActive(); err != nil {
		return err
	}
	b := m.battle
	b.ctx = ctx

	if err := m.fire("end_player_turn"); err != nil {
		return err
	}
	m.effects.ProcessTurnEnd(b)
	m.deck.DiscardHand(b)
	b.playerStunned = false
	if b.Over() {
		return m.endBattle()
	}
	return m.runEnemyTurn()
}

func (m *BattleManager) runEnemyTurn() error {
	b := m.battle
	if err := m.fire("begin_enemy_turn"); err != nil {
		return err
	}
	b.State.IsPlayerTurn = false
	b.State.TurnCount++
	b.log(log.NewTurnEvent(b.State.TurnCount, SideEnemy.String()))

	m.effects.ProcessTurnStart(b)
	if b.Over() {
		return m.endBattle()
	}
	if err := m.fire("enemy_ready"); err != nil {
		return err
	}

	b.log(log.NewPauseEvent(m.cfg.EnemyDelay, "enemy acts"))
	m.ai.Execute(b)
	if b.Over() {
		return m.endBattle()
	}
	b.log(log.NewPauseEvent(m.cfg.EnemyDelay, "enemy ends turn"))

	if err := m.fire("end_enemy_turn"); err != nil {
		return err
	}
	m.effects.ProcessTurnEnd(b)
	m.ai.Refresh(b)
	if b.Over() {
		return m.endBattle()
	}
	return m.startPlayerTurn()
}

// endBattle settles a decided battle. The game-over events are emitted even
// when settling fails.
func (m *BattleManager) endBattle() error {
	b := m.battle
	if b.ended {
		return nil
	}
	b.ended = true
	b.State.IsGameOver = true

	defer func() {
		b.log(log.NewPauseEvent(m.cfg.GameOverDelay, "battle over"))
		b.log(log.NewGameOverEvent(b.State.IsVictory))
	}()

	var errs []error
	if err := m.fire("finish"); err != nil {
		errs = append(errs, err)
	}
	if b.State.IsVictory {
		b.log(log.NewVictoryEvent(b.Enemy.Name))
		m.settleVictory()
	} else {
		b.log(log.NewDefeatEvent(b.Enemy.Name))
	}
	return errors.Join(errs...)
}
