package net

// Message types for the JSON protocol over TCP and WebSocket. Every client
// request is answered by zero or more "notify" messages followed by exactly
// one "state", "game_over", "levels" or "error" reply.

// Client request types.
const (
	MsgStart   = "start"
	MsgPlay    = "play"
	MsgEndTurn = "end_turn"
	MsgUseItem = "use_item"
	MsgState   = "state"
	MsgLevels  = "levels"
)

// Server message types.
const (
	MsgNotify   = "notify"
	MsgError    = "error"
	MsgGameOver = "game_over"
)

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "state" and "game_over"
	State  *StateView  `json:"state,omitempty"`
	Result *ResultView `json:"result,omitempty"`

	// For "levels"
	Levels []LevelView `json:"levels,omitempty"`

	// For "error"
	Error string `json:"error,omitempty"`
}

// EventView is a game event as sent to clients.
type EventView struct {
	Seq     int    `json:"seq"`
	Turn    int    `json:"turn"`
	Phase   string `json:"phase"`
	Actor   string `json:"actor,omitempty"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Value   int    `json:"value,omitempty"`
	DelayMS int64  `json:"delay_ms,omitempty"`
	Details string `json:"details"`
}

// ResultView reports what a card or item did.
type ResultView struct {
	Success bool   `json:"success"`
	Kind    string `json:"kind,omitempty"`
	Amount  int    `json:"amount,omitempty"`
	Message string `json:"message,omitempty"`
}

// CardView describes a card in hand.
type CardView struct {
	Index       int    `json:"index"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Cost        int    `json:"cost"`
	Description string `json:"description,omitempty"`
	Playable    bool   `json:"playable"`
}

// EffectView is an active status effect. Turns is -1 for permanent effects.
type EffectView struct {
	Kind  string  `json:"kind"`
	Value float64 `json:"value"`
	Turns int     `json:"turns"`
}

// CombatantView shows one side of the battle.
type CombatantView struct {
	Name      string       `json:"name"`
	HP        int          `json:"hp"`
	MaxHP     int          `json:"max_hp"`
	Mana      int          `json:"mana,omitempty"`
	MaxMana   int          `json:"max_mana,omitempty"`
	Shield    int          `json:"shield"`
	Strength  int          `json:"strength,omitempty"`
	Dexterity int          `json:"dexterity,omitempty"`
	Effects   []EffectView `json:"effects,omitempty"`
}

// IntentView is what the enemy will do next.
type IntentView struct {
	Kind   string `json:"kind"`
	Value  int    `json:"value"`
	Times  int    `json:"times,omitempty"`
	Effect string `json:"effect,omitempty"`
}

// StateView is the battle from the player's perspective.
type StateView struct {
	Level        int            `json:"level"`
	Turn         int            `json:"turn"`
	Phase        string         `json:"phase"`
	IsYourTurn   bool           `json:"is_your_turn"`
	GameOver     bool           `json:"game_over"`
	Victory      bool           `json:"victory,omitempty"`
	Stunned      bool           `json:"stunned,omitempty"`
	You          CombatantView  `json:"you"`
	Enemy        *CombatantView `json:"enemy,omitempty"`
	Intent       *IntentView    `json:"intent,omitempty"`
	Hand         []CardView     `json:"hand,omitempty"`
	DeckCount    int            `json:"deck_count"`
	DiscardCount int            `json:"discard_count"`
	Items        map[string]int `json:"items,omitempty"`
	Gold         int            `json:"gold"`
	PlayerLevel  int            `json:"player_level"`
}

// LevelView is a level entry in the level list.
type LevelView struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Difficulty string `json:"difficulty,omitempty"`
	Enemy      string `json:"enemy"`
	Unlocked   bool   `json:"unlocked"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "start"
	Level      int `json:"level,omitempty"`
	DeckNumber int `json:"deck_number,omitempty"`

	// For "play"
	Index int `json:"index,omitempty"`

	// For "use_item"
	Item string `json:"item,omitempty"`
}
