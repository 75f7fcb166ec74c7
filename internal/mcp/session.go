package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/peterkuimelis/cardcrawl/internal/log"
	ccnet "github.com/peterkuimelis/cardcrawl/internal/net"
	"github.com/peterkuimelis/cardcrawl/internal/session"
)

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events   []ccnet.EventView `json:"events"`
	State    *ccnet.StateView  `json:"state,omitempty"`
	Result   *ccnet.ResultView `json:"result,omitempty"`
	Levels   []ccnet.LevelView `json:"levels,omitempty"`
	GameOver bool              `json:"game_over"`
	Victory  bool              `json:"victory,omitempty"`
}

// GameSession holds the game played through one MCP server process. Events
// emitted between tool calls are buffered and returned with the next
// response.
type GameSession struct {
	handler *ccnet.Handler

	mu     sync.Mutex
	events []ccnet.EventView
}

// NewGameSession wraps sess and starts buffering its events.
func NewGameSession(sess *session.Session, deckFile string) *GameSession {
	gs := &GameSession{handler: &ccnet.Handler{Session: sess, DeckFile: deckFile}}
	sess.Subscribe(gs)
	return gs
}

// Notify implements game.Presenter. Pause hints are dropped; an agent has
// nothing to wait for.
func (s *GameSession) Notify(_ context.Context, event log.GameEvent) error {
	if event.Type == log.EventPause {
		return nil
	}
	s.appendEvent(*ccnet.EventViewOf(event))
	return nil
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev ccnet.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []ccnet.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []ccnet.EventView{}
	}
	return events
}

// run handles one request and packs the reply with the buffered events.
func (s *GameSession) run(ctx context.Context, msg ccnet.ClientMessage) (*ToolResponse, error) {
	reply := s.handler.Handle(ctx, msg)
	events := s.drainEvents()
	if reply.Type == ccnet.MsgError {
		return nil, fmt.Errorf("%s", reply.Error)
	}
	resp := &ToolResponse{
		Events: events,
		State:  reply.State,
		Result: reply.Result,
		Levels: reply.Levels,
	}
	if reply.State != nil {
		resp.GameOver = reply.State.GameOver
		resp.Victory = reply.State.Victory
	}
	return resp, nil
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
