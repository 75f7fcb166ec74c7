package net

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/cardcrawl/internal/game"
	"github.com/peterkuimelis/cardcrawl/internal/save"
	"github.com/peterkuimelis/cardcrawl/internal/session"
)

// Handler applies client requests to a session. It is shared by the TCP
// server and the WebSocket endpoint.
type Handler struct {
	Session  *session.Session
	DeckFile string // loadout file for "start" with a deck number
}

// Handle runs one request and builds the reply. Battle events are
// delivered separately through the session's subscribers.
func (h *Handler) Handle(ctx context.Context, msg ClientMessage) ServerMessage {
	s := h.Session
	var (
		res *game.Result
		err error
	)
	switch msg.Type {
	case MsgStart:
		if msg.DeckNumber > 0 {
			if _, err := s.EquipLoadout(ctx, h.DeckFile, msg.DeckNumber); err != nil {
				return errorMessage(fmt.Errorf("equip deck %d: %w", msg.DeckNumber, err))
			}
		}
		level := msg.Level
		if level == 0 {
			level = 1
		}
		err = s.StartBattle(ctx, level)
	case MsgPlay:
		var r game.Result
		r, err = s.PlayCard(ctx, msg.Index)
		res = &r
	case MsgEndTurn:
		err = s.EndTurn(ctx)
	case MsgUseItem:
		var r game.Result
		r, err = s.UseItem(ctx, msg.Item)
		res = &r
	case MsgState:
	case MsgLevels:
		return ServerMessage{Type: MsgLevels, Levels: LevelViews(s.Levels())}
	default:
		return ServerMessage{Type: MsgError, Error: fmt.Sprintf("unknown message type %q", msg.Type)}
	}
	if err != nil {
		return errorMessage(err)
	}

	reply := ServerMessage{Type: MsgState, State: h.State()}
	if reply.State.GameOver {
		reply.Type = MsgGameOver
	}
	if res != nil {
		reply.Result = ResultViewOf(*res)
	}
	return reply
}

// State snapshots the session for the wire.
func (h *Handler) State() *StateView {
	var sv *StateView
	h.Session.Inspect(func(b *game.Battle, p *save.Progress) {
		sv = BuildStateView(h.Session.Catalog(), b, p)
	})
	return sv
}

func errorMessage(err error) ServerMessage {
	return ServerMessage{Type: MsgError, Error: err.Error()}
}
