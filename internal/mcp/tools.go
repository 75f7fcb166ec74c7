package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	ccnet "github.com/peterkuimelis/cardcrawl/internal/net"
)

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer, gs *GameSession) {
	s.AddTool(listLevelsTool(), gs.handleListLevels)
	s.AddTool(startBattleTool(), gs.handleStartBattle)
	s.AddTool(playCardTool(), gs.handlePlayCard)
	s.AddTool(endTurnTool(), gs.handleEndTurn)
	s.AddTool(useItemTool(), gs.handleUseItem)
	s.AddTool(getStateTool(), gs.handleGetState)
}

// --- Tool definitions ---

func listLevelsTool() mcp.Tool {
	return mcp.NewTool("list_levels",
		mcp.WithDescription("List the dungeon levels, their enemies and whether each is unlocked."),
	)
}

func startBattleTool() mcp.Tool {
	return mcp.NewTool("start_battle",
		mcp.WithDescription("Start a battle on an unlocked level. Returns the opening events and battle state: "+
			"your hand, mana, health and the enemy's announced intent."),
		mcp.WithNumber("level", mcp.Required(), mcp.Description("Level id from list_levels")),
		mcp.WithNumber("deck", mcp.Description("Optional loadout number (1-indexed from decks.yaml) to equip first")),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Play a card from your hand. Costs mana; damage cards hit the enemy, defensive cards affect you."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index of the card in the hand list")),
	)
}

func endTurnTool() mcp.Tool {
	return mcp.NewTool("end_turn",
		mcp.WithDescription("End your turn. The enemy acts, then your next turn begins with a fresh hand and full mana. "+
			"Returns everything that happened in between."),
	)
}

func useItemTool() mcp.Tool {
	return mcp.NewTool("use_item",
		mcp.WithDescription("Use one item from your inventory during your turn."),
		mcp.WithString("item", mcp.Required(), mcp.Description("Item id, e.g. health_potion")),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the current battle state and any events since the last call. Read-only."),
	)
}

// --- Tool handlers ---

func (gs *GameSession) respond(ctx context.Context, msg ccnet.ClientMessage) (*mcp.CallToolResult, error) {
	resp, err := gs.run(ctx, msg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (gs *GameSession) handleListLevels(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return gs.respond(ctx, ccnet.ClientMessage{Type: ccnet.MsgLevels})
}

func (gs *GameSession) handleStartBattle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level := request.GetInt("level", 0)
	if level < 1 {
		return mcp.NewToolResultError("level must be >= 1"), nil
	}
	return gs.respond(ctx, ccnet.ClientMessage{
		Type:       ccnet.MsgStart,
		Level:      level,
		DeckNumber: request.GetInt("deck", 0),
	})
}

func (gs *GameSession) handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index := request.GetInt("index", -1)
	if index < 0 {
		return mcp.NewToolResultErrorf("Invalid index %d.", index), nil
	}
	return gs.respond(ctx, ccnet.ClientMessage{Type: ccnet.MsgPlay, Index: index})
}

func (gs *GameSession) handleEndTurn(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return gs.respond(ctx, ccnet.ClientMessage{Type: ccnet.MsgEndTurn})
}

func (gs *GameSession) handleUseItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	item := request.GetString("item", "")
	if item == "" {
		return mcp.NewToolResultError("item is required"), nil
	}
	return gs.respond(ctx, ccnet.ClientMessage{Type: ccnet.MsgUseItem, Item: item})
}

func (gs *GameSession) handleGetState(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return gs.respond(ctx, ccnet.ClientMessage{Type: ccnet.MsgState})
}
