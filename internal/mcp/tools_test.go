package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/cardcrawl/internal/game"
	"github.com/peterkuimelis/cardcrawl/internal/session"
)

func newGameSession(t *testing.T) *GameSession {
	t.Helper()
	sess, err := session.New(context.Background(), game.Config{Seed: 1, NoShuffle: true}, nil)
	require.NoError(t, err)
	return NewGameSession(sess, "")
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func decode(t *testing.T, res *mcp.CallToolResult) ToolResponse {
	t.Helper()
	require.False(t, res.IsError, "tool returned an error: %+v", res.Content)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	var resp ToolResponse
	require.NoError(t, json.Unmarshal([]byte(text.Text), &resp))
	return resp
}

func TestBattleThroughTools(t *testing.T) {
	ctx := context.Background()
	gs := newGameSession(t)

	res, err := gs.handleListLevels(ctx, call(nil))
	require.NoError(t, err)
	levels := decode(t, res).Levels
	require.Len(t, levels, 5)
	assert.True(t, levels[0].Unlocked)

	res, err = gs.handleStartBattle(ctx, call(map[string]any{"level": 1}))
	require.NoError(t, err)
	resp := decode(t, res)
	assert.NotEmpty(t, resp.Events)
	require.NotNil(t, resp.State)
	assert.Equal(t, game.StatePlayerActive, resp.State.Phase)
	assert.Len(t, resp.State.Hand, game.TurnDrawCount)

	res, err = gs.handlePlayCard(ctx, call(map[string]any{"index": 0}))
	require.NoError(t, err)
	resp = decode(t, res)
	require.NotNil(t, resp.Result)
	assert.True(t, resp.Result.Success)

	res, err = gs.handleEndTurn(ctx, call(nil))
	require.NoError(t, err)
	resp = decode(t, res)
	assert.Equal(t, 3, resp.State.Turn)
	for _, ev := range resp.Events {
		assert.NotEqual(t, "Pause", ev.Type)
	}

	res, err = gs.handleGetState(ctx, call(nil))
	require.NoError(t, err)
	resp = decode(t, res)
	assert.Empty(t, resp.Events, "events are drained by the previous call")
	assert.NotNil(t, resp.Events)
}

func TestToolErrors(t *testing.T) {
	ctx := context.Background()
	gs := newGameSession(t)

	res, err := gs.handleStartBattle(ctx, call(map[string]any{"level": 3}))
	require.NoError(t, err)
	assert.True(t, res.IsError, "level 3 is locked")

	res, err = gs.handleStartBattle(ctx, call(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = gs.handlePlayCard(ctx, call(map[string]any{"index": 0}))
	require.NoError(t, err)
	assert.True(t, res.IsError, "no battle yet")

	res, err = gs.handleUseItem(ctx, call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
