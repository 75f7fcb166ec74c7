package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/peterkuimelis/cardcrawl/internal/log"
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	enc  *json.Encoder
	dec  *json.Decoder
	in   io.Reader
	out  io.Writer
	Pace bool // honor pause hints between enemy actions
}

// NewClient creates a client speaking over conn, reading commands from in
// and rendering to out.
func NewClient(conn io.ReadWriter, in io.Reader, out io.Writer) *Client {
	return &Client{
		enc: json.NewEncoder(conn),
		dec: json.NewDecoder(conn),
		in:  in,
		out: out,
	}
}

// Connect dials a server and runs the REPL.
func Connect(ctx context.Context, addr string, in io.Reader, out io.Writer) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	fmt.Fprintln(out, "Connected!")
	c := NewClient(conn, in, out)
	c.Pace = true
	return c.RunREPL(ctx)
}

const helpText = `Commands:
  start [level] [deck]  start a battle (deck is a loadout number)
  play N                play the Nth card in your hand
  end                   end your turn
  use ITEM              use an item
  state                 show the battle
  levels                list levels
  quit                  leave`

// RunREPL reads commands until "quit" or end of input.
func (c *Client) RunREPL(ctx context.Context) error {
	fmt.Fprintln(c.out, helpText)
	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		msg, err := parseCommand(fields)
		if err != nil {
			fmt.Fprintln(c.out, err)
			continue
		}
		if err := c.enc.Encode(msg); err != nil {
			return fmt.Errorf("send %s: %w", msg.Type, err)
		}
		if err := c.await(ctx); err != nil {
			return err
		}
	}
}

func parseCommand(fields []string) (ClientMessage, error) {
	arg := func(i int) (int, error) {
		if len(fields) <= i {
			return 0, nil
		}
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", fields[i])
		}
		return n, nil
	}

	switch fields[0] {
	case "start":
		level, err := arg(1)
		if err != nil {
			return ClientMessage{}, err
		}
		deck, err := arg(2)
		if err != nil {
			return ClientMessage{}, err
		}
		return ClientMessage{Type: MsgStart, Level: level, DeckNumber: deck}, nil
	case "play":
		n, err := arg(1)
		if err != nil {
			return ClientMessage{}, err
		}
		if n < 1 {
			return ClientMessage{}, fmt.Errorf("usage: play N")
		}
		return ClientMessage{Type: MsgPlay, Index: n - 1}, nil
	case "end":
		return ClientMessage{Type: MsgEndTurn}, nil
	case "use":
		if len(fields) < 2 {
			return ClientMessage{}, fmt.Errorf("usage: use ITEM")
		}
		return ClientMessage{Type: MsgUseItem, Item: fields[1]}, nil
	case "state":
		return ClientMessage{Type: MsgState}, nil
	case "levels":
		return ClientMessage{Type: MsgLevels}, nil
	}
	return ClientMessage{}, fmt.Errorf("unknown command %q\n%s", fields[0], helpText)
}

// await renders notifications until the reply to the last request arrives.
func (c *Client) await(ctx context.Context) error {
	for {
		var msg ServerMessage
		if err := c.dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}
		switch msg.Type {
		case MsgNotify:
			c.renderEvent(ctx, msg.Event)
			continue
		case MsgError:
			fmt.Fprintf(c.out, "error: %s\n", msg.Error)
		case MsgLevels:
			c.renderLevels(msg.Levels)
		case MsgState, MsgGameOver:
			c.renderResult(msg.Result)
			c.renderState(msg.State)
		}
		return nil
	}
}

func (c *Client) renderEvent(ctx context.Context, ev *EventView) {
	if ev == nil {
		return
	}
	if ev.Type == log.EventPause.String() {
		if c.Pace && ev.DelayMS > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(time.Duration(ev.DelayMS) * time.Millisecond):
			}
		}
		return
	}
	phase := ev.Phase
	for len(phase) < 18 {
		phase += " "
	}
	fmt.Fprintf(c.out, "T%-2d %s| %s\n", ev.Turn, phase, ev.Details)
}

func (c *Client) renderResult(r *ResultView) {
	if r == nil || r.Message == "" {
		return
	}
	fmt.Fprintln(c.out, r.Message)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}
	w := c.out
	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════════╗")
	if e := sv.Enemy; e != nil {
		fmt.Fprintf(w, "║  %s (HP: %d/%d)  Shield: %d%s\n", e.Name, e.HP, e.MaxHP, e.Shield, formatEffects(e.Effects))
		if in := sv.Intent; in != nil {
			fmt.Fprintf(w, "║  Intent: %s\n", formatIntent(in))
		}
	}
	fmt.Fprintln(w, "║──────────────────────────────────────────────────────")
	you := sv.You
	fmt.Fprintf(w, "║  YOU (HP: %d/%d)  Mana: %d/%d  Shield: %d%s\n",
		you.HP, you.MaxHP, you.Mana, you.MaxMana, you.Shield, formatEffects(you.Effects))
	fmt.Fprintf(w, "║  Deck: %d  Discard: %d  Gold: %d  Level: %d\n", sv.DeckCount, sv.DiscardCount, sv.Gold, sv.PlayerLevel)
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════════╝")

	switch {
	case sv.GameOver && sv.Victory:
		fmt.Fprintln(w, "VICTORY!")
		return
	case sv.GameOver:
		fmt.Fprintln(w, "DEFEAT")
		return
	}
	fmt.Fprintf(w, "Turn %d | %s\n", sv.Turn, sv.Phase)
	if sv.Stunned {
		fmt.Fprintln(w, "You are stunned and cannot play cards this turn.")
	}
	if len(sv.Hand) > 0 {
		fmt.Fprint(w, "\nHand: ")
		for _, cv := range sv.Hand {
			mark := ""
			if !cv.Playable {
				mark = "*"
			}
			fmt.Fprintf(w, "[%d] %s (%d)%s  ", cv.Index+1, cv.Name, cv.Cost, mark)
		}
		fmt.Fprintln(w)
	}
	if len(sv.Items) > 0 {
		fmt.Fprint(w, "Items: ")
		for id, n := range sv.Items {
			fmt.Fprintf(w, "%s x%d  ", id, n)
		}
		fmt.Fprintln(w)
	}
}

func (c *Client) renderLevels(levels []LevelView) {
	for _, l := range levels {
		lock := ""
		if !l.Unlocked {
			lock = " (locked)"
		}
		fmt.Fprintf(c.out, "  %d) %s [%s] vs %s%s\n", l.ID, l.Name, l.Difficulty, l.Enemy, lock)
	}
}

func formatEffects(effects []EffectView) string {
	if len(effects) == 0 {
		return ""
	}
	parts := make([]string, 0, len(effects))
	for _, e := range effects {
		if e.Turns < 0 {
			parts = append(parts, fmt.Sprintf("%s %g", e.Kind, e.Value))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %g (%dt)", e.Kind, e.Value, e.Turns))
	}
	return "  [" + strings.Join(parts, ", ") + "]"
}

func formatIntent(in *IntentView) string {
	switch {
	case in.Times > 1:
		return fmt.Sprintf("%s %dx%d", in.Kind, in.Value, in.Times)
	case in.Effect != "":
		return fmt.Sprintf("%s (%s %d)", in.Kind, in.Effect, in.Value)
	}
	return fmt.Sprintf("%s %d", in.Kind, in.Value)
}
