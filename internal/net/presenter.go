package net

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/peterkuimelis/cardcrawl/internal/log"
)

// DefaultWriteTimeout bounds one message write to a slow client.
const DefaultWriteTimeout = 5 * time.Second

type deadlineWriter interface {
	SetWriteDeadline(t time.Time) error
}

// NetworkPresenter streams battle events to a client as "notify" messages.
// Replies share its encoder so messages never interleave.
type NetworkPresenter struct {
	// WriteTimeout applies when the writer supports write deadlines.
	WriteTimeout time.Duration

	w   io.Writer
	enc *json.Encoder
	mu  sync.Mutex
}

// NewNetworkPresenter creates a presenter writing to w.
func NewNetworkPresenter(w io.Writer) *NetworkPresenter {
	return &NetworkPresenter{WriteTimeout: DefaultWriteTimeout, w: w, enc: json.NewEncoder(w)}
}

// Notify implements game.Presenter. The caller's context belongs to
// whichever client is acting, so writes are bounded by WriteTimeout instead.
func (np *NetworkPresenter) Notify(_ context.Context, event log.GameEvent) error {
	return np.Send(ServerMessage{Type: MsgNotify, Event: EventViewOf(event)})
}

// Send writes one server message.
func (np *NetworkPresenter) Send(msg ServerMessage) error {
	np.mu.Lock()
	defer np.mu.Unlock()
	if dw, ok := np.w.(deadlineWriter); ok && np.WriteTimeout > 0 {
		if err := dw.SetWriteDeadline(time.Now().Add(np.WriteTimeout)); err != nil {
			return err
		}
		defer func() { _ = dw.SetWriteDeadline(time.Time{}) }()
	}
	return np.enc.Encode(msg)
}
