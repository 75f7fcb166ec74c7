package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"

	"golang.org/x/sync/errgroup"
)

// Server hosts a session for one TCP client.
type Server struct {
	Handler *Handler
	Port    string
}

// Run listens on the port, serves the first client to connect and returns
// when it disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	fmt.Printf("Waiting for a player on port %s...\n", s.Port)
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return ln.Close()
	})
	g.Go(func() error {
		defer cancel()
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		defer conn.Close()
		stop := context.AfterFunc(ctx, func() { conn.Close() })
		defer stop()

		fmt.Printf("Player connected from %s\n", conn.RemoteAddr())
		return Serve(ctx, conn, s.Handler)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// Serve answers requests read from conn until the client disconnects.
// Battle events are streamed to conn while a request runs.
func Serve(ctx context.Context, conn io.ReadWriter, h *Handler) error {
	np := NewNetworkPresenter(conn)
	unsubscribe := h.Session.Subscribe(np)
	defer unsubscribe()

	dec := json.NewDecoder(conn)
	for {
		var msg ClientMessage
		if err := dec.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}
		if err := np.Send(h.Handle(ctx, msg)); err != nil {
			return fmt.Errorf("send reply: %w", err)
		}
	}
}

// PlayLocal runs a session and a terminal client in one process, connected
// by an in-memory pipe.
func PlayLocal(ctx context.Context, h *Handler, in io.Reader, out io.Writer) error {
	clientConn, serverConn := net.Pipe()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer serverConn.Close()
		return Serve(ctx, serverConn, h)
	})
	g.Go(func() error {
		defer clientConn.Close()
		c := NewClient(clientConn, in, out)
		c.Pace = true
		return c.RunREPL(ctx)
	})
	return g.Wait()
}
