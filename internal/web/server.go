package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/peterkuimelis/cardcrawl/internal/game"
	gamelog "github.com/peterkuimelis/cardcrawl/internal/log"
	ccnet "github.com/peterkuimelis/cardcrawl/internal/net"
	"github.com/peterkuimelis/cardcrawl/internal/save"
	"github.com/peterkuimelis/cardcrawl/internal/session"
)

//go:embed static
var staticFiles embed.FS

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CardType    string `json:"cardType"`
	Rarity      string `json:"rarity"`
	Cost        int    `json:"cost"`
	Price       int    `json:"price,omitempty"`
	Owned       int    `json:"owned"`
}

// ProgressInfo is the profile as served by /api/progress.
type ProgressInfo struct {
	Player        save.Player    `json:"player"`
	AttackPower   int            `json:"attackPower"`
	DefensePower  int            `json:"defensePower"`
	OwnedCards    []string       `json:"ownedCards"`
	EquippedCards []string       `json:"equippedCards"`
	Items         map[string]int `json:"items"`
	Achievements  []string       `json:"achievements"`
	Stats         save.Stats     `json:"stats"`
	Settings      save.Settings  `json:"settings"`
}

// Server is the cardcrawl web UI server.
type Server struct {
	session   *session.Session
	handler   *ccnet.Handler
	decksFile string
	mux       *http.ServeMux
}

// NewServer creates a web server for sess.
func NewServer(sess *session.Session, decksFile string) *Server {
	s := &Server{
		session:   sess,
		handler:   &ccnet.Handler{Session: sess, DeckFile: decksFile},
		decksFile: decksFile,
		mux:       http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Embedded static files
	staticFS, _ := fs.Sub(staticFiles, "static")

	// Serve index.html at root
	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})

	// Static CSS/JS
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// API endpoints
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/levels", s.handleLevels)
	s.mux.HandleFunc("GET /api/progress", s.handleProgress)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("POST /api/shop/cards/{id}", s.handleBuyCard)
	s.mux.HandleFunc("POST /api/shop/items/{id}", s.handleBuyItem)
	s.mux.HandleFunc("PUT /api/equipped", s.handleEquip)

	// Live battle
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler exposes the routes, for embedding and tests.
func (s *Server) Handler() http.Handler { return s.mux }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, game.ErrInvalidCard), errors.Is(err, game.ErrUnknownItem):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrNotEnoughGold), errors.Is(err, session.ErrInBattle):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	owned := map[string]int{}
	s.session.Inspect(func(_ *game.Battle, p *save.Progress) {
		for _, id := range p.OwnedCards {
			owned[id]++
		}
	})
	cards := make([]CardInfo, 0, len(s.session.Catalog().Cards))
	for _, c := range s.session.Catalog().Cards {
		cards = append(cards, CardInfo{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			CardType:    c.Type.String(),
			Rarity:      c.Rarity.String(),
			Cost:        c.Cost,
			Price:       c.Price,
			Owned:       owned[c.ID],
		})
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ccnet.LevelViews(s.session.Levels()))
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	var info ProgressInfo
	s.session.Inspect(func(b *game.Battle, p *save.Progress) {
		var str, dex int
		if b != nil && !b.Over() {
			str, dex = b.Player.Attributes.Strength, b.Player.Attributes.Dexterity
		}
		info = ProgressInfo{
			Player:        p.Player,
			AttackPower:   p.AttackPower(str),
			DefensePower:  p.DefensePower(dex),
			OwnedCards:    append([]string(nil), p.OwnedCards...),
			EquippedCards: append([]string(nil), p.EquippedCards...),
			Items:         map[string]int{},
			Achievements:  append([]string(nil), p.Achievements...),
			Stats:         *p.Stats,
			Settings:      p.Settings,
		}
		for id, n := range p.Items {
			info.Items[id] = n
		}
	})
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := loadDecks(s.decksFile)
	if err != nil {
		http.Error(w, "could not read decks file", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, decks)
}

func (s *Server) handleBuyCard(w http.ResponseWriter, r *http.Request) {
	if err := s.session.BuyCard(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	s.handleProgress(w, r)
}

func (s *Server) handleBuyItem(w http.ResponseWriter, r *http.Request) {
	if err := s.session.BuyItem(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	s.handleProgress(w, r)
}

func (s *Server) handleEquip(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Cards []string `json:"cards"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, err)
		return
	}
	if err := s.session.Equip(r.Context(), body.Cards); err != nil {
		writeError(w, err)
		return
	}
	s.handleProgress(w, r)
}

const wsWriteTimeout = 5 * time.Second

// wsPresenter forwards battle events to one browser.
type wsPresenter struct {
	conn *websocket.Conn
	ctx  context.Context // the browser's own connection
	mu   sync.Mutex
}

// Notify writes under the connection's context. The caller's context
// belongs to whichever client triggered the event.
func (p *wsPresenter) Notify(_ context.Context, event gamelog.GameEvent) error {
	return p.send(p.ctx, ccnet.ServerMessage{Type: ccnet.MsgNotify, Event: ccnet.EventViewOf(event)})
}

func (p *wsPresenter) send(ctx context.Context, msg ccnet.ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.Write(ctx, websocket.MessageText, data)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()
	p := &wsPresenter{conn: wsConn, ctx: ctx}
	unsubscribe := s.session.Subscribe(p)
	defer unsubscribe()

	if err := p.send(ctx, ccnet.ServerMessage{Type: ccnet.MsgState, State: s.handler.State()}); err != nil {
		return
	}
	for {
		_, data, err := wsConn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		var msg ccnet.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = p.send(ctx, ccnet.ServerMessage{Type: ccnet.MsgError, Error: "malformed message"})
			continue
		}
		if err := p.send(ctx, s.handler.Handle(ctx, msg)); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
}

// ListenAndServe serves HTTP on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux, ReadHeaderTimeout: 10 * time.Second}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
