package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/cardforge/cardforge-server/internal/config"
	"github.com/cardforge/cardforge-server/internal/game"
	"github.com/cardforge/cardforge-server/internal/game/rules"
	"github.com/cardforge/cardforge-server/internal/game/state"
	"github.com/cardforge/cardforge-server/internal/game/watchers"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message types exchanged with clients.
const (
	MsgCreateMatch  = "create_match"
	MsgJoinMatch    = "join_match"
	MsgWatchMatch   = "watch_match"
	MsgAction       = "action"
	MsgStats        = "stats"
	MsgMatchCreated = "match_created"
	MsgMatchState   = "match_state"
	MsgError        = "error"
)

// WSMessage is the envelope of every websocket frame.
type WSMessage struct {
	Type     string          `json:"type"`
	MatchID  string          `json:"match_id,omitempty"`
	PlayerID string          `json:"player_id,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// CreateMatchRequest is the data of a create_match message.
type CreateMatchRequest struct {
	MatchID string             `json:"match_id,omitempty"`
	Players []game.PlayerSetup `json:"players"`
}

// MatchUpdate is the data of a match_state message.
type MatchUpdate struct {
	PlayerID string            `json:"player_id,omitempty"`
	Action   game.ActionType   `json:"action,omitempty"`
	Snapshot *state.MatchState `json:"snapshot"`
	Events   []rules.Event     `json:"events"`
}

// ErrorData is the data of an error message.
type ErrorData struct {
	Reason  game.Reason `json:"reason,omitempty"`
	Message string      `json:"message"`
}

// Option configures a Server.
type Option func(*Server)

// WithTracker answers stats requests from tracker.
func WithTracker(tracker *watchers.Tracker) Option {
	return func(s *Server) { s.tracker = tracker }
}

// Server exposes a game.Manager over websockets. Clients only submit
// actions; every state change reaches them as a broadcast.
type Server struct {
	cfg      config.WebSocketConfig
	manager  *game.Manager
	tracker  *watchers.Tracker
	logger   *zap.Logger
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewServer creates a websocket server and subscribes it to manager.
func NewServer(cfg config.WebSocketConfig, manager *game.Manager, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Path == "" {
		cfg.Path = "/ws"
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 32
	}
	s := &Server{
		cfg:     cfg,
		manager: manager,
		logger:  logger,
		hub:     newHub(logger),
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	for _, opt := range opts {
		opt(s)
	}
	manager.Observe(s.publish)
	return s
}

// Handler returns the HTTP handler serving the websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.Path, s.serveWS)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Address, err)
	}
	return s.Serve(ctx, lis)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.run(hubCtx)

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("websocket server listening",
			zap.String("address", lis.Addr().String()),
			zap.String("path", s.cfg.Path),
		)
		errc <- srv.Serve(lis)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(s.cfg.AllowedOrigins, r.Header.Get("Origin"))
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := &Client{
		server: s,
		conn:   conn,
		send:   make(chan []byte, s.cfg.SendBuffer),
		remote: r.RemoteAddr,
	}
	if !enqueue(s.hub, s.hub.register, client) {
		conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()
}

// publish turns a committed action into a broadcast to the match.
func (s *Server) publish(n game.Notification) {
	payload, err := encode(MsgMatchState, n.MatchID, "", MatchUpdate{
		PlayerID: n.PlayerID,
		Action:   n.Action,
		Snapshot: n.Snapshot,
		Events:   n.Events,
	})
	if err != nil {
		s.logger.Error("failed to encode match update", zap.String("match_id", n.MatchID), zap.Error(err))
		return
	}
	enqueue(s.hub, s.hub.broadcast, matchMessage{matchID: n.MatchID, payload: payload})
}

func encode(msgType, matchID, playerID string, data any) ([]byte, error) {
	msg := WSMessage{Type: msgType, MatchID: matchID, PlayerID: playerID}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = raw
	}
	return json.Marshal(msg)
}

// Client is one websocket connection. matchID and playerID are owned by
// the read pump.
type Client struct {
	server *Server
	conn   *websocket.Conn
	send   chan []byte
	remote string

	matchID  string
	playerID string
}

func (c *Client) reply(msgType string, data any) {
	payload, err := encode(msgType, c.matchID, c.playerID, data)
	if err != nil {
		c.server.logger.Error("failed to encode reply", zap.String("type", msgType), zap.Error(err))
		return
	}
	enqueue(c.server.hub, c.server.hub.direct, directMessage{client: c, payload: payload})
}

func (c *Client) fail(err error) {
	c.reply(MsgError, ErrorData{Reason: game.ReasonOf(err), Message: err.Error()})
}

func (c *Client) readPump() {
	hub := c.server.hub
	defer func() {
		enqueue(hub, hub.unregister, c)
		c.conn.Close()
	}()

	cfg := c.server.cfg
	if cfg.MaxMessageSize > 0 {
		c.conn.SetReadLimit(cfg.MaxMessageSize)
	}
	c.extendDeadline()
	c.conn.SetPongHandler(func(string) error {
		c.extendDeadline()
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.logger.Debug("websocket read failed", zap.String("remote", c.remote), zap.Error(err))
			}
			return
		}
		c.extendDeadline()

		var msg WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.fail(fmt.Errorf("malformed message: %w", err))
			continue
		}
		c.handle(msg)
	}
}

func (c *Client) extendDeadline() {
	if t := c.server.cfg.ReadTimeout; t > 0 {
		c.conn.SetReadDeadline(time.Now().Add(t))
	}
}

func (c *Client) handle(msg WSMessage) {
	s := c.server
	switch msg.Type {
	case MsgCreateMatch:
		var req CreateMatchRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.fail(fmt.Errorf("create_match: %w", err))
			return
		}
		if len(req.Players) != 2 {
			c.fail(fmt.Errorf("create_match: need exactly two players, got %d", len(req.Players)))
			return
		}
		res, err := s.manager.Create(req.MatchID, [2]game.PlayerSetup{req.Players[0], req.Players[1]})
		if err != nil {
			c.fail(err)
			return
		}
		payload, err := encode(MsgMatchCreated, res.State.ID, "", nil)
		if err == nil {
			enqueue(s.hub, s.hub.direct, directMessage{client: c, payload: payload})
		}

	case MsgJoinMatch, MsgWatchMatch:
		playerID := msg.PlayerID
		if msg.Type == MsgWatchMatch {
			playerID = ""
		}
		snap, err := s.manager.Snapshot(msg.MatchID)
		if err != nil {
			c.fail(err)
			return
		}
		if playerID != "" && snap.Player(playerID) == nil {
			c.fail(fmt.Errorf("player %s is not in match %s", playerID, msg.MatchID))
			return
		}
		c.matchID = msg.MatchID
		c.playerID = playerID
		if !enqueue(s.hub, s.hub.subscribe, subscription{client: c, matchID: msg.MatchID}) {
			return
		}
		c.reply(MsgMatchState, MatchUpdate{Snapshot: snap})
		s.logger.Info("client joined match",
			zap.String("match_id", msg.MatchID),
			zap.String("player_id", playerID),
			zap.String("remote", c.remote),
		)

	case MsgAction:
		if c.matchID == "" || c.playerID == "" {
			c.fail(errors.New("join a match as a player before sending actions"))
			return
		}
		action, err := game.DecodeAction(msg.Data)
		if err != nil {
			c.fail(err)
			return
		}
		if _, err := s.manager.Submit(c.matchID, c.playerID, action); err != nil {
			c.fail(err)
		}

	case MsgStats:
		if s.tracker == nil || c.matchID == "" {
			c.fail(errors.New("stats are not available"))
			return
		}
		playerID := msg.PlayerID
		if playerID == "" {
			playerID = c.playerID
		}
		c.reply(MsgStats, s.tracker.Stats(c.matchID, playerID))

	default:
		c.fail(fmt.Errorf("unknown message type %q", msg.Type))
	}
}

func (c *Client) writePump() {
	cfg := c.server.cfg
	interval := cfg.PingInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.writeDeadline()
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.writeDeadline()
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) writeDeadline() {
	if t := c.server.cfg.WriteTimeout; t > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(t))
	}
}
