package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"dinehall-pos-services/internal/auth"
	"dinehall-pos-services/internal/config"
	"dinehall-pos-services/internal/tables"
	"dinehall-pos-services/internal/utils"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server streams floor snapshots (every table plus the occupied set) to
// the host-stand clients.
type Server struct {
	DB     *pgxpool.Pool
	Logger *zap.Logger
	Config config.Config

	started sync.Once
	stopCtx context.Context
	stop    context.CancelFunc
	mu      sync.RWMutex
	clients map[*floorClient]struct{}
}

func New(db *pgxpool.Pool, logger *zap.Logger, cfg config.Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		DB:      db,
		Logger:  logger,
		Config:  cfg,
		stopCtx: ctx,
		stop:    cancel,
		clients: make(map[*floorClient]struct{}),
	}
}

// Close stops the poll loop. Safe to call before the loop ever started.
func (s *Server) Close() {
	s.stop()
}

type floorClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *floorClient) writeJSON(value any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(value)
}

type floorSnapshot struct {
	Type      string         `json:"type"`
	Date      string         `json:"date"`
	Tables    []tables.Table `json:"tables"`
	Occupied  []int64        `json:"occupied"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (s *Server) fetchSnapshot(ctx context.Context) (*floorSnapshot, error) {
	date := utils.CurrentDateInTimezone(s.Config.Timezone)

	all, opErr := tables.ListAll(ctx, s.DB)
	if opErr != nil {
		return nil, opErr
	}
	occupied, opErr := tables.ListOccupied(ctx, s.DB, date)
	if opErr != nil {
		return nil, opErr
	}

	return &floorSnapshot{
		Type:      "floor.state",
		Date:      date,
		Tables:    all,
		Occupied:  occupied,
		UpdatedAt: time.Now(),
	}, nil
}

func (s *Server) ensureStarted() {
	s.started.Do(func() {
		go s.pollLoop(s.stopCtx)
	})
}

// pollLoop re-reads the floor on an interval and pushes the snapshot to
// every connected client. Clients with a dead connection are dropped on
// the first failed write.
func (s *Server) pollLoop(ctx context.Context) {
	interval := s.Config.WSFloorPollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.mu.RLock()
		count := len(s.clients)
		s.mu.RUnlock()
		if count == 0 {
			continue
		}

		snapshot, err := s.fetchSnapshot(ctx)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("floor snapshot failed", zap.Error(err))
			}
			continue
		}
		s.broadcast(snapshot)
	}
}

func (s *Server) broadcast(snapshot *floorSnapshot) {
	s.mu.RLock()
	clients := make([]*floorClient, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeJSON(snapshot); err != nil {
			_ = c.conn.Close()
			s.mu.Lock()
			delete(s.clients, c)
			s.mu.Unlock()
		}
	}
}

func (s *Server) subscribe(client *floorClient) (unsubscribe func()) {
	s.mu.Lock()
	s.clients[client] = struct{}{}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.clients, client)
		s.mu.Unlock()
	}
}

// FloorWS upgrades the connection, sends the current snapshot immediately
// and keeps the client on the broadcast list until it disconnects.
func (s *Server) FloorWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	token := r.URL.Query().Get("token")
	if bearer := auth.ParseBearerToken(token); bearer != "" {
		token = bearer
	}
	claims, err := auth.VerifyAccessToken(token, s.Config.JWTSecret)
	if err != nil {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "unauthorized"})
		return
	}
	if !auth.Allowed(claims.Role, auth.ResourceTables) {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "forbidden"})
		return
	}

	s.ensureStarted()
	ctx := r.Context()
	client := &floorClient{conn: conn}
	unsubscribe := s.subscribe(client)
	defer unsubscribe()

	if snapshot, err := s.fetchSnapshot(ctx); err == nil {
		_ = client.writeJSON(snapshot)
	}

	heartbeat := s.Config.WSHeartbeatInterval
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	pinger := time.NewTicker(heartbeat)
	defer pinger.Stop()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-pinger.C:
			client.writeMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			client.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		}
	}
}
