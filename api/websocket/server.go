package websocket

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/openalpha/farmd/metrics"
)

// Server accepts WebSocket connections for a hub and enforces per-IP limits.
// It is mounted on the REST router rather than listening on its own.
type Server struct {
	hub *Hub

	connections      map[string]*Client
	connectionsPerIP map[string]int
	mu               sync.RWMutex

	totalConnections  atomic.Int64
	activeConnections atomic.Int64
}

// NewServer creates a WebSocket server around a new hub
func NewServer(config *HubConfig) *Server {
	s := &Server{
		hub:              NewHub(config),
		connections:      make(map[string]*Client),
		connectionsPerIP: make(map[string]int),
	}
	s.hub.onUnregister = s.unregisterConnection
	return s
}

// Hub returns the hub
func (s *Server) Hub() *Hub {
	return s.hub
}

// Run starts the hub loop; it blocks
func (s *Server) Run() {
	s.hub.Run()
}

// HandleWebSocket upgrades the request and starts the client pumps
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if !s.checkIPLimit(ip) {
		http.Error(w, "Too many connections from this IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("ip", ip).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(s.hub, conn, uuid.New().String(), ip)
	s.registerConnection(client)

	go client.writePump()
	go client.readPump()
}

// HandleStats reports connection counters
func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int64{
		"total_connections":  s.totalConnections.Load(),
		"active_connections": s.activeConnections.Load(),
		"channels":           int64(s.hub.GetChannelCount()),
	})
}

func (s *Server) registerConnection(client *Client) {
	s.mu.Lock()
	s.connections[client.GetID()] = client
	s.connectionsPerIP[client.GetIP()]++
	s.mu.Unlock()

	s.totalConnections.Add(1)
	s.activeConnections.Add(1)
	metrics.GetCollector().RecordWSConnection(1)

	s.hub.register <- client
}

func (s *Server) unregisterConnection(client *Client) {
	s.mu.Lock()
	delete(s.connections, client.GetID())
	s.connectionsPerIP[client.GetIP()]--
	if s.connectionsPerIP[client.GetIP()] <= 0 {
		delete(s.connectionsPerIP, client.GetIP())
	}
	s.mu.Unlock()

	s.activeConnections.Add(-1)
	metrics.GetCollector().RecordWSConnection(-1)
}

func (s *Server) checkIPLimit(ip string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.connectionsPerIP[ip] < s.hub.config.MaxClientsPerIP
}

// GetConnection returns a client by ID
func (s *Server) GetConnection(clientID string) *Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connections[clientID]
}

// GetActiveConnections returns the number of active connections
func (s *Server) GetActiveConnections() int64 {
	return s.activeConnections.Load()
}

// GetClientIP extracts the client IP, honouring proxy headers
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
