package websocket

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmd/metrics"
	farmingtypes "github.com/openalpha/farmd/x/farming/types"
)

// Channel names. Pool and account channels are suffixed with the pool id or
// address, e.g. "pool:0" or "account:cosmos1...".
const (
	ChannelEvents  = "events"
	ChannelBlocks  = "blocks"
	ChannelStatus  = "status"
	ChannelPool    = "pool:"
	ChannelAccount = "account:"
)

// Hub maintains the set of active clients and fans farm events out to them
type Hub struct {
	clients  map[*Client]bool
	channels map[string]map[*Client]bool // channel -> clients

	broadcast chan []byte

	register   chan *Client
	unregister chan *Client

	subscribe   chan *SubscriptionRequest
	unsubscribe chan *SubscriptionRequest

	// latest chain status, pushed on the status channel every StatusInterval
	status *StatusMessage

	onUnregister func(*Client)

	mu sync.RWMutex

	config *HubConfig
}

// HubConfig contains hub configuration
type HubConfig struct {
	StatusInterval time.Duration

	MaxClientsPerIP  int
	MaxSubscriptions int

	// Messages per second per client
	MessageRateLimit int
}

// DefaultHubConfig returns default hub configuration
func DefaultHubConfig() *HubConfig {
	return &HubConfig{
		StatusInterval:   time.Second,
		MaxClientsPerIP:  10,
		MaxSubscriptions: 50,
		MessageRateLimit: 100,
	}
}

// SubscriptionRequest represents a subscription request
type SubscriptionRequest struct {
	Client  *Client
	Channel string
	Action  string // "subscribe" or "unsubscribe"
}

// NewHub creates a new Hub
func NewHub(config *HubConfig) *Hub {
	if config == nil {
		config = DefaultHubConfig()
	}

	return &Hub{
		clients:     make(map[*Client]bool),
		channels:    make(map[string]map[*Client]bool),
		broadcast:   make(chan []byte, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *SubscriptionRequest, 256),
		unsubscribe: make(chan *SubscriptionRequest, 256),
		config:      config,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	statusTicker := time.NewTicker(h.config.StatusInterval)
	defer statusTicker.Stop()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case req := <-h.subscribe:
			h.handleSubscription(req)

		case req := <-h.unsubscribe:
			h.handleUnsubscription(req)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-statusTicker.C:
			h.broadcastStatus()
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)

		for channel, clients := range h.channels {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.channels, channel)
			}
		}

		client.closeSend()
	}
	cb := h.onUnregister
	h.mu.Unlock()

	if ok && cb != nil {
		cb(client)
	}
}

func (h *Hub) handleSubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[req.Client]; !ok {
		return
	}
	if _, ok := h.channels[req.Channel]; !ok {
		h.channels[req.Channel] = make(map[*Client]bool)
	}
	h.channels[req.Channel][req.Client] = true

	req.Client.Send(encode(&WSMessage{Type: "subscribed", Channel: req.Channel}))
}

func (h *Hub) handleUnsubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[req.Client]; !ok {
		return
	}
	if clients, ok := h.channels[req.Channel]; ok {
		delete(clients, req.Client)
		if len(clients) == 0 {
			delete(h.channels, req.Channel)
		}
	}

	req.Client.Send(encode(&WSMessage{Type: "unsubscribed", Channel: req.Channel}))
}

// broadcastMessage sends a message to every connected client
func (h *Hub) broadcastMessage(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		client.Send(message)
	}
}

// Broadcast queues a message for every connected client
func (h *Hub) Broadcast(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

// BroadcastToChannel sends a message to all clients subscribed to a channel
func (h *Hub) BroadcastToChannel(channel string, message interface{}) {
	timer := metrics.NewTimer()

	h.mu.RLock()
	clients, ok := h.channels[channel]
	if !ok {
		h.mu.RUnlock()
		return
	}
	clientList := make([]*Client, 0, len(clients))
	for client := range clients {
		clientList = append(clientList, client)
	}
	h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	for _, client := range clientList {
		client.Send(data)
	}
	metrics.GetCollector().RecordWSMessage(channelLabel(channel), timer.ElapsedMs())
}

// channelLabel strips the pool id or address so metric cardinality stays bounded
func channelLabel(channel string) string {
	if i := strings.IndexByte(channel, ':'); i >= 0 {
		return channel[:i]
	}
	return channel
}

// UpdateStatus replaces the buffered chain status
func (h *Hub) UpdateStatus(status *StatusMessage) {
	h.mu.Lock()
	h.status = status
	h.mu.Unlock()
}

func (h *Hub) broadcastStatus() {
	h.mu.RLock()
	status := h.status
	h.mu.RUnlock()

	if status == nil {
		return
	}
	h.BroadcastToChannel(ChannelStatus, &WSMessage{
		Type:    "status",
		Channel: ChannelStatus,
		Data:    status,
	})
}

// PublishEvents routes module events to the events channel and to the pool
// and account channels named in their attributes. End-block epoch events go
// to the blocks channel only; pause changes go to every client.
func (h *Hub) PublishEvents(height int64, events sdk.Events) {
	for _, ev := range events {
		msg := NewEventMessage(height, ev)

		switch ev.Type {
		case farmingtypes.EventTypeEpoch:
			h.BroadcastToChannel(ChannelBlocks, &WSMessage{Type: "block", Channel: ChannelBlocks, Data: msg})
			continue
		case farmingtypes.EventTypePaused, farmingtypes.EventTypeUnpaused:
			// every client hears about a pause
			h.Broadcast(&WSMessage{Type: "event", Data: msg})
			continue
		}

		h.BroadcastToChannel(ChannelEvents, &WSMessage{Type: "event", Channel: ChannelEvents, Data: msg})
		if poolID, ok := msg.Attributes[farmingtypes.AttributeKeyPoolID]; ok {
			channel := ChannelPool + poolID
			h.BroadcastToChannel(channel, &WSMessage{Type: "event", Channel: channel, Data: msg})
		}
		for _, key := range []string{farmingtypes.AttributeKeyAccount, farmingtypes.AttributeKeyRecipient} {
			addr, ok := msg.Attributes[key]
			if !ok {
				continue
			}
			if key == farmingtypes.AttributeKeyRecipient && addr == msg.Attributes[farmingtypes.AttributeKeyAccount] {
				continue
			}
			channel := ChannelAccount + addr
			h.BroadcastToChannel(channel, &WSMessage{Type: "event", Channel: channel, Data: msg})
		}
	}
}

// ============ Message Types ============

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel"`
	Data    interface{} `json:"data,omitempty"`
}

// EventMessage is a flattened module event
type EventMessage struct {
	Type       string            `json:"type"`
	Height     int64             `json:"height"`
	Attributes map[string]string `json:"attributes"`
	Timestamp  int64             `json:"timestamp"`
}

// NewEventMessage flattens an sdk event
func NewEventMessage(height int64, ev sdk.Event) *EventMessage {
	attrs := make(map[string]string, len(ev.Attributes))
	for _, a := range ev.Attributes {
		attrs[a.Key] = a.Value
	}
	return &EventMessage{
		Type:       ev.Type,
		Height:     height,
		Attributes: attrs,
		Timestamp:  time.Now().UnixMilli(),
	}
}

// StatusMessage is the periodic chain status
type StatusMessage struct {
	Height int64 `json:"height"`
	Time   int64 `json:"time"`
	Paused bool  `json:"paused"`
}

func encode(msg *WSMessage) []byte {
	data, _ := json.Marshal(msg)
	return data
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetChannelCount returns the number of active channels
func (h *Hub) GetChannelCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels)
}

// GetChannelClientCount returns the number of clients in a channel
func (h *Hub) GetChannelClientCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.channels[channel]; ok {
		return len(clients)
	}
	return 0
}
