package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"project-ledger-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel is the redis channel instances use to relay pushes to each other.
const ClusterChannel = "ledger_cluster_events"

// MessageTypeFingerprint carries a FingerprintPayload.
const MessageTypeFingerprint = "fingerprint"

// Message is what clients receive.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type FingerprintPayload struct {
	Fingerprint string `json:"fingerprint"`
	Seq         uint64 `json:"seq"`
}

type relayEnvelope struct {
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

type Hub struct {
	// Registered clients by connection id
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	// Redis connection for cross-instance communication, nil when running alone
	rdb        *redis.Client
	instanceId string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID]*Client),
		rdb:        rdb,
		instanceId: uuid.NewString(),
		logger:     log,
	}
}

// Run serves registrations until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.Id] = client
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("HUB", "Client registered", map[string]interface{}{"client_id": client.Id, "clients": count})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.Id]; ok {
				delete(h.clients, client.Id)
				close(client.Send)
			}
			h.mu.Unlock()
			h.logger.Info("HUB", "Client unregistered", map[string]interface{}{"client_id": client.Id})
		}
	}
}

// Register adds a client. Once the hub has stopped the client is closed instead.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.Send)
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastFingerprint pushes a fingerprint to every local client and relays it
// to the other instances.
func (h *Hub) BroadcastFingerprint(fingerprint string, seq uint64) {
	data, err := json.Marshal(Message{
		Type: MessageTypeFingerprint,
		Data: FingerprintPayload{Fingerprint: fingerprint, Seq: seq},
	})
	if err != nil {
		h.logger.Error("HUB", "Failed to encode fingerprint push", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliver(data)

	if h.rdb != nil {
		payload, _ := json.Marshal(relayEnvelope{Origin: h.instanceId, Message: data})
		if err := h.rdb.Publish(context.Background(), ClusterChannel, payload).Err(); err != nil {
			h.logger.Warn("HUB", "Redis relay failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// deliver never blocks: a client whose buffer is full is dropped.
func (h *Hub) deliver(data []byte) {
	var slow []*Client

	h.mu.RLock()
	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("HUB", "Client send buffer full, dropping client", map[string]interface{}{"client_id": client.Id})
		go h.Unregister(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env relayEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				h.logger.Warn("HUB", "Redis message parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			// our own pushes were delivered locally already
			if env.Origin == h.instanceId {
				continue
			}
			h.deliver(env.Message)
		}
	}
}
