package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/michael-h-patrianna/plinko-sub002/internal/game"
	"github.com/michael-h-patrianna/plinko-sub002/internal/models"
	"github.com/michael-h-patrianna/plinko-sub002/internal/physics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// frameInterval paces trajectory playback at the simulation frame rate.
	frameInterval = time.Second / time.Duration(physics.FrameRate)
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// RoundSource loads persisted rounds; satisfied by *game.Manager.
type RoundSource interface {
	GetRound(ctx context.Context, token string) (*models.PlinkoRound, error)
}

// Client is one connected renderer watching a round.
type Client struct {
	conn       *websocket.Conn
	roundToken string
	send       chan []byte
}

// Hub tracks connected clients per round token and fans settle events out to
// them.
type Hub struct {
	rooms map[string]map[*Client]bool
	mu    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]bool)}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[c.roundToken] == nil {
		h.rooms[c.roundToken] = make(map[*Client]bool)
	}
	h.rooms[c.roundToken][c] = true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[c.roundToken]; ok {
		if room[c] {
			delete(room, c)
			close(c.send)
		}
		if len(room) == 0 {
			delete(h.rooms, c.roundToken)
		}
	}
}

// sendToClient queues a message for one client if it is still registered.
// The read lock excludes unregister's close of the send channel, so a
// renderer dropping mid-playback stops the stream instead of panicking it.
// A full buffer drops the message; playback skips ahead rather than block.
func (h *Hub) sendToClient(c *Client, data []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[c.roundToken]
	if !ok || !room[c] {
		return false
	}
	select {
	case c.send <- data:
	default:
	}
	return true
}

// BroadcastToRound sends a message to every client watching a round.
func (h *Hub) BroadcastToRound(roundToken string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[roundToken] {
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] send buffer full for round %s, dropping message", roundToken)
		}
	}
}

// StartSettleSubscriber relays redis settle events into the hub so a
// renderer watching a round sees the outcome announcement even when the
// round was played through another instance.
func (h *Hub) StartSettleSubscriber(ctx context.Context, rdb *redis.Client) {
	sub := rdb.Subscribe(ctx, game.SettleChannel)
	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var event game.SettleEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("[WS] bad settle event: %v", err)
					continue
				}
				h.BroadcastToRound(event.RoundToken, map[string]interface{}{
					"type":  "round_settled",
					"event": event,
				})
			}
		}
	}()
}

// ServePlayback upgrades the connection and streams the round's trajectory
// to the renderer one point per frame interval, followed by a summary. The
// renderer is a pure consumer; points go out strictly in frame order.
func (h *Hub) ServePlayback(w http.ResponseWriter, r *http.Request, source RoundSource, roundToken string) {
	round, err := source.GetRound(r.Context(), roundToken)
	if err != nil {
		http.Error(w, "round not found", http.StatusNotFound)
		return
	}

	var trajectory []physics.TrajectoryPoint
	if err := json.Unmarshal(round.Trajectory, &trajectory); err != nil {
		log.Printf("[WS] round %s has unreadable trajectory: %v", roundToken, err)
		http.Error(w, "round trajectory unavailable", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
		return
	}

	client := &Client{conn: conn, roundToken: roundToken, send: make(chan []byte, 64)}
	h.register(client)

	go client.writePump()
	go client.readPump(h)
	go h.streamTrajectory(client, round, trajectory)
}

func (h *Hub) streamTrajectory(client *Client, round *models.PlinkoRound, trajectory []physics.TrajectoryPoint) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for i := range trajectory {
		<-ticker.C
		data, err := json.Marshal(map[string]interface{}{
			"type":  "frame",
			"point": trajectory[i],
		})
		if err != nil {
			return
		}
		if !h.sendToClient(client, data) {
			// Renderer disconnected mid-playback; stop streaming.
			return
		}
	}

	done, err := json.Marshal(map[string]interface{}{
		"type":           "playback_complete",
		"round_token":    round.RoundToken,
		"landed_slot":    round.LandedSlot,
		"matched_target": round.MatchedTarget,
		"source":         round.Source,
	})
	if err != nil {
		return
	}
	h.sendToClient(client, done)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(1024)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		// The playback stream is one-way; reads only service control frames.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
