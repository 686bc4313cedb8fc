package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var ErrHubStopped = errors.New("рассылка органиграммы остановлена")

// Hub держит открытые соединения и рассылает им изменения органиграммы.
// После остановки Run вызовы Register и Broadcast не блокируются.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run обслуживает регистрацию и рассылку до отмены контекста.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				client.drop(websocket.CloseGoingAway, "сервер останавливается")
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("WebSocket: клиент зарегистрирован", zap.Uint64("userID", client.UserID))
		case client := <-h.unregister:
			h.mu.Lock()
			if h.clients[client] {
				delete(h.clients, client)
				client.drop(websocket.CloseNormalClosure, "")
				h.logger.Debug("WebSocket: клиент отсоединен", zap.Uint64("userID", client.UserID))
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

func (h *Hub) fanOut(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.Send <- message:
		default:
			client.drop(websocket.CloseTryAgainLater, "очередь сообщений переполнена")
			delete(h.clients, client)
			h.logger.Warn("WebSocket: медленный клиент отключен", zap.Uint64("userID", client.UserID))
		}
	}
}

func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount - число активных соединений.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast упаковывает payload в Envelope и отправляет всем подключенным клиентам.
func (h *Hub) Broadcast(messageType string, payload interface{}) error {
	messageBytes, err := json.Marshal(Envelope{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		h.logger.Error("Ошибка сериализации сообщения для WebSocket", zap.Error(err))
		return err
	}
	select {
	case h.broadcast <- messageBytes:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}
