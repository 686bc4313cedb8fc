package websocket

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

// Client - одно подключение просмотрщика органиграммы. Сервер только пишет,
// входящие кадры нужны лишь для pong и закрытия.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID uint64

	// выставляет хаб перед close(Send); читается WritePump после закрытия канала
	closeCode   int
	closeReason string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uint64) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		UserID: userID,
	}
}

// drop закрывает очередь клиента с указанной причиной. Вызывается только под блокировкой хаба.
func (c *Client) drop(code int, reason string) {
	c.closeCode = code
	c.closeReason = reason
	close(c.Send)
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.Hub.logger.Warn("WebSocket: соединение оборвано", zap.Uint64("userID", c.UserID), zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			if !ok {
				c.writeClose()
				return
			}
			if err := c.write(websocket.TextMessage, message); err != nil {
				c.Hub.logger.Debug("WebSocket: запись не удалась", zap.Uint64("userID", c.UserID), zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.Conn.WriteMessage(messageType, data)
}

func (c *Client) writeClose() {
	code := c.closeCode
	if code == 0 {
		code = websocket.CloseNormalClosure
	}
	_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(code, c.closeReason))
}
