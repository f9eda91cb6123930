package live

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var ErrBackpressure = errors.New("backpressure")

const sendBuffer = 32

// Conn wraps one websocket with an ordered, bounded send queue. Writes go
// through TrySend so a slow reader can never block a broadcast; when its
// queue is full the connection is dropped instead.
type Conn struct {
	ws   *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{
		ws:   ws,
		send: make(chan []byte, sendBuffer),
	}
}

// TrySend queues a frame without blocking.
func (c *Conn) TrySend(frame []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- frame:
	default:
		return ErrBackpressure
	}
	return nil
}

// Close is idempotent and safe against concurrent TrySend.
func (c *Conn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.ws.Close()
	c.mu.Unlock()
}

// WritePump drains the send queue onto the wire and pings on a ticker. It
// returns when the queue closes, a write fails, or the peer misses its pong
// deadline; the caller is expected to tear the connection down.
func (c *Conn) WritePump(pingPeriod, writeTimeout time.Duration) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				log.Error().Err(err).Str("module", "live").Msg("writePump set deadline")
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Error().Err(err).Str("module", "live").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				return
			}
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump consumes inbound frames until the peer goes away. Each text frame
// is handed to onMessage; the pong handler keeps the read deadline fresh so
// dead peers are culled.
func (c *Conn) ReadPump(readLimit int64, pongWait time.Duration, onMessage func([]byte)) {
	c.ws.SetReadLimit(readLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "live").Msg("readPump read error")
			}
			return
		}
		if onMessage != nil {
			onMessage(data)
		}
	}
}
