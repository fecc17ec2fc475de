// Package livefeed wraps the persistent push connection delivering
// notification events. One message per notification, JSON-encoded, no extra
// framing.
package livefeed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"swmra-client/internal/logger"
)

// MessageHandler receives one raw notification payload per call.
type MessageHandler func(payload []byte)

// CloseHandler fires once when the read loop ends, with the terminating
// error (nil on local Close).
type CloseHandler func(err error)

type Conn struct {
	ws *websocket.Conn

	mu     sync.Mutex
	closed bool
}

// Dial opens the live channel. The caller owns the returned Conn and must
// Close it on token loss or teardown.
func Dial(ctx context.Context, url string, handshakeTimeout time.Duration) (*Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}

	ws, resp, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("live channel handshake failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("live channel handshake failed: %w", err)
	}

	return &Conn{ws: ws}, nil
}

// Listen consumes messages on a goroutine until the connection closes.
// onClose always fires exactly once after the last message.
func (c *Conn) Listen(onMessage MessageHandler, onClose CloseHandler) {
	go func() {
		for {
			_, payload, err := c.ws.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && !c.isClosed() {
					logger.Warn("live channel closed unexpectedly", zap.Error(err))
				}
				if onClose != nil {
					if c.isClosed() {
						onClose(nil)
					} else {
						onClose(err)
					}
				}
				return
			}
			onMessage(payload)
		}
	}()
}

// Close tears the connection down. Safe to call more than once.
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	deadline := time.Now().Add(time.Second)
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	_ = c.ws.Close()
}

func (c *Conn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
