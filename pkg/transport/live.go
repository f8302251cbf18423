package transport

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"
)

const (
	maxReconnectAttempts = 10
	maxReconnectDelay    = 60 * time.Second
	heartbeatInterval    = 30 * time.Second
)

// LiveChannel is a websocket connection over which the backend pushes
// breakpoint changes, so a new or edited breakpoint takes effect
// without waiting for the next polling cycle. It is an optional
// supplement to periodic refresh: every failure mode degrades back to
// polling.
type LiveChannel struct {
	url      string
	apiKey   string
	debug    bool
	onChange func() // invoked whenever the backend signals a breakpoint change

	conn          *websocket.Conn
	connected     bool
	authenticated bool
	mu            sync.RWMutex

	reconnectAttempts int
	done              chan struct{}
	closeOnce         sync.Once
}

// frame is the wire form of a control message.
type frame struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// NewLiveChannel creates a live channel. onChange fires on every
// breakpoints_changed push and must not block.
func NewLiveChannel(url, apiKey string, onChange func(), debug bool) *LiveChannel {
	return &LiveChannel{
		url:      url,
		apiKey:   apiKey,
		debug:    debug,
		onChange: onChange,
		done:     make(chan struct{}),
	}
}

// Run connects and keeps the channel alive until ctx is cancelled,
// Close is called, or reconnection is exhausted. Intended to run on its
// own goroutine.
func (c *LiveChannel) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		default:
		}

		if err := c.connect(); err != nil {
			if c.debug {
				log.Printf("[Tracekit] Live channel connect error: %v", err)
			}

			c.reconnectAttempts++
			if c.reconnectAttempts > maxReconnectAttempts {
				log.Println("[Tracekit] Live channel giving up, falling back to polling only")
				return
			}

			delay := time.Second * time.Duration(1<<uint(c.reconnectAttempts-1))
			if delay > maxReconnectDelay {
				delay = maxReconnectDelay
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			case <-c.done:
				return
			}
			continue
		}

		c.reconnectAttempts = 0
		c.readLoop()
	}
}

// Close shuts the channel down permanently.
func (c *LiveChannel) Close() {
	c.closeOnce.Do(func() { close(c.done) })

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connected = false
	c.authenticated = false
}

func (c *LiveChannel) connect() error {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+c.apiKey)

	conn, _, err := websocket.DefaultDialer.Dial(c.url, headers)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	if c.debug {
		log.Println("[Tracekit] Live channel connected")
	}

	c.writeFrame("register", map[string]any{
		"api_key":     c.apiKey,
		"sdk_version": Version,
	})
	return nil
}

func (c *LiveChannel) readLoop() {
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			c.mu.RLock()
			conn := c.conn
			c.mu.RUnlock()
			if conn == nil {
				return
			}

			_, message, err := conn.ReadMessage()
			if err != nil {
				if c.debug && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					log.Printf("[Tracekit] Live channel read error: %v", err)
				}
				return
			}
			c.handleMessage(message)
		}
	}()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-readDone:
			c.mu.Lock()
			c.connected = false
			c.authenticated = false
			c.mu.Unlock()
			return
		case <-heartbeat.C:
			c.mu.RLock()
			ready := c.authenticated
			c.mu.RUnlock()
			if ready {
				c.writeFrame("heartbeat", map[string]any{"timestamp": time.Now().UnixMilli()})
			}
		}
	}
}

// handleMessage dispatches one backend frame. Frames are loosely typed,
// so fields are extracted tolerantly instead of decoded into structs.
func (c *LiveChannel) handleMessage(data []byte) {
	msgType := gjson.GetBytes(data, "type").String()
	if msgType == "" {
		if c.debug {
			log.Printf("[Tracekit] Live channel dropped malformed frame: %s", data)
		}
		return
	}

	switch msgType {
	case "registered":
		c.mu.Lock()
		c.authenticated = true
		c.mu.Unlock()
		if c.debug {
			log.Println("[Tracekit] Live channel registered")
		}

	case "breakpoints_changed":
		if c.debug {
			log.Printf("[Tracekit] Breakpoint change pushed: %s",
				gjson.GetBytes(data, "payload.reason").String())
		}
		if c.onChange != nil {
			c.onChange()
		}

	case "error":
		code := gjson.GetBytes(data, "payload.code").String()
		message := gjson.GetBytes(data, "payload.message").String()
		log.Printf("[Tracekit] Backend error: %s - %s", code, message)
		if code == "auth_error" || code == "invalid_api_key" {
			log.Println("[Tracekit] Authentication failed, closing live channel")
			c.Close()
		}

	default:
		if c.debug {
			log.Printf("[Tracekit] Unhandled live frame type: %s", msgType)
		}
	}
}

func (c *LiveChannel) writeFrame(msgType string, payload any) {
	data, err := json.Marshal(frame{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		return
	}

	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn != nil {
		conn.WriteMessage(websocket.TextMessage, data)
	}
}
