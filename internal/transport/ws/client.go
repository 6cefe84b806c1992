// Package ws is the channel transport: one persistent websocket carrying
// the multiplexed signaling stream. It delivers inbound frames and
// lifecycle events on channels; the session controller owns the loop.
package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

type Options struct {
	// Ticket authenticates the connection against the room.
	Ticket     string
	ReadLimit  int64
	PingPeriod time.Duration
}

func (o *Options) defaults() {
	if o.ReadLimit == 0 {
		o.ReadLimit = 32768
	}
	if o.PingPeriod == 0 {
		o.PingPeriod = 54 * time.Second
	}
}

// Client implements core.Transport over a gorilla websocket connection.
type Client struct {
	// id correlates log lines of one connection across reconnects.
	id     string
	conn   *websocket.Conn
	send   chan core.Frame
	inbox  chan core.Frame
	events chan core.LifecycleEvent
	opts   Options

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func Dial(ctx context.Context, url string, opts Options) (*Client, error) {
	opts.defaults()

	header := http.Header{}
	if opts.Ticket != "" {
		header.Set("Sec-WebSocket-Protocol", "meet-signaling,ticket#"+opts.Ticket)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}

	c := &Client{
		id:     uuid.NewString(),
		conn:   conn,
		send:   make(chan core.Frame, 32),
		inbox:  make(chan core.Frame, 32),
		events: make(chan core.LifecycleEvent, 8),
		opts:   opts,
		done:   make(chan struct{}),
	}

	go c.writePump()
	go c.readPump()

	c.events <- core.LifecycleEvent{Kind: core.LifecycleConnected}
	log.Info().Str("module", "transport.ws").Str("conn_id", c.id).Str("url", url).Msg("connected")
	return c, nil
}

func (c *Client) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *Client) Inbox() <-chan core.Frame { return c.inbox }

func (c *Client) Lifecycle() <-chan core.LifecycleEvent { return c.events }

func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.done)
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
	log.Info().Str("module", "transport.ws").Str("conn_id", c.id).Msg("closed")
}

// emit delivers a lifecycle event without blocking a dead consumer.
func (c *Client) emit(ev core.LifecycleEvent) {
	select {
	case c.events <- ev:
	default:
		log.Warn().Str("module", "transport.ws").Str("kind", string(ev.Kind)).Msg("lifecycle event dropped")
	}
}
