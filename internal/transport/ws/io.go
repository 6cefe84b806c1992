package ws

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
)

func (c *Client) writePump() {
	ticker := time.NewTicker(c.opts.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			log.Info().Str("module", "transport.ws").Msg("writePump done")
			return
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "transport.ws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().Err(err).Str("module", "transport.ws").Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "transport.ws").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "transport.ws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "transport.ws").Msg("writePump write error")
				return
			}
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		log.Info().Str("module", "transport.ws").Msg("readPump closing")
		close(c.inbox)
		c.Close()
	}()

	c.conn.SetReadLimit(c.opts.ReadLimit)
	readDeadline := c.opts.PingPeriod + 10*time.Second
	_ = c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	for {
		select {
		case <-c.done:
			log.Info().Str("module", "transport.ws").Msg("readPump done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if closeErr, ok := err.(*websocket.CloseError); ok {
					c.emit(core.LifecycleEvent{Kind: core.LifecycleShutdown, Code: closeErr.Code, Err: err})
				} else {
					c.emit(core.LifecycleEvent{Kind: core.LifecycleError, Err: err})
				}
				log.Error().Err(err).Str("module", "transport.ws").Msg("readPump read error")
				return
			}
			// The consumer may have stopped draining (hangup, room
			// switch); a blocked send here would leak the goroutine.
			select {
			case c.inbox <- data:
			case <-c.done:
				log.Info().Str("module", "transport.ws").Msg("readPump done")
				return
			}
		}
	}
}
