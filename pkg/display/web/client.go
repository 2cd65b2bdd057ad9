package web

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pcasaretto/gameboy/internal/joypad"
	"github.com/pcasaretto/gameboy/pkg/display"
)

const writeWait = 10 * time.Second

// Client is a websocket connection attached to the hub.
type Client struct {
	hub  *hub
	conn *websocket.Conn
	Send chan []byte
	ID   uint8

	mu       sync.RWMutex
	Metadata struct {
		RemoteAddr string
		UserAgent  string
		Username   string
	}
	latency     atomic.Uint32
	connectedAt time.Time
}

// Latency returns the smoothed round trip time to the client in
// milliseconds.
func (c *Client) Latency() uint16 {
	return uint16(c.latency.Load())
}

// describe returns the metadata of the client as
// RemoteAddr\0UserAgent\0Username\0ID.
func (c *Client) describe() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var data []byte
	data = append(data, c.Metadata.RemoteAddr...)
	data = append(data, 0)
	data = append(data, c.Metadata.UserAgent...)
	data = append(data, 0)
	data = append(data, c.Metadata.Username...)
	data = append(data, 0)
	return append(data, c.ID)
}

// ReadPump reads messages from the client until the connection is
// closed.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return // connection closed
		}
		if len(message) == 0 {
			continue
		}

		switch message[0] {
		case Closing:
			return
		case KeepAlive:
		case System:
			if len(message) < 3 {
				continue
			}
			c.handleSetting(message[1], message[2:])
		case PausePlay:
			if len(message) < 2 {
				continue
			}
			if message[1] == 0 {
				c.hub.emu.SendCommand(display.Pause)
			} else {
				c.hub.emu.SendCommand(display.Resume)
			}
			c.hub.send([]byte{PlayerInfo, PausePlay, message[1]})
		default:
			// [button, state]
			if len(message) < 2 || message[0] > uint8(joypad.ButtonDown) {
				continue
			}
			button := joypad.Button(message[0])
			if message[1] == 0 {
				c.hub.released <- button
			} else {
				c.hub.pressed <- button
			}
		}
	}
}

func (c *Client) handleSetting(setting Setting, value []byte) {
	if setting == RegisterUsername {
		c.mu.Lock()
		c.Metadata.Username = string(value)
		c.mu.Unlock()

		c.hub.send(append([]byte{ClientInfo, RegisterUsername}, c.describe()...))
		return
	}

	if !c.hub.encoder.set(setting, value[0]) {
		return
	}
	c.hub.send([]byte{ClientInfo, setting, value[0]})

	// the caches were reset, so every client needs to resynchronise
	messages, err := c.hub.encoder.sync()
	if err != nil {
		c.hub.log.Errorf("synchronising clients: %v", err)
		return
	}
	for _, m := range messages {
		c.hub.send(m)
	}
}

// WritePump writes the queued messages to the client until the hub
// closes its queue.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.Send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
			c.hub.leave(c)
			// drain until the hub closes the queue
			for range c.Send {
			}
			return
		}

		if rtt, err := roundTrip(c.conn.UnderlyingConn()); err == nil {
			ms := uint32(rtt / time.Millisecond)
			c.latency.Store((c.latency.Load()*9 + ms) / 10)
		}
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
