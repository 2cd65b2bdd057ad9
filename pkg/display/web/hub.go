package web

import (
	"encoding/binary"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pcasaretto/gameboy/internal/joypad"
	"github.com/pcasaretto/gameboy/internal/types"
	"github.com/pcasaretto/gameboy/pkg/display"
	"github.com/pcasaretto/gameboy/pkg/log"
)

// hub accepts websocket clients, broadcasts the encoded frames to
// every one of them and forwards their input to the emulator.
type hub struct {
	emu               display.Emulator
	encoder           *encoder
	log               log.Logger
	pressed, released chan<- joypad.Button

	clients              map[*Client]bool
	broadcast            chan []byte
	register, unregister chan *Client
	done                 chan struct{}
	closeOnce            sync.Once

	currentID uint8
	mu        sync.Mutex
}

func newHub(emu display.Emulator, enc *encoder, logger log.Logger, pressed, released chan<- joypad.Button) *hub {
	return &hub{
		emu:        emu,
		encoder:    enc,
		log:        logger,
		pressed:    pressed,
		released:   released,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 16,
	WriteBufferSize: 1024 * 16,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeHTTP upgrades the request to a websocket connection and
// attaches a new client to the hub.
func (h *hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("upgrading %s: %v", r.RemoteAddr, err)
		return
	}

	c := h.newClient(conn, r)
	go c.WritePump()
	go c.ReadPump()

	select {
	case h.register <- c:
	case <-h.done:
		close(c.Send)
	}
}

// run serves the hub until close is called.
func (h *hub) run() {
	t := time.NewTicker(time.Second)
	defer t.Stop()

	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.welcome(c)
			h.log.Infof("client %d connected from %s", c.ID, c.Metadata.RemoteAddr)
		case c := <-h.unregister:
			if _, ok := h.clients[c]; !ok {
				continue
			}
			delete(h.clients, c)
			close(c.Send)
			h.log.Infof("client %d disconnected", c.ID)

			// notify connected clients that this client has disconnected
			h.sendAll([]byte{ClientClosing, c.ID})
		case msg := <-h.broadcast:
			h.sendAll(msg)
		case <-t.C:
			// [ServerInfo, (id, latency)...]
			data := []byte{ServerInfo}
			for c := range h.clients {
				var latency [2]byte
				binary.LittleEndian.PutUint16(latency[:], c.Latency())
				data = append(data, c.ID)
				data = append(data, latency[:]...)
			}
			h.sendAll(data)
		case <-h.done:
			for c := range h.clients {
				delete(h.clients, c)
				close(c.Send)
			}
			return
		}
	}
}

// send queues msg for every client.
func (h *hub) send(msg []byte) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// sendAll writes msg to the queue of every client, dropping the
// clients that are not keeping up.
func (h *hub) sendAll(msg []byte) {
	for c := range h.clients {
		select {
		case c.Send <- msg:
		default:
			h.log.Warnf("client %d is not keeping up, dropping", c.ID)
			close(c.Send)
			delete(h.clients, c)
		}
	}
}

// welcome sends a newly registered client the hub status, the
// current frame and caches, and the other connected clients.
func (h *hub) welcome(c *Client) {
	info, level, ratio := h.encoder.info()
	info |= h.status()
	c.Send <- []byte{ClientInfo, ClientStatus, info, level, ratio, c.ID}

	messages, err := h.encoder.sync()
	if err != nil {
		h.log.Errorf("synchronising client %d: %v", c.ID, err)
	}
	for _, m := range messages {
		c.Send <- m
	}

	var data []byte
	for cl := range h.clients {
		if cl == c {
			continue
		}
		data = append(data, cl.describe()...)
		data = append(data, '\n')
	}
	if len(data) > 0 {
		data = data[:len(data)-1]
	}
	c.Send <- append([]byte{ClientListSync}, data...)
}

// status returns the emulator bits of the client status byte.
//
//	Bit 0: Emulator running
//	Bit 5: Emulator paused
func (h *hub) status() byte {
	var status byte
	switch s := h.emu.Status(); {
	case s.IsRunning():
		status |= types.Bit0
	case s.IsPaused():
		status |= types.Bit5
	}
	return status
}

// newClient creates a new client for conn.
func (h *hub) newClient(conn *websocket.Conn, r *http.Request) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.currentID++

	c := &Client{
		hub:         h,
		conn:        conn,
		Send:        make(chan []byte, 256),
		ID:          h.currentID,
		connectedAt: time.Now(),
	}
	c.Metadata.RemoteAddr = r.RemoteAddr
	c.Metadata.UserAgent = r.Header.Get("User-Agent")
	return c
}

// leave unregisters c, unless the hub has already closed.
func (h *hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *hub) close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}
