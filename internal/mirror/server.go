package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/mdns"
)

const (
	// writeWait bounds a single message write to a client.
	writeWait = 10 * time.Second

	// pongWait is how long a client may stay silent before being
	// dropped; pings go out at pingPeriod to keep healthy clients
	// inside that window.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize caps inbound messages. Clients have nothing to
	// say; anything at all fits well under this.
	maxMessageSize = 512

	// sendBuffer is the per-client outbound queue. A client that
	// falls further behind than this is dropped rather than allowed
	// to stall publishing.
	sendBuffer = 8
)

// ErrServerClosed indicates Publish or Start on a closed server.
var ErrServerClosed = errors.New("mirror server closed")

// Config controls the mirror server.
type Config struct {
	// Listen is the TCP address to serve on.
	Listen string

	// Announce registers an mDNS service for the mirror.
	Announce bool
}

// Stats reports mirror activity.
type Stats struct {
	Clients   int
	Published int64
	Dropped   int64
}

// Server broadcasts board frames to websocket clients. A single hub
// goroutine owns the client set; connections, disconnections, and
// broadcasts all flow through it, so client send channels are closed
// exactly once and never written afterward.
type Server struct {
	cfg      Config
	upgrader websocket.Upgrader

	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once

	httpServer *http.Server
	listener   net.Listener
	announcer  *mdns.Server
	mu         sync.Mutex // guards the three fields above during Start/Close

	clientCount atomic.Int64
	published   atomic.Int64
	dropped     atomic.Int64
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// New creates an unstarted mirror server.
func New(cfg Config) *Server {
	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The mirror is read-only and LAN-scoped; any origin
			// may watch.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 1),
		done:       make(chan struct{}),
	}
}

// Start binds the listener and launches the hub. Accept and broadcast
// work happens on background goroutines.
func (s *Server) Start() error {
	select {
	case <-s.done:
		return ErrServerClosed
	default:
	}

	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/", s.serveInfo)

	s.mu.Lock()
	s.listener = ln
	s.httpServer = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	s.mu.Unlock()

	go s.run()
	go func() {
		// ErrServerClosed is the normal shutdown path.
		_ = s.httpServer.Serve(ln)
	}()

	if s.cfg.Announce {
		port := ln.Addr().(*net.TCPAddr).Port
		announcer, err := announce(port)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.announcer = announcer
		s.mu.Unlock()
	}
	return nil
}

// run is the hub: sole owner of the client set.
func (s *Server) run() {
	clients := make(map[*client]bool)
	var latest []byte

	defer func() {
		for c := range clients {
			close(c.send)
		}
		s.clientCount.Store(0)
	}()

	for {
		select {
		case <-s.done:
			return

		case c := <-s.register:
			clients[c] = true
			s.clientCount.Store(int64(len(clients)))
			// Late joiners immediately see the current board. The
			// send buffer is empty on a fresh client, so this never
			// blocks.
			if latest != nil {
				c.send <- latest
			}

		case c := <-s.unregister:
			if clients[c] {
				delete(clients, c)
				close(c.send)
				s.clientCount.Store(int64(len(clients)))
			}

		case data := <-s.broadcast:
			latest = data
			s.published.Add(1)
			for c := range clients {
				select {
				case c.send <- data:
				default:
					s.dropped.Add(1)
					delete(clients, c)
					close(c.send)
				}
			}
			s.clientCount.Store(int64(len(clients)))
		}
	}
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Publish broadcasts a payload to every client and retains it for
// clients that connect later. Clients that cannot keep up are
// disconnected.
func (s *Server) Publish(p Payload) error {
	data, err := p.Encode()
	if err != nil {
		return err
	}
	select {
	case s.broadcast <- data:
		return nil
	case <-s.done:
		return ErrServerClosed
	}
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	return int(s.clientCount.Load())
}

// Stats reports mirror activity counters.
func (s *Server) Stats() Stats {
	return Stats{
		Clients:   s.Clients(),
		Published: s.published.Load(),
		Dropped:   s.dropped.Load(),
	}
}

// Close disconnects every client and stops serving. Safe to call more
// than once.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)

		s.mu.Lock()
		httpServer := s.httpServer
		announcer := s.announcer
		s.mu.Unlock()

		if announcer != nil {
			_ = announcer.Shutdown()
		}
		if httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			err = httpServer.Shutdown(ctx)
		}
	})
	return err
}

// serveWS upgrades a connection and hands it to the hub.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	select {
	case s.register <- c:
	case <-s.done:
		conn.Close()
		return
	}

	go s.writePump(c)
	go s.readPump(c)
}

// serveInfo answers a plain status document on the HTTP root.
func (s *Server) serveInfo(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"service": "glyphboard-mirror",
		"clients": s.Clients(),
	})
}

// drop asks the hub to remove a client. Used by the pumps on error.
func (s *Server) drop(c *client) {
	select {
	case s.unregister <- c:
	case <-s.done:
	}
}

// writePump sends queued payloads and keepalive pings to one client.
func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.drop(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.drop(c)
				return
			}
		}
	}
}

// readPump discards client messages and notices disconnects.
func (s *Server) readPump(c *client) {
	defer func() {
		s.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
