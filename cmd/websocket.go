package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"billingBack/internal/billing"
)

const (
	writeDeadline = 5 * time.Second
	readDeadline  = 60 * time.Second
	pingInterval  = 25 * time.Second
	hubBuffer     = 64
	clientBuffer  = 16
)

// paymentEvent is the frame pushed to every connected admin.
type paymentEvent struct {
	Type    string          `json:"type"`
	Receipt billing.Receipt `json:"receipt"`
}

type hubClient struct {
	conn *websocket.Conn
	send chan paymentEvent
}

// PaymentHub fans committed payments out to websocket subscribers. All access
// to clients happens inside Run.
type PaymentHub struct {
	clients    map[*hubClient]struct{}
	broadcast  chan paymentEvent
	register   chan *hubClient
	unregister chan *hubClient
	done       chan struct{}
	errorLog   *log.Logger
}

func NewPaymentHub(errorLog *log.Logger) *PaymentHub {
	return &PaymentHub{
		clients:    make(map[*hubClient]struct{}),
		broadcast:  make(chan paymentEvent, hubBuffer),
		register:   make(chan *hubClient),
		unregister: make(chan *hubClient),
		done:       make(chan struct{}),
		errorLog:   errorLog,
	}
}

// PaymentRecorded queues r for broadcast. It never blocks; when the hub is
// saturated the event is dropped.
func (h *PaymentHub) PaymentRecorded(r billing.Receipt) {
	select {
	case h.broadcast <- paymentEvent{Type: "payment.recorded", Receipt: r}:
	default:
		h.errorLog.Printf("payment hub: dropped event for payment %d", r.PaymentID)
	}
}

func (h *PaymentHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				close(c.send)
				delete(h.clients, c)
			}

		case ev := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- ev:
				default:
					// A subscriber that cannot keep up is disconnected.
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS handles GET /ws/payments. Subscribers only receive; anything they
// send is discarded.
func (h *PaymentHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.errorLog.Printf("websocket upgrade: %v", err)
		return
	}
	c := &hubClient{conn: conn, send: make(chan paymentEvent, clientBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go h.writePump(c)
	h.readPump(c)
}

func (h *PaymentHub) readPump(c *hubClient) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *PaymentHub) writePump(c *hubClient) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
