package game

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Sender delivers one JSON-encodable message to a single connection.
type Sender interface {
	Send(v any) error
}

// Conn is an ephemeral connection handle. Participants are never addressed by
// it directly; the Mapper resolves it to a stable participant id and room.
type Conn struct {
	ID string
	s  Sender
}

func NewConn(s Sender) *Conn {
	return &Conn{ID: uuid.New().String(), s: s}
}

func (c *Conn) Send(v any) error {
	return c.s.Send(v)
}

// wsSender serializes writes to a websocket connection. gorilla/websocket
// allows only one concurrent writer.
type wsSender struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func newWSSender(conn *websocket.Conn) *wsSender {
	return &wsSender{conn: conn}
}

func (w *wsSender) Send(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}
