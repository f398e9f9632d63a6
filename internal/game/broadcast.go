package game

import (
	"log"

	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal"
)

// Gateway delivers serialized events either to every connection joined to a
// room's group or to exactly one connection. Sends iterate over a snapshot so
// no lock is held during I/O.
type Gateway struct {
	mapper *Mapper
}

func NewGateway(m *Mapper) *Gateway {
	return &Gateway{mapper: m}
}

// ToRoom sends msg to every connection in the room's broadcast group.
func (g *Gateway) ToRoom(roomID string, msg internal.Message[any]) {
	conns := g.mapper.Group(roomID)
	sent := 0
	for _, c := range conns {
		if err := c.Send(msg); err != nil {
			log.Printf("[Broadcast] room=%s conn=%s type=%s failed: %v", roomID, c.ID, msg.Type, err)
			continue
		}
		sent++
	}
	log.Printf("[Broadcast] room=%s type=%s sent to %d/%d connections", roomID, msg.Type, sent, len(conns))
}

// ToConn sends msg to a single connection (private feedback, replays).
func (g *Gateway) ToConn(c *Conn, msg internal.Message[any]) {
	if c == nil {
		return
	}
	if err := c.Send(msg); err != nil {
		log.Printf("[Broadcast] conn=%s type=%s failed: %v", c.ID, msg.Type, err)
	}
}
