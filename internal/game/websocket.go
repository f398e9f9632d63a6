package game

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades the request and runs the connection's read loop
// until the peer goes away. Every inbound frame is a Message envelope whose
// payload is decoded per action type. Malformed frames are logged and
// skipped; semantic failures go back to the sender as error events.
func (s *Session) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HandleWebSocket] upgrade failed: %v", err)
		return
	}
	defer ws.Close()

	c := NewConn(newWSSender(ws))
	log.Printf("[HandleWebSocket] conn=%s connected from %s", c.ID, r.RemoteAddr)

	defer s.Disconnect(c)

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[HandleWebSocket] conn=%s read error: %v", c.ID, err)
			}
			return
		}

		var msg internal.Message[json.RawMessage]
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("[HandleWebSocket] conn=%s malformed envelope: %v", c.ID, err)
			continue
		}
		if err := s.dispatch(r.Context(), c, msg); err != nil {
			s.sendError(c, err)
		}
	}
}

// decode unmarshals an action payload. A decode failure is a malformed
// message, not a protocol error, so it only logs.
func decode[T any](c *Conn, msg internal.Message[json.RawMessage], out *T) bool {
	if err := json.Unmarshal(msg.Data, out); err != nil {
		log.Printf("[HandleWebSocket] conn=%s malformed %s payload: %v", c.ID, msg.Type, err)
		return false
	}
	return true
}

func (s *Session) dispatch(ctx context.Context, c *Conn, msg internal.Message[json.RawMessage]) error {
	switch msg.Type {
	case "create-room":
		var d internal.CreateRoomData
		if !decode(c, msg, &d) {
			return nil
		}
		return s.CreateRoom(ctx, c, d)
	case "join-room":
		var d internal.JoinRoomData
		if !decode(c, msg, &d) {
			return nil
		}
		return s.JoinRoom(c, d)
	case "host-reconnect":
		var d internal.HostReconnectData
		if !decode(c, msg, &d) {
			return nil
		}
		return s.HostReconnect(c, d)
	case "start-game":
		var d internal.RoomActionData
		if !decode(c, msg, &d) {
			return nil
		}
		return s.StartGame(c, d)
	case "submit-answer":
		var d internal.SubmitAnswerData
		if !decode(c, msg, &d) {
			return nil
		}
		s.SubmitAnswer(c, d)
		return nil
	case "next-question":
		var d internal.RoomActionData
		if !decode(c, msg, &d) {
			return nil
		}
		return s.NextQuestion(c, d)
	case "pause-game":
		var d internal.RoomActionData
		if !decode(c, msg, &d) {
			return nil
		}
		return s.PauseGame(c, d)
	case "resume-game":
		var d internal.RoomActionData
		if !decode(c, msg, &d) {
			return nil
		}
		return s.ResumeGame(c, d)
	case "kick-player":
		var d internal.KickPlayerData
		if !decode(c, msg, &d) {
			return nil
		}
		return s.KickPlayer(c, d)
	case "leave-room":
		return s.LeaveRoom(c)
	default:
		log.Printf("[HandleWebSocket] conn=%s unknown action %q", c.ID, msg.Type)
		return nil
	}
}

func (s *Session) sendError(c *Conn, err error) {
	log.Printf("[HandleWebSocket] conn=%s error: %v", c.ID, err)
	s.gateway.ToConn(c, internal.Message[any]{
		Type: "error",
		Data: internal.ErrorData{Message: err.Error()},
	})
}
