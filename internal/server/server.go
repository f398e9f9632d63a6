package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal/game"
)

type Server struct {
	port    string
	session *game.Session
}

// NewServer wires the session into an http.Server. Websocket connections are
// long-lived, so no write timeout is set on the ws path; the idle timeout
// covers plain HTTP.
func NewServer(port string, session *game.Session) *http.Server {
	s := &Server{
		port:    port,
		session: session,
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", s.port),
		Handler:           s.RegisterRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}
}
