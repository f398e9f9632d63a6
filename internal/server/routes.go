package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(s.corsMiddleware)

	r.HandleFunc("/health", s.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/rooms", s.RoomsHandler).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.session.HandleWebSocket)

	return r
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")

		// Websocket upgrades bypass the preflight handling.
		if strings.ToLower(r.Header.Get("Upgrade")) == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RoomsHandler lists active room codes with their player counts. Lobby
// discovery only; no game state is exposed here.
func (s *Server) RoomsHandler(w http.ResponseWriter, r *http.Request) {
	type roomInfo struct {
		ID        string `json:"id"`
		Players   int    `json:"players"`
		IsStarted bool   `json:"is_started"`
	}

	rooms := s.session.Registry().List()
	out := make([]roomInfo, 0, len(rooms))
	for _, room := range rooms {
		room.Mu.RLock()
		out = append(out, roomInfo{
			ID:        room.Id,
			Players:   len(room.Players),
			IsStarted: room.IsStarted,
		})
		room.Mu.RUnlock()
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[writeJSON] encoding response: %v", err)
	}
}
