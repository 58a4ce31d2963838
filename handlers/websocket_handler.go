package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/tournament-manager/brackets"
	"github.com/Dosada05/tournament-manager/services"
)

type WebSocketHandler struct {
	hub               *brackets.Hub
	tournamentService services.TournamentService
	upgrader          websocket.Upgrader
}

// NewWebSocketHandler accepts connections from the given origins. An empty
// list or "*" accepts any origin.
func NewWebSocketHandler(hub *brackets.Hub, ts services.TournamentService, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:               hub,
		tournamentService: ts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// ServeWs subscribes the client to /ws/tournaments/{tournamentID} and sends
// the current aggregate as the first message.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection for tournament %d: %v", tournamentID, err)
		return
	}

	client := brackets.NewClient(h.hub, conn, brackets.RoomID(tournamentID))
	if !h.hub.Join(client) {
		conn.Close()
		return
	}

	// the room is joined before the snapshot is read, so no update between
	// the two is lost
	if fresh, err := h.tournamentService.GetTournament(r.Context(), tournamentID); err == nil {
		tournament = fresh
	} else {
		log.Printf("Failed to reload tournament %d for snapshot: %v", tournamentID, err)
	}
	snapshot, err := json.Marshal(brackets.Event{
		Type:         brackets.EventTournamentUpdated,
		TournamentID: tournamentID,
		Payload:      tournament,
	})
	if err != nil {
		log.Printf("Failed to encode initial snapshot for tournament %d: %v", tournamentID, err)
	} else {
		client.Queue(snapshot)
	}

	go client.WritePump()
	go client.ReadPump()
}
