package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-manager/middleware"
	"github.com/Dosada05/tournament-manager/services"
)

// actorFromRequest reads the caller set by middleware.Authenticate.
func actorFromRequest(r *http.Request) (services.Actor, bool) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		return services.Actor{}, false
	}
	return services.Actor{UserID: caller.UserID, Role: caller.Role}, true
}

func writeTournament(w http.ResponseWriter, r *http.Request, status int, tournament interface{}) {
	if err := writeJSON(w, status, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
