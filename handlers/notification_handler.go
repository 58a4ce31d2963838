package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-manager/services"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(ns services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: ns}
}

// CreateNotification godoc
// @Summary Broadcast a notification to the tournament (admin)
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tournamentID path int true "Tournament ID"
// @Param input body services.CreateNotificationInput true "Message and priority"
// @Success 201 {object} map[string]models.Notification
// @Router /api/tournaments/{tournamentID}/notifications [post]
func (h *NotificationHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateNotificationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	notification, err := h.notificationService.CreateNotification(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"notification": notification}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	notificationID, err := getIDFromURL(r, "notificationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.notificationService.DeleteNotification(r.Context(), tournamentID, notificationID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeTournament(w, r, http.StatusOK, tournament)
}
