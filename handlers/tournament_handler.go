package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-manager/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	standingsService  services.StandingsService
	scheduleService   services.ScheduleService
}

func NewTournamentHandler(ts services.TournamentService, ss services.StandingsService, sch services.ScheduleService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
		standingsService:  ss,
		scheduleService:   sch,
	}
}

// GetTournament godoc
// @Summary Tournament aggregate with teams, matches and notifications
// @Tags tournaments
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]models.Tournament
// @Failure 404 {object} map[string]string
// @Router /api/tournaments/{tournamentID} [get]
func (h *TournamentHandler) GetTournament(w http.ResponseWriter, r *http.Request) {
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
	writeTournament(w, r, http.StatusOK, tournament)
}

func (h *TournamentHandler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeTournament(w, r, http.StatusCreated, tournament)
}

// UpdateTournament godoc
// @Summary Update tournament details (admin)
// @Tags tournaments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tournamentID path int true "Tournament ID"
// @Param input body services.UpdateTournamentInput true "Fields to change"
// @Success 200 {object} map[string]models.Tournament
// @Router /api/tournaments/{tournamentID} [put]
func (h *TournamentHandler) UpdateTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.UpdateTournament(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeTournament(w, r, http.StatusOK, tournament)
}

// GetStandings godoc
// @Summary League table
// @Tags tournaments
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param source query string false "matches (default) or snapshot"
// @Success 200 {object} map[string][]models.Standing
// @Router /api/tournaments/{tournamentID}/standings [get]
func (h *TournamentHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	source := services.StandingsSource(r.URL.Query().Get("source"))

	table, err := h.standingsService.ComputeStandings(r.Context(), tournamentID, source)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": table}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateSchedule godoc
// @Summary Replace the schedule with a fresh round robin (admin)
// @Tags schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tournamentID path int true "Tournament ID"
// @Param input body services.GenerateScheduleInput true "Start date, matches per day and slot interval in minutes"
// @Success 200 {object} map[string]models.Tournament
// @Router /api/tournaments/{tournamentID}/schedule/generate [post]
func (h *TournamentHandler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.GenerateScheduleInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.scheduleService.GenerateSchedule(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeTournament(w, r, http.StatusOK, tournament)
}

func (h *TournamentHandler) ClearSchedule(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.scheduleService.ClearSchedule(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeTournament(w, r, http.StatusOK, tournament)
}
