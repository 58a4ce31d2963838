package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/tournament-manager/services"
)

const maxLogoBytes = 5 << 20

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(ts services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: ts}
}

// teamPath reads the tournament and team ids and the authenticated caller.
func teamPath(w http.ResponseWriter, r *http.Request) (services.Actor, int, int, bool) {
	actor, ok := actorFromRequest(r)
	if !ok {
		unauthorizedResponse(w, r, "failed to identify current user")
		return services.Actor{}, 0, 0, false
	}
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return services.Actor{}, 0, 0, false
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return services.Actor{}, 0, 0, false
	}
	return actor, tournamentID, teamID, true
}

// CreateTeam godoc
// @Summary Register a team with its roster (admin)
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tournamentID path int true "Tournament ID"
// @Param input body services.CreateTeamInput true "Team, manager and players"
// @Success 201 {object} map[string]models.Tournament
// @Router /api/tournaments/{tournamentID}/teams [post]
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.teamService.CreateTeam(r.Context(), actor, tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeTournament(w, r, http.StatusCreated, tournament)
}

func (h *TeamHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	actor, tournamentID, teamID, ok := teamPath(w, r)
	if !ok {
		return
	}

	var input services.UpdateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.teamService.UpdateTeam(r.Context(), actor, tournamentID, teamID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeTournament(w, r, http.StatusOK, tournament)
}

func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	actor, tournamentID, teamID, ok := teamPath(w, r)
	if !ok {
		return
	}

	tournament, err := h.teamService.DeleteTeam(r.Context(), actor, tournamentID, teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeTournament(w, r, http.StatusOK, tournament)
}

// UploadLogo godoc
// @Summary Upload a team logo (multipart field "logo")
// @Tags teams
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param tournamentID path int true "Tournament ID"
// @Param teamID path int true "Team ID"
// @Param logo formData file true "PNG, JPEG, WebP or SVG"
// @Success 200 {object} map[string]models.Tournament
// @Router /api/tournaments/{tournamentID}/teams/{teamID}/logo [post]
func (h *TeamHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	actor, tournamentID, teamID, ok := teamPath(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLogoBytes+1024)
	if err := r.ParseMultipartForm(maxLogoBytes); err != nil {
		badRequestResponse(w, r, fmt.Errorf("logo must be a multipart upload of at most %d bytes", maxLogoBytes))
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, errors.New("missing logo file"))
		return
	}
	defer file.Close()

	tournament, err := h.teamService.UploadTeamLogo(r.Context(), actor, tournamentID, teamID, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeTournament(w, r, http.StatusOK, tournament)
}

func (h *TeamHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	actor, tournamentID, teamID, ok := teamPath(w, r)
	if !ok {
		return
	}

	var input services.PlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.teamService.CreatePlayer(r.Context(), actor, tournamentID, teamID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeTournament(w, r, http.StatusCreated, tournament)
}

func (h *TeamHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	actor, tournamentID, teamID, ok := teamPath(w, r)
	if !ok {
		return
	}
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdatePlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.teamService.UpdatePlayer(r.Context(), actor, tournamentID, teamID, playerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeTournament(w, r, http.StatusOK, tournament)
}

func (h *TeamHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	actor, tournamentID, teamID, ok := teamPath(w, r)
	if !ok {
		return
	}
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.teamService.DeletePlayer(r.Context(), actor, tournamentID, teamID, playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeTournament(w, r, http.StatusOK, tournament)
}
