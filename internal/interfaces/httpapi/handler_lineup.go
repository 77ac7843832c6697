package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/courtside/internal/usecase"
)

type startStintRequest struct {
	TeamID   string   `json:"team_id" validate:"required"`
	Players  []string `json:"players" validate:"required,len=5,dive,required"`
	Quarter  int      `json:"quarter" validate:"required,gte=1,lte=12"`
	GameTime int      `json:"game_time" validate:"gte=0"`
}

// StartStint fields a new five-man unit; the previous unit's stint closes at
// the same clock position.
func (h *Handler) StartStint(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartStint")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.requireScorerForGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	var req startStintRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.stintService.StartStint(ctx, usecase.StartStintInput{
		GameID:   gameID,
		TeamID:   strings.TrimSpace(req.TeamID),
		Players:  req.Players,
		Quarter:  req.Quarter,
		GameTime: req.GameTime,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "start stint failed", "game_id", gameID, "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, stintToDTO(item))
}

func (h *Handler) ListGameLineups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGameLineups")
	defer span.End()

	gameID := r.PathValue("gameID")
	if _, err := h.gameService.GetGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.stintService.GetGameLineupStints(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]stintDTO, 0, len(items))
	for _, item := range items {
		out = append(out, stintToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetTeamLineupStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamLineupStats")
	defer span.End()

	teamID := r.PathValue("teamID")
	lineups, err := h.stintService.GetTeamLineupStats(ctx, teamID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	limit := parseLimit(r, len(lineups))
	out := make([]lineupAggregateDTO, 0, limit)
	for _, item := range lineups[:limit] {
		out = append(out, lineupAggregateToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetTeamPairStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamPairStats")
	defer span.End()

	teamID := r.PathValue("teamID")
	pairs, err := h.stintService.GetTeamPairStats(ctx, teamID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	limit := parseLimit(r, len(pairs))
	out := make([]pairAggregateDTO, 0, limit)
	for _, item := range pairs[:limit] {
		out = append(out, pairAggregateToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

type teamLineupReportDTO struct {
	TeamID  string               `json:"team_id"`
	Lineups []lineupAggregateDTO `json:"lineups"`
}

func (h *Handler) GetLeagueLineupReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueLineupReport")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	reports, err := h.stintService.LeagueLineupReport(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "league lineup report failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]teamLineupReportDTO, 0, len(reports))
	for _, report := range reports {
		dto := teamLineupReportDTO{TeamID: report.TeamID, Lineups: make([]lineupAggregateDTO, 0, len(report.Lineups))}
		for _, item := range report.Lineups {
			dto.Lineups = append(dto.Lineups, lineupAggregateToDTO(item))
		}
		out = append(out, dto)
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

// RunLineupReportJob warms the league lineup report from an internal
// scheduler tick.
func (h *Handler) RunLineupReportJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLineupReportJob")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	reports, err := h.stintService.LeagueLineupReport(ctx, leagueID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"league_id": leagueID,
		"teams":     len(reports),
	})
}

func parseLimit(r *http.Request, total int) int {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return total
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > total {
		return total
	}
	return limit
}
