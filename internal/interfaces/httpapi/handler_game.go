package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/courtside/internal/domain/game"
	"github.com/riskibarqy/courtside/internal/usecase"
)

type createGameRequest struct {
	LeagueID    string                   `json:"league_id" validate:"required"`
	HomeTeamID  string                   `json:"home_team_id" validate:"required"`
	AwayTeamID  string                   `json:"away_team_id" validate:"required"`
	ScheduledAt *time.Time               `json:"scheduled_at"`
	Settings    *createGameSettingsBlock `json:"settings"`
}

type createGameSettingsBlock struct {
	QuarterMinutes  int      `json:"quarter_minutes" validate:"omitempty,gt=0,lte=30"`
	OvertimeMinutes int      `json:"overtime_minutes" validate:"omitempty,gt=0,lte=15"`
	FoulLimit       int      `json:"foul_limit" validate:"omitempty,gt=0"`
	TimeoutsPerTeam int      `json:"timeouts_per_team" validate:"omitempty,gte=0"`
	HomeStarters    []string `json:"home_starters" validate:"omitempty,len=5,dive,required"`
	AwayStarters    []string `json:"away_starters" validate:"omitempty,len=5,dive,required"`
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGame")
	defer span.End()

	var req createGameRequest
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
	if err := h.requireScorer(ctx, strings.TrimSpace(req.LeagueID)); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.CreateGameInput{
		LeagueID:   strings.TrimSpace(req.LeagueID),
		HomeTeamID: strings.TrimSpace(req.HomeTeamID),
		AwayTeamID: strings.TrimSpace(req.AwayTeamID),
	}
	if req.ScheduledAt != nil {
		input.ScheduledAt = *req.ScheduledAt
	}
	if req.Settings != nil {
		settings := game.DefaultSettings()
		if req.Settings.QuarterMinutes > 0 {
			settings.QuarterMinutes = req.Settings.QuarterMinutes
		}
		if req.Settings.OvertimeMinutes > 0 {
			settings.OvertimeMinutes = req.Settings.OvertimeMinutes
		}
		if req.Settings.FoulLimit > 0 {
			settings.FoulLimit = req.Settings.FoulLimit
		}
		if req.Settings.TimeoutsPerTeam > 0 {
			settings.TimeoutsPerTeam = req.Settings.TimeoutsPerTeam
		}
		settings.HomeStarters = req.Settings.HomeStarters
		settings.AwayStarters = req.Settings.AwayStarters
		input.Settings = &settings
	}

	created, err := h.gameService.CreateGame(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "create game failed", "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, gameToDTO(ctx, created))
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	g, err := h.gameService.GetGame(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, g))
}

type updateGameSettingsRequest struct {
	QuarterMinutes  *int     `json:"quarter_minutes" validate:"omitempty,gt=0,lte=30"`
	OvertimeMinutes *int     `json:"overtime_minutes" validate:"omitempty,gt=0,lte=15"`
	FoulLimit       *int     `json:"foul_limit" validate:"omitempty,gt=0"`
	TimeoutsPerTeam *int     `json:"timeouts_per_team" validate:"omitempty,gte=0"`
	HomeStarters    []string `json:"home_starters" validate:"omitempty,len=5,dive,required"`
	AwayStarters    []string `json:"away_starters" validate:"omitempty,len=5,dive,required"`
}

func (h *Handler) UpdateGameSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateGameSettings")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.requireScorerForGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateGameSettingsRequest
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

	updated, err := h.gameService.UpdateGameSettings(ctx, gameID, usecase.UpdateGameSettingsInput{
		QuarterMinutes:  req.QuarterMinutes,
		OvertimeMinutes: req.OvertimeMinutes,
		FoulLimit:       req.FoulLimit,
		TimeoutsPerTeam: req.TimeoutsPerTeam,
		HomeStarters:    req.HomeStarters,
		AwayStarters:    req.AwayStarters,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update game settings failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, updated))
}

type liveStatsDTO struct {
	Game           gameDTO             `json:"game"`
	ShotClockValue int                 `json:"shot_clock_value"`
	ClockDisplay   string              `json:"clock_display"`
	OnCourt        map[string][]string `json:"on_court"`
	PlayerStats    []playerStatDTO     `json:"player_stats"`
	TeamStats      []teamStatDTO       `json:"team_stats"`
}

func (h *Handler) GetLiveStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLiveStats")
	defer span.End()

	gameID := r.PathValue("gameID")
	live, err := h.gameService.GetLiveStats(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	dto := liveStatsDTO{
		Game:           gameToDTO(ctx, live.Game),
		ShotClockValue: live.ShotClockValue,
		ClockDisplay:   live.ClockDisplay,
		OnCourt:        live.OnCourt,
		PlayerStats:    make([]playerStatDTO, 0, len(live.PlayerStats)),
		TeamStats:      make([]teamStatDTO, 0, len(live.TeamStats)),
	}
	for _, row := range live.PlayerStats {
		dto.PlayerStats = append(dto.PlayerStats, playerStatToDTO(row))
	}
	for _, row := range live.TeamStats {
		dto.TeamStats = append(dto.TeamStats, teamStatToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

type boxScoreDTO struct {
	Game      gameDTO         `json:"game"`
	HomeLines []playerStatDTO `json:"home_lines"`
	AwayLines []playerStatDTO `json:"away_lines"`
	TeamStats []teamStatDTO   `json:"team_stats"`
	Events    []eventDTO      `json:"events"`
}

func (h *Handler) GetBoxScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBoxScore")
	defer span.End()

	gameID := r.PathValue("gameID")
	box, err := h.gameService.GetBoxScore(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	dto := boxScoreDTO{
		Game:      gameToDTO(ctx, box.Game),
		HomeLines: make([]playerStatDTO, 0, len(box.HomeLines)),
		AwayLines: make([]playerStatDTO, 0, len(box.AwayLines)),
		TeamStats: make([]teamStatDTO, 0, len(box.TeamStats)),
		Events:    make([]eventDTO, 0, len(box.Events)),
	}
	for _, row := range box.HomeLines {
		dto.HomeLines = append(dto.HomeLines, playerStatToDTO(row))
	}
	for _, row := range box.AwayLines {
		dto.AwayLines = append(dto.AwayLines, playerStatToDTO(row))
	}
	for _, row := range box.TeamStats {
		dto.TeamStats = append(dto.TeamStats, teamStatToDTO(row))
	}
	for _, item := range box.Events {
		dto.Events = append(dto.Events, eventToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}
