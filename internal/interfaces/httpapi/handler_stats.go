package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/courtside/internal/domain/stats"
	"github.com/riskibarqy/courtside/internal/usecase"
)

type recordStatRequest struct {
	PlayerID  string `json:"player_id" validate:"required"`
	StatType  string `json:"stat_type" validate:"required"`
	Made      bool   `json:"made"`
	Offensive bool   `json:"offensive"`
	Value     int    `json:"value" validate:"omitempty,gt=0"`
}

func (h *Handler) RecordStat(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordStat")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.requireScorerForGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	input, err := h.decodeStatInput(w, r, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	row, err := h.statService.Record(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "record stat failed",
			"game_id", gameID, "player_id", input.PlayerID, "stat_type", input.StatType, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerStatToDTO(row))
}

// UndoStat reverses a previously recorded stat with the same payload. The
// original event stays in the log.
func (h *Handler) UndoStat(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UndoStat")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.requireScorerForGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	input, err := h.decodeStatInput(w, r, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	row, err := h.statService.Undo(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "undo stat failed",
			"game_id", gameID, "player_id", input.PlayerID, "stat_type", input.StatType, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerStatToDTO(row))
}

func (h *Handler) decodeStatInput(_ http.ResponseWriter, r *http.Request, gameID string) (usecase.RecordStatInput, error) {
	ctx := r.Context()

	var req recordStatRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return usecase.RecordStatInput{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validateRequest(ctx, req); err != nil {
		return usecase.RecordStatInput{}, err
	}

	return usecase.RecordStatInput{
		GameID:    gameID,
		PlayerID:  strings.TrimSpace(req.PlayerID),
		StatType:  stats.StatType(strings.TrimSpace(req.StatType)),
		Made:      req.Made,
		Offensive: req.Offensive,
		Value:     req.Value,
	}, nil
}

type recordTimeoutRequest struct {
	TeamID string `json:"team_id" validate:"required"`
}

func (h *Handler) RecordTimeout(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordTimeout")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.requireScorerForGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	var req recordTimeoutRequest
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

	ts, err := h.statService.RecordTimeout(ctx, gameID, strings.TrimSpace(req.TeamID))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamStatToDTO(ts))
}

type substituteRequest struct {
	OnCourt bool `json:"on_court"`
}

func (h *Handler) SubstitutePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubstitutePlayer")
	defer span.End()

	gameID := r.PathValue("gameID")
	playerID := r.PathValue("playerID")
	if err := h.requireScorerForGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	var req substituteRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	row, err := h.statService.Substitute(ctx, gameID, playerID, req.OnCourt)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerStatToDTO(row))
}

type updateMinutesRequest struct {
	Minutes int `json:"minutes" validate:"gte=0,lte=96"`
}

func (h *Handler) UpdatePlayerMinutes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayerMinutes")
	defer span.End()

	gameID := r.PathValue("gameID")
	playerID := r.PathValue("playerID")
	if err := h.requireScorerForGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateMinutesRequest
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

	row, err := h.statService.UpdateMinutes(ctx, gameID, playerID, req.Minutes)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerStatToDTO(row))
}
