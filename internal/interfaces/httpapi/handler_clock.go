package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/courtside/internal/usecase"
)

func (h *Handler) StartGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.requireScorerForGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	g, err := h.clockService.Start(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "start game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, g))
}

func (h *Handler) PauseGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PauseGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.requireScorerForGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	g, err := h.clockService.Pause(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, g))
}

func (h *Handler) ResumeGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResumeGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.requireScorerForGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	g, err := h.clockService.Resume(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, g))
}

type endGameRequest struct {
	Force bool `json:"force"`
}

func (h *Handler) EndGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EndGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.requireScorerForGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	var req endGameRequest
	if r.Body != nil && r.ContentLength != 0 {
		decoder := sonic.ConfigDefault.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
			return
		}
	}

	g, err := h.clockService.End(ctx, gameID, req.Force)
	if err != nil {
		h.logger.WarnContext(ctx, "end game failed", "game_id", gameID, "force", req.Force, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, g))
}

func (h *Handler) ReactivateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReactivateGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.requireScorerForGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	g, err := h.clockService.Reactivate(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, g))
}

func (h *Handler) StartOvertime(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartOvertime")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.requireScorerForGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	g, err := h.clockService.StartOvertime(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, g))
}

type setQuarterRequest struct {
	Quarter    int  `json:"quarter" validate:"required,gte=1,lte=12"`
	ResetClock bool `json:"reset_clock"`
}

func (h *Handler) SetQuarter(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetQuarter")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.requireScorerForGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	var req setQuarterRequest
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

	g, err := h.clockService.SetQuarter(ctx, gameID, req.Quarter, req.ResetClock)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, g))
}

type setGameTimeRequest struct {
	TimeRemainingSeconds int `json:"time_remaining_seconds" validate:"gte=0"`
}

func (h *Handler) SetGameTime(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetGameTime")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.requireScorerForGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	var req setGameTimeRequest
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

	g, err := h.clockService.SetGameTime(ctx, gameID, req.TimeRemainingSeconds)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, g))
}

type retroactivePauseRequest struct {
	TimeRemainingSeconds int `json:"time_remaining_seconds" validate:"gte=0"`
}

// RetroactivePause backdates a missed pause: the scorekeeper supplies the
// clock reading the game should have been stopped at.
func (h *Handler) RetroactivePause(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RetroactivePause")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.requireScorerForGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	var req retroactivePauseRequest
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

	g, err := h.clockService.RetroactivePause(ctx, gameID, req.TimeRemainingSeconds)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, g))
}

func (h *Handler) StartShotClock(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartShotClock")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.requireScorerForGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	g, err := h.clockService.StartShotClock(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, g))
}

func (h *Handler) PauseShotClock(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PauseShotClock")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.requireScorerForGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	g, err := h.clockService.PauseShotClock(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, g))
}

type resetShotClockRequest struct {
	Seconds int `json:"seconds" validate:"omitempty,gt=0,lte=24"`
}

func (h *Handler) ResetShotClock(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetShotClock")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.requireScorerForGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	var req resetShotClockRequest
	if r.Body != nil && r.ContentLength != 0 {
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
	}

	g, err := h.clockService.ResetShotClock(ctx, gameID, req.Seconds)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, g))
}
