package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/courtside/internal/domain/league"
	"github.com/riskibarqy/courtside/internal/platform/logging"
	"github.com/riskibarqy/courtside/internal/usecase"
)

// RoleResolver answers what a principal may do inside one league.
type RoleResolver interface {
	ResolveRole(ctx context.Context, userID, leagueID string) (league.Role, error)
}

type Handler struct {
	gameService      *usecase.GameService
	clockService     *usecase.ClockService
	statService      *usecase.StatService
	stintService     *usecase.StintService
	eventService     *usecase.EventService
	analyticsService *usecase.AnalyticsService
	roles            RoleResolver
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	gameService *usecase.GameService,
	clockService *usecase.ClockService,
	statService *usecase.StatService,
	stintService *usecase.StintService,
	eventService *usecase.EventService,
	analyticsService *usecase.AnalyticsService,
	roles RoleResolver,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Handler{
		gameService:      gameService,
		clockService:     clockService,
		statService:      statService,
		stintService:     stintService,
		eventService:     eventService,
		analyticsService: analyticsService,
		roles:            roles,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// requireScorer resolves the caller's role in the league and rejects anyone
// a scorekeeper console would not trust with mutations.
func (h *Handler) requireScorer(ctx context.Context, leagueID string) error {
	principal, ok := principalFromContext(ctx)
	if !ok {
		return fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}

	role, err := h.roles.ResolveRole(ctx, principal.UserID, leagueID)
	if err != nil {
		return err
	}
	if !role.CanScore() {
		return fmt.Errorf("%w: role %q cannot record game data", usecase.ErrUnauthorized, role)
	}
	return nil
}

// requireScorerForGame resolves the game first so the role check runs against
// the league the game actually belongs to.
func (h *Handler) requireScorerForGame(ctx context.Context, gameID string) error {
	g, err := h.gameService.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	return h.requireScorer(ctx, g.LeagueID)
}
