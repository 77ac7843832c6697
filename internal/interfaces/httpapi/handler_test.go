package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/courtside/internal/domain/league"
	"github.com/riskibarqy/courtside/internal/domain/user"
	"github.com/riskibarqy/courtside/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/courtside/internal/platform/cache"
	"github.com/riskibarqy/courtside/internal/usecase"
)

type stubVerifier struct{}

func (stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	if token == "" || token == "bad" {
		return user.Principal{}, fmt.Errorf("%w: token rejected", usecase.ErrUnauthorized)
	}
	return user.Principal{UserID: "scorer-1", DisplayName: "Court Scorer"}, nil
}

type stubRoles struct {
	role league.Role
}

func (s stubRoles) ResolveRole(context.Context, string, string) (league.Role, error) {
	return s.role, nil
}

func newTestRouter(t *testing.T, role league.Role) http.Handler {
	t.Helper()

	gameRepo := memory.NewGameRepository()
	statsRepo := memory.NewStatsRepository()
	eventRepo := memory.NewEventRepository()
	stintRepo := memory.NewStintRepository()
	rosterRepo := memory.NewRosterRepository(memory.SeedTeams(), memory.SeedPlayers())

	events := usecase.NewEventService(eventRepo, nil)
	stints := usecase.NewStintService(stintRepo, gameRepo, rosterRepo, nil, nil)
	games := usecase.NewGameService(gameRepo, statsRepo, events, rosterRepo, nil, nil)
	clocks := usecase.NewClockService(gameRepo, statsRepo, events, stints, nil, nil)
	statsSvc := usecase.NewStatService(gameRepo, statsRepo, events, stints, nil)
	analytics := usecase.NewAnalyticsService(gameRepo, events, cache.NewStore(time.Minute))

	handler := NewHandler(games, clocks, statsSvc, stints, events, analytics, stubRoles{role: role}, nil)
	return NewRouter(handler, stubVerifier{}, nil, false, nil, "job-secret")
}

func doJSON(t *testing.T, router http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if rec.Body.Len() > 0 {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal %s %s response: %v", method, path, err)
		}
	}
	return rec, envelope
}

func createGameHTTP(t *testing.T, router http.Handler) string {
	t.Helper()

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/games", "scorer-token", fmt.Sprintf(
		`{"league_id":%q,"home_team_id":%q,"away_team_id":%q}`,
		memory.LeagueIDCityHoops, memory.TeamIDDowntown, memory.TeamIDRiverside,
	))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create game: status %d body %s", rec.Code, rec.Body.String())
	}
	data := envelope["data"].(map[string]any)
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatalf("create game returned no id: %v", data)
	}
	return id
}

func TestRouter_CreateAndFetchGame(t *testing.T) {
	router := newTestRouter(t, league.RoleScorekeeper)
	gameID := createGameHTTP(t, router)

	rec, envelope := doJSON(t, router, http.MethodGet, "/v1/games/"+gameID, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get game: status %d", rec.Code)
	}
	data := envelope["data"].(map[string]any)
	if data["status"] != "scheduled" {
		t.Fatalf("status: %v", data["status"])
	}
	if data["clock_display"] != "12:00" {
		t.Fatalf("clock display: %v", data["clock_display"])
	}
}

func TestRouter_MutationsRequireToken(t *testing.T) {
	router := newTestRouter(t, league.RoleScorekeeper)

	rec, _ := doJSON(t, router, http.MethodPost, "/v1/games", "", `{"league_id":"x","home_team_id":"a","away_team_id":"b"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/games", "bad", `{"league_id":"x","home_team_id":"a","away_team_id":"b"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a rejected token, got %d", rec.Code)
	}
}

func TestRouter_ViewerCannotMutate(t *testing.T) {
	router := newTestRouter(t, league.RoleViewer)

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/games", "scorer-token", fmt.Sprintf(
		`{"league_id":%q,"home_team_id":%q,"away_team_id":%q}`,
		memory.LeagueIDCityHoops, memory.TeamIDDowntown, memory.TeamIDRiverside,
	))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for viewer role, got %d", rec.Code)
	}
	errBody := envelope["error"].(map[string]any)
	if errBody["status"] != "UNAUTHENTICATED" {
		t.Fatalf("error status: %v", errBody["status"])
	}
}

func TestRouter_StartGameAndRecordStat(t *testing.T) {
	router := newTestRouter(t, league.RoleScorekeeper)
	gameID := createGameHTTP(t, router)

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/games/"+gameID+"/clock/start", "scorer-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("start game: status %d body %s", rec.Code, rec.Body.String())
	}
	data := envelope["data"].(map[string]any)
	if data["status"] != "paused" {
		t.Fatalf("start must land paused, got %v", data["status"])
	}

	rec, envelope = doJSON(t, router, http.MethodPost, "/v1/games/"+gameID+"/stats", "scorer-token",
		`{"player_id":"dtd-01","stat_type":"shot3","made":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("record stat: status %d body %s", rec.Code, rec.Body.String())
	}
	line := envelope["data"].(map[string]any)
	if pts, _ := line["points"].(float64); pts != 3 {
		t.Fatalf("points: %v", line["points"])
	}

	rec, envelope = doJSON(t, router, http.MethodGet, "/v1/games/"+gameID+"/live", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("live stats: status %d", rec.Code)
	}
	live := envelope["data"].(map[string]any)
	gameView := live["game"].(map[string]any)
	if score, _ := gameView["home_score"].(float64); score != 3 {
		t.Fatalf("home score: %v", gameView["home_score"])
	}
}

func TestRouter_UndoReturnsConflictTaxonomy(t *testing.T) {
	router := newTestRouter(t, league.RoleScorekeeper)
	gameID := createGameHTTP(t, router)

	// Pausing a scheduled game is an invalid transition and maps to 409.
	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/games/"+gameID+"/clock/pause", "scorer-token", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	errBody := envelope["error"].(map[string]any)
	if errBody["status"] != "FAILED_PRECONDITION" {
		t.Fatalf("error status: %v", errBody["status"])
	}
}

func TestRouter_EventsAndTimeline(t *testing.T) {
	router := newTestRouter(t, league.RoleScorekeeper)
	gameID := createGameHTTP(t, router)

	if rec, _ := doJSON(t, router, http.MethodPost, "/v1/games/"+gameID+"/clock/start", "scorer-token", ""); rec.Code != http.StatusOK {
		t.Fatalf("start game: %d", rec.Code)
	}
	if rec, _ := doJSON(t, router, http.MethodPost, "/v1/games/"+gameID+"/stats", "scorer-token",
		`{"player_id":"dtd-01","stat_type":"shot2","made":true}`); rec.Code != http.StatusOK {
		t.Fatalf("record stat: %d", rec.Code)
	}

	rec, envelope := doJSON(t, router, http.MethodGet, "/v1/games/"+gameID+"/events", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("events: status %d", rec.Code)
	}
	items := envelope["data"].([]any)
	// quarter_start plus the shot.
	if len(items) != 2 {
		t.Fatalf("expected 2 events, got %d", len(items))
	}

	rec, envelope = doJSON(t, router, http.MethodGet, "/v1/games/"+gameID+"/timeline", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("timeline: status %d", rec.Code)
	}
	timeline := envelope["data"].(map[string]any)
	entries := timeline["entries"].([]any)
	if len(entries) != 1 {
		t.Fatalf("expected one timeline entry, got %d", len(entries))
	}
}

func TestRouter_StintAndLineupViews(t *testing.T) {
	router := newTestRouter(t, league.RoleScorekeeper)
	gameID := createGameHTTP(t, router)

	rec, _ := doJSON(t, router, http.MethodPost, "/v1/games/"+gameID+"/stints", "scorer-token", fmt.Sprintf(
		`{"team_id":%q,"players":["dtd-01","dtd-02","dtd-03","dtd-04","dtd-05"],"quarter":1,"game_time":720}`,
		memory.TeamIDDowntown,
	))
	if rec.Code != http.StatusCreated {
		t.Fatalf("start stint: status %d body %s", rec.Code, rec.Body.String())
	}

	rec, envelope := doJSON(t, router, http.MethodGet, "/v1/games/"+gameID+"/lineups", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("game lineups: status %d", rec.Code)
	}
	if items := envelope["data"].([]any); len(items) != 1 {
		t.Fatalf("expected one stint, got %d", len(items))
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/v1/teams/"+memory.TeamIDDowntown+"/pairs", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("pair stats: status %d", rec.Code)
	}
}

func TestRouter_InternalJobTokenGate(t *testing.T) {
	router := newTestRouter(t, league.RoleScorekeeper)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/lineup-report/"+memory.LeagueIDCityHoops, strings.NewReader(""))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without job token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/lineup-report/"+memory.LeagueIDCityHoops, strings.NewReader(""))
	req.Header.Set("X-Internal-Job-Token", "job-secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with job token, got %d", rec.Code)
	}
}

func TestRouter_ValidationFailure(t *testing.T) {
	router := newTestRouter(t, league.RoleScorekeeper)
	gameID := createGameHTTP(t, router)

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/games/"+gameID+"/stats", "scorer-token",
		`{"stat_type":"shot2"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a missing player id, got %d", rec.Code)
	}
	errBody := envelope["error"].(map[string]any)
	if errBody["status"] != "INVALID_ARGUMENT" {
		t.Fatalf("error status: %v", errBody["status"])
	}
}
