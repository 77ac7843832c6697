package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

// Read-only views stay public so league sites can embed live scores.
func registerPublicGameRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/games/{gameID}", handler.GetGame)
	mux.HandleFunc("GET /v1/games/{gameID}/live", handler.GetLiveStats)
	mux.HandleFunc("GET /v1/games/{gameID}/boxscore", handler.GetBoxScore)
	mux.HandleFunc("GET /v1/games/{gameID}/events", handler.ListGameEvents)
	mux.HandleFunc("GET /v1/games/{gameID}/timeline", handler.GetScoringTimeline)
	mux.HandleFunc("GET /v1/games/{gameID}/lineups", handler.ListGameLineups)
	mux.HandleFunc("GET /v1/teams/{teamID}/lineups", handler.GetTeamLineupStats)
	mux.HandleFunc("GET /v1/teams/{teamID}/pairs", handler.GetTeamPairStats)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/lineup-report", handler.GetLeagueLineupReport)
}

// Every mutating route needs a verified principal holding a scorer-capable
// role in the game's league.
func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedGameRoutes(mux, handler, verifier)
	registerAuthorizedClockRoutes(mux, handler, verifier)
	registerAuthorizedStatRoutes(mux, handler, verifier)
}

func registerAuthorizedGameRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/games", RequireAuth(verifier, http.HandlerFunc(handler.CreateGame)))
	mux.Handle("PATCH /v1/games/{gameID}/settings", RequireAuth(verifier, http.HandlerFunc(handler.UpdateGameSettings)))
}

func registerAuthorizedClockRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/games/{gameID}/clock/start", RequireAuth(verifier, http.HandlerFunc(handler.StartGame)))
	mux.Handle("POST /v1/games/{gameID}/clock/pause", RequireAuth(verifier, http.HandlerFunc(handler.PauseGame)))
	mux.Handle("POST /v1/games/{gameID}/clock/resume", RequireAuth(verifier, http.HandlerFunc(handler.ResumeGame)))
	mux.Handle("POST /v1/games/{gameID}/clock/end", RequireAuth(verifier, http.HandlerFunc(handler.EndGame)))
	mux.Handle("POST /v1/games/{gameID}/clock/reactivate", RequireAuth(verifier, http.HandlerFunc(handler.ReactivateGame)))
	mux.Handle("POST /v1/games/{gameID}/clock/overtime", RequireAuth(verifier, http.HandlerFunc(handler.StartOvertime)))
	mux.Handle("POST /v1/games/{gameID}/clock/retroactive-pause", RequireAuth(verifier, http.HandlerFunc(handler.RetroactivePause)))
	mux.Handle("PUT /v1/games/{gameID}/clock/quarter", RequireAuth(verifier, http.HandlerFunc(handler.SetQuarter)))
	mux.Handle("PUT /v1/games/{gameID}/clock/time", RequireAuth(verifier, http.HandlerFunc(handler.SetGameTime)))
	mux.Handle("POST /v1/games/{gameID}/shot-clock/start", RequireAuth(verifier, http.HandlerFunc(handler.StartShotClock)))
	mux.Handle("POST /v1/games/{gameID}/shot-clock/pause", RequireAuth(verifier, http.HandlerFunc(handler.PauseShotClock)))
	mux.Handle("POST /v1/games/{gameID}/shot-clock/reset", RequireAuth(verifier, http.HandlerFunc(handler.ResetShotClock)))
}

func registerAuthorizedStatRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/games/{gameID}/stats", RequireAuth(verifier, http.HandlerFunc(handler.RecordStat)))
	mux.Handle("POST /v1/games/{gameID}/stats/undo", RequireAuth(verifier, http.HandlerFunc(handler.UndoStat)))
	mux.Handle("POST /v1/games/{gameID}/timeouts", RequireAuth(verifier, http.HandlerFunc(handler.RecordTimeout)))
	mux.Handle("POST /v1/games/{gameID}/players/{playerID}/substitute", RequireAuth(verifier, http.HandlerFunc(handler.SubstitutePlayer)))
	mux.Handle("PUT /v1/games/{gameID}/players/{playerID}/minutes", RequireAuth(verifier, http.HandlerFunc(handler.UpdatePlayerMinutes)))
	mux.Handle("POST /v1/games/{gameID}/stints", RequireAuth(verifier, http.HandlerFunc(handler.StartStint)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/lineup-report/{leagueID}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunLineupReportJob)))
}
