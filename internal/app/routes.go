package app

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vancomm/gridsweeper/internal/config"
	"github.com/vancomm/gridsweeper/internal/handlers"
	"github.com/vancomm/gridsweeper/internal/repository"
)

func (a *App) loadRoutes() {
	// interfaces stay nil without a database
	var (
		recorder handlers.ResultRecorder
		reader   handlers.ResultReader
	)
	if a.db != nil {
		repo := repository.New(a.db)
		recorder, reader = repo, repo
	}

	game := handlers.NewGameHandler(
		a.logger, a.store, recorder, a.tokens, a.ws, *a.game, a.maxSize,
	)
	stats := handlers.NewStatsHandler(a.logger, reader)

	base := config.BasePath()

	a.router.HandleFunc("GET "+base+"/status", handlers.Status)
	a.router.Handle("GET "+base+"/metrics", promhttp.Handler())

	a.router.HandleFunc("POST "+base+"/game", game.NewGame)
	a.router.HandleFunc("GET "+base+"/game/{id}", game.Fetch)
	a.router.HandleFunc("POST "+base+"/game/{id}/move", game.Move)
	a.router.HandleFunc("POST "+base+"/game/{id}/reset", game.Reset)
	a.router.HandleFunc("GET "+base+"/game/{id}/connect", game.ConnectWS)
	a.router.HandleFunc("GET "+base+"/game/{id}/result", stats.Result)
	a.router.HandleFunc("GET "+base+"/stats", stats.Fetch)
}
