package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vancomm/gridsweeper/internal/config"
	"github.com/vancomm/gridsweeper/internal/metrics"
	"github.com/vancomm/gridsweeper/internal/middleware"
	"github.com/vancomm/gridsweeper/internal/mines"
	"github.com/vancomm/gridsweeper/internal/repository"
	"github.com/vancomm/gridsweeper/internal/sessions"
)

var (
	ErrForeignSession = errors.New("token was not issued for this session")
	ErrBoardTooLarge  = errors.New("board size exceeds the server limit")
)

// ResultRecorder stores finished games; [repository.Queries] is one.
type ResultRecorder interface {
	RecordResult(ctx context.Context, params repository.RecordResultParams) (*repository.GameResult, error)
}

type GameHandler struct {
	logger   *slog.Logger
	store    *sessions.Store
	repo     ResultRecorder
	tokens   *config.SessionTokens
	ws       *config.WebSocket
	defaults mines.GameParams
	maxSize  int
}

// NewGameHandler takes a nil repo when no database is configured; finished
// games are then simply not recorded.
func NewGameHandler(
	logger *slog.Logger,
	store *sessions.Store,
	repo ResultRecorder,
	tokens *config.SessionTokens,
	ws *config.WebSocket,
	defaults mines.GameParams,
	maxSize int,
) *GameHandler {
	return &GameHandler{
		logger:   logger,
		store:    store,
		repo:     repo,
		tokens:   tokens,
		ws:       ws,
		defaults: defaults,
		maxSize:  maxSize,
	}
}

func (h GameHandler) snapshot(s *sessions.Session, update mines.Update) *GameSessionDTO {
	var dto *GameSessionDTO
	s.View(func(g *mines.Game, startedAt time.Time) {
		dto = NewGameSessionDTO(s, startedAt.UnixMilli(), g, update)
	})
	return dto
}

func (h GameHandler) session(w http.ResponseWriter, r *http.Request) (*sessions.Session, bool) {
	s, ok := h.store.Get(r.PathValue("id"))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return nil, false
	}
	return s, true
}

// authorizedSession is [GameHandler.session] for requests that change the
// game: the request token must have been issued for the path session.
func (h GameHandler) authorizedSession(w http.ResponseWriter, r *http.Request) (*sessions.Session, bool) {
	id, ok := middleware.SessionId(r)
	if !ok || id != r.PathValue("id") {
		sendError(w, h.logger, http.StatusUnauthorized, ErrForeignSession)
		return nil, false
	}
	return h.session(w, r)
}

// collect is a [sessions.Session.Play] callback that queues the finished
// game for [GameHandler.record].
func collect(s *sessions.Session, results *[]repository.RecordResultParams) func(*mines.Game, time.Time) {
	return func(g *mines.Game, startedAt time.Time) {
		*results = append(*results, repository.RecordResultParams{
			SessionId: s.ID,
			Size:      g.Size,
			MineCount: g.MineCount,
			Won:       g.Status() == mines.Won,
			Revealed:  g.Revealed(),
			StartedAt: startedAt,
		})
	}
}

func (h GameHandler) record(ctx context.Context, results []repository.RecordResultParams) {
	if h.repo == nil {
		return
	}
	for _, params := range results {
		_, err := h.repo.RecordResult(ctx, params)
		if errors.Is(err, repository.ErrAlreadyRecorded) {
			h.logger.Debug("game result already recorded", slog.String("session", params.SessionId))
			continue
		}
		if err != nil {
			h.logger.Error(
				"unable to record game result",
				slog.String("session", params.SessionId),
				slog.Any("error", err),
			)
		}
	}
}

func (h GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseNewGameDTO(r.URL.Query())
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	params := dto.Params(h.defaults)
	if params.Size > h.maxSize {
		sendError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("%w: %d > %d", ErrBoardTooLarge, params.Size, h.maxSize))
		return
	}

	s, err := h.store.Create(params)
	if errors.Is(err, mines.ErrBadParams) {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		internalError(w, h.logger, "unable to create a game session", slog.Any("error", err))
		return
	}
	metrics.GamesStarted.Inc()

	token, err := h.tokens.Sign(s.ID)
	if err != nil {
		h.store.Delete(s.ID)
		internalError(w, h.logger, "unable to sign session token", slog.Any("error", err))
		return
	}

	res := h.snapshot(s, nil)
	res.Token = token
	sendJSONOrLog(w, h.logger, res)
}

func (h GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, h.logger, h.snapshot(s, nil))
}

func (h GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	dto, move, err := ParseMoveDTO(r.URL.Query())
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	s, ok := h.authorizedSession(w, r)
	if !ok {
		return
	}

	var (
		res     *GameSessionDTO
		results []repository.RecordResultParams
	)
	s.Play(func(g *mines.Game, startedAt time.Time) {
		var update mines.Update
		switch move {
		case Reveal:
			update = g.PrimaryAction(dto.X, dto.Y)
		case Flag:
			update = g.SecondaryAction(dto.X, dto.Y)
		}
		res = NewGameSessionDTO(s, startedAt.UnixMilli(), g, update)
	}, collect(s, &results))

	h.record(r.Context(), results)
	sendJSONOrLog(w, h.logger, res)
}

func (h GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.authorizedSession(w, r)
	if !ok {
		return
	}
	s.Reset()
	sendJSONOrLog(w, h.logger, h.snapshot(s, nil))
}
