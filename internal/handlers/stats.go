package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/gridsweeper/internal/repository"
)

var (
	ErrNoStats  = errors.New("stats are not available")
	ErrNoResult = errors.New("no finished game recorded for this session")
)

// ResultReader reads back recorded games; [repository.Queries] is one.
type ResultReader interface {
	FetchResult(ctx context.Context, sessionId string) (*repository.GameResult, error)
	FetchStats(ctx context.Context, filter repository.StatsFilter) (*repository.Stats, error)
}

type StatsHandler struct {
	logger *slog.Logger
	repo   ResultReader
}

// NewStatsHandler takes a nil repo when no database is configured.
func NewStatsHandler(logger *slog.Logger, repo ResultReader) *StatsHandler {
	return &StatsHandler{logger: logger, repo: repo}
}

func (h StatsHandler) available(w http.ResponseWriter) bool {
	if h.repo == nil {
		sendError(w, h.logger, http.StatusServiceUnavailable, ErrNoStats)
		return false
	}
	return true
}

func (h StatsHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	var dto StatsDTO
	if err := decoder.Decode(&dto, r.URL.Query()); err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	stats, err := h.repo.FetchStats(r.Context(), repository.StatsFilter{
		Size:      dto.Size,
		MineCount: dto.MineCount,
	})
	if err != nil {
		internalError(w, h.logger, "unable to fetch stats", slog.Any("error", err))
		return
	}

	sendJSONOrLog(w, h.logger, stats)
}

// Result is the latest recorded outcome of a session. It outlives the
// session itself, so no token is needed.
func (h StatsHandler) Result(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	result, err := h.repo.FetchResult(r.Context(), r.PathValue("id"))
	if errors.Is(err, pgx.ErrNoRows) {
		sendError(w, h.logger, http.StatusNotFound, ErrNoResult)
		return
	}
	if err != nil {
		internalError(w, h.logger, "unable to fetch game result", slog.Any("error", err))
		return
	}

	sendJSONOrLog(w, h.logger, result)
}
