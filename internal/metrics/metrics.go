// Package metrics exports game counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vancomm/gridsweeper/internal/mines"
)

var (
	GamesStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gridsweeper_games_started_total",
			Help: "Boards dealt, including resets",
		},
	)
	GamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridsweeper_games_finished_total",
			Help: "Games that ended, by outcome",
		},
		[]string{"status"},
	)
	CellsRevealed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gridsweeper_cells_revealed_total",
			Help: "Cells revealed by players and cascades",
		},
	)
	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridsweeper_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(GamesStarted, GamesFinished, CellsRevealed, RateLimited)
}

// RegisterSessions exports the number of live sessions as a gauge.
func RegisterSessions(reg prometheus.Registerer, count func() int) error {
	return reg.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "gridsweeper_sessions_active",
			Help: "Sessions held in memory",
		},
		func() float64 { return float64(count()) },
	))
}

// Observer counts game events; attach it to every game.
type Observer struct{}

// [Observer] implements [mines.Observer]
func (Observer) CellChanged(c mines.Cell) {
	if !c.Concealed {
		CellsRevealed.Inc()
	}
}

func (Observer) StatusChanged(s mines.Status, _ string) {
	switch s {
	case mines.Running:
		GamesStarted.Inc()
	default:
		GamesFinished.WithLabelValues(s.String()).Inc()
	}
}
