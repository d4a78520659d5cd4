package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vancomm/gridsweeper/internal/commands"
	"github.com/vancomm/gridsweeper/internal/mines"
	"github.com/vancomm/gridsweeper/internal/repository"
	"github.com/vancomm/gridsweeper/internal/sessions"
)

// apply runs the commands of one frame. Resets go through the session so the
// clock and the recording flag restart with the board. Games finished along
// the way are appended to results.
func apply(
	s *sessions.Session, text string, results *[]repository.RecordResultParams,
) (update mines.Update, err error) {
	for _, line := range commands.Lines(text) {
		if line == "" {
			continue
		}
		cmd, perr := commands.Parse(line)
		if perr != nil {
			return update, perr
		}
		if cmd.Verb == commands.Reset {
			s.Reset()
			update = nil
			continue
		}
		s.Play(func(g *mines.Game, _ time.Time) {
			update = append(update, commands.Execute(g, cmd)...)
		}, collect(s, results))
	}
	return update, nil
}

func (h GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	s, ok := h.authorizedSession(w, r)
	if !ok {
		return
	}

	c, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer c.Close()
	c.SetReadLimit(h.ws.ReadLimit)

	write := func(v any) error {
		c.SetWriteDeadline(time.Now().Add(h.ws.WriteTimeout))
		return c.WriteJSON(v)
	}

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(
				err, websocket.CloseNormalClosure, websocket.CloseGoingAway,
			) {
				h.logger.Warn("abnormal ws break", slog.Any("error", err))
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}
		h.logger.Debug("ws frame", slog.String("session", s.ID), slog.Int("bytes", len(message)))

		var results []repository.RecordResultParams
		update, err := apply(s, string(message), &results)
		h.record(r.Context(), results)
		if err != nil {
			h.logger.Debug("bad ws command", slog.Any("error", err))
			if err := write(wrapError(err)); err != nil {
				h.logger.Error("unable to write json", slog.Any("error", err))
				break
			}
			continue
		}

		if err := write(h.snapshot(s, update)); err != nil {
			h.logger.Error("unable to write json", slog.Any("error", err))
			break
		}
	}
}
