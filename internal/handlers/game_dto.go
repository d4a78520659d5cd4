package handlers

import (
	"fmt"
	"strings"

	"github.com/gorilla/schema"

	"github.com/vancomm/gridsweeper/internal/mines"
	"github.com/vancomm/gridsweeper/internal/sessions"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// NewGameDTO fields left out fall back to the server defaults.
type NewGameDTO struct {
	Size      *int `schema:"size"`
	CellSize  *int `schema:"cell_size"`
	MineCount *int `schema:"mine_count"`
}

func ParseNewGameDTO(src map[string][]string) (NewGameDTO, error) {
	var dto NewGameDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

func (dto NewGameDTO) Params(defaults mines.GameParams) mines.GameParams {
	p := defaults
	if dto.Size != nil {
		p.Size = *dto.Size
	}
	if dto.CellSize != nil {
		p.CellSize = *dto.CellSize
	}
	if dto.MineCount != nil {
		p.MineCount = *dto.MineCount
	}
	return p
}

type GameMove uint8

const (
	Reveal GameMove = iota + 1
	Flag
)

func (m GameMove) String() string {
	switch m {
	case Reveal:
		return "reveal"
	case Flag:
		return "flag"
	default:
		return fmt.Sprintf("GameMove(%d)", m)
	}
}

var ErrBadMove = fmt.Errorf("move must be one of '%s', '%s'", Reveal, Flag)

func ParseGameMove(s string) (move GameMove, err error) {
	switch strings.ToLower(s) {
	case "reveal", "open", "primary":
		move = Reveal
	case "flag", "secondary":
		move = Flag
	default:
		err = ErrBadMove
	}
	return
}

type MoveDTO struct {
	Move string `schema:"move,required"`
	X    int    `schema:"x,required"`
	Y    int    `schema:"y,required"`
}

func ParseMoveDTO(src map[string][]string) (MoveDTO, GameMove, error) {
	var dto MoveDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return dto, 0, err
	}
	move, err := ParseGameMove(dto.Move)
	return dto, move, err
}

type StatsDTO struct {
	Size      *int `schema:"size"`
	MineCount *int `schema:"mine_count"`
}

type CellDTO struct {
	X     int             `json:"x"`
	Y     int             `json:"y"`
	State mines.CellState `json:"state"`
}

type GameSessionDTO struct {
	SessionId string       `json:"session_id"`
	Token     string       `json:"token,omitempty"`
	Size      int          `json:"size"`
	CellSize  int          `json:"cell_size"`
	MineCount int          `json:"mine_count"`
	Flags     int          `json:"flags"`
	Status    mines.Status `json:"status"`
	Message   string       `json:"message"`
	Grid      mines.Grid   `json:"grid"`
	Update    []CellDTO    `json:"update,omitempty"`
	StartedAt int64        `json:"started_at"`
}

// NewGameSessionDTO must be called with the session lock held, i.e. from
// inside [sessions.Session.View] or [sessions.Session.Play].
func NewGameSessionDTO(
	s *sessions.Session, startedAtMs int64, g *mines.Game, update mines.Update,
) *GameSessionDTO {
	dto := &GameSessionDTO{
		SessionId: s.ID,
		Size:      g.Size,
		CellSize:  g.CellSize,
		MineCount: g.MineCount,
		Flags:     g.Flags(),
		Status:    g.Status(),
		Message:   g.Message(),
		Grid:      g.PlayerGrid(),
		StartedAt: startedAtMs,
	}
	for _, c := range update {
		dto.Update = append(dto.Update, CellDTO{
			X: c.X, Y: c.Y, State: g.State(c.X, c.Y),
		})
	}
	return dto
}
