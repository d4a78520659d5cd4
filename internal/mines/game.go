package mines

import (
	"log/slog"
	"math/rand/v2"

	"github.com/gammazero/deque"
)

var Log *slog.Logger = slog.Default()

type Status int8

const (
	Running Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Message is the text a front end shows verbatim for the status.
func (s Status) Message() string {
	switch s {
	case Won:
		return "You won!"
	case Lost:
		return "You lose!"
	default:
		return "Game on! Left click to reveal, right click to flag."
	}
}

// Observer is notified synchronously, after the state it reports on has
// been updated. Reset only reports the status change; observers are expected
// to redraw the whole board.
type Observer interface {
	CellChanged(c Cell)
	StatusChanged(s Status, message string)
}

// Update lists the cells whose visible state changed during an action.
type Update []Cell

type Game struct {
	GameParams
	board     *Board
	status    Status
	rnd       *rand.Rand
	observers []Observer
}

func New(params GameParams, r *rand.Rand, observers ...Observer) (*Game, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	g := &Game{
		GameParams: params,
		rnd:        r,
		observers:  observers,
	}
	g.setup()
	return g, nil
}

func (g *Game) setup() {
	g.board = NewBoard(g.Size)
	g.board.placeMines(g.MineCount, g.rnd)
	g.board.computeClues()
	g.status = Running
	Log.Debug("board ready", slog.String("params", g.Seed()))
}

func (g *Game) Subscribe(o Observer) {
	g.observers = append(g.observers, o)
}

func (g *Game) Status() Status {
	return g.status
}

func (g *Game) Message() string {
	return g.status.Message()
}

// Cell returns a copy of the cell at x,y.
func (g *Game) Cell(x, y int) (Cell, bool) {
	c, ok := g.board.At(x, y)
	if !ok {
		return Cell{}, false
	}
	return *c, true
}

func (g *Game) Flags() (count int) {
	for c := range g.board.Cells() {
		if c.Flagged && c.Concealed {
			count++
		}
	}
	return
}

// Revealed counts the cells no longer concealed.
func (g *Game) Revealed() int {
	return g.Cells() - g.board.CountConcealed()
}

// State is what a player sees at x,y; Unknown for points off the board.
func (g *Game) State(x, y int) CellState {
	c, ok := g.board.At(x, y)
	if !ok {
		return Unknown
	}
	return cellState(c, g.status)
}

func (g *Game) PlayerGrid() Grid {
	grid := make(Grid, 0, g.Cells())
	for c := range g.board.Cells() {
		grid = append(grid, cellState(c, g.status))
	}
	return grid
}

// Reset throws the board away and deals a new one with the same params.
func (g *Game) Reset() {
	g.setup()
	g.notifyStatus()
}

func (g *Game) PrimaryAction(x, y int) Update {
	return g.Reveal(x, y)
}

func (g *Game) SecondaryAction(x, y int) Update {
	return g.ToggleFlag(x, y)
}

// Reveal opens the cell at x,y. Blank cells (no adjacent mines) open their
// concealed, unflagged neighbours in turn until the region is exhausted.
func (g *Game) Reveal(x, y int) (update Update) {
	if g.status != Running {
		return nil
	}
	origin, ok := g.board.At(x, y)
	if !ok || origin.Flagged {
		return nil
	}

	var (
		todo    deque.Deque[Point]
		visited = make([]bool, g.Cells())
	)
	todo.PushBack(origin.Point)
	visited[y*g.Size+x] = true

	for todo.Len() > 0 {
		p := todo.PopFront()
		c, _ := g.board.At(p.X, p.Y)
		if c.Concealed {
			c.Concealed = false
			update = append(update, *c)
			g.notifyCell(*c)
		}
		if c.Mine || c.AdjacentMines != 0 {
			continue
		}
		for _, n := range g.board.Neighbors(p.X, p.Y) {
			i := n.Y*g.Size + n.X
			if n.Concealed && !n.Flagged && !visited[i] {
				visited[i] = true
				todo.PushBack(n.Point)
			}
		}
	}

	/*
	 * A blank cell has no mined neighbours, so the cascade can never
	 * reach a mine: only the clicked cell can lose the game.
	 */
	if origin.Mine {
		g.setStatus(Lost)
		return
	}

	g.checkWin()
	return
}

func (g *Game) ToggleFlag(x, y int) Update {
	if g.status != Running {
		return nil
	}
	c, ok := g.board.At(x, y)
	if !ok || !c.Concealed {
		return nil
	}
	c.Flagged = !c.Flagged
	g.notifyCell(*c)
	return Update{*c}
}

// checkWin: the game is won once exactly the mines are left concealed.
func (g *Game) checkWin() {
	if g.status == Lost {
		return
	}
	if g.board.CountConcealed() == g.MineCount {
		g.setStatus(Won)
	}
}

func (g *Game) setStatus(s Status) {
	if g.status == s {
		return
	}
	g.status = s
	g.notifyStatus()
}

func (g *Game) notifyCell(c Cell) {
	for _, o := range g.observers {
		o.CellChanged(c)
	}
}

func (g *Game) notifyStatus() {
	for _, o := range g.observers {
		o.StatusChanged(g.status, g.status.Message())
	}
}
