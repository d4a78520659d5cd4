package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState int8

const (
	Unknown          CellState = -2
	Flagged          CellState = -1
	CorrectlyFlagged CellState = 64
	ExplodedMine     CellState = 65
	FalselyFlagged   CellState = 66
	UnflaggedMine    CellState = 67
	/*
	 * Each item of a [Grid] is one of the following values:
	 *
	 * 	- 0 to 8 mean the cell is revealed and has that many
	 * 	  mined neighbours.
	 *
	 * 	- -1 means the cell is flagged.
	 *
	 * 	- -2 means the cell is concealed.
	 *
	 * 	- 64..67 only show up once the game is over: a correct flag,
	 * 	  the mine the player hit, a flag on a safe cell and a mine
	 * 	  that was never flagged.
	 */
)

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return " "
	case s == Flagged:
		return "*"
	case 0 <= s && s <= 8:
		return strconv.Itoa(int(s))
	case s == CorrectlyFlagged:
		return "+"
	case s == ExplodedMine:
		return "X"
	case s == FalselyFlagged:
		return "x"
	case s == UnflaggedMine:
		return "@"
	default:
		return "!"
	}
}

// Grid is the row-major player view of a board.
type Grid []CellState

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			i := y*width + x
			if i >= len(g) {
				break
			}
			fmt.Fprint(&b, g[i].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

func cellState(c *Cell, status Status) CellState {
	switch status {
	case Lost:
		switch {
		case c.Mine && !c.Concealed:
			return ExplodedMine
		case c.Mine && c.Flagged:
			return CorrectlyFlagged
		case c.Mine:
			return UnflaggedMine
		case c.Flagged && c.Concealed:
			return FalselyFlagged
		}
	case Won:
		if c.Concealed {
			return Flagged
		}
	}
	switch {
	case c.Concealed && c.Flagged:
		return Flagged
	case c.Concealed:
		return Unknown
	case c.Mine:
		return ExplodedMine
	default:
		return CellState(c.AdjacentMines)
	}
}
