package mines

import (
	"fmt"
	"iter"
	"strings"
)

type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.X, p.Y)
}

type Cell struct {
	Point
	AdjacentMines int
	Mine          bool
	Flagged       bool
	Concealed     bool
}

// Board is a square grid of cells indexed by [row][column].
type Board struct {
	size  int
	cells [][]Cell
}

func NewBoard(size int) *Board {
	cells := make([][]Cell, size)
	for y := range size {
		cells[y] = make([]Cell, size)
		for x := range size {
			cells[y][x] = Cell{Point: Point{x, y}, Concealed: true}
		}
	}
	return &Board{size: size, cells: cells}
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) InBounds(x, y int) bool {
	return 0 <= x && x < b.size && 0 <= y && y < b.size
}

// At returns (nil, false) for points outside the board.
func (b *Board) At(x, y int) (*Cell, bool) {
	if !b.InBounds(x, y) {
		return nil, false
	}
	return &b.cells[y][x], true
}

func (b *Board) Cells() iter.Seq[*Cell] {
	return func(yield func(*Cell) bool) {
		for y := range b.size {
			for x := range b.size {
				if !yield(&b.cells[y][x]) {
					return
				}
			}
		}
	}
}

// Neighbors returns the up to 8 cells surrounding x,y that lie on the board.
func (b *Board) Neighbors(x, y int) []*Cell {
	neighbors := make([]*Cell, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if c, ok := b.At(x+dx, y+dy); ok {
				neighbors = append(neighbors, c)
			}
		}
	}
	return neighbors
}

func (b *Board) CountConcealed() (count int) {
	for c := range b.Cells() {
		if c.Concealed {
			count++
		}
	}
	return
}

func (b *Board) CountMines() (count int) {
	for c := range b.Cells() {
		if c.Mine {
			count++
		}
	}
	return
}

func (b *Board) String() string {
	var sb strings.Builder
	for y := range b.size {
		for x := range b.size {
			if b.cells[y][x].Mine {
				fmt.Fprint(&sb, "* ")
			} else {
				fmt.Fprint(&sb, "- ")
			}
		}
		fmt.Fprint(&sb, "\n")
	}
	return sb.String()
}
