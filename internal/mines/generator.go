package mines

import (
	"fmt"
	"strings"
)

type GameParams struct {
	Size, CellSize, MineCount int
}

// DefaultParams is a 10x10 board with 10 mines drawn with 40px cells.
var DefaultParams = GameParams{Size: 10, CellSize: 40, MineCount: 10}

func (p GameParams) Cells() int {
	return p.Size * p.Size
}

func (p GameParams) Validate() error {
	if p.Size <= 0 {
		return &ParamsError{p, "size must be positive"}
	}
	if p.MineCount < 0 {
		return &ParamsError{p, "mine count cannot be negative"}
	}
	if p.MineCount >= p.Cells() {
		return &ParamsError{p, "mine count must be less than the number of cells"}
	}
	return nil
}

// Seed is the short text form of the params, "size:mines".
func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d", p.Size, p.MineCount)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{CellSize: DefaultParams.CellSize}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d", &p.Size, &p.MineCount)
	if n != 2 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	return p, nil
}
