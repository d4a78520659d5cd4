package config

import (
	"fmt"

	"github.com/vancomm/gridsweeper/internal/mines"
)

// NewGame returns the params new games start with unless the client asks
// for others.
func NewGame() (*mines.GameParams, error) {
	params := mines.DefaultParams

	var err error
	if params.Size, err = intOr("GAME_SIZE", params.Size); err != nil {
		return nil, err
	}
	if params.CellSize, err = intOr("GAME_CELL_SIZE", params.CellSize); err != nil {
		return nil, err
	}
	if params.MineCount, err = intOr("GAME_MINES", params.MineCount); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &params, nil
}

// MaxGameSize is the largest board side a client may ask for.
func MaxGameSize() (int, error) {
	size, err := intOr("GAME_MAX_SIZE", 100)
	if err != nil {
		return 0, err
	}
	if size <= 0 {
		return 0, fmt.Errorf("GAME_MAX_SIZE must be positive, got %d", size)
	}
	return size, nil
}
