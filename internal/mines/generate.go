package mines

import "math/rand/v2"

// placeMines marks count distinct cells as mined, picking them uniformly off
// the list of all cells.
func (b *Board) placeMines(count int, r *rand.Rand) {
	n := b.size * b.size
	candidates := make([]int, n)
	for i := range candidates {
		candidates[i] = i
	}

	k := n
	for range count {
		i := r.IntN(k)
		j := candidates[i]
		b.cells[j/b.size][j%b.size].Mine = true
		k--
		candidates[i] = candidates[k]
	}
}

// computeClues fills in AdjacentMines; mines must be placed already.
func (b *Board) computeClues() {
	for c := range b.Cells() {
		c.AdjacentMines = 0
		for _, n := range b.Neighbors(c.X, c.Y) {
			if n.Mine {
				c.AdjacentMines++
			}
		}
	}
}
