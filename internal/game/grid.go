package game

import (
	"math/rand"

	"socialty-api/internal/models"
)

// GridSize is the number of cells on a bingo grid.
const GridSize = 25

// WinningLineCount is how many complete lines a grid needs to win.
const WinningLineCount = 5

// winningLines are the twelve fixed 5-cell patterns, as 0-indexed grid
// positions: 5 rows, 5 columns, 2 diagonals.
var winningLines = [12][5]int{
	{0, 1, 2, 3, 4}, {5, 6, 7, 8, 9}, {10, 11, 12, 13, 14},
	{15, 16, 17, 18, 19}, {20, 21, 22, 23, 24},
	{0, 5, 10, 15, 20}, {1, 6, 11, 16, 21}, {2, 7, 12, 17, 22},
	{3, 8, 13, 18, 23}, {4, 9, 14, 19, 24},
	{0, 6, 12, 18, 24}, {4, 8, 12, 16, 20},
}

// NewGrid returns a random permutation of 1..25.
func NewGrid() models.IntList {
	grid := make(models.IntList, GridSize)
	for i, v := range rand.Perm(GridSize) {
		grid[i] = v + 1
	}
	return grid
}

// NewGridPair returns two independent grids that are guaranteed to differ as
// sequences; the second is rerolled on collision.
func NewGridPair() (models.IntList, models.IntList) {
	first := NewGrid()
	second := NewGrid()
	for equalGrids(first, second) {
		second = NewGrid()
	}
	return first, second
}

func equalGrids(a, b models.IntList) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CompletedLines counts how many of the twelve lines are fully marked on grid.
// Marked values are shared numbers, not positions.
func CompletedLines(grid models.IntList, marked models.IntList) int {
	isMarked := make(map[int]bool, len(marked))
	for _, n := range marked {
		isMarked[n] = true
	}

	count := 0
	for _, line := range winningLines {
		complete := true
		for _, pos := range line {
			if !isMarked[grid[pos]] {
				complete = false
				break
			}
		}
		if complete {
			count++
		}
	}
	return count
}

// HasWon reports whether grid has reached the winning line count.
func HasWon(grid models.IntList, marked models.IntList) bool {
	return CompletedLines(grid, marked) >= WinningLineCount
}
