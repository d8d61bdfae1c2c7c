package entity

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rocketscienceinc/tictactoe-td/internal/apperror"
)

const (
	Dimensions = 3
	CellCount  = Dimensions * Dimensions
)

var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// StateKey identifies a board by its contents: the nine cells read row by row
// as base-3 digits (empty 0, cross 1, noughts 2). Distinct grids never share a key.
type StateKey uint32

// Board is an immutable snapshot of the grid. Cells are indexed row*3+col.
type Board struct {
	cells [CellCount]Marker
	key   StateKey

	once     sync.Once
	terminal bool
	winner   Marker
}

// NewBoard returns the empty board every episode starts from.
func NewBoard() *Board {
	return BoardFromCells([CellCount]Marker{})
}

func BoardFromCells(cells [CellCount]Marker) *Board {
	board := &Board{
		cells: cells,
		key:   encode(cells),
	}
	board.Evaluate()

	return board
}

// Apply returns a new board with marker placed on cell. The receiver is left untouched.
func (that *Board) Apply(marker Marker, cell int) (*Board, error) {
	if !marker.IsValid() {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidMarker, marker)
	}

	if cell < 0 || cell >= CellCount {
		return nil, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.cells[cell] != None {
		return nil, fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	cells := that.cells
	cells[cell] = marker

	return BoardFromCells(cells), nil
}

// Evaluate reports whether the board is terminal and who won (None for a tie
// or an unfinished game). The result is computed once and cached.
func (that *Board) Evaluate() (bool, Marker) {
	that.once.Do(func() {
		that.terminal, that.winner = evaluate(that.cells)
	})

	return that.terminal, that.winner
}

func (that *Board) IsTerminal() bool {
	terminal, _ := that.Evaluate()
	return terminal
}

func (that *Board) Winner() Marker {
	_, winner := that.Evaluate()
	return winner
}

func (that *Board) Key() StateKey {
	return that.key
}

func (that *Board) Cell(cell int) Marker {
	return that.cells[cell]
}

func (that *Board) Cells() [CellCount]Marker {
	return that.cells
}

// EmptyCells lists the free cells in ascending order.
func (that *Board) EmptyCells() []int {
	cells := make([]int, 0, CellCount)
	for i, cell := range that.cells {
		if cell == None {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that *Board) Occupied() int {
	return CellCount - len(that.EmptyCells())
}

func (that *Board) String() string {
	var out strings.Builder

	out.WriteString("-------------\n")
	for row := 0; row < Dimensions; row++ {
		out.WriteString("|")
		for col := 0; col < Dimensions; col++ {
			out.WriteString(" " + that.cells[row*Dimensions+col].String() + " |")
		}
		out.WriteString("\n")
	}
	out.WriteString("-------------\n")

	return out.String()
}

func evaluate(cells [CellCount]Marker) (bool, Marker) {
	for _, combo := range WinCombos {
		switch int(cells[combo[0]]) + int(cells[combo[1]]) + int(cells[combo[2]]) {
		case 3 * int(Cross):
			return true, Cross
		case 3 * int(Noughts):
			return true, Noughts
		}
	}

	// the game goes on while any cell is free
	for _, cell := range cells {
		if cell == None {
			return false, None
		}
	}

	return true, None
}

func encode(cells [CellCount]Marker) StateKey {
	var key StateKey
	for _, cell := range cells {
		key *= 3

		switch cell {
		case Cross:
			key++
		case Noughts:
			key += 2
		}
	}

	return key
}
