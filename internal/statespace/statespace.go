package statespace

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-td/internal/entity"
)

// expectedStates is the number of boards reachable from the empty grid.
const expectedStates = 5478

// Entry is a reachable board together with its precomputed terminal flag.
type Entry struct {
	Board    *entity.Board
	Terminal bool
}

// Summary breaks the space down by outcome.
type Summary struct {
	States      int `json:"states"`
	Terminal    int `json:"terminal"`
	CrossWins   int `json:"cross_wins"`
	NoughtsWins int `json:"noughts_wins"`
	Ties        int `json:"ties"`
}

// Space maps every reachable board's key to its entry. It is read-only once
// Enumerate returns and may be shared between agents and drivers.
type Space struct {
	root    *entity.Board
	entries map[entity.StateKey]Entry
}

// Enumerate walks every board reachable by alternating play, cross first.
func Enumerate() (*Space, error) {
	root := entity.NewBoard()

	space := &Space{
		root:    root,
		entries: make(map[entity.StateKey]Entry, expectedStates),
	}
	space.entries[root.Key()] = Entry{Board: root, Terminal: root.IsTerminal()}

	if err := space.expand(root, entity.Cross); err != nil {
		return nil, fmt.Errorf("failed to enumerate state space: %w", err)
	}

	return space, nil
}

// expand records every unseen child of board and descends into the
// non-terminal ones with the other marker to move. Boards reached through a
// transposition are already recorded and are not expanded twice.
func (that *Space) expand(board *entity.Board, marker entity.Marker) error {
	for _, cell := range board.EmptyCells() {
		child, err := board.Apply(marker, cell)
		if err != nil {
			return fmt.Errorf("failed to play cell %d: %w", cell, err)
		}

		key := child.Key()
		if _, seen := that.entries[key]; seen {
			continue
		}

		terminal := child.IsTerminal()
		that.entries[key] = Entry{Board: child, Terminal: terminal}

		if terminal {
			continue
		}

		if err = that.expand(child, marker.Opponent()); err != nil {
			return err
		}
	}

	return nil
}

func (that *Space) Root() *entity.Board {
	return that.root
}

func (that *Space) Lookup(key entity.StateKey) (Entry, bool) {
	entry, ok := that.entries[key]
	return entry, ok
}

func (that *Space) Len() int {
	return len(that.entries)
}

// Range calls fn for every entry until fn returns false. Order is unspecified.
func (that *Space) Range(fn func(key entity.StateKey, entry Entry) bool) {
	for key, entry := range that.entries {
		if !fn(key, entry) {
			return
		}
	}
}

func (that *Space) Summary() Summary {
	summary := Summary{States: len(that.entries)}

	for _, entry := range that.entries {
		if !entry.Terminal {
			continue
		}

		summary.Terminal++

		switch entry.Board.Winner() {
		case entity.Cross:
			summary.CrossWins++
		case entity.Noughts:
			summary.NoughtsWins++
		default:
			summary.Ties++
		}
	}

	return summary
}
