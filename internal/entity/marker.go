package entity

// Marker is the value a player places on the board. Cross always moves first.
type Marker int8

const (
	Noughts Marker = -1
	None    Marker = 0
	Cross   Marker = 1
)

func (that Marker) IsValid() bool {
	return that == Cross || that == Noughts
}

func (that Marker) Opponent() Marker {
	return -that
}

// String renders the marker the way it is drawn on the board.
func (that Marker) String() string {
	switch that {
	case Cross:
		return "x"
	case Noughts:
		return "o"
	default:
		return " "
	}
}

// Name is the marker's name in logs and metric labels.
func (that Marker) Name() string {
	switch that {
	case Cross:
		return "cross"
	case Noughts:
		return "noughts"
	default:
		return "none"
	}
}
