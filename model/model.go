package model

// MaxDrawValue is the highest face of the die. Drawing it grants another roll.
const MaxDrawValue = 6

// StrikeLimit is the number of consecutive MaxDrawValue draws that voids a turn.
const StrikeLimit = 3

type MoveType string

const (
	MoveSkip      MoveType = "skip"
	MoveDraw      MoveType = "draw"
	MoveLadder    MoveType = "ladder"
	MoveSnake     MoveType = "snake"
	MoveRollAgain MoveType = "roll-again"
)

type WormholeKind int

const (
	Snake WormholeKind = iota
	Ladder
)

func (k WormholeKind) String() string {
	switch k {
	case Ladder:
		return "ladder"
	case Snake:
		return "snake"
	default:
		return "n/a"
	}
}

type Wormhole struct {
	From, To int
	Kind     WormholeKind
}

// DrawResult is the outcome of a single die draw resolved against the board.
type DrawResult struct {
	MoveType         MoveType
	DrawnValue       int
	NewPosition      int
	StandingPosition int
	// Entrance is the cell the die value reached before any wormhole.
	Entrance int
}

// Board holds the grid geometry and the wormhole registry. Cells are numbered
// 1..Size; 0 is the off-board start.
type Board struct {
	Length, Breadth int
	Size            int

	// forward[from] = to, reverse[to] = from; 0 means no wormhole
	forward []int
	reverse []int
	locked  bool
	dice    Roller
}

type Player struct {
	Id                   int32
	Name                 string
	position             int
	intermediatePosition int
	history              []DrawResult
}

type Game struct {
	board       *Board
	finished    []*Player
	unfinished  []*Player
	activeIndex int
}

// Standing is a read-only projection of one player for presentation.
type Standing struct {
	PlayerId             int32
	Name                 string
	Position             int
	IntermediatePosition int
	Rank                 int
	Active               bool
}

const (
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
)
