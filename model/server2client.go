package model

type ServerMessage struct {
	Setup     []Setup
	Draws     []DrawMessage
	Standings []Standing
	Advices   []Advice
	Rejects   []Reject
	GameOver  bool
}

type Setup struct {
	Length, Breadth int
	PlayerKey       int32
	Players         []Standing
	Wormholes       []Wormhole
}

type DrawMessage struct {
	PlayerKey        int32
	MoveType         MoveType
	DrawnValue       int
	NewPosition      int
	StandingPosition int
	Message          string
	TurnOver         bool
}

// Advice is sent only to the active player.
type Advice struct {
	PlayerKey    int32
	NextBestMove int
	BestMoves    []int
}

type Reject struct {
	Reason string
}

type ClientMessage struct {
	Roll bool
}

func NewDrawMessage(pid int32, d DrawResult, turnOver bool) DrawMessage {
	return DrawMessage{
		PlayerKey:        pid,
		MoveType:         d.MoveType,
		DrawnValue:       d.DrawnValue,
		NewPosition:      d.NewPosition,
		StandingPosition: d.StandingPosition,
		Message:          d.Describe(),
		TurnOver:         turnOver,
	}
}
