package model

import (
	"fmt"
	"sort"
)

// MaxBoardCells bounds length*breadth.
const MaxBoardCells = 1 << 20

// NewBoard creates an unlocked board. A nil roller falls back to a crypto-seeded random one.
func NewBoard(length, breadth int, dice Roller) (*Board, error) {
	if length < 1 || breadth < 1 || length > MaxBoardCells/breadth {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, length, breadth)
	}
	if dice == nil {
		var err error
		if dice, err = NewRandomRoller(0); err != nil {
			return nil, err
		}
	}
	size := length * breadth
	return &Board{
		Length:  length,
		Breadth: breadth,
		Size:    size,
		forward: make([]int, size+1),
		reverse: make([]int, size+1),
		dice:    dice,
	}, nil
}

// AddWormhole registers a directed link from one cell to another and returns
// the board for chaining.
func (b *Board) AddWormhole(from, to int) (*Board, error) {
	if b.locked {
		return b, ErrBoardLocked
	}
	if from < 1 || from > b.Size {
		return b, fmt.Errorf("%w: start %d", ErrWormholeOutOfBounds, from)
	}
	if to < 1 || to > b.Size {
		return b, fmt.Errorf("%w: end %d", ErrWormholeOutOfBounds, to)
	}
	if from == to {
		return b, fmt.Errorf("%w: %d links to itself", ErrWormholeOutOfBounds, from)
	}
	if b.forward[from] != 0 {
		return b, fmt.Errorf("%w: %d", ErrDuplicateWormholeStart, from)
	}
	if b.reverse[to] != 0 {
		return b, fmt.Errorf("%w: %d", ErrOverlappingWormholeEnd, to)
	}
	b.forward[from] = to
	b.reverse[to] = from
	return b, nil
}

// MustAddWormhole is AddWormhole for static layouts; it panics on error.
func (b *Board) MustAddWormhole(from, to int) *Board {
	if _, err := b.AddWormhole(from, to); err != nil {
		panic(err)
	}
	return b
}

// Lock freezes the wormhole registry. It is safe to call more than once.
func (b *Board) Lock() *Board {
	b.locked = true
	return b
}

func (b *Board) Locked() bool {
	return b.locked
}

// Wormhole returns the destination of the wormhole starting at from.
func (b *Board) Wormhole(from int) (int, bool) {
	if from < 1 || from > b.Size || b.forward[from] == 0 {
		return 0, false
	}
	return b.forward[from], true
}

// ReverseWormhole returns the start of the wormhole ending at to.
func (b *Board) ReverseWormhole(to int) (int, bool) {
	if to < 1 || to > b.Size || b.reverse[to] == 0 {
		return 0, false
	}
	return b.reverse[to], true
}

func (b *Board) WormholesMap() map[int]int {
	m := make(map[int]int)
	for from, to := range b.forward {
		if to != 0 {
			m[from] = to
		}
	}
	return m
}

func (b *Board) ReverseWormholesMap() map[int]int {
	m := make(map[int]int)
	for to, from := range b.reverse {
		if from != 0 {
			m[to] = from
		}
	}
	return m
}

// GetAllWormholes lists every wormhole ordered by start cell.
func (b *Board) GetAllWormholes() []Wormhole {
	all := make([]Wormhole, 0)
	for from, to := range b.forward {
		if to == 0 {
			continue
		}
		kind := Snake
		if to > from {
			kind = Ladder
		}
		all = append(all, Wormhole{From: from, To: to, Kind: kind})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].From < all[j].From })
	return all
}

// Draw rolls the die for the player and resolves the move from its in-progress
// position. The player is not mutated.
func (b *Board) Draw(p *Player) DrawResult {
	drawn := b.dice.Roll(MaxDrawValue)
	return b.Resolve(p, drawn)
}

// Resolve applies a known die value to the player's in-progress position.
func (b *Board) Resolve(p *Player, drawn int) DrawResult {
	from := p.IntermediatePosition()
	candidate := from + drawn
	res := DrawResult{
		DrawnValue:       drawn,
		StandingPosition: p.Position(),
		Entrance:         candidate,
	}
	switch {
	case candidate > b.Size:
		res.MoveType = MoveSkip
		res.NewPosition = from
		res.Entrance = from
	case candidate == b.Size:
		res.MoveType = MoveDraw
		res.NewPosition = b.Size
	case drawn == MaxDrawValue:
		// wormholes are not resolved until the streak ends
		res.MoveType = MoveRollAgain
		res.NewPosition = candidate
	default:
		res.NewPosition = candidate
		res.MoveType = MoveDraw
		if to, ok := b.Wormhole(candidate); ok {
			res.NewPosition = to
			if to > candidate {
				res.MoveType = MoveLadder
			} else {
				res.MoveType = MoveSnake
			}
		}
	}
	return res
}

// DistanceCovered is the net movement relative to the last settled position.
func (d DrawResult) DistanceCovered() int {
	return d.NewPosition - d.StandingPosition
}

// Describe renders a one-line human message for the draw.
func (d DrawResult) Describe() string {
	distance := d.DistanceCovered()
	switch d.MoveType {
	case MoveSkip:
		return "Didn't move."
	case MoveRollAgain:
		return fmt.Sprintf("Scored a %d. Roll again!", MaxDrawValue)
	case MoveSnake:
		// bonus rolls may carry the player past the tail, so measure the bite itself
		return fmt.Sprintf("Got bitten by a snake. Down by %d.", d.Entrance-d.NewPosition)
	case MoveLadder:
		return fmt.Sprintf("Took a ladder. Up by %d.", distance)
	case MoveDraw:
		return fmt.Sprintf("Moved by %d step(s).", distance)
	default:
		return ""
	}
}
