package model

import (
	"slices"
	"sort"
)

// GetNextBestMove suggests the die value the player should hope for on the next roll.
// It returns 0 when the player is finished or every value lands on a snake.
func (b *Board) GetNextBestMove(p *Player) int {
	from := p.IntermediatePosition()
	if from >= b.Size {
		return 0
	}
	onStrike := p.IsOnStrike()
	target := b.nextLadder(from)
	distance := target - from
	if distance > 0 && distance < MaxDrawValue {
		return distance
	}
	// a maximum draw onto the last cell finishes instead of granting a bonus roll
	if distance == MaxDrawValue && (!onStrike || target == b.Size) {
		return distance
	}
	return b.nextSafeDistance(from, onStrike)
}

// nextLadder returns the nearest ladder entrance ahead of from, or the last cell.
func (b *Board) nextLadder(from int) int {
	for cell := from + 1; cell < b.Size; cell++ {
		if to, ok := b.Wormhole(cell); ok && to > cell {
			return cell
		}
	}
	return b.Size
}

func (b *Board) nextSafeDistance(from int, onStrike bool) int {
	threats := make([]int, 0, MaxDrawValue)
	for d := 1; d <= MaxDrawValue; d++ {
		if to, ok := b.Wormhole(from + d); ok && to < from+d {
			threats = append(threats, from+d)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(threats)))
	if onStrike && from+MaxDrawValue < b.Size && (len(threats) == 0 || threats[0] != from+MaxDrawValue) {
		threats = append([]int{from + MaxDrawValue}, threats...)
	}

	longest := MaxDrawValue
	for _, threat := range threats {
		if longest != threat-from {
			return longest
		}
		longest--
	}
	return longest
}

// GetBestMovesList returns the shortest sequence of die values that takes the
// player from where it stands to the last cell. Among equally short sequences
// the lexicographically smallest wins. Nil means the last cell cannot be
// reached; an empty slice means the player already finished.
func (b *Board) GetBestMovesList(p *Player) []int {
	if p.Position() >= b.Size {
		return []int{}
	}
	start := turnState{cell: p.Position(), banked: p.BankedRolls()}
	parents := map[turnState]parentRoll{start: {}}
	queue := []turnState{start}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for roll := 1; roll <= MaxDrawValue; roll++ {
			next := b.advance(s, roll)
			if _, seen := parents[next]; seen {
				continue
			}
			parents[next] = parentRoll{from: s, roll: roll, set: true}
			if next.cell == b.Size {
				return rollsTo(parents, next)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

// turnState is a settled cell plus the bonus rolls banked on top of it.
type turnState struct {
	cell   int
	banked int
}

type parentRoll struct {
	from turnState
	roll int
	set  bool
}

// advance applies one roll the way Resolve and Player.Update do.
func (b *Board) advance(s turnState, roll int) turnState {
	from := s.cell + MaxDrawValue*s.banked
	candidate := from + roll
	switch {
	case candidate > b.Size:
		return turnState{cell: from}
	case candidate == b.Size:
		return turnState{cell: b.Size}
	case roll == MaxDrawValue:
		if s.banked == StrikeLimit-1 {
			return turnState{cell: s.cell}
		}
		return turnState{cell: s.cell, banked: s.banked + 1}
	}
	if to, ok := b.Wormhole(candidate); ok {
		candidate = to
	}
	return turnState{cell: candidate}
}

func rollsTo(parents map[turnState]parentRoll, end turnState) []int {
	var rolls []int
	for p := parents[end]; p.set; p = parents[p.from] {
		rolls = append(rolls, p.roll)
	}
	slices.Reverse(rolls)
	return rolls
}
