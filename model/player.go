package model

func NewPlayer(id int32, name string) *Player {
	return &Player{Id: id, Name: name}
}

// Position is the last settled cell, 0 before the first move.
func (p *Player) Position() int {
	return p.position
}

// IntermediatePosition includes the uncommitted advance of the current bonus-roll streak.
func (p *Player) IntermediatePosition() int {
	return p.intermediatePosition
}

func (p *Player) History() []DrawResult {
	h := make([]DrawResult, len(p.history))
	copy(h, p.history)
	return h
}

// LastDraw returns the most recent draw, if any.
func (p *Player) LastDraw() (DrawResult, bool) {
	if len(p.history) == 0 {
		return DrawResult{}, false
	}
	return p.history[len(p.history)-1], true
}

// Update applies a resolved draw and reports whether the turn is over.
func (p *Player) Update(d DrawResult) (turnOver bool) {
	if d.MoveType == MoveRollAgain {
		onStrike := p.IsOnStrike()
		p.history = append(p.history, d)
		if onStrike {
			p.intermediatePosition = p.position
			return true
		}
		p.intermediatePosition += d.DrawnValue
		return false
	}
	p.position = d.NewPosition
	p.intermediatePosition = d.NewPosition
	p.history = append(p.history, d)
	return true
}

// GetPreviousScoresInARowCount is the length of the bonus-roll run at the tail
// of the history. Overshooting or finishing draws of MaxDrawValue end the run.
func (p *Player) GetPreviousScoresInARowCount() int {
	count := 0
	for i := len(p.history) - 1; i >= 0; i-- {
		d := p.history[i]
		if d.MoveType != MoveRollAgain || d.DrawnValue != MaxDrawValue {
			break
		}
		count++
	}
	return count
}

// BankedRolls is the number of bonus rolls collected in the current turn.
func (p *Player) BankedRolls() int {
	return p.GetPreviousScoresInARowCount() % StrikeLimit
}

// IsOnStrike reports whether the next MaxDrawValue would be the third in a row
// this turn and void the turn.
func (p *Player) IsOnStrike() bool {
	return p.BankedRolls() == StrikeLimit-1
}

func (p *Player) Finished(b *Board) bool {
	return p.position == b.Size
}
