package model

import "fmt"

// NewGame locks the board and seats the named players in the given order.
func NewGame(board *Board, names []string) (*Game, error) {
	if len(names) == 0 {
		return nil, ErrNoPlayers
	}
	players := make([]*Player, 0, len(names))
	for i, name := range names {
		players = append(players, NewPlayer(int32(i), name))
	}
	board.Lock()
	return &Game{
		board:      board,
		unfinished: players,
		finished:   make([]*Player, 0, len(players)),
	}, nil
}

func (g *Game) Board() *Board {
	return g.board
}

func (g *Game) Status() string {
	if len(g.unfinished) == 0 {
		return StatusFinished
	}
	return StatusInProgress
}

// GetActivePlayer returns the player whose turn it is.
func (g *Game) GetActivePlayer() (*Player, bool) {
	if len(g.unfinished) == 0 {
		return nil, false
	}
	return g.unfinished[g.activeIndex], true
}

// ActiveIndex is the turn cursor into the unfinished players.
func (g *Game) ActiveIndex() int {
	return g.activeIndex
}

// Player finds a player by id among finished and unfinished players.
func (g *Game) Player(id int32) (*Player, bool) {
	for _, p := range g.finished {
		if p.Id == id {
			return p, true
		}
	}
	for _, p := range g.unfinished {
		if p.Id == id {
			return p, true
		}
	}
	return nil, false
}

// GetPlayers lists finished players in ranking order, then unfinished players in turn order.
func (g *Game) GetPlayers() []Standing {
	activeId := int32(-1)
	if p, ok := g.GetActivePlayer(); ok {
		activeId = p.Id
	}
	standings := make([]Standing, 0, len(g.finished)+len(g.unfinished))
	for i, p := range g.finished {
		standings = append(standings, standingOf(p, i+1, false))
	}
	for _, p := range g.unfinished {
		standings = append(standings, standingOf(p, 0, p.Id == activeId))
	}
	return standings
}

func standingOf(p *Player, rank int, active bool) Standing {
	return Standing{
		PlayerId:             p.Id,
		Name:                 p.Name,
		Position:             p.Position(),
		IntermediatePosition: p.IntermediatePosition(),
		Rank:                 rank,
		Active:               active,
	}
}

// GetWinner returns the player that finished at the given 1-based rank.
func (g *Game) GetWinner(rank int) (*Player, error) {
	if rank < 1 || rank > len(g.finished) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRank, rank)
	}
	return g.finished[rank-1], nil
}

func (g *Game) FinishedPlayers() []*Player {
	f := make([]*Player, len(g.finished))
	copy(f, g.finished)
	return f
}

// Turn describes one resolved roll from the game's point of view.
type Turn struct {
	PlayerId int32
	Draw     DrawResult
	TurnOver bool
	Finished bool
}

// PlayNextTurn resolves one roll for the active player. When the roll grants
// a bonus roll the same player stays active and the caller rolls again.
func (g *Game) PlayNextTurn() (DrawResult, error) {
	t, err := g.PlayTurn()
	return t.Draw, err
}

// PlayTurn is PlayNextTurn with the turn bookkeeping exposed.
func (g *Game) PlayTurn() (Turn, error) {
	player, ok := g.GetActivePlayer()
	if !ok {
		return Turn{}, ErrGameFinished
	}
	d := g.board.Draw(player)
	t := Turn{PlayerId: player.Id, Draw: d}
	if t.TurnOver = player.Update(d); !t.TurnOver {
		return t, nil
	}
	if player.Finished(g.board) {
		t.Finished = true
		g.finished = append(g.finished, player)
		g.unfinished = append(g.unfinished[:g.activeIndex], g.unfinished[g.activeIndex+1:]...)
		// the next player slid into the vacated index
		if g.activeIndex >= len(g.unfinished) {
			g.activeIndex = 0
		}
		return t, nil
	}
	g.activeIndex++
	if g.activeIndex >= len(g.unfinished) {
		g.activeIndex = 0
	}
	return t, nil
}
