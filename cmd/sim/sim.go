package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zucenko/wormholes/model"
	"golang.org/x/sync/errgroup"
)

// maxTurns caps a single game so a board without a reachable finish cannot hang the run.
const maxTurns = 100000

var errEndless = errors.New("game did not finish")

// playGame plays one full game and returns the number of rolls each player needed.
func playGame(layout model.Layout, players int, seed int64) ([]int, error) {
	dice, err := model.NewRandomRoller(seed)
	if err != nil {
		return nil, err
	}
	board, err := layout.Build(dice)
	if err != nil {
		return nil, err
	}
	names := make([]string, players)
	for i := range names {
		names[i] = fmt.Sprintf("P%d", i+1)
	}
	game, err := model.NewGame(board, names)
	if err != nil {
		return nil, err
	}
	rolls := make([]int, players)
	for turns := 0; game.Status() != model.StatusFinished; turns++ {
		if turns == maxTurns {
			return nil, fmt.Errorf("%w after %d rolls", errEndless, turns)
		}
		t, err := game.PlayTurn()
		if err != nil {
			return nil, err
		}
		rolls[t.PlayerId]++
	}
	return rolls, nil
}

// playGames runs n games on up to workers goroutines. Game i uses seed+i so a
// run is reproducible for a fixed seed.
func playGames(layout model.Layout, n, players, workers int, seed int64) ([]int, error) {
	results := make([][]int, n)
	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			rolls, err := playGame(layout, players, seed+int64(i))
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = rolls
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	samples := make([]int, 0, n*players)
	for _, rolls := range results {
		samples = append(samples, rolls...)
	}
	return samples, nil
}

type summary struct {
	Samples int
	Min     int
	Median  int
	P90     int
	Max     int
	Mean    float64
	Optimal int
}

// summarize reports the roll distribution next to the fewest rolls the
// advisory finds from the start cell.
func summarize(layout model.Layout, samples []int) (summary, error) {
	s := summary{Samples: len(samples)}
	board, err := layout.Build(model.NewSequenceRoller())
	if err != nil {
		return s, err
	}
	s.Optimal = len(board.GetBestMovesList(model.NewPlayer(0, "")))
	if len(samples) == 0 {
		return s, nil
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	total := 0
	for _, v := range sorted {
		total += v
	}
	s.Min = sorted[0]
	s.Median = sorted[len(sorted)/2]
	s.P90 = sorted[len(sorted)*9/10]
	s.Max = sorted[len(sorted)-1]
	s.Mean = float64(total) / float64(len(sorted))
	return s, nil
}
