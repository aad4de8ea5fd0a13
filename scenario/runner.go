package scenario

import (
	"errors"
	"fmt"
	"slices"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/wormholes/model"
)

var ErrNoRoster = errors.New("scenario declares no players")

// Failure is an expectation that did not hold.
type Failure struct {
	Where   string
	Message string
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %s", f.Where, f.Message)
}

// Report is the outcome of one scenario run.
type Report struct {
	Name     string
	Turns    int
	Failures []Failure
}

func (r Report) Passed() bool {
	return len(r.Failures) == 0
}

type run struct {
	game   *model.Game
	ids    map[string]int32
	last   *model.DrawResult
	report *Report
}

// Run replays the scenario. Setup problems are returned as errors; broken
// expectations end up in the report.
func Run(s *Scenario) (Report, error) {
	report := Report{Name: s.Name}
	layout, names, dice, err := prepare(s)
	if err != nil {
		return report, fmt.Errorf("%s: %w", s.Name, err)
	}
	roller := model.NewSequenceRoller(dice...)
	board, err := layout.Build(roller)
	if err != nil {
		return report, fmt.Errorf("%s: %w", s.Name, err)
	}
	game, err := model.NewGame(board, names)
	if err != nil {
		return report, fmt.Errorf("%s: %w", s.Name, err)
	}
	r := &run{game: game, ids: make(map[string]int32), report: &report}
	for i, name := range names {
		r.ids[name] = int32(i)
	}

	logger := log.WithField("scenario", s.Name)
	for _, step := range s.Steps {
		logger.WithFields(log.Fields{"step": step.Kind, "at": step.Where}).Debug("scenario step")
		r.step(step)
	}
	if left := roller.Remaining(); left > 0 {
		logger.Warnf("%d scripted roll(s) never played", left)
	}
	logger.WithFields(log.Fields{"turns": report.Turns, "failures": len(report.Failures)}).Info("scenario done")
	return report, nil
}

// prepare gathers the board, the roster and the dice script. Board and roster
// steps must come before the first roll, and the board before its wormholes.
func prepare(s *Scenario) (model.Layout, []string, []int, error) {
	layout := model.DefaultLayout()
	var names []string
	var dice []int
	custom := false
	wormholes := 0
	for _, step := range s.Steps {
		if (step.Kind == "board" || step.Kind == "default_board") && wormholes > 0 {
			return layout, nil, nil, fmt.Errorf("%s: board declared after wormholes", step.Where)
		}
		switch step.Kind {
		case "default_board":
			layout = model.DefaultLayout()
			custom = false
		case "board":
			if !custom {
				layout = model.Layout{}
				custom = true
			}
			layout.Length = step.Args["length"].(int)
			layout.Breadth = step.Args["breadth"].(int)
		case "wormhole":
			if len(dice) > 0 {
				return layout, nil, nil, fmt.Errorf("%s: wormhole added after the first roll", step.Where)
			}
			wormholes++
			layout.Wormholes = append(layout.Wormholes, model.Wormhole{
				From: step.Args["from"].(int),
				To:   step.Args["to"].(int),
			})
		case "players":
			if len(dice) > 0 || names != nil {
				return layout, nil, nil, fmt.Errorf("%s: players must be declared once before rolling", step.Where)
			}
			names = step.Args["names"].([]string)
			seen := make(map[string]bool)
			for _, n := range names {
				if seen[n] {
					return layout, nil, nil, fmt.Errorf("%s: duplicate player %q", step.Where, n)
				}
				seen[n] = true
			}
		case "roll":
			dice = append(dice, step.Args["value"].(int))
		}
	}
	if len(names) == 0 {
		return layout, nil, nil, ErrNoRoster
	}
	return layout, names, dice, nil
}

func (r *run) fail(step Step, format string, args ...any) {
	r.report.Failures = append(r.report.Failures, Failure{Where: step.Where, Message: fmt.Sprintf(format, args...)})
}

func (r *run) player(step Step) (*model.Player, bool) {
	name := step.Args["name"].(string)
	id, ok := r.ids[name]
	if !ok {
		r.fail(step, "unknown player %q", name)
		return nil, false
	}
	p, ok := r.game.Player(id)
	return p, ok
}

func (r *run) step(step Step) {
	switch step.Kind {
	case "roll":
		d, err := r.game.PlayNextTurn()
		if err != nil {
			r.fail(step, "roll %d: %v", step.Args["value"], err)
			return
		}
		r.report.Turns++
		r.last = &d
	case "expect_position":
		if p, ok := r.player(step); ok {
			if want := step.Args["cell"].(int); p.Position() != want {
				r.fail(step, "%s is on %d, expected %d", p.Name, p.Position(), want)
			}
		}
	case "expect_intermediate":
		if p, ok := r.player(step); ok {
			if want := step.Args["cell"].(int); p.IntermediatePosition() != want {
				r.fail(step, "%s is passing %d, expected %d", p.Name, p.IntermediatePosition(), want)
			}
		}
	case "expect_move":
		want := model.MoveType(step.Args["move"].(string))
		switch {
		case r.last == nil:
			r.fail(step, "expected a %s move before any roll", want)
		case r.last.MoveType != want:
			r.fail(step, "last move was %s, expected %s", r.last.MoveType, want)
		}
	case "expect_active":
		want := step.Args["name"].(string)
		active, ok := r.game.GetActivePlayer()
		switch {
		case !ok:
			r.fail(step, "no active player, expected %s", want)
		case active.Name != want:
			r.fail(step, "%s is active, expected %s", active.Name, want)
		}
	case "expect_winner":
		rank, want := step.Args["rank"].(int), step.Args["name"].(string)
		winner, err := r.game.GetWinner(rank)
		switch {
		case err != nil:
			r.fail(step, "rank %d: %v", rank, err)
		case winner.Name != want:
			r.fail(step, "rank %d is %s, expected %s", rank, winner.Name, want)
		}
	case "expect_finished":
		if status := r.game.Status(); status != model.StatusFinished {
			r.fail(step, "game is %s", status)
		}
	case "expect_next_best":
		if p, ok := r.player(step); ok {
			got := r.game.Board().GetNextBestMove(p)
			if want := step.Args["value"].(int); got != want {
				r.fail(step, "next best move for %s is %d, expected %d", p.Name, got, want)
			}
		}
	case "expect_best_moves":
		if p, ok := r.player(step); ok {
			got := r.game.Board().GetBestMovesList(p)
			if want := step.Args["moves"].([]int); !slices.Equal(got, want) {
				r.fail(step, "best moves for %s are %v, expected %v", p.Name, got, want)
			}
		}
	}
}
