package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Layout is the static description of a board: its dimensions and wormholes.
type Layout struct {
	Length, Breadth int
	Wormholes       []Wormhole
}

// DefaultLayout is the classic 10x10 board.
func DefaultLayout() Layout {
	l := Layout{Length: 10, Breadth: 10}
	for _, w := range [][2]int{{6, 30}, {32, 14}, {56, 23}, {98, 42}, {27, 90}, {50, 78}} {
		l.Wormholes = append(l.Wormholes, Wormhole{From: w[0], To: w[1]})
	}
	return l.classify()
}

func (l Layout) classify() Layout {
	for i, w := range l.Wormholes {
		if w.To > w.From {
			l.Wormholes[i].Kind = Ladder
		} else {
			l.Wormholes[i].Kind = Snake
		}
	}
	return l
}

// Build creates an unlocked board carrying every wormhole of the layout.
func (l Layout) Build(dice Roller) (*Board, error) {
	b, err := NewBoard(l.Length, l.Breadth, dice)
	if err != nil {
		return nil, err
	}
	for _, w := range l.Wormholes {
		if _, err := b.AddWormhole(w.From, w.To); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// LayoutOf captures the layout of an existing board.
func LayoutOf(b *Board) Layout {
	return Layout{Length: b.Length, Breadth: b.Breadth, Wormholes: b.GetAllWormholes()}
}

// ReadLayout parses the text layout format:
//
//	# comment
//	10x10
//	6 30
//	32 14
//
// The first non-comment line holds the dimensions, each following line one wormhole.
func ReadLayout(reader io.Reader) (Layout, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)
	var l Layout
	header := false
	line := 0

	for scanner.Scan() {
		line++
		s := scanner.Text()
		if i := strings.IndexByte(s, '#'); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !header {
			dims := strings.Split(strings.ToLower(s), "x")
			if len(dims) != 2 {
				return l, fmt.Errorf("line %d: expected dimensions like 10x10, got %q", line, s)
			}
			var err error
			if l.Length, err = strconv.Atoi(strings.TrimSpace(dims[0])); err != nil {
				return l, fmt.Errorf("line %d: length: %w", line, err)
			}
			if l.Breadth, err = strconv.Atoi(strings.TrimSpace(dims[1])); err != nil {
				return l, fmt.Errorf("line %d: breadth: %w", line, err)
			}
			header = true
			continue
		}
		fields := strings.Fields(s)
		if len(fields) != 2 {
			return l, fmt.Errorf("line %d: expected \"from to\", got %q", line, s)
		}
		from, err := strconv.Atoi(fields[0])
		if err != nil {
			return l, fmt.Errorf("line %d: from: %w", line, err)
		}
		to, err := strconv.Atoi(fields[1])
		if err != nil {
			return l, fmt.Errorf("line %d: to: %w", line, err)
		}
		l.Wormholes = append(l.Wormholes, Wormhole{From: from, To: to})
	}
	if err := scanner.Err(); err != nil {
		return l, err
	}
	if !header {
		return l, fmt.Errorf("missing board dimensions")
	}
	return l.classify(), nil
}
