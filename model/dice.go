package model

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Roller is the source of die values. Roll returns a value in 1..sides.
type Roller interface {
	Roll(sides int) int
}

type randomRoller struct {
	rng *rand.Rand
}

// NewRandomRoller returns a pseudo-random roller. A zero seed draws one from crypto/rand.
func NewRandomRoller(seed int64) (Roller, error) {
	if seed == 0 {
		var err error
		if seed, err = NewSeed(); err != nil {
			return nil, err
		}
	}
	return &randomRoller{rng: rand.New(rand.NewSource(seed))}, nil
}

func (r *randomRoller) Roll(sides int) int {
	return r.rng.Intn(sides) + 1
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// SequenceRoller replays fixed values in order and wraps around when exhausted.
type SequenceRoller struct {
	Values []int
	next   int
}

func NewSequenceRoller(values ...int) *SequenceRoller {
	return &SequenceRoller{Values: values}
}

func (s *SequenceRoller) Roll(sides int) int {
	if len(s.Values) == 0 {
		return 1
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	if v < 1 {
		v = 1
	}
	if v > sides {
		v = sides
	}
	return v
}

// Remaining reports how many scripted values are left before wrapping.
func (s *SequenceRoller) Remaining() int {
	if s.next >= len(s.Values) {
		return 0
	}
	return len(s.Values) - s.next
}
