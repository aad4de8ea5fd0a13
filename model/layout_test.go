package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLayout(t *testing.T) {
	l, err := ReadLayout(strings.NewReader(`
# classic board
10x10
6 30   # first ladder
32 14

27 90
`))
	require.NoError(t, err)
	assert.Equal(t, 10, l.Length)
	assert.Equal(t, 10, l.Breadth)
	assert.Equal(t, []Wormhole{
		{From: 6, To: 30, Kind: Ladder},
		{From: 32, To: 14, Kind: Snake},
		{From: 27, To: 90, Kind: Ladder},
	}, l.Wormholes)
}

func TestReadLayoutErrors(t *testing.T) {
	tcs := map[string]string{
		"missing header":     "# nothing\n",
		"bad header":         "10by10\n",
		"bad length":         "ax10\n",
		"bad breadth":        "10xb\n",
		"too many fields":    "10x10\n1 2 3\n",
		"not a number":       "10x10\n1 two\n",
		"not a number start": "10x10\none 2\n",
	}
	for name, input := range tcs {
		t.Run(name, func(t *testing.T) {
			_, err := ReadLayout(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestReadLayoutReportsLine(t *testing.T) {
	_, err := ReadLayout(strings.NewReader("10x10\n6 30\n\n7\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 4")
}

func TestLayoutBuildValidates(t *testing.T) {
	l := Layout{Length: 10, Breadth: 10, Wormholes: []Wormhole{{From: 6, To: 30}, {From: 7, To: 30}}}
	_, err := l.Build(nil)
	assert.ErrorIs(t, err, ErrOverlappingWormholeEnd)

	_, err = Layout{Length: 0, Breadth: 10}.Build(nil)
	assert.ErrorIs(t, err, ErrInvalidDimension)
}

func TestDefaultLayoutRoundTrip(t *testing.T) {
	b, err := DefaultLayout().Build(nil)
	require.NoError(t, err)
	assert.False(t, b.Locked())
	l := LayoutOf(b)
	assert.Equal(t, 10, l.Length)
	assert.Len(t, l.Wormholes, 6)
	assert.Equal(t, Wormhole{From: 6, To: 30, Kind: Ladder}, l.Wormholes[0])
	assert.Equal(t, Wormhole{From: 98, To: 42, Kind: Snake}, l.Wormholes[5])
}
