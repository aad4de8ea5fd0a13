package server

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/wormholes/model"
)

func newTestSession(t *testing.T, layout model.Layout, dice ...int) *GameSession {
	t.Helper()
	gs := NewGameSession(layout, model.NewSequenceRoller(dice...), 2)
	gs.addPlayer(nil, "Ann", make(chan struct{}))
	gs.addPlayer(nil, "Bob", make(chan struct{}))
	require.NoError(t, gs.Start())
	return gs
}

func roll(pid int32) PlayerEvent {
	return PlayerEvent{Player: pid, GameEvent: GameEvent{Roll: true}}
}

func TestTurnRejectsBeforeStart(t *testing.T) {
	gs := NewGameSession(model.DefaultLayout(), model.NewSequenceRoller(), 2)
	messages := gs.Turn(roll(0))
	require.Contains(t, messages, int32(0))
	assert.Equal(t, "game not started", messages[0].Rejects[0].Reason)
}

func TestTurnRejectsOutOfTurn(t *testing.T) {
	gs := newTestSession(t, model.DefaultLayout(), 3)
	messages := gs.Turn(roll(1))
	require.Len(t, messages, 1)
	assert.Equal(t, "not your turn", messages[1].Rejects[0].Reason)

	messages = gs.Turn(PlayerEvent{Player: 0})
	assert.Equal(t, "unknown request", messages[0].Rejects[0].Reason)
}

func TestTurnBroadcastsDrawAndAdvisesNextPlayer(t *testing.T) {
	gs := newTestSession(t, model.DefaultLayout(), 5)
	messages := gs.Turn(roll(0))
	require.Len(t, messages, 2)

	for _, id := range []int32{0, 1} {
		m := messages[id]
		require.Len(t, m.Draws, 1)
		d := m.Draws[0]
		assert.Equal(t, int32(0), d.PlayerKey)
		assert.Equal(t, model.MoveDraw, d.MoveType)
		assert.Equal(t, 5, d.NewPosition)
		assert.Equal(t, "Moved by 5 step(s).", d.Message)
		assert.True(t, d.TurnOver)
		assert.False(t, m.GameOver)
		require.Len(t, m.Standings, 2)
		assert.True(t, m.Standings[1].Active)
	}
	assert.Empty(t, messages[0].Advices)
	require.Len(t, messages[1].Advices, 1)
	assert.Equal(t, 6, messages[1].Advices[0].NextBestMove)
	assert.NotEmpty(t, messages[1].Advices[0].BestMoves)
}

func TestTurnBonusRollKeepsPlayer(t *testing.T) {
	gs := newTestSession(t, model.DefaultLayout(), 6)
	messages := gs.Turn(roll(0))
	assert.Equal(t, model.MoveRollAgain, messages[0].Draws[0].MoveType)
	assert.False(t, messages[0].Draws[0].TurnOver)
	require.Len(t, messages[0].Advices, 1)
	assert.Empty(t, messages[1].Advices)
}

func TestTurnEndsGame(t *testing.T) {
	gs := newTestSession(t, model.Layout{Length: 3, Breadth: 1}, 3)
	gs.Turn(roll(0))
	assert.Equal(t, GS_PLAY, gs.State)
	messages := gs.Turn(roll(1))
	assert.True(t, messages[0].GameOver)
	assert.Equal(t, GS_OVER, gs.State)

	winner, err := gs.Game.GetWinner(1)
	require.NoError(t, err)
	assert.Equal(t, "Ann", winner.Name)

	messages = gs.Turn(roll(0))
	assert.Equal(t, "game not started", messages[0].Rejects[0].Reason)
}

func TestMakeGameSetupMessage(t *testing.T) {
	gs := newTestSession(t, model.DefaultLayout())
	m := gs.MakeGameSetupMessage(0)
	require.Len(t, m.Setup, 1)
	assert.Equal(t, 10, m.Setup[0].Length)
	assert.Len(t, m.Setup[0].Wormholes, 6)
	assert.Len(t, m.Setup[0].Players, 2)
	require.Len(t, m.Advices, 1)
	assert.Equal(t, 6, m.Advices[0].NextBestMove)

	assert.Empty(t, gs.MakeGameSetupMessage(1).Advices)
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("Ann"))
	assert.True(t, ValidName(strings.Repeat("a", 30)))
	assert.False(t, ValidName("A"))
	assert.False(t, ValidName(strings.Repeat("a", 31)))
	assert.False(t, ValidName("Ann1"))
	assert.False(t, ValidName(""))
}

func startServer(t *testing.T, layout model.Layout, dice ...int) *httptest.Server {
	t.Helper()
	cfg := Config{PlayersPerGame: 2, RequestTimeout: time.Second}
	gs := NewGameServer(cfg, layout)
	gs.Dice = func() (model.Roller, error) {
		return model.NewSequenceRoller(dice...), nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	go gs.Loop(ctx)

	mux := http.NewServeMux()
	mux.Handle("/play", gs.HandleHttpCall())
	mux.Handle("/board", gs.HandleBoard())
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv
}

func dial(t *testing.T, srv *httptest.Server, name string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/play?name=" + name
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) model.ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, r, err := conn.NextReader()
	require.NoError(t, err)
	var m model.ServerMessage
	require.NoError(t, gob.NewDecoder(r).Decode(&m))
	return m
}

func write(t *testing.T, conn *websocket.Conn, cm model.ClientMessage) {
	t.Helper()
	w, err := conn.NextWriter(websocket.BinaryMessage)
	require.NoError(t, err)
	require.NoError(t, gob.NewEncoder(w).Encode(cm))
	require.NoError(t, w.Close())
}

// seat reads the setup messages and returns the connections ordered by turn.
func seat(t *testing.T, a, b *websocket.Conn) (active, waiting *websocket.Conn) {
	t.Helper()
	setupA := read(t, a)
	setupB := read(t, b)
	require.Len(t, setupA.Setup, 1)
	require.Len(t, setupB.Setup, 1)
	if len(setupA.Advices) == 1 {
		assert.Empty(t, setupB.Advices)
		return a, b
	}
	require.Len(t, setupB.Advices, 1)
	return b, a
}

func TestPlayOverWebsocket(t *testing.T) {
	srv := startServer(t, model.DefaultLayout(), 5)
	active, waiting := seat(t, dial(t, srv, "Ann"), dial(t, srv, "Bob"))

	write(t, waiting, model.ClientMessage{Roll: true})
	m := read(t, waiting)
	require.Len(t, m.Rejects, 1)
	assert.Equal(t, "not your turn", m.Rejects[0].Reason)

	write(t, active, model.ClientMessage{Roll: true})
	for _, conn := range []*websocket.Conn{active, waiting} {
		m := read(t, conn)
		require.Len(t, m.Draws, 1)
		assert.Equal(t, model.MoveDraw, m.Draws[0].MoveType)
		assert.Equal(t, 5, m.Draws[0].NewPosition)
	}
}

func TestGameOverClosesSockets(t *testing.T) {
	srv := startServer(t, model.Layout{Length: 3, Breadth: 1}, 3)
	first, second := seat(t, dial(t, srv, "Ann"), dial(t, srv, "Bob"))

	write(t, first, model.ClientMessage{Roll: true})
	assert.True(t, read(t, first).Draws[0].TurnOver)
	m := read(t, second)
	require.Len(t, m.Advices, 1)
	assert.Equal(t, []int{3}, m.Advices[0].BestMoves)

	write(t, second, model.ClientMessage{Roll: true})
	for _, conn := range []*websocket.Conn{first, second} {
		assert.True(t, read(t, conn).GameOver)
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		_, _, err := conn.NextReader()
		assert.Error(t, err)
	}
}

func TestHandleHttpCallRejectsInvalidName(t *testing.T) {
	srv := startServer(t, model.DefaultLayout())
	resp, err := http.Get(srv.URL + "/play?name=R2D2")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleBoard(t *testing.T) {
	srv := startServer(t, model.DefaultLayout())
	resp, err := http.Get(srv.URL + "/board")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view boardView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, 100, view.Size)
	require.Len(t, view.Wormholes, 6)
	assert.Equal(t, wormholeView{From: 6, To: 30, Kind: "ladder"}, view.Wormholes[0])
	assert.Len(t, view.Matrix, 10)
}

func TestStateNames(t *testing.T) {
	assert.Equal(t, "GS_PLAY", GS_PLAY.Name())
	assert.Equal(t, "n/a:9", GameSessionState(9).Name())
	assert.Equal(t, "ERR_SEC", PS_ERR_SEC.Name())
	assert.Equal(t, http.StatusNotFound, GAME_NOT_FOUND.ToHttp())
}

func TestPlainGetTakesNoSeat(t *testing.T) {
	srv := startServer(t, model.DefaultLayout(), 5)
	resp, err := http.Get(srv.URL + "/play?name=Zed")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	seat(t, dial(t, srv, "Ann"), dial(t, srv, "Bob"))
}

func TestReleasedSeatIsReused(t *testing.T) {
	gs := NewGameServer(Config{PlayersPerGame: 2, RequestTimeout: time.Second}, model.DefaultLayout())
	gs.Dice = func() (model.Roller, error) { return model.NewSequenceRoller(), nil }
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go gs.Loop(ctx)

	request := func() *GameSession {
		gcas := make(chan GameContextAwaiting, 1)
		gs.GameRequests <- GameRequest{GameContextAwaiting: gcas}
		gca := <-gcas
		require.Equal(t, GAME_READY, gca.ResponseCode)
		return gca.GameSession
	}

	first := request()
	gs.release(first, time.Second)
	second := request()
	third := request()
	assert.Same(t, first, second)
	assert.Same(t, first, third)
	assert.NotSame(t, first, request())
}
