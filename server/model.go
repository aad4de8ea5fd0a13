package server

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/zucenko/wormholes/model"
)

type GameServer struct {
	Config       Config
	Layout       model.Layout
	Dice         func() (model.Roller, error)
	GameSessions []*GameSession
	GameRequests chan GameRequest
	// Releases returns seats of players that never reached their session.
	Releases chan *GameSession
	Upgrader     *websocket.Upgrader
}

type GameSessionState int

const (
	GS_NEW GameSessionState = iota
	GS_WAIT
	GS_PLAY
	GS_ERR
	GS_OVER
)

type GameSession struct {
	Id                    string
	State                 GameSessionState
	Layout                model.Layout
	Dice                  model.Roller
	Game                  *model.Game
	Capacity              int
	PlayerSessions        []*PlayerSession
	Errors                chan int32
	Events                chan PlayerEvent
	PlayerConnectRequests chan PlayerConnectRequest

	// reserved is owned by GameServer.Loop
	reserved int
	done     chan struct{}
}

type PlayerSessionState int

const (
	PS_NEW PlayerSessionState = iota + 1
	PS_PLAY
	PS_OVER
	PS_ERR
	PS_ERR_SEC
)

type PlayerSession struct {
	State       PlayerSessionState
	Id          int32
	Name        string
	GameSession *GameSession
	Conn        *websocket.Conn
	GameOver    chan struct{}

	MessagesToSend chan model.ServerMessage

	DebugInMessages  int
	DebugOutMessages int
	DebugLastMessage time.Time
	DebugLastPing    time.Time
	DebugPings       int
}
