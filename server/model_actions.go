package server

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/wormholes/model"
)

func NewGameServer(cfg Config, layout model.Layout) *GameServer {
	return &GameServer{
		Config: cfg,
		Layout: layout,
		Dice: func() (model.Roller, error) {
			return model.NewRandomRoller(cfg.Seed)
		},
		GameSessions: make([]*GameSession, 0),
		GameRequests: make(chan GameRequest),
		Releases:     make(chan *GameSession),
		Upgrader:     &websocket.Upgrader{},
	}
}

func (s *GameServer) HandleHttpCall() http.HandlerFunc {
	timeout := s.Config.RequestTimeout
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		log.WithField("name", name).Info("HandleHttpCall - connection received")
		if !ValidName(name) {
			log.Warnf("HandleHttpCall invalid player name %q", name)
			w.WriteHeader(GAME_INVALIDE.ToHttp())
			return
		}
		if !websocket.IsWebSocketUpgrade(r) {
			log.Warnf("HandleHttpCall %s is not a websocket upgrade", name)
			w.WriteHeader(GAME_INVALIDE.ToHttp())
			return
		}

		gcas := make(chan GameContextAwaiting, 1)
		select {
		case s.GameRequests <- GameRequest{GameContextAwaiting: gcas}:
			log.Debug("HandleHttpCall -> GameServer.GameRequests")
		case <-time.After(timeout):
			log.Warn("GameRequests TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		var gca GameContextAwaiting
		select {
		case gca = <-gcas:
			log.Debugf("HandleHttpCall GameContextAwaiting <- code:%d", gca.ResponseCode)
			switch gca.ResponseCode {
			case GAME_NOT_FOUND:
				fallthrough
			case GAME_INVALIDE:
				w.WriteHeader(gca.ResponseCode.ToHttp())
				return
			case GAME_READY:
			default:
				log.Errorf("gca.ResponseCode not expected:%v", gca.ResponseCode)
				w.WriteHeader(HTTP_SERVER_ERR)
				return
			}
		case <-time.After(timeout):
			log.Warn("HandleHttpCall GameContextAwaiting <- TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already replied to the client
			log.Warnf("HandleHttpCall websocket upgrade err %v", err)
			s.release(gca.GameSession, timeout)
			return
		}
		defer con.Close()

		gameOver := make(chan struct{})
		select {
		case gca.GameSession.PlayerConnectRequests <- PlayerConnectRequest{
			Con:      con,
			Name:     name,
			GameOver: gameOver}:
		case <-time.After(timeout):
			log.Warnf("HandleHttpCall session %s did not accept %s", gca.GameSession.Id, name)
			s.release(gca.GameSession, timeout)
			return
		}

		log.WithField("session", gca.GameSession.Id).Debug("HandleHttpCall waiting for game over")
		<-gameOver
	}
}

type boardView struct {
	Length    int
	Breadth   int
	Size      int
	Wormholes []wormholeView
	Matrix    [][]int
}

type wormholeView struct {
	From int
	To   int
	Kind string
}

// HandleBoard serves the board layout for renderers.
func (s *GameServer) HandleBoard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := s.Layout.Build(model.NewSequenceRoller())
		if err != nil {
			log.Errorf("HandleBoard %v", err)
			w.WriteHeader(HTTP_SERVER_ERR)
			return
		}
		view := boardView{Length: b.Length, Breadth: b.Breadth, Size: b.Size, Matrix: b.Matrix()}
		for _, wh := range b.GetAllWormholes() {
			view.Wormholes = append(view.Wormholes, wormholeView{From: wh.From, To: wh.To, Kind: wh.Kind.String()})
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(view); err != nil {
			log.Warnf("HandleBoard write %v", err)
		}
	}
}

// release gives back a seat reserved for a player that never joined.
func (s *GameServer) release(gs *GameSession, timeout time.Duration) {
	select {
	case s.Releases <- gs:
	case <-time.After(timeout):
		log.Errorf("seat in session %s could not be released", gs.Id)
	}
}

// Loop matches game requests to sessions until ctx is done.
func (s *GameServer) Loop(ctx context.Context) {
	log.Info("GameServer.Loop starting")
	for {
		select {
		case <-ctx.Done():
			log.Info("GameServer.Loop stopped")
			return
		case gs := <-s.Releases:
			if gs.reserved > 0 {
				gs.reserved--
			}
			log.WithField("session", gs.Id).Debugf("seat released, %d reserved", gs.reserved)
		case gameReq := <-s.GameRequests:
			var gs *GameSession
			live := s.GameSessions[:0]
			for _, candidate := range s.GameSessions {
				select {
				case <-candidate.done:
					continue
				default:
				}
				live = append(live, candidate)
				if gs == nil && candidate.reserved < candidate.Capacity {
					gs = candidate
				}
			}
			s.GameSessions = live
			if gs == nil {
				dice, err := s.Dice()
				if err != nil {
					log.Errorf("GameServer.Loop dice %v", err)
					gameReq.GameContextAwaiting <- GameContextAwaiting{ResponseCode: GAME_NOT_FOUND}
					continue
				}
				gs = NewGameSession(s.Layout, dice, s.Config.PlayersPerGame)
				log.WithField("session", gs.Id).Info("create GameSession")
				go gs.Loop()
				s.GameSessions = append(s.GameSessions, gs)
			}
			gs.reserved++
			gameReq.GameContextAwaiting <- GameContextAwaiting{
				ResponseCode: GAME_READY,
				GameSession:  gs,
			}
		}
	}
}

func NewGameSession(layout model.Layout, dice model.Roller, capacity int) *GameSession {
	return &GameSession{
		Id:                    uuid.NewString(),
		State:                 GS_NEW,
		Layout:                layout,
		Dice:                  dice,
		Capacity:              capacity,
		PlayerSessions:        make([]*PlayerSession, 0, capacity),
		Errors:                make(chan int32),
		Events:                make(chan PlayerEvent, capacity),
		PlayerConnectRequests: make(chan PlayerConnectRequest),
		done:                  make(chan struct{}),
	}
}

func (gs *GameSession) Loop() {
	logger := log.WithField("session", gs.Id)
	logger.Info("GameSession.Loop start")
	defer close(gs.done)
	for {
		select {
		case pcr := <-gs.PlayerConnectRequests:
			ps := gs.addPlayer(pcr.Con, pcr.Name, pcr.GameOver)
			logger.WithField("player", ps.Name).Info("GameSession.Loop player joined")
			if len(gs.PlayerSessions) < gs.Capacity {
				gs.State = GS_WAIT
				continue
			}
			if err := gs.Start(); err != nil {
				logger.Errorf("GameSession.Loop start %v", err)
				gs.State = GS_ERR
				gs.closePlayers()
				return
			}
			for _, ps := range gs.PlayerSessions {
				ps.State = PS_PLAY
				ps.send(gs.MakeGameSetupMessage(ps.Id))
			}
		case errPlayer := <-gs.Errors:
			logger.Warnf("killing GS, player %d failed", errPlayer)
			gs.State = GS_ERR
			for _, ps := range gs.PlayerSessions {
				if ps.Id == errPlayer {
					ps.State = PS_ERR
				} else {
					ps.State = PS_ERR_SEC
				}
			}
			gs.closePlayers()
			return
		case pe := <-gs.Events:
			for id, message := range gs.Turn(pe) {
				if ps := gs.playerSession(id); ps != nil {
					ps.send(*message)
				}
			}
			if gs.State == GS_OVER {
				logger.Info("GameSession.Loop game over")
				for _, ps := range gs.PlayerSessions {
					ps.State = PS_OVER
				}
				gs.closePlayers()
				return
			}
		}
	}
}

// Start creates the game from the connected players in join order.
func (gs *GameSession) Start() error {
	names := make([]string, 0, len(gs.PlayerSessions))
	for _, ps := range gs.PlayerSessions {
		names = append(names, ps.Name)
	}
	board, err := gs.Layout.Build(gs.Dice)
	if err != nil {
		return err
	}
	game, err := model.NewGame(board, names)
	if err != nil {
		return err
	}
	gs.Game = game
	gs.State = GS_PLAY
	return nil
}

// Turn plays a roll request and returns the message each player should receive.
func (gs *GameSession) Turn(pe PlayerEvent) map[int32]*model.ServerMessage {
	messages := make(map[int32]*model.ServerMessage)
	reject := func(reason string) map[int32]*model.ServerMessage {
		messages[pe.Player] = &model.ServerMessage{Rejects: []model.Reject{{Reason: reason}}}
		return messages
	}
	if gs.State != GS_PLAY || gs.Game == nil {
		return reject("game not started")
	}
	if !pe.GameEvent.Roll {
		return reject("unknown request")
	}
	active, ok := gs.Game.GetActivePlayer()
	if !ok {
		return reject("game is finished")
	}
	if active.Id != pe.Player {
		return reject("not your turn")
	}
	turn, err := gs.Game.PlayTurn()
	if err != nil {
		return reject(err.Error())
	}
	log.WithFields(log.Fields{
		"session": gs.Id,
		"player":  turn.PlayerId,
		"drawn":   turn.Draw.DrawnValue,
		"move":    turn.Draw.MoveType,
	}).Debug("GameSession.Turn")

	over := gs.Game.Status() == model.StatusFinished
	if over {
		gs.State = GS_OVER
	}
	standings := gs.Game.GetPlayers()
	for _, ps := range gs.PlayerSessions {
		messages[ps.Id] = &model.ServerMessage{
			Draws:     []model.DrawMessage{model.NewDrawMessage(turn.PlayerId, turn.Draw, turn.TurnOver)},
			Standings: standings,
			GameOver:  over,
		}
	}
	if next, ok := gs.Game.GetActivePlayer(); ok {
		if m, found := messages[next.Id]; found {
			m.Advices = []model.Advice{gs.advice(next)}
		}
	}
	return messages
}

func (gs *GameSession) advice(p *model.Player) model.Advice {
	board := gs.Game.Board()
	return model.Advice{
		PlayerKey:    p.Id,
		NextBestMove: board.GetNextBestMove(p),
		BestMoves:    board.GetBestMovesList(p),
	}
}

func (gs *GameSession) MakeGameSetupMessage(pid int32) model.ServerMessage {
	board := gs.Game.Board()
	m := model.ServerMessage{
		Setup: []model.Setup{{
			Length:    board.Length,
			Breadth:   board.Breadth,
			PlayerKey: pid,
			Players:   gs.Game.GetPlayers(),
			Wormholes: board.GetAllWormholes(),
		}},
	}
	if active, ok := gs.Game.GetActivePlayer(); ok && active.Id == pid {
		m.Advices = []model.Advice{gs.advice(active)}
	}
	return m
}

func (gs *GameSession) playerSession(id int32) *PlayerSession {
	for _, ps := range gs.PlayerSessions {
		if ps.Id == id {
			return ps
		}
	}
	return nil
}

// closePlayers stops every write loop; each one releases its HTTP handler.
func (gs *GameSession) closePlayers() {
	for _, ps := range gs.PlayerSessions {
		log.WithFields(log.Fields{
			"session": gs.Id,
			"state":   gs.State.Name(),
			"player":  ps.Name,
			"pstate":  ps.State.Name(),
		}).Info("closing player")
		close(ps.MessagesToSend)
	}
}

func (gs *GameSession) addPlayer(
	conn *websocket.Conn,
	name string,
	gameOver chan struct{},
) *PlayerSession {
	ps := &PlayerSession{
		State:          PS_NEW,
		Id:             int32(len(gs.PlayerSessions)),
		Name:           name,
		GameSession:    gs,
		Conn:           conn,
		GameOver:       gameOver,
		MessagesToSend: make(chan model.ServerMessage, 10),
	}
	if conn != nil {
		conn.SetPingHandler(
			func(message string) error {
				err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
				ps.DebugLastPing = time.Now()
				ps.DebugPings++
				if err == websocket.ErrCloseSent {
					return nil
				} else if e, ok := err.(net.Error); ok && e.Timeout() {
					return nil
				}
				return err
			})
		go ps.LoopChannelRead()
		go ps.LoopChannelWrite()
	}
	gs.PlayerSessions = append(gs.PlayerSessions, ps)
	return ps
}

func (ps *PlayerSession) send(m model.ServerMessage) {
	select {
	case ps.MessagesToSend <- m:
	default:
		log.Warnf("PlayerSession %d outgoing buffer FULL, dropping message", ps.Id)
	}
}

func (ps *PlayerSession) fail() {
	select {
	case ps.GameSession.Errors <- ps.Id:
	case <-ps.GameSession.done:
	}
}

func (ps *PlayerSession) LoopChannelRead() {
	log.Debugf("LoopChannelRead STARTED %d", ps.Id)
loop:
	for {
		_, r, err := ps.Conn.NextReader()
		if err != nil {
			log.Debugf("LoopChannelRead %d err reading message from Conn %v", ps.Id, err)
			ps.fail()
			break loop
		}
		cm := &model.ClientMessage{}
		if err := gob.NewDecoder(r).Decode(cm); err != nil {
			log.Warnf("LoopChannelRead %d cant decode %v", ps.Id, err)
			ps.fail()
			break loop
		}
		ps.DebugLastMessage = time.Now()
		ps.DebugInMessages++

		select {
		case ps.GameSession.Events <- PlayerEvent{
			Player:    ps.Id,
			GameEvent: GameEvent{Roll: cm.Roll},
		}:
		case <-ps.GameSession.done:
			break loop
		default:
			log.Warnf("Dropping message read from socket, GameSession.Events FULL")
		}
	}
	log.Debugf("LoopChannelRead ENDED %d", ps.Id)
}

// LoopChannelWrite owns the GameOver channel and closes it once the session
// stops sending.
func (ps *PlayerSession) LoopChannelWrite() {
	log.Debugf("PlayerSession.LoopChannelWrite STARTED %d", ps.Id)
	defer close(ps.GameOver)
	for mes := range ps.MessagesToSend {
		w, err := ps.Conn.NextWriter(websocket.BinaryMessage)
		if err != nil {
			log.Warnf("PlayerSession.LoopChannelWrite cant get writer %v", err)
			ps.fail()
			return
		}
		if err := gob.NewEncoder(w).Encode(mes); err != nil {
			log.Warnf("PlayerSession.LoopChannelWrite cant encode %v", err)
			ps.fail()
			return
		}
		if err := w.Close(); err != nil {
			log.Warnf("PlayerSession.LoopChannelWrite cant flush %v", err)
			ps.fail()
			return
		}
		ps.DebugOutMessages++
	}
	log.Debugf("PlayerSession.LoopChannelWrite ENDED %d after %d messages", ps.Id, ps.DebugOutMessages)
}
