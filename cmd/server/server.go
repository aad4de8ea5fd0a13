package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/wormholes/server"
)

type Server struct {
	router     *way.Router
	GameServer *server.GameServer
}

func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatalln(err)
	}
	level, _ := log.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)

	layout, err := server.Load(cfg.BoardFile)
	if err != nil {
		log.Fatalln(err)
	}
	log.WithFields(log.Fields{
		"board":   layout.Length * layout.Breadth,
		"holes":   len(layout.Wormholes),
		"players": cfg.PlayersPerGame,
	}).Info("board loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := Server{
		GameServer: server.NewGameServer(cfg, layout),
	}
	go s.GameServer.Loop(ctx)
	s.routes()

	httpServer := &http.Server{Addr: ":" + cfg.Port, Handler: s.router}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdown); err != nil {
			log.Warnf("shutdown %v", err)
		}
	}()

	log.Infof("listening on port %s", cfg.Port)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatalln(err)
	}
}
