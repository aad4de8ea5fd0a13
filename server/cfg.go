package server

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/wormholes/model"
)

type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	BoardFile      string        `env:"SNAKES_BOARD_FILE"`
	PlayersPerGame int           `env:"SNAKES_PLAYERS_PER_GAME" envDefault:"2"`
	RequestTimeout time.Duration `env:"SNAKES_REQUEST_TIMEOUT" envDefault:"200ms"`
	LogLevel       string        `env:"SNAKES_LOG_LEVEL" envDefault:"info"`
	Seed           int64         `env:"SNAKES_SEED"`
}

// LoadConfig reads the server configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.PlayersPerGame < 2 {
		return cfg, fmt.Errorf("SNAKES_PLAYERS_PER_GAME must be at least 2, got %d", cfg.PlayersPerGame)
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return cfg, fmt.Errorf("SNAKES_LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

// Load reads the board layout from path, or returns the built-in one when path is empty.
func Load(path string) (model.Layout, error) {
	if path == "" {
		return model.DefaultLayout(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return model.Layout{}, err
	}
	defer file.Close()
	l, err := model.ReadLayout(file)
	if err != nil {
		return l, fmt.Errorf("%s: %w", path, err)
	}
	// reject layouts that could never start a game
	if _, err := l.Build(model.NewSequenceRoller()); err != nil {
		return l, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}
