// The sim command plays many random games on a board layout and reports how
// many rolls players need to finish.
package main

import (
	"flag"
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/wormholes/model"
	"github.com/zucenko/wormholes/server"
)

func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatalln(err)
	}
	var (
		verbose = flag.Bool("verbose", false, "verbose/debug")
		board   = flag.String("board", cfg.BoardFile, "board layout file, empty for the built-in board")
		players = flag.Int("players", cfg.PlayersPerGame, "number of players per game")
		n       = flag.Int("n", 10000, "number of games to simulate")
		seed    = flag.Int64("seed", cfg.Seed, "base seed, 0 for a random one")
		workers = flag.Int("workers", runtime.GOMAXPROCS(0), "concurrent games")
	)
	flag.Parse()
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if *n < 1 || *players < 1 || *workers < 1 {
		log.Fatalf("n, players and workers must be positive")
	}

	layout, err := server.Load(*board)
	if err != nil {
		log.Fatalln(err)
	}
	if *seed == 0 {
		if *seed, err = model.NewSeed(); err != nil {
			log.Fatalln(err)
		}
	}
	log.WithFields(log.Fields{"games": *n, "players": *players, "seed": *seed}).Debug("simulating")

	samples, err := playGames(layout, *n, *players, *workers, *seed)
	if err != nil {
		log.Fatalln(err)
	}
	s, err := summarize(layout, samples)
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Printf("%s games, %s finishes\n", humanize.Comma(int64(*n)), humanize.Comma(int64(s.Samples)))
	fmt.Println("min", s.Min)
	fmt.Println("med", s.Median)
	fmt.Println("90p", s.P90)
	fmt.Println("max", s.Max)
	fmt.Printf("mean %.2f\n", s.Mean)
	fmt.Println("best", s.Optimal)
}
