// The scenario command runs Lua game scripts and reports broken expectations.
//
//	scenario data/scenarios/*.lua
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/wormholes/scenario"
	"github.com/zucenko/wormholes/server"
)

func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatalln(err)
	}
	level := flag.String("log", cfg.LogLevel, "log level")
	dir := flag.String("dir", "", "run every *.lua script in this directory")
	flag.Parse()

	lvl, err := log.ParseLevel(*level)
	if err != nil {
		log.Fatalln(err)
	}
	log.SetLevel(lvl)

	paths := flag.Args()
	if *dir != "" {
		found, err := filepath.Glob(filepath.Join(*dir, "*.lua"))
		if err != nil {
			log.Fatalln(err)
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		log.Fatalf("no scenario scripts given")
	}

	failed := 0
	for _, path := range paths {
		if !runFile(path) {
			failed++
		}
	}
	fmt.Printf("%d/%d scenarios passed\n", len(paths)-failed, len(paths))
	if failed > 0 {
		os.Exit(1)
	}
}

func runFile(path string) bool {
	s, err := scenario.LoadFile(path)
	if err != nil {
		fmt.Printf("ERROR %s: %v\n", path, err)
		return false
	}
	report, err := scenario.Run(s)
	if err != nil {
		fmt.Printf("ERROR %s: %v\n", path, err)
		return false
	}
	if report.Passed() {
		fmt.Printf("ok    %s (%d turns)\n", report.Name, report.Turns)
		return true
	}
	fmt.Printf("FAIL  %s\n", report.Name)
	for _, f := range report.Failures {
		fmt.Printf("      %s\n", f)
	}
	return false
}
