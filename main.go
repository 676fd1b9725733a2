package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/milk9111/ponder/config"
	"github.com/milk9111/ponder/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults to $PONDER_CONFIG)")
	debug := flag.Bool("debug", false, "enable the debug overlay")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional)")
	watch := flag.Bool("watch", true, "reload prefabs, scripts and levels when they change on disk")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *levelName != "" {
		cfg.Game.StartLevel = *levelName
	}
	if *debug {
		cfg.Game.Debug = true
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("ponder")

	rec := metrics.NewPrometheus(prometheus.NewRegistry(), "ponder")
	game, err := NewGame(cfg, rec, *watch)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
