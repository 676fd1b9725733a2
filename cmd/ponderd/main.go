// Command ponderd runs the simulation without a window and exposes its
// counters on a Prometheus endpoint.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/milk9111/ponder/config"
	"github.com/milk9111/ponder/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults to $PONDER_CONFIG)")
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional)")
	ticks := flag.Int("ticks", 0, "stop after this many ticks (0 runs until interrupted)")
	fast := flag.Bool("fast", false, "run ticks back to back instead of in real time")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *levelName != "" {
		cfg.Game.StartLevel = *levelName
	}
	if *ticks > 0 {
		cfg.Server.Ticks = *ticks
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	rec := metrics.NewPrometheus(reg, "ponder")

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{Addr: cfg.Server.GetMetricsAddr(), Handler: mux}
	go func() {
		log.Printf("metrics listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server: %v", err)
		}
	}()

	sim := newSimulation(cfg, rec)
	interval := time.Duration(float64(time.Second) / cfg.Physics.Resolved().TickRate)
	if *fast {
		interval = 0
	}
	n, err := sim.run(ctx, cfg.Server.Ticks, interval)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("simulation stopped: %v", err)
	}
	log.Printf("ran %d ticks, %d deaths, level %s", n, sim.respawn.Deaths, sim.persistence.LevelName())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("metrics shutdown: %v", err)
	}
}
