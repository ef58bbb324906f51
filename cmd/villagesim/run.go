package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/talgya/mini-village/internal/api"
	"github.com/talgya/mini-village/internal/engine"
	"github.com/talgya/mini-village/internal/persistence"
	"github.com/talgya/mini-village/internal/trace"
)

const weatherPollInterval = 10 * time.Minute

var (
	runTrace    bool
	runNoDB     bool
	runMaxTicks uint64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the village live with the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLive(cmd.Context())
	},
}

func init() {
	runCmd.Flags().BoolVar(&runTrace, "trace", false, "record every decision to the trace directory")
	runCmd.Flags().BoolVar(&runNoDB, "no-db", false, "run without the SQLite event log")
	runCmd.Flags().Uint64Var(&runMaxTicks, "max-ticks", 0, "stop after this many ticks (0 = until interrupted)")
}

func runLive(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	runID := uuid.NewString()
	started := time.Now()

	v, err := newVillage(cfg, cfg.Seed)
	if err != nil {
		return fmt.Errorf("build village: %w", err)
	}
	sim := v.Sim

	// ── Database ──────────────────────────────────────────────────────
	var db *persistence.DB
	if !runNoDB {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		db, err = persistence.Open(cfg.Storage.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.SaveMeta("run_id", runID); err != nil {
			return fmt.Errorf("save run id: %w", err)
		}
		if err := db.SaveMeta("seed", fmt.Sprintf("%d", cfg.Seed)); err != nil {
			return fmt.Errorf("save seed: %w", err)
		}
		slog.Info("database opened", "path", cfg.Storage.DBPath, "run", runID)
	}

	// ── Traces ────────────────────────────────────────────────────────
	var tw *trace.Writer
	if runTrace {
		tw, err = trace.NewWriter(cfg.Storage.TraceDir, runID, false)
		if err != nil {
			return err
		}
		defer tw.Close()
		sim.Recorder = tw
		slog.Info("tracing decisions", "file", tw.File())
	}

	// ── Engine ────────────────────────────────────────────────────────
	interval, _ := cfg.TickInterval()
	eng := engine.NewEngine()
	eng.Interval = interval
	eng.SetSpeed(cfg.Server.Speed)
	schedule(eng, sim)
	eng.OnDay = func(tick uint64) {
		sim.TickDay(tick)
		if db == nil {
			return
		}
		if err := db.SaveDaily(runID, sim); err != nil {
			slog.Error("daily save failed", "error", err)
		}
	}
	if runMaxTicks > 0 {
		onTick := eng.OnTick
		eng.OnTick = func(tick uint64) {
			onTick(tick)
			if tick >= runMaxTicks {
				eng.Stop()
			}
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.Server.AdminKey == "" {
		slog.Warn("VILLAGESIM_ADMIN_KEY not set, admin POST endpoints disabled")
	}
	srv := api.NewServer(sim, eng, cfg.Server.Addr, cfg.Server.AdminKey)
	srv.DB = db
	srv.StreamInterval, _ = cfg.StreamInterval()
	srv.Start()

	// ── Start ─────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if v.Weather != nil {
		go v.Weather.Poll(ctx, weatherPollInterval)
		slog.Info("real weather enabled", "location", cfg.Weather.Location)
	}

	fmt.Printf("\nThe village is awake: %d villagers around %v.\n", len(sim.Summaries()), v.Center)
	fmt.Printf("API: http://localhost%s/api/v1/status\n", cfg.Server.Addr)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown", "error", err)
	}

	if db != nil {
		slog.Info("final save...")
		if err := db.SaveDaily(runID, sim); err != nil {
			slog.Error("final save failed", "error", err)
		}
	}

	st := sim.Status()
	fmt.Printf("Simulation stopped at %s after %s: %d alive, %d deaths, %d structures.\n",
		st.SimTime, time.Since(started).Round(time.Second), st.Stats.Alive, st.Stats.Deaths, st.Stats.Structures)
	if tw != nil {
		fmt.Printf("Traced %s decisions to %s\n", humanize.Comma(int64(tw.Count())), tw.File())
	}
	return nil
}
