package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/talgya/mini-village/internal/engine"
	"github.com/talgya/mini-village/internal/trace"
)

var (
	datasetRuns  int
	datasetTicks uint64
	datasetOut   string
	datasetFull  bool
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Run headless villages and record their decisions",
	Long:  `Runs one or more villages without sleeping between ticks, writing every decision as a compressed JSONL trace plus a manifest.json describing the runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := datasetOut
		if out == "" {
			out = cfg.Storage.TraceDir
		}
		runs, err := generateDataset(out, datasetRuns, datasetTicks, datasetFull)
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Printf("%s  seed=%d  %s records  %s  alive=%d deaths=%d\n",
				r.RunID, r.Seed, humanize.Comma(int64(r.Records)), humanize.Bytes(uint64(r.Bytes)), r.Alive, r.Deaths)
			fmt.Printf("    %s\n", formatCounts(r.Actions))
		}
		return nil
	},
}

func init() {
	datasetCmd.Flags().IntVar(&datasetRuns, "runs", 1, "number of villages to run; run i uses seed+i")
	datasetCmd.Flags().Uint64Var(&datasetTicks, "ticks", 3*engine.TicksPerSimDay, "ticks per run")
	datasetCmd.Flags().StringVarP(&datasetOut, "out", "o", "", "output directory (defaults to storage.trace_dir)")
	datasetCmd.Flags().BoolVar(&datasetFull, "full", false, "include the full perception in every record")
}

// datasetRun describes one generated trace.
type datasetRun struct {
	RunID   string         `json:"run_id"`
	Seed    int64          `json:"seed"`
	Ticks   uint64         `json:"ticks"`
	File    string         `json:"file"`
	Records int            `json:"records"`
	Bytes   int64          `json:"bytes"`
	Alive   int            `json:"alive"`
	Deaths  int            `json:"deaths"`
	Actions map[string]int `json:"actions"`
}

func generateDataset(out string, runs int, ticks uint64, full bool) ([]datasetRun, error) {
	if runs < 1 {
		return nil, fmt.Errorf("runs must be at least 1, got %d", runs)
	}
	results := make([]datasetRun, 0, runs)
	for i := 0; i < runs; i++ {
		seed := cfg.Seed + int64(i)
		r, err := generateRun(out, seed, ticks, full)
		if err != nil {
			return results, fmt.Errorf("run %d (seed %d): %w", i, seed, err)
		}
		results = append(results, r)
	}

	manifest, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return results, err
	}
	if err := os.WriteFile(filepath.Join(out, "manifest.json"), manifest, 0o644); err != nil {
		return results, fmt.Errorf("write manifest: %w", err)
	}
	return results, nil
}

func generateRun(out string, seed int64, ticks uint64, full bool) (datasetRun, error) {
	runID := uuid.NewString()
	v, err := newVillage(cfg, seed)
	if err != nil {
		return datasetRun{}, err
	}

	tw, err := trace.NewWriter(out, runID, full)
	if err != nil {
		return datasetRun{}, err
	}
	v.Sim.Recorder = tw

	eng := engine.NewEngine()
	schedule(eng, v.Sim)
	eng.Advance(ticks)

	if err := tw.Close(); err != nil {
		return datasetRun{}, fmt.Errorf("close trace: %w", err)
	}
	info, err := os.Stat(tw.File())
	if err != nil {
		return datasetRun{}, err
	}

	st := v.Sim.Status()
	slog.Info("dataset run complete", "run", runID, "seed", seed, "records", tw.Count(), "size", humanize.Bytes(uint64(info.Size())))
	return datasetRun{
		RunID:   runID,
		Seed:    seed,
		Ticks:   ticks,
		File:    filepath.Base(tw.File()),
		Records: tw.Count(),
		Bytes:   info.Size(),
		Alive:   st.Stats.Alive,
		Deaths:  st.Stats.Deaths,
		Actions: st.Stats.ActionsByType,
	}, nil
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s := ""
	for i, k := range keys {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%d", k, counts[k])
	}
	return s
}
