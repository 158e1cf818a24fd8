// Command mathtrade runs the math-trade pipeline: parse a wants file into a
// canonical instance, or solve an instance with one of the five selector
// back-ends and emit exchanges, metrics and the visualisation graph.
//
// Exit status is non-zero only for fatal conditions (missing file, malformed
// JSON, unknown algorithm, exhausted cycle cap on an exact program); a
// degenerate no-trade solution is still a success.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/mathtrade/core"
	"github.com/katalvlaran/mathtrade/normalize"
	"github.com/katalvlaran/mathtrade/report"
	"github.com/katalvlaran/mathtrade/solve"
	"github.com/katalvlaran/mathtrade/viz"
	"github.com/katalvlaran/mathtrade/wants"
)

func main() {
	var verbose bool

	root := &cobra.Command{
		Use:           "mathtrade",
		Short:         "mathtrade — math-trade exchange solver",
		Long:          "Computes item-for-item exchange cycles from ranked wishlists: parse wants files, solve instances with exact or heuristic selectors, report metrics.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	logger := func() zerolog.Logger {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}

		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
			Level(level).With().Timestamp().Logger()
	}

	root.AddCommand(parseCmd(logger), solveCmd(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "mathtrade: %v\n", err)
		os.Exit(1)
	}
}

// parseCmd converts a wants text file into the instance JSON.
func parseCmd(logger func() zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <wants.txt> <out.json>",
		Short: "Parse a wants file into a canonical instance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()

			in, diags, err := wants.ParseFile(args[0])
			if err != nil {
				return err
			}
			logDiags(log, diags)

			if err = core.SaveInstance(in, args[1]); err != nil {
				return err
			}
			log.Info().
				Str("out", args[1]).
				Int("users", len(in.Users)).
				Int("items", len(in.Items)).
				Int("warnings", len(diags)).
				Msg("instance written")

			return nil
		},
	}
}

// solveCmd runs the full pipeline over one or more instance files.
func solveCmd(logger func() zerolog.Logger) *cobra.Command {
	var (
		algoName   string
		maxLen     int
		maxCycles  int
		seed       int64
		timeLimit  time.Duration
		maxNodes   int64
		weedOut    bool
		configPath string
		metricsOut string
		graphOut   string
	)

	cmd := &cobra.Command{
		Use:   "solve <instance.json> [more.json ...]",
		Short: "Solve instances and report exchanges",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()

			algo, err := solve.ParseAlgorithm(algoName)
			if err != nil {
				return fmt.Errorf("%w: %q", solve.ErrUnknownAlgorithm, algoName)
			}

			opts := solve.DefaultOptions()
			opts.Algo = algo
			if configPath != "" {
				if err = loadConfig(configPath, &opts); err != nil {
					return err
				}
			}
			// Explicit flags win over the config file.
			flagSet := cmd.Flags()
			if flagSet.Changed("max-cycle-length") {
				opts.MaxCycleLen = maxLen
			}
			if flagSet.Changed("max-cycles") {
				opts.MaxCycles = maxCycles
			}
			if flagSet.Changed("seed") {
				opts.Seed = seed
			}
			if flagSet.Changed("time-limit") {
				opts.TimeLimit = timeLimit
			}
			if flagSet.Changed("max-nodes") {
				opts.MaxNodes = maxNodes
			}
			if flagSet.Changed("weed") {
				opts.WeedOut = weedOut
			}

			for _, path := range args {
				if err = solveOne(cmd.Context(), log, path, opts, metricsOut, outPathFor(graphOut, path, len(args) > 1)); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&algoName, "algo", solve.NameILPTrades, "selector: matching|ilp-trades|ilp-players|genetic|greedy")
	cmd.Flags().IntVar(&maxLen, "max-cycle-length", 8, "maximum trade cycle length")
	cmd.Flags().IntVar(&maxCycles, "max-cycles", 0, "cycle pool cap (0 = default)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed for the genetic solver (0 = fixed default stream)")
	cmd.Flags().DurationVar(&timeLimit, "time-limit", 0, "wall-clock budget (0 = unlimited)")
	cmd.Flags().Int64Var(&maxNodes, "max-nodes", 0, "branch-and-bound node budget (0 = default)")
	cmd.Flags().BoolVar(&weedOut, "weed", false, "remove unwanted items before enumeration")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML file overlaying solver parameters")
	cmd.Flags().StringVar(&metricsOut, "metrics-out", "", "metrics JSON file (merged per input path)")
	cmd.Flags().StringVar(&graphOut, "graph-out", "", "exchange-graph HTML file")

	return cmd
}

// solveOne runs parse→normalize→solve→report for a single instance file.
func solveOne(ctx context.Context, log zerolog.Logger, path string, opts solve.Options, metricsOut, graphOut string) error {
	started := time.Now()
	warnings := 0

	raw, err := core.LoadInstance(path)
	if err != nil {
		return err
	}

	in, diags := normalize.Run(raw)
	warnings += len(diags)
	logDiags(log, diags)

	res, diags, err := solve.Run(ctx, in, opts)
	warnings += len(diags)
	logDiags(log, diags)
	if err != nil {
		return err
	}

	exchanges, diags, err := report.Reconstruct(res.Selection, in)
	if err != nil {
		return err
	}
	warnings += len(diags)
	logDiags(log, diags)

	summary, err := report.Summarize(in, exchanges)
	if err != nil {
		return err
	}

	m := report.Metrics{
		RunID:                       uuid.NewString(),
		Algorithm:                   res.Stats.Algorithm,
		NumUsers:                    len(in.Users),
		NumItems:                    len(in.Items),
		NumCyclesFound:              res.Stats.CyclesFound,
		NumCyclesSelected:           res.Stats.CyclesSelected,
		NumExchanges:                len(exchanges),
		ParticipationPercent:        report.Participation(summary),
		OverallEffectivenessPercent: report.Effectiveness(summary),
		ILPNumVariables:             res.Stats.ILPVariables,
		ILPNumConstraints:           res.Stats.ILPConstraints,
		SolverTimeSeconds:           res.Stats.SolveTime.Seconds(),
		ExecutionTimeSeconds:        time.Since(started).Seconds(),
		MemoryPeakMB:                report.PeakMemoryMB(),
		NumWarnings:                 warnings,
		Status:                      res.Stats.Status,
		Cancelled:                   res.Stats.Cancelled,
	}

	log.Info().
		Str("file", path).
		Str("algo", m.Algorithm).
		Str("status", m.Status).
		Int("cycles_found", m.NumCyclesFound).
		Int("cycles_selected", m.NumCyclesSelected).
		Int("exchanges", m.NumExchanges).
		Float64("participation_pct", m.ParticipationPercent).
		Float64("effectiveness_pct", m.OverallEffectivenessPercent).
		Dur("solver_time", res.Stats.SolveTime).
		Msg("solve finished")

	for _, ex := range exchanges {
		fmt.Printf("%s gives %q and receives %q\n", ex.Giver, in.ItemName(ex.GivenItem), in.ItemName(ex.ReceivedItem))
	}
	if len(exchanges) == 0 {
		fmt.Println("no trades")
	}

	if metricsOut != "" {
		if err = report.WriteMetricsFile(metricsOut, path, m); err != nil {
			return err
		}
	}
	if graphOut != "" {
		g, gerr := viz.BuildGraph(in, exchanges)
		if gerr != nil {
			return gerr
		}
		if gerr = viz.SaveHTML(g, "Trade graph — "+filepath.Base(path), graphOut); gerr != nil {
			return gerr
		}
		log.Info().Str("graph", graphOut).Msg("exchange graph written")
	}

	return nil
}

// outPathFor derives a per-input output path when several inputs share one
// --graph-out flag: "dir/out.html" + "b.json" → "dir/out_b.html".
func outPathFor(base, input string, multi bool) string {
	if base == "" || !multi {
		return base
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	in := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))

	return stem + "_" + in + ext
}

// logDiags emits diagnostics at warn level.
func logDiags(log zerolog.Logger, diags []core.Diagnostic) {
	for _, d := range diags {
		ev := log.Warn()
		if d.Line > 0 {
			ev = ev.Int("line", d.Line)
		}
		ev.Msg(d.Message)
	}
}
