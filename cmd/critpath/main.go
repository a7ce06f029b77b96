package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/olealberto/msds-460-assignment-two/internal/cost"
	"github.com/olealberto/msds-460-assignment-two/internal/cpm"
	"github.com/olealberto/msds-460-assignment-two/internal/loader"
	"github.com/olealberto/msds-460-assignment-two/internal/network"
	"github.com/olealberto/msds-460-assignment-two/internal/reporter"
	"github.com/olealberto/msds-460-assignment-two/internal/runner"
	"github.com/olealberto/msds-460-assignment-two/internal/server"
	"github.com/olealberto/msds-460-assignment-two/internal/store"
	"github.com/olealberto/msds-460-assignment-two/internal/store/postgres"
	"github.com/olealberto/msds-460-assignment-two/internal/ui"
)

var (
	flagNetwork     string
	flagJSON        bool
	flagVerbose     bool
	flagScenarios   []string
	flagParallel    bool
	flagMaxParallel int
	flagSave        bool
	flagStateDir    string
	flagDatabaseURL string
	flagFormat      string
	flagAddr        string
	flagDelete      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "critpath",
		Short: "Critical path and labor cost analysis for project networks",
		Long: `critpath schedules a project activity network as a linear program under
optimistic, pessimistic and expected durations, reports the critical path
of each scenario and prices the labor by role.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&flagNetwork, "network", "", "Network file (.json or .hcl); built-in network when empty")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging on stderr")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(costCmd())
	rootCmd.AddCommand(vizCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(runsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadNetwork is shared by every command that needs the activity network.
func loadNetwork() (*network.Network, error) {
	if flagNetwork == "" {
		return network.Builtin(), nil
	}
	return loader.Load(flagNetwork)
}

func parseScenarios(names []string, fallback []network.Scenario) ([]network.Scenario, error) {
	if len(names) == 0 {
		return fallback, nil
	}
	out := make([]network.Scenario, 0, len(names))
	for _, name := range names {
		sc, err := network.ParseScenario(name)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

// openStore returns the Postgres store when a database URL is configured and
// the file store otherwise.
func openStore(ctx context.Context) (store.Store, func(), error) {
	url := flagDatabaseURL
	if url == "" {
		url = os.Getenv("CRITPATH_DATABASE_URL")
	}
	if url == "" {
		return store.NewFileStore(flagStateDir), func() {}, nil
	}
	pg, closeFn, err := postgres.Connect(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	return pg, closeFn, nil
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagStateDir, "state-dir", store.DefaultDir, "Directory for saved runs")
	cmd.Flags().StringVar(&flagDatabaseURL, "database-url", "", "PostgreSQL URL for saved runs (default $CRITPATH_DATABASE_URL)")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Solve every scenario and print schedule and cost reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			n, err := loadNetwork()
			if err != nil {
				return err
			}
			scenarios, err := parseScenarios(flagScenarios, network.Scenarios)
			if err != nil {
				return err
			}

			r := runner.New(n, runner.Config{
				Parallel:    flagParallel,
				MaxParallel: flagMaxParallel,
				Logger:      newLogger(),
			})
			results, runErr := r.Run(ctx, scenarios...)
			if results == nil {
				return runErr
			}

			var runID string
			if flagSave {
				st, closeFn, err := openStore(ctx)
				if err != nil {
					return fmt.Errorf("open store: %w", err)
				}
				defer closeFn()
				run := store.NewRun(n.Name(), results)
				if err := st.Save(ctx, run); err != nil {
					return fmt.Errorf("save run: %w", err)
				}
				runID = run.ID
			}

			if flagJSON {
				data, err := reporter.JSON(n.Name(), results)
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return runErr
			}

			for _, res := range results {
				if err := reporter.WriteText(os.Stdout, res); err != nil {
					return err
				}
			}
			reporter.WriteSummary(os.Stderr, n.Name(), results)
			if runID != "" {
				fmt.Fprintf(os.Stderr, "Saved:   %s\n", ui.Dim(runID))
			}
			return runErr
		},
	}

	cmd.Flags().StringSliceVar(&flagScenarios, "scenario", nil, "Scenarios to solve (optimistic, pessimistic, expected)")
	cmd.Flags().BoolVar(&flagParallel, "parallel", false, "Solve scenarios concurrently")
	cmd.Flags().IntVar(&flagMaxParallel, "max-parallel", 0, "Concurrent solves with --parallel (0 = one per scenario)")
	cmd.Flags().BoolVar(&flagSave, "save", false, "Persist the run")
	addStoreFlags(cmd)

	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the network and list its activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadNetwork()
			if err != nil {
				return err
			}
			if flagJSON {
				return outputJSON(map[string]interface{}{
					"name":       n.Name(),
					"activities": n.Activities(),
					"roles":      n.RoleList(),
					"topo_order": n.TopoOrder(),
					"sources":    n.Sources(),
					"sinks":      n.Sinks(),
				})
			}

			reporter.WriteNetwork(os.Stdout, n)
			fmt.Printf("\n%s network is valid (%d activities, %d sources, %d sinks)\n",
				ui.Green("✓"), n.Len(), len(n.Sources()), len(n.Sinks()))
			return nil
		},
	}
}

func costCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Print the labor cost breakdown without solving",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadNetwork()
			if err != nil {
				return err
			}
			scenarios, err := parseScenarios(flagScenarios, network.Scenarios)
			if err != nil {
				return err
			}

			records := make([]*cost.Record, 0, len(scenarios))
			for _, sc := range scenarios {
				records = append(records, cost.Calculate(n, sc))
			}
			if flagJSON {
				return outputJSON(records)
			}
			for i, rec := range records {
				if i > 0 {
					fmt.Println()
				}
				if err := reporter.WriteCost(os.Stdout, rec); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&flagScenarios, "scenario", nil, "Scenarios to price")
	return cmd
}

func vizCmd() *cobra.Command {
	var flagScenario string
	cmd := &cobra.Command{
		Use:   "viz",
		Short: "Print the activity graph with the critical path highlighted",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadNetwork()
			if err != nil {
				return err
			}
			sc, err := network.ParseScenario(flagScenario)
			if err != nil {
				return err
			}

			result := cpm.Analyze(n, sc)
			switch flagFormat {
			case "dot":
				return reporter.WriteDOT(os.Stdout, n, result)
			case "ascii":
				reporter.WriteASCII(os.Stdout, n, result)
				return nil
			default:
				return fmt.Errorf("unknown format %q (use ascii or dot)", flagFormat)
			}
		},
	}

	cmd.Flags().StringVar(&flagFormat, "format", "ascii", "Output format (ascii, dot)")
	cmd.Flags().StringVar(&flagScenario, "scenario", string(network.Expected), "Scenario whose durations are drawn")

	return cmd
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Write the network to a .json or .hcl file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadNetwork()
			if err != nil {
				return err
			}
			if err := loader.Save(args[0], n.Definition()); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "%s wrote %s\n", ui.Green("✓"), args[0])
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve schedules, costs and saved runs over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			n, err := loadNetwork()
			if err != nil {
				return err
			}
			st, closeFn, err := openStore(ctx)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer closeFn()

			log := newLogger()
			ui.Banner(os.Stderr, n.Name())
			fmt.Fprintf(os.Stderr, "listening on %s\n", ui.Bold(flagAddr))

			return server.Serve(ctx, flagAddr, server.Config{
				Network:     n,
				Store:       st,
				Parallel:    flagParallel,
				MaxParallel: flagMaxParallel,
				Logger:      log,
			})
		},
	}

	cmd.Flags().StringVar(&flagAddr, "addr", ":8080", "Listen address")
	cmd.Flags().BoolVar(&flagParallel, "parallel", false, "Solve scenarios concurrently")
	cmd.Flags().IntVar(&flagMaxParallel, "max-parallel", 0, "Concurrent solves with --parallel (0 = one per scenario)")
	addStoreFlags(cmd)

	return cmd
}

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [id]",
		Short: "List saved runs, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			st, closeFn, err := openStore(ctx)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer closeFn()

			if len(args) == 0 {
				if flagDelete {
					return fmt.Errorf("--delete needs a run id")
				}
				return listRuns(ctx, st)
			}

			id := args[0]
			if flagDelete {
				if err := st.Delete(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "%s deleted %s\n", ui.Green("✓"), id)
				return nil
			}

			run, err := st.Get(ctx, id)
			if err != nil {
				return err
			}
			if flagJSON {
				return outputJSON(run)
			}
			fmt.Printf("Run:     %s\n", ui.Dim(run.ID))
			fmt.Printf("Created: %s\n", run.CreatedAt.Local().Format(time.RFC1123))
			for _, res := range run.Results {
				fmt.Println()
				if err := reporter.WriteText(os.Stdout, res); err != nil {
					return err
				}
			}
			reporter.WriteSummary(os.Stdout, run.Network, run.Results)
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagDelete, "delete", false, "Delete the given run")
	addStoreFlags(cmd)

	return cmd
}

func listRuns(ctx context.Context, st store.Store) error {
	runs, err := st.List(ctx)
	if err != nil {
		return err
	}
	if flagJSON {
		if runs == nil {
			runs = []store.Summary{}
		}
		return outputJSON(runs)
	}
	if len(runs) == 0 {
		fmt.Println(ui.Dim("no saved runs"))
		return nil
	}
	for _, r := range runs {
		icon := ui.StatusIcon("solved")
		if r.Failed > 0 {
			icon = ui.StatusIcon("failed")
		}
		fmt.Printf("%s %s  %s  %d scenarios  %s\n",
			icon, r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Scenarios, ui.Dim(r.Network))
	}
	return nil
}

// --- Output helpers ---

func outputJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
