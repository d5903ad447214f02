// Package cmd implements the ratsim CLI root command: the abstracted
// surface of §6, structured as a single cobra command the way perf-analysis's
// cmd/cli/cmd/root.go carries one root command's PersistentFlags, since the
// abstracted surface here has a single mode of operation rather than a verb
// per subcommand.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ratswarm/internal/ioformat"
	"ratswarm/internal/logx"
	"ratswarm/internal/simerr"
	"ratswarm/internal/statkit"
	"ratswarm/internal/topology"
	"ratswarm/internal/transport"
	"ratswarm/internal/worker"
)

var (
	graphFile       string
	ratFile         string
	stepCount       int
	globalSeed      int64
	displayInterval int
	quiet           bool
	instrument      bool
	zoneCount       int
)

var rootCmd = &cobra.Command{
	Use:   "ratsim",
	Short: "Distributed rat-swarm grid simulation",
	Long: `ratsim runs the rat-swarm grid simulation: one goroutine per zone
exchanging boundary state over in-process channels, modeling the
isend/probe/recv/wait/broadcast message-passing shape of a real distributed
run without an actual network.`,
	Example: `  # Run a simulation, displaying node counts every 10 steps
  ratsim -g grid.graph -r rats.txt -n 100 -s 42 -i 10

  # Inspect how a graph's regions get assigned to zones, without simulating
  ratsim -g grid.graph -z 4`,
	RunE: run,
}

// Execute runs the root command, exiting non-zero on failure (§6).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&graphFile, "graph", "g", "", "graph file (required)")
	rootCmd.Flags().StringVarP(&ratFile, "rats", "r", "", "rat file (required unless -z is set)")
	rootCmd.Flags().IntVarP(&stepCount, "steps", "n", 100, "number of simulation steps")
	rootCmd.Flags().Int64VarP(&globalSeed, "seed", "s", 42, "global PRNG seed")
	rootCmd.Flags().IntVarP(&displayInterval, "display-interval", "i", 1, "steps between display ticks (0 disables periodic display)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress display output")
	rootCmd.Flags().BoolVarP(&instrument, "instrument", "I", false, "enable verbose per-zone logging")
	rootCmd.Flags().IntVarP(&zoneCount, "zones", "z", 0, "zone count; with no rat file, only prints the region->zone assignment and exits")
	rootCmd.MarkFlagRequired("graph")
}

func run(cmd *cobra.Command, args []string) error {
	level := logx.LevelInfo
	if instrument {
		level = logx.LevelDebug
	}
	logger := logx.NewZoneLogger(level, os.Stderr, 0)

	f, err := os.Open(graphFile)
	if err != nil {
		return fail(logger, simerr.Wrap(simerr.CodeMalformedInput, "opening graph file", err))
	}
	defer f.Close()

	in, err := ioformat.ReadGraphFile(f)
	if err != nil {
		return fail(logger, err)
	}

	zc := zoneCount
	if zc <= 0 {
		zc = 1
	}

	g, err := topology.BuildGraph(in, zc)
	if err != nil {
		return fail(logger, err)
	}

	if zoneCount > 0 && ratFile == "" {
		return inspectPartition(g, zc)
	}

	if ratFile == "" {
		return fail(logger, simerr.New(simerr.CodeMalformedInput, "rat file (-r) is required for a simulation run"))
	}

	rf, err := os.Open(ratFile)
	if err != nil {
		return fail(logger, simerr.Wrap(simerr.CodeMalformedInput, "opening rat file", err))
	}
	defer rf.Close()

	positions, err := ioformat.ReadRatFile(rf, g.NodeCount())
	if err != nil {
		return fail(logger, err)
	}

	net := transport.NewNetwork(zc)
	workers := make([]*worker.ZoneWorker, zc)
	mode := ioformat.DisplayNodeCounts
	cfg := worker.Config{
		GlobalSeed:      globalSeed,
		StepCount:       stepCount,
		DisplayInterval: displayInterval,
		Quiet:           quiet,
		DisplayMode:     mode,
	}

	for z := 0; z < zc; z++ {
		tr := transport.NewChanTransport(net, z)
		zl := logx.NewZoneLogger(level, os.Stderr, z)
		w := worker.NewZoneWorker(z, zc, g, len(positions), tr, zl, cfg)
		if z == 0 {
			w.Writer = ioformat.NewStepWriter(os.Stdout, mode)
		}
		workers[z] = w
	}

	// The real broadcast of the graph and rat table (§5) has already
	// happened implicitly: every worker was built from the same g and
	// positions values in this single binary. DistributeInitialRats is
	// still run independently per zone, exactly as it would be after
	// receiving a Transport.Broadcast copy.
	for _, w := range workers {
		w.DistributeInitialRats(positions)
	}

	errCh := make(chan error, zc)
	for _, w := range workers {
		w := w
		go func() { errCh <- w.Run() }()
	}
	for range workers {
		if err := <-errCh; err != nil {
			return fail(logger, err)
		}
	}
	return nil
}

// inspectPartition implements -z's partition-inspection-only mode: build the
// graph (which already runs the zone assigner), then report the
// region->zone assignment and exit without simulating anything.
func inspectPartition(g *topology.Graph, zoneCount int) error {
	fmt.Printf("zones: %d, nodes: %d, regions: %d\n", zoneCount, g.NodeCount(), len(g.Regions))
	for i, r := range g.Regions {
		fmt.Printf("region %d: x=%d y=%d w=%d h=%d nodes=%d edges=%d -> zone %d\n",
			i, r.X, r.Y, r.W, r.H, r.NodeCount, r.EdgeCount, r.ZoneID)
	}

	nodeCounts := make([]float64, zoneCount)
	edgeCounts := make([]float64, zoneCount)
	for _, r := range g.Regions {
		nodeCounts[r.ZoneID] += float64(r.NodeCount)
		edgeCounts[r.ZoneID] += float64(r.EdgeCount)
	}
	fmt.Printf("node-count imbalance across zones: stddev=%.4f\n", statkit.DataStdDev(nodeCounts))
	fmt.Printf("edge-count imbalance across zones: stddev=%.4f\n", statkit.DataStdDev(edgeCounts))
	return nil
}

// fail implements §7's fatal-error policy: DONE always reaches stdout (so a
// downstream visualizer stops cleanly), the diagnostic goes to stderr
// tagged with a zone id, and the process exits non-zero via Execute.
func fail(logger logx.Logger, err error) error {
	fmt.Fprintln(os.Stdout, "DONE")
	logger.Error("%v", err)
	return err
}
