// Package worker implements the per-zone run loop: the glue that drives
// census, weight priming, and the batch loop of §4.7 against one zone's
// ZoneState, Transport, and StepWriter. It is the harness §1 calls out as
// outside the simulation core, generalized from the teacher's single
// sequential/parallel main-loop shape (main.go) into one loop per zone
// goroutine.
package worker

import (
	"ratswarm/internal/ioformat"
	"ratswarm/internal/kernel"
	"ratswarm/internal/logx"
	"ratswarm/internal/rng"
	"ratswarm/internal/simstate"
	"ratswarm/internal/topology"
	"ratswarm/internal/transport"
)

// Config is the subset of the CLI surface (§6) a ZoneWorker needs. It is a
// plain Go value shared directly by every zone goroutine in this
// single-binary simulation — there is no process boundary to carry it
// across. The graph and rat table are shared the same way: every worker is
// built from the same values, and Transport.Broadcast is not called.
type Config struct {
	GlobalSeed      int64
	StepCount       int
	DisplayInterval int // 0 disables periodic display entirely
	Quiet           bool
	DisplayMode     ioformat.DisplayMode
}

// ZoneWorker owns one zone's simulation state and drives it through a full
// run: initial distribution, weight priming, then StepCount steps, with an
// optional periodic display gather to zone 0.
type ZoneWorker struct {
	Zone      int
	ZoneCount int
	RatCount  int
	State     *simstate.ZoneState
	Transport transport.Transport
	Logger    logx.Logger
	Config    Config
	Writer    *ioformat.StepWriter // non-nil only on zone 0
}

// NewZoneWorker constructs a worker for zone over g, with r global rats.
func NewZoneWorker(zone, zoneCount int, g *topology.Graph, r int, t transport.Transport, logger logx.Logger, cfg Config) *ZoneWorker {
	setup := topology.BuildZoneSetup(g, zone)
	return &ZoneWorker{
		Zone:      zone,
		ZoneCount: zoneCount,
		RatCount:  r,
		State:     simstate.NewZoneState(g, setup, r),
		Transport: t,
		Logger:    logger,
		Config:    cfg,
	}
}

// DistributeInitialRats claims every rat whose starting position falls in
// this zone's territory and derives its initial PRNG seed (§4.1). Every
// zone runs this over the same full positions slice (the caller hands every
// worker the same rat table) and independently discovers which rats it owns.
func (w *ZoneWorker) DistributeInitialRats(positions []int) {
	for r, node := range positions {
		if w.State.Graph.ZoneOf[node] != w.Zone {
			continue
		}
		w.State.Owned.Set(r)
		w.State.RatPosition[r] = node
		w.State.RatSeed[r] = uint32(rng.InitRatSeed(w.Config.GlobalSeed, r))
	}
}

// primeWeights brings rat_count and node_weight up to date at every owned
// and imported node before the first step's find_all_sums runs, which
// needs both current at n and at n's neighbors (§4.7 step 1).
func (w *ZoneWorker) primeWeights() {
	w.State.TakeCensus()
	transport.ExchangeNodeCounts(w.State, w.Transport)
	for _, n := range w.State.Setup.LocalNodeList {
		w.State.RecomputeNodeWeight(n)
	}
	transport.ExchangeNodeWeights(w.State, w.Transport)
}

// runStep implements one simulation step (§4.7): the batch loop over
// [0, RatCount), each batch running find_all_sums, per-rat moves, and the
// three boundary exchanges in their mandated order (§5).
func (w *ZoneWorker) runStep() {
	batchSize := simstate.BatchSize(w.RatCount)
	for bstart := 0; bstart < w.RatCount; bstart += batchSize {
		bcount := batchSize
		if bstart+bcount > w.RatCount {
			bcount = w.RatCount - bstart
		}

		kernel.FindAllSums(w.State)
		exports := kernel.RunBatch(w.State, w.Zone, bstart, bcount)

		transport.ExchangeRats(w.State, w.Transport, exports)
		transport.ExchangeNodeCounts(w.State, w.Transport)
		for _, n := range w.State.Setup.LocalNodeList {
			w.State.RecomputeNodeWeight(n)
		}
		transport.ExchangeNodeWeights(w.State, w.Transport)
	}
}

// Run executes the full simulation: priming, then StepCount steps, with a
// display gather every DisplayInterval steps (every zone must participate
// in lockstep since the gather blocks until all non-root zones answer).
// It always ends by emitting DONE on zone 0's stream (§7).
func (w *ZoneWorker) Run() error {
	w.primeWeights()

	for step := 0; step < w.Config.StepCount; step++ {
		w.runStep()

		if w.Config.DisplayInterval > 0 && !w.Config.Quiet && step%w.Config.DisplayInterval == 0 {
			w.display(step)
		}
	}

	if w.Zone == 0 && w.Writer != nil {
		return w.Writer.WriteDone()
	}
	return nil
}

func (w *ZoneWorker) display(step int) {
	if w.Zone != 0 {
		transport.SendGatherContribution(w.State, 0, w.Transport)
		return
	}

	transport.GatherForDisplay(w.State, 0, w.ZoneCount, w.Transport)
	if w.Writer == nil {
		return
	}

	// The gather only ever collects per-node counts (§4.10's payload
	// shape), so the node-count display mode is the one this worker
	// drives end to end; DisplayRatPositions remains a valid StepWriter
	// body kind for callers that assemble the positions slice another way.
	g := w.State.Graph
	nodeCounts := make([]int, g.NodeCount())
	copy(nodeCounts, w.State.RatCount[:g.NodeCount()])

	w.Logger.Debug("display tick step=%d", step)
	if err := w.Writer.WriteStep(g.Width, g.Height, w.RatCount, nil, nodeCounts); err != nil {
		w.Logger.Error("step write failed: %v", err)
	}
}
