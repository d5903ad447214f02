package transport

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratswarm/internal/simstate"
	"ratswarm/internal/topology"
)

// buildTwoZoneLine builds the same 2-node, 2-zone line graph used by the
// kernel package's tests, plus a ZoneState per zone.
func buildTwoZoneLine(t *testing.T) (g *topology.Graph, states [2]*simstate.ZoneState) {
	t.Helper()
	in := &topology.BuildInput{
		Width: 2, Height: 1,
		Edges: []topology.EdgeRaw{
			{From: 0, To: 1},
			{From: 1, To: 0},
		},
		Regions: []topology.RegionSpec{
			{X: 0, Y: 0, W: 1, H: 1},
			{X: 1, Y: 0, W: 1, H: 1},
		},
	}
	g, err := topology.BuildGraph(in, 2)
	require.NoError(t, err)
	for z := 0; z < 2; z++ {
		setup := topology.BuildZoneSetup(g, z)
		states[z] = simstate.NewZoneState(g, setup, 2)
	}
	return g, states
}

func TestExchangeNodeCountsSymmetric(t *testing.T) {
	_, states := buildTwoZoneLine(t)
	states[0].RatCount[0] = 7
	states[1].RatCount[1] = 3

	net := NewNetwork(2)
	t0 := NewChanTransport(net, 0)
	t1 := NewChanTransport(net, 1)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); ExchangeNodeCounts(states[0], t0) }()
	go func() { defer wg.Done(); ExchangeNodeCounts(states[1], t1) }()
	wg.Wait()

	assert.Equal(t, 3, states[0].RatCount[1]) // zone 0 learns zone 1's export
	assert.Equal(t, 7, states[1].RatCount[0]) // zone 1 learns zone 0's export
}

func TestExchangeNodeWeightsSymmetric(t *testing.T) {
	_, states := buildTwoZoneLine(t)
	states[0].NodeWeight[0] = 0.5
	states[1].NodeWeight[1] = 0.25

	net := NewNetwork(2)
	t0 := NewChanTransport(net, 0)
	t1 := NewChanTransport(net, 1)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); ExchangeNodeWeights(states[0], t0) }()
	go func() { defer wg.Done(); ExchangeNodeWeights(states[1], t1) }()
	wg.Wait()

	assert.Equal(t, 0.25, states[0].NodeWeight[1])
	assert.Equal(t, 0.5, states[1].NodeWeight[0])
}

// TestExchangeRatsConservation exercises the receiving half of P4: a rat
// shipped from zone 0 to zone 1 arrives owned by zone 1 with its target
// node, seed and count. Clearing the sender's bit is RunBatch's job, not
// ExchangeRats', so this test does not check zone 0's bit.
func TestExchangeRatsConservation(t *testing.T) {
	_, states := buildTwoZoneLine(t)
	states[0].RatPosition[0] = 1
	states[0].RatSeed[0] = 99
	states[0].Owned.Set(0) // about to be handed to zone 1

	net := NewNetwork(2)
	t0 := NewChanTransport(net, 0)
	t1 := NewChanTransport(net, 1)

	exports0 := map[int][]RatEnvelope{
		1: {{RatID: 0, TargetNode: 1, Seed: 99}},
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); ExchangeRats(states[0], t0, exports0) }()
	go func() { defer wg.Done(); ExchangeRats(states[1], t1, nil) }()
	wg.Wait()

	assert.True(t, states[1].Owned.Get(0))
	assert.Equal(t, 1, states[1].RatPosition[0])
	assert.Equal(t, uint32(99), states[1].RatSeed[0])
	assert.Equal(t, 1, states[1].RatCount[1])
}

func TestGatherForDisplay(t *testing.T) {
	_, states := buildTwoZoneLine(t)
	states[1].RatCount[1] = 5

	net := NewNetwork(2)
	t0 := NewChanTransport(net, 0)
	t1 := NewChanTransport(net, 1)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		GatherForDisplay(states[0], 0, 2, t0)
	}()
	go func() {
		defer wg.Done()
		SendGatherContribution(states[1], 0, t1)
	}()
	wg.Wait()

	assert.Equal(t, 5, states[0].RatCount[1])
}

func TestBroadcast(t *testing.T) {
	net := NewNetwork(3)
	t0 := NewChanTransport(net, 0)
	t1 := NewChanTransport(net, 1)
	t2 := NewChanTransport(net, 2)

	payload := "graph-payload"
	var wg sync.WaitGroup
	var got1, got2 interface{}
	wg.Add(3)
	go func() { defer wg.Done(); t0.Broadcast(0, payload) }()
	go func() { defer wg.Done(); got1 = t1.Broadcast(0, nil) }()
	go func() { defer wg.Done(); got2 = t2.Broadcast(0, nil) }()
	wg.Wait()

	assert.Equal(t, payload, got1)
	assert.Equal(t, payload, got2)
}
