package relay

import (
	"context"
	"errors"
	"path"
	"testing"
	"time"

	"github.com/0xPolygon/lanebridge/chain"
	"github.com/0xPolygon/lanebridge/common"
	"github.com/0xPolygon/lanebridge/config/types"
	"github.com/0xPolygon/lanebridge/congestion"
	"github.com/0xPolygon/lanebridge/exporter"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/log"
	"github.com/0xPolygon/lanebridge/node"
	"github.com/0xPolygon/lanebridge/relay/mocks"
	"github.com/0xPolygon/lanebridge/router"
	"github.com/0xPolygon/lanebridge/weight"
	"github.com/0xPolygon/lanebridge/xcm"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	laneL     = lane.LaneID{0, 0, 0, 1}
	bigWeight = weight.New(2_000_000_000_000, 5*1024*1024)
)

// nodeEndpoint serves both sides of the relay from an in-process node
type nodeEndpoint struct {
	n *node.Node
}

func (e nodeEndpoint) OutboundLane(_ context.Context, id lane.LaneID) (lane.OutboundLaneData, error) {
	return e.n.OutboundLane(id)
}

func (e nodeEndpoint) OutboundMessages(_ context.Context, id lane.LaneID, from, to uint64) ([]lane.Message, error) {
	return e.n.OutboundMessages(id, from, to)
}

func (e nodeEndpoint) ConfirmDelivery(_ context.Context, conf chain.Confirmation) error {
	return e.n.SubmitConfirmation(conf)
}

func (e nodeEndpoint) InboundLane(_ context.Context, id lane.LaneID) (lane.InboundLaneData, error) {
	return e.n.InboundLane(id)
}

func (e nodeEndpoint) DeliverMessages(_ context.Context, batch chain.InboundBatch) error {
	return e.n.SubmitInbound(batch)
}

func newTestNode(t *testing.T, name string, network string, bridged xcm.NetworkID) *node.Node {
	t.Helper()
	logger := log.WithFields("module", name)
	c, err := chain.New(logger, chain.Config{
		DBPath:                   path.Join(t.TempDir(), name+".sqlite"),
		MaxMessagesToPruneAtOnce: 10,
		MaxBlockWeight:           bigWeight,
	}, chain.Components{
		Common:     common.Config{ParaID: 1002, Network: network},
		Lanes:      []lane.Config{{ID: laneL, Network: bridged}},
		Congestion: congestion.Config{Threshold: 100, RecoveryChecks: 1, IncreaseFactor: "1.05"},
		Fees:       exporter.FeeConfig{BaseFee: 1, ByteFee: 1, WeightFeeDivisor: 1},
		Router:     router.Config{MaxUpwardMessageSize: 1024, MaxHorizontalMessageSize: 1024, MaxDrainPerBlock: 10},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return node.New(logger, node.Config{}, c, node.NewLogTransport(logger))
}

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Lanes:               []lane.LaneID{laneL},
		CheckpointPath:      path.Join(t.TempDir(), "relay.db"),
		PollInterval:        types.NewDuration(10 * time.Millisecond),
		MaxMessagesPerBatch: 2,
		RetryAttempts:       3,
		RetryDelay:          types.NewDuration(time.Millisecond),
		MaxBatchWeight:      bigWeight,
		PendingRounds:       1,
	}
}

func newTestRelay(t *testing.T, cfg Config, source Source, target Target) *Relay {
	t.Helper()
	r, err := New(log.WithFields("module", "relay-test"), cfg, source, target)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func exportProgram() xcm.Program {
	dot := xcm.NewAsset(xcm.ParentLocation(), 1_000_000_000)
	return xcm.Program{
		xcm.WithdrawAsset{Assets: []xcm.Asset{dot}},
		xcm.BuyExecution{Fees: dot, WeightLimit: xcm.Unlimited()},
		xcm.ExportMessage{Network: xcm.Kusama, Destination: xcm.Junctions{xcm.Parachain(1000)}, Xcm: xcm.Program{xcm.ClearOrigin{}}},
	}
}

func produce(t *testing.T, nodes ...*node.Node) {
	t.Helper()
	for _, n := range nodes {
		_, err := n.ProduceBlock(context.Background())
		require.NoError(t, err)
	}
}

func TestRelayBetweenTwoNodes(t *testing.T) {
	ctx := context.Background()
	polkadot := newTestNode(t, "polkadot", "Polkadot", xcm.Kusama)
	kusama := newTestNode(t, "kusama", "Kusama", xcm.Polkadot)
	r := newTestRelay(t, testConfig(t), nodeEndpoint{polkadot}, nodeEndpoint{kusama})

	require.NoError(t, kusama.SubmitChannelNotification(chain.ChannelNotification{
		Kind: chain.NotifyOpen, Channel: congestion.SiblingChannel(1000),
	}))
	for i := 0; i < 3; i++ {
		require.NoError(t, polkadot.SubmitProgram(xcm.SiblingLocation(1000), exportProgram()))
	}
	produce(t, polkadot, kusama)

	// first batch is bounded by MaxMessagesPerBatch
	require.NoError(t, r.Step(ctx, laneL))
	res, err := kusama.ProduceBlock(ctx)
	require.NoError(t, err)
	require.Len(t, res.Inbound, 1)
	require.Len(t, res.Inbound[0].Results, 2)
	for _, dr := range res.Inbound[0].Results {
		require.Equal(t, lane.Dispatched, dr.Outcome)
	}
	require.Len(t, res.Drained, 2)
	require.Equal(t, router.Horizontal(1000), res.Drained[0].Channel())

	require.NoError(t, r.Step(ctx, laneL))
	produce(t, polkadot, kusama)
	require.NoError(t, r.Step(ctx, laneL))
	produce(t, polkadot)

	inbound, err := kusama.InboundLane(laneL)
	require.NoError(t, err)
	require.Equal(t, uint64(3), inbound.LastDeliveredNonce)
	outbound, err := polkadot.OutboundLane(laneL)
	require.NoError(t, err)
	require.Equal(t, lane.OutboundLaneData{
		OldestUnprunedNonce:  4,
		LatestReceivedNonce:  3,
		LatestGeneratedNonce: 3,
	}, outbound)

	cp, err := r.checkpoints.Get(laneL)
	require.NoError(t, err)
	require.Equal(t, Checkpoint{Submitted: 3, Confirmed: 3}, cp)

	// nothing left to do
	require.NoError(t, r.Step(ctx, laneL))
	require.Zero(t, polkadot.Pending())
	require.Zero(t, kusama.Pending())
}

func TestStepRetriesTransientErrors(t *testing.T) {
	source := mocks.NewSource(t)
	target := mocks.NewTarget(t)
	r := newTestRelay(t, testConfig(t), source, target)
	msg := lane.Message{Lane: laneL, Nonce: 1, Payload: []byte{1}}

	source.EXPECT().OutboundLane(mock.Anything, laneL).Return(lane.OutboundLaneData{}, errors.New("connection refused")).Once()
	source.EXPECT().OutboundLane(mock.Anything, laneL).
		Return(lane.OutboundLaneData{OldestUnprunedNonce: 1, LatestGeneratedNonce: 1}, nil).Once()
	target.EXPECT().InboundLane(mock.Anything, laneL).Return(lane.InboundLaneData{}, nil).Once()
	source.EXPECT().OutboundMessages(mock.Anything, laneL, uint64(1), uint64(1)).Return([]lane.Message{msg}, nil).Once()
	target.EXPECT().DeliverMessages(mock.Anything, chain.InboundBatch{Messages: []lane.Message{msg}, MaxWeight: bigWeight}).
		Return(nil).Once()

	require.NoError(t, r.Step(context.Background(), laneL))
	cp, err := r.checkpoints.Get(laneL)
	require.NoError(t, err)
	require.Equal(t, uint64(1), cp.Submitted)
}

func TestStepGivesUpAfterRetryAttempts(t *testing.T) {
	source := mocks.NewSource(t)
	target := mocks.NewTarget(t)
	r := newTestRelay(t, testConfig(t), source, target)

	source.EXPECT().OutboundLane(mock.Anything, laneL).Return(lane.OutboundLaneData{}, errors.New("connection refused")).Times(3)
	err := r.Step(context.Background(), laneL)
	require.ErrorContains(t, err, "connection refused")
}

func TestStepResendsDeliveryNotIncluded(t *testing.T) {
	source := mocks.NewSource(t)
	target := mocks.NewTarget(t)
	r := newTestRelay(t, testConfig(t), source, target)
	msg := lane.Message{Lane: laneL, Nonce: 1, Payload: []byte{1}}
	batch := chain.InboundBatch{Messages: []lane.Message{msg}, MaxWeight: bigWeight}

	source.EXPECT().OutboundLane(mock.Anything, laneL).
		Return(lane.OutboundLaneData{OldestUnprunedNonce: 1, LatestGeneratedNonce: 1}, nil)
	target.EXPECT().InboundLane(mock.Anything, laneL).Return(lane.InboundLaneData{}, nil)
	source.EXPECT().OutboundMessages(mock.Anything, laneL, uint64(1), uint64(1)).Return([]lane.Message{msg}, nil)
	target.EXPECT().DeliverMessages(mock.Anything, batch).Return(nil).Twice()

	// sent, waiting one round, sent again
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Step(context.Background(), laneL))
	}
}

func TestStepRejectsMismatchedPair(t *testing.T) {
	source := mocks.NewSource(t)
	target := mocks.NewTarget(t)
	r := newTestRelay(t, testConfig(t), source, target)

	source.EXPECT().OutboundLane(mock.Anything, laneL).Return(lane.OutboundLaneData{OldestUnprunedNonce: 1}, nil)
	target.EXPECT().InboundLane(mock.Anything, laneL).Return(lane.InboundLaneData{LastDeliveredNonce: 5}, nil)
	require.Error(t, r.Step(context.Background(), laneL))
}

func TestCheckpointStorePersists(t *testing.T) {
	p := path.Join(t.TempDir(), "cp.db")
	store, err := NewCheckpointStore(p)
	require.NoError(t, err)
	cp, err := store.Get(laneL)
	require.NoError(t, err)
	require.Zero(t, cp)
	require.NoError(t, store.Put(laneL, Checkpoint{Submitted: 7, Confirmed: 5}))
	require.NoError(t, store.Close())

	store, err = NewCheckpointStore(p)
	require.NoError(t, err)
	defer store.Close()
	cp, err = store.Get(laneL)
	require.NoError(t, err)
	require.Equal(t, Checkpoint{Submitted: 7, Confirmed: 5}, cp)
}

func TestNewWithoutLanes(t *testing.T) {
	cfg := testConfig(t)
	cfg.Lanes = nil
	_, err := New(log.WithFields("module", "relay-test"), cfg, mocks.NewSource(t), mocks.NewTarget(t))
	require.ErrorIs(t, err, ErrNoLanes)
}

func TestStartStopsWithContext(t *testing.T) {
	polkadot := newTestNode(t, "polkadot", "Polkadot", xcm.Kusama)
	kusama := newTestNode(t, "kusama", "Kusama", xcm.Polkadot)
	r := newTestRelay(t, testConfig(t), nodeEndpoint{polkadot}, nodeEndpoint{kusama})
	require.NoError(t, polkadot.SubmitProgram(xcm.SiblingLocation(1000), exportProgram()))
	produce(t, polkadot)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- r.Start(ctx) }()
	require.Eventually(t, func() bool { return kusama.Pending() >= 1 }, time.Second, 10*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}
