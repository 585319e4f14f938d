package node

import (
	"context"
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
	"github.com/0xPolygon/lanebridge/node/mocks"
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

func newTestNode(t *testing.T, cfg Config) (*Node, *mocks.Transport) {
	t.Helper()
	logger := log.WithFields("module", "node-test")
	c, err := chain.New(logger, chain.Config{
		DBPath:                   path.Join(t.TempDir(), "node.sqlite"),
		MaxMessagesToPruneAtOnce: 10,
		MaxBlockWeight:           bigWeight,
	}, chain.Components{
		Common:     common.Config{ParaID: 1002, Network: "Polkadot"},
		Lanes:      []lane.Config{{ID: laneL, Network: xcm.Kusama}},
		Congestion: congestion.Config{Threshold: 100, RecoveryChecks: 1, IncreaseFactor: "1.05"},
		Fees:       exporter.FeeConfig{BaseFee: 1, ByteFee: 1, WeightFeeDivisor: 1},
		Router:     router.Config{MaxUpwardMessageSize: 1024, MaxHorizontalMessageSize: 1024, MaxDrainPerBlock: 10},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	transport := mocks.NewTransport(t)
	return New(logger, cfg, c, transport), transport
}

func exportProgram() xcm.Program {
	dot := xcm.NewAsset(xcm.ParentLocation(), 1_000_000_000)
	return xcm.Program{
		xcm.WithdrawAsset{Assets: []xcm.Asset{dot}},
		xcm.BuyExecution{Fees: dot, WeightLimit: xcm.Unlimited()},
		xcm.ExportMessage{Network: xcm.Kusama, Destination: xcm.Junctions{xcm.Parachain(1000)}, Xcm: xcm.Program{xcm.ClearOrigin{}}},
	}
}

func toParent(t *testing.T, nonce uint64) lane.Message {
	t.Helper()
	payload, err := xcm.BridgeMessage{
		UniversalDest: xcm.Junctions{xcm.GlobalConsensus(xcm.Polkadot)},
		Message:       xcm.NewVersionedProgram(xcm.Program{xcm.ClearOrigin{}}),
	}.Bytes()
	require.NoError(t, err)
	return lane.Message{Lane: laneL, Nonce: nonce, Payload: payload}
}

func TestSubmitValidation(t *testing.T) {
	n, _ := newTestNode(t, Config{})
	require.ErrorIs(t, n.SubmitProgram(xcm.SiblingLocation(1000), nil), ErrEmptyProgram)
	require.ErrorIs(t, n.SubmitInbound(chain.InboundBatch{MaxWeight: bigWeight}), ErrEmptyBatch)
	require.Zero(t, n.Pending())
}

func TestProduceBlockTakesBoundedItems(t *testing.T) {
	n, _ := newTestNode(t, Config{MaxProgramsPerBlock: 2})
	for i := 0; i < 3; i++ {
		require.NoError(t, n.SubmitProgram(xcm.SiblingLocation(1000), exportProgram()))
	}
	require.NoError(t, n.SubmitChannelNotification(chain.ChannelNotification{
		Kind: chain.NotifyOpen, Channel: congestion.SiblingChannel(42),
	}))
	require.Equal(t, 4, n.Pending())

	res, err := n.ProduceBlock(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Programs, 2)
	require.Len(t, res.Notifications, 1)
	require.Equal(t, 1, n.Pending())

	res, err = n.ProduceBlock(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Programs, 1)
	require.Equal(t, []lane.MessageKey{{Lane: laneL, Nonce: 3}}, res.Programs[0].Exported)
	require.Zero(t, n.Pending())

	require.NoError(t, n.SubmitConfirmation(chain.Confirmation{Lane: laneL, UpTo: 3}))
	_, err = n.ProduceBlock(context.Background())
	require.NoError(t, err)
	data, err := n.OutboundLane(laneL)
	require.NoError(t, err)
	require.Equal(t, uint64(3), data.LatestReceivedNonce)
}

func TestProduceBlockSendsDrainedMessages(t *testing.T) {
	n, transport := newTestNode(t, Config{})
	require.NoError(t, n.SubmitInbound(chain.InboundBatch{
		Messages:  []lane.Message{toParent(t, 1), toParent(t, 2)},
		MaxWeight: bigWeight,
	}))

	transport.EXPECT().Send(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, msgs []router.OutboundMessage) error {
			require.Len(t, msgs, 2)
			for _, m := range msgs {
				require.Equal(t, router.Upward(), m.Channel())
			}
			return nil
		}).Once()
	res, err := n.ProduceBlock(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Drained, 2)

	// nothing left to send
	res, err = n.ProduceBlock(context.Background())
	require.NoError(t, err)
	require.Empty(t, res.Drained)
}

func TestAbortedBlockKeepsItemsPending(t *testing.T) {
	n, _ := newTestNode(t, Config{})
	require.NoError(t, n.SubmitProgram(xcm.SiblingLocation(1000), exportProgram()))
	require.NoError(t, n.SubmitConfirmation(chain.Confirmation{Lane: laneL, UpTo: 1}))
	require.NoError(t, n.Chain.Close())

	_, err := n.ProduceBlock(context.Background())
	require.Error(t, err)
	require.Equal(t, 2, n.Pending())
}

func TestStartProducesBlocks(t *testing.T) {
	n, _ := newTestNode(t, Config{BlockTime: types.NewDuration(10 * time.Millisecond)})
	require.NoError(t, n.SubmitProgram(xcm.SiblingLocation(1000), exportProgram()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		n.Start(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool {
		data, err := n.OutboundLane(laneL)
		return err == nil && data.LatestGeneratedNonce == 1
	}, time.Second, 10*time.Millisecond)
	require.Zero(t, n.Pending())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("block loop did not stop")
	}
}
