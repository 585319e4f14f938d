package chain

import (
	"testing"

	"github.com/0xPolygon/lanebridge/congestion"
	"github.com/0xPolygon/lanebridge/events"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/xcm"
	"github.com/stretchr/testify/require"
)

var toHere = xcm.Junctions{xcm.GlobalConsensus(xcm.Polkadot), xcm.Parachain(1002)}

func inboundProgram(t *testing.T, nonce uint64, dest xcm.Junctions, program xcm.Program) lane.Message {
	t.Helper()
	payload, err := xcm.BridgeMessage{
		UniversalDest: dest,
		Message:       xcm.NewVersionedProgram(program),
	}.Bytes()
	require.NoError(t, err)
	return lane.Message{Lane: laneL, Nonce: nonce, Payload: payload}
}

func TestDeliveryToLocalChain(t *testing.T) {
	c := newTestChain(t, testConfig(t))
	ksm := xcm.NewAsset(xcm.NewLocation(2, xcm.GlobalConsensus(xcm.Kusama)), 1_000_000_000)
	paid := xcm.Program{
		xcm.DescendOrigin{Interior: xcm.Junctions{xcm.Parachain(1000)}},
		xcm.WithdrawAsset{Assets: []xcm.Asset{ksm}},
		xcm.BuyExecution{Fees: ksm, WeightLimit: xcm.Unlimited()},
		xcm.DepositAsset{Assets: xcm.AssetFilter{Kind: xcm.FilterAll}, Beneficiary: assetHub},
	}
	unpaid := xcm.Program{xcm.UnpaidExecution{WeightLimit: xcm.Unlimited()}}

	res := processBlock(t, c, Block{Inbound: []InboundBatch{{
		Messages: []lane.Message{
			inboundProgram(t, 1, toHere, paid),
			inboundProgram(t, 2, toHere, unpaid),
		},
		MaxWeight: bigWeight,
	}}})
	require.Empty(t, res.Inbound[0].Error)
	require.Len(t, res.Inbound[0].Results, 2)
	require.Equal(t, lane.Dispatched, res.Inbound[0].Results[0].Outcome)
	// the bridged network is not a trusted sibling
	require.Equal(t, lane.NotDispatched, res.Inbound[0].Results[1].Outcome)
	require.Equal(t, lane.ReasonExecutorRejected, res.Inbound[0].Results[1].Reason)
	require.Empty(t, res.Drained)

	results, err := c.DispatchResults(laneL, 1, 1)
	require.NoError(t, err)
	require.Equal(t, lane.Dispatched, results[0].Outcome)
}

func TestTransientRoutingFailureIsRedelivered(t *testing.T) {
	c := newTestChain(t, testConfig(t))
	toSibling := inbound(t, 1, toSibling42)

	res := processBlock(t, c, Block{Inbound: []InboundBatch{{
		Messages: []lane.Message{toSibling}, MaxWeight: bigWeight,
	}}})
	require.Equal(t, lane.ReasonRoutingError, res.Inbound[0].Results[0].Reason)

	// same nonce, different payload
	res = processBlock(t, c, Block{Inbound: []InboundBatch{{
		Messages: []lane.Message{inbound(t, 1, toParent)}, MaxWeight: bigWeight,
	}}})
	require.Contains(t, res.Inbound[0].Error, lane.ErrNonceOutOfOrder.Error())
	require.Empty(t, res.Inbound[0].Results)

	res = processBlock(t, c, Block{
		Notifications: []ChannelNotification{{Kind: NotifyOpen, Channel: congestion.SiblingChannel(42)}},
		Inbound: []InboundBatch{{
			Messages:  []lane.Message{toSibling, inbound(t, 2, toParent)},
			MaxWeight: bigWeight,
		}},
	})
	require.Empty(t, res.Inbound[0].Error)
	require.Equal(t, lane.Dispatched, res.Inbound[0].Results[0].Outcome)
	require.Equal(t, toSibling.Key(), res.Inbound[0].Results[0].Key)
	require.Equal(t, lane.Dispatched, res.Inbound[0].Results[1].Outcome)
	require.Len(t, filter(res.Events, events.KindXcmpMessageSent), 1)

	inboundData, err := c.InboundLane(laneL)
	require.NoError(t, err)
	require.Equal(t, uint64(2), inboundData.LastDeliveredNonce)

	// the stored result of nonce 1 is the last dispatch
	results, err := c.DispatchResults(laneL, 1, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, lane.Dispatched, results[0].Outcome)

	res = processBlock(t, c, Block{Inbound: []InboundBatch{{
		Messages: []lane.Message{toSibling}, MaxWeight: bigWeight,
	}}})
	require.Contains(t, res.Inbound[0].Error, lane.ErrNonceOutOfOrder.Error())
}

func TestLaneOverflowAbortsBlockPrograms(t *testing.T) {
	c := newTestChain(t, testConfig(t))
	_, err := c.db.Exec(`
		INSERT INTO outbound_lane
			(lane_id, oldest_unpruned_nonce, latest_received_nonce, latest_generated_nonce)
		VALUES ($1, $2, $3, $4);`,
		laneL.String(), lane.MaxNonce, lane.MaxNonce-1, lane.MaxNonce-1)
	require.NoError(t, err)

	res := processBlock(t, c, Block{Programs: []Program{exportProgram(), exportProgram()}})
	require.Len(t, res.Programs, 2)
	for _, p := range res.Programs {
		require.Contains(t, p.Error, lane.ErrLaneOverflow.Error())
		require.Empty(t, p.Exported)
	}
	require.Empty(t, filter(res.Events, events.KindMessageAccepted))

	data, err := c.OutboundLane(laneL)
	require.NoError(t, err)
	require.Equal(t, lane.MaxNonce-1, data.LatestGeneratedNonce)

	last, err := c.LastBlock()
	require.NoError(t, err)
	require.Equal(t, uint64(1), last)
}
