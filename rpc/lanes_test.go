package rpc

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/0xPolygon/lanebridge/chain"
	"github.com/0xPolygon/lanebridge/congestion"
	"github.com/0xPolygon/lanebridge/exporter"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/log"
	"github.com/0xPolygon/lanebridge/rpc/mocks"
	"github.com/0xPolygon/lanebridge/rpc/types"
	"github.com/0xPolygon/lanebridge/weight"
	"github.com/0xPolygon/lanebridge/xcm"
	"github.com/stretchr/testify/require"
)

var laneL = lane.LaneID{0, 0, 0, 1}

func newLanesWithMocks(t *testing.T) (*LanesEndpoints, *mocks.ChainInterface) {
	t.Helper()
	c := mocks.NewChainInterface(t)
	return NewLanesEndpoints(log.WithFields("module", "rpc-test"), time.Second, time.Second, c), c
}

func TestFeeQuote(t *testing.T) {
	l, c := newLanesWithMocks(t)
	dest := xcm.Junctions{xcm.Parachain(1000)}
	inner := xcm.Program{xcm.ClearOrigin{}}
	req, err := types.NewFeeQuoteRequest(xcm.Kusama, dest, inner)
	require.NoError(t, err)

	quote := exporter.FeeQuote{Lane: laneL, Fee: big.NewInt(42), FeeFactor: congestion.One}
	c.EXPECT().FeeQuote(xcm.Kusama, dest, inner).Return(quote, nil).Once()
	res, rerr := l.FeeQuote(req)
	require.Nil(t, rerr)
	require.Equal(t, quote, res)

	c.EXPECT().FeeQuote(xcm.Westend, dest, inner).Return(exporter.FeeQuote{}, exporter.ErrNoLaneForNetwork).Once()
	req.Network = xcm.Westend
	_, rerr = l.FeeQuote(req)
	require.NotNil(t, rerr)
	require.Contains(t, rerr.Error(), exporter.ErrNoLaneForNetwork.Error())

	// undecodable requests never reach the chain
	req.Program = []byte{0xff}
	_, rerr = l.FeeQuote(req)
	require.NotNil(t, rerr)
}

func TestLaneReads(t *testing.T) {
	l, c := newLanesWithMocks(t)

	out := lane.OutboundLaneData{OldestUnprunedNonce: 1, LatestGeneratedNonce: 3}
	c.EXPECT().OutboundLane(laneL).Return(out, nil).Once()
	res, rerr := l.OutboundLane(laneL)
	require.Nil(t, rerr)
	require.Equal(t, out, res)

	msgs := []lane.Message{{Lane: laneL, Nonce: 1, Payload: []byte{1}}}
	c.EXPECT().OutboundMessages(laneL, uint64(1), uint64(3)).Return(msgs, nil).Once()
	res, rerr = l.OutboundMessages(laneL, 1, 3)
	require.Nil(t, rerr)
	require.Equal(t, msgs, res)

	c.EXPECT().InboundLane(laneL).Return(lane.InboundLaneData{}, lane.ErrUnknownLane).Once()
	_, rerr = l.InboundLane(laneL)
	require.NotNil(t, rerr)

	results := []lane.DispatchResult{{Key: lane.MessageKey{Lane: laneL, Nonce: 1}, Outcome: lane.Dispatched}}
	c.EXPECT().DispatchResults(laneL, uint64(1), uint64(1)).Return(results, nil).Once()
	res, rerr = l.DispatchResults(laneL, 1, 1)
	require.Nil(t, rerr)
	require.Equal(t, results, res)

	status := chain.ChannelStatus{OpenChannels: []uint32{42}}
	c.EXPECT().ChannelStatus().Return(status, nil).Once()
	res, rerr = l.ChannelStatus()
	require.Nil(t, rerr)
	require.Equal(t, status, res)
}

func TestRangeLimits(t *testing.T) {
	l, _ := newLanesWithMocks(t)
	_, rerr := l.OutboundMessages(laneL, 5, 4)
	require.NotNil(t, rerr)
	_, rerr = l.OutboundMessages(laneL, 1, maxMessagesPerQuery+1)
	require.NotNil(t, rerr)
	_, rerr = l.DispatchResults(laneL, 2, 1)
	require.NotNil(t, rerr)
}

func TestSubmissions(t *testing.T) {
	l, c := newLanesWithMocks(t)

	origin := xcm.SiblingLocation(1000)
	program := xcm.Program{xcm.ClearOrigin{}}
	req, err := types.NewProgramRequest(origin, program)
	require.NoError(t, err)
	c.EXPECT().SubmitProgram(origin, program).Return(nil).Once()
	_, rerr := l.SubmitProgram(req)
	require.Nil(t, rerr)

	batch := chain.InboundBatch{Messages: []lane.Message{{Lane: laneL, Nonce: 1}}, MaxWeight: weight.New(1, 1)}
	c.EXPECT().SubmitInbound(batch).Return(errors.New("empty")).Once()
	_, rerr = l.DeliverMessages(batch)
	require.NotNil(t, rerr)

	conf := chain.Confirmation{Lane: laneL, UpTo: 2}
	c.EXPECT().SubmitConfirmation(conf).Return(nil).Once()
	_, rerr = l.ConfirmDelivery(conf)
	require.Nil(t, rerr)
}

func TestChannelManagement(t *testing.T) {
	l, c := newLanesWithMocks(t)
	laneChannel := congestion.LaneChannel(laneL)

	c.EXPECT().SubmitChannelNotification(chain.ChannelNotification{
		Kind: chain.NotifyOpen, Channel: congestion.SiblingChannel(42),
	}).Return(nil).Once()
	c.EXPECT().SubmitChannelNotification(chain.ChannelNotification{
		Kind: chain.NotifyClose, Channel: congestion.SiblingChannel(42),
	}).Return(nil).Once()
	c.EXPECT().SubmitChannelNotification(chain.ChannelNotification{
		Kind: chain.NotifySuspend, Channel: laneChannel,
	}).Return(nil).Once()
	c.EXPECT().SubmitChannelNotification(chain.ChannelNotification{
		Kind: chain.NotifyResume, Channel: laneChannel,
	}).Return(nil).Once()

	_, rerr := l.OpenChannel(42)
	require.Nil(t, rerr)
	_, rerr = l.CloseChannel(42)
	require.Nil(t, rerr)
	_, rerr = l.SuspendChannel(laneChannel)
	require.Nil(t, rerr)
	_, rerr = l.ResumeChannel(laneChannel)
	require.Nil(t, rerr)
}
