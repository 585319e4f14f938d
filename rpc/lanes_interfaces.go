package rpc

import (
	"github.com/0xPolygon/lanebridge/chain"
	"github.com/0xPolygon/lanebridge/exporter"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/xcm"
)

// ChainInterface is what the node offers to the RPC: committed state reads and
// submissions to the pending pool
type ChainInterface interface {
	FeeQuote(network xcm.NetworkID, dest xcm.Junctions, inner xcm.Program) (exporter.FeeQuote, error)
	OutboundLane(id lane.LaneID) (lane.OutboundLaneData, error)
	OutboundMessages(id lane.LaneID, from, to uint64) ([]lane.Message, error)
	InboundLane(id lane.LaneID) (lane.InboundLaneData, error)
	DispatchResults(id lane.LaneID, from, to uint64) ([]lane.DispatchResult, error)
	ChannelStatus() (chain.ChannelStatus, error)
	SubmitProgram(origin xcm.Location, program xcm.Program) error
	SubmitInbound(batch chain.InboundBatch) error
	SubmitConfirmation(conf chain.Confirmation) error
	SubmitChannelNotification(notification chain.ChannelNotification) error
}
