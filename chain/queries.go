package chain

import (
	"fmt"

	"github.com/0xPolygon/lanebridge/db"
	"github.com/0xPolygon/lanebridge/exporter"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/router"
	"github.com/0xPolygon/lanebridge/xcm"
	"github.com/russross/meddler"
)

// Reads run against the last committed state. They are not serialized with block
// processing and never see a block in progress.

func (c *Chain) Lanes() []lane.Config {
	return c.ledger.Lanes()
}

func (c *Chain) LastBlock() (uint64, error) {
	return c.lastBlock(c.db)
}

func (c *Chain) OutboundLane(id lane.LaneID) (lane.OutboundLaneData, error) {
	return c.ledger.OutboundLane(c.db, id)
}

// OutboundMessages returns the stored messages of a lane with nonce in [from, to]
func (c *Chain) OutboundMessages(id lane.LaneID, from, to uint64) ([]lane.Message, error) {
	return c.ledger.OutboundMessages(c.db, id, from, to)
}

func (c *Chain) InboundLane(id lane.LaneID) (lane.InboundLaneData, error) {
	return c.ledger.InboundLane(c.db, id)
}

// FeeQuote prices the export of inner to dest on the bridged network
func (c *Chain) FeeQuote(network xcm.NetworkID, dest xcm.Junctions, inner xcm.Program) (exporter.FeeQuote, error) {
	return c.exporter.Quote(c.db, network, dest, inner)
}

func (c *Chain) ChannelStatus() (ChannelStatus, error) {
	var (
		status ChannelStatus
		err    error
	)
	if status.OpenChannels, err = c.router.OpenChannels(c.db); err != nil {
		return status, err
	}
	if status.Congestion, err = c.congestion.States(c.db); err != nil {
		return status, err
	}
	channels, err := c.router.QueuedChannels(c.db)
	if err != nil {
		return status, err
	}
	for _, ch := range channels {
		depth, err := c.router.QueueDepth(c.db, ch)
		if err != nil {
			return status, err
		}
		status.Queues = append(status.Queues, QueueStatus{Channel: ch, Depth: depth})
	}
	return status, nil
}

// DispatchResults returns the stored dispatch outcomes of a lane with nonce in [from, to]
func (c *Chain) DispatchResults(id lane.LaneID, from, to uint64) ([]lane.DispatchResult, error) {
	if _, err := c.ledger.Lane(id); err != nil {
		return nil, err
	}
	if from > to {
		return nil, fmt.Errorf("invalid range [%d, %d]", from, to)
	}
	var rows []*dispatchResultRow
	err := meddler.QueryAll(c.db, &rows, `
		SELECT * FROM dispatch_result
		WHERE lane_id = $1 AND nonce >= $2 AND nonce <= $3
		ORDER BY nonce ASC;`, id.String(), from, to)
	if err != nil {
		return nil, db.ReturnErrNotFound(err)
	}
	results := make([]lane.DispatchResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.result())
	}
	return results, nil
}

// QueueDepth returns the number of messages waiting on a transport channel
func (c *Chain) QueueDepth(ch router.Channel) (uint64, error) {
	return c.router.QueueDepth(c.db, ch)
}
