package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/0xPolygon/cdk-rpc/rpc"
	"github.com/0xPolygon/lanebridge/chain"
	"github.com/0xPolygon/lanebridge/congestion"
	"github.com/0xPolygon/lanebridge/exporter"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/rpc/types"
	"github.com/0xPolygon/lanebridge/xcm"
)

// Client calls the "lanes" endpoints of a node. It is the source and the target of the relay.
type Client struct {
	url string
}

// NewClient returns a client ready to be used
func NewClient(url string) *Client {
	return &Client{url: url}
}

func (c *Client) call(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	response, err := rpc.JSONRPCCall(c.url, method, params...)
	if err != nil {
		return err
	}
	if response.Error != nil {
		return fmt.Errorf("%v %v", response.Error.Code, response.Error.Message)
	}
	if result == nil {
		return nil
	}
	return json.Unmarshal(response.Result, result)
}

func (c *Client) FeeQuote(
	ctx context.Context, network xcm.NetworkID, dest xcm.Junctions, inner xcm.Program,
) (exporter.FeeQuote, error) {
	var result exporter.FeeQuote
	req, err := types.NewFeeQuoteRequest(network, dest, inner)
	if err != nil {
		return result, err
	}
	return result, c.call(ctx, &result, "lanes_feeQuote", req)
}

func (c *Client) OutboundLane(ctx context.Context, id lane.LaneID) (lane.OutboundLaneData, error) {
	var result lane.OutboundLaneData
	return result, c.call(ctx, &result, "lanes_outboundLane", id)
}

func (c *Client) OutboundMessages(ctx context.Context, id lane.LaneID, from, to uint64) ([]lane.Message, error) {
	var result []lane.Message
	return result, c.call(ctx, &result, "lanes_outboundMessages", id, from, to)
}

func (c *Client) InboundLane(ctx context.Context, id lane.LaneID) (lane.InboundLaneData, error) {
	var result lane.InboundLaneData
	return result, c.call(ctx, &result, "lanes_inboundLane", id)
}

func (c *Client) DispatchResults(ctx context.Context, id lane.LaneID, from, to uint64) ([]lane.DispatchResult, error) {
	var result []lane.DispatchResult
	return result, c.call(ctx, &result, "lanes_dispatchResults", id, from, to)
}

func (c *Client) ChannelStatus(ctx context.Context) (chain.ChannelStatus, error) {
	var result chain.ChannelStatus
	return result, c.call(ctx, &result, "lanes_channelStatus")
}

func (c *Client) SubmitProgram(ctx context.Context, origin xcm.Location, program xcm.Program) error {
	req, err := types.NewProgramRequest(origin, program)
	if err != nil {
		return err
	}
	return c.call(ctx, nil, "lanes_submitProgram", req)
}

func (c *Client) DeliverMessages(ctx context.Context, batch chain.InboundBatch) error {
	return c.call(ctx, nil, "lanes_deliverMessages", batch)
}

func (c *Client) ConfirmDelivery(ctx context.Context, conf chain.Confirmation) error {
	return c.call(ctx, nil, "lanes_confirmDelivery", conf)
}

func (c *Client) OpenChannel(ctx context.Context, paraID uint32) error {
	return c.call(ctx, nil, "lanes_openChannel", paraID)
}

func (c *Client) CloseChannel(ctx context.Context, paraID uint32) error {
	return c.call(ctx, nil, "lanes_closeChannel", paraID)
}

func (c *Client) SuspendChannel(ctx context.Context, ch congestion.Channel) error {
	return c.call(ctx, nil, "lanes_suspendChannel", ch)
}

func (c *Client) ResumeChannel(ctx context.Context, ch congestion.Channel) error {
	return c.call(ctx, nil, "lanes_resumeChannel", ch)
}
