package rpc

import (
	"context"
	"fmt"
	"time"

	"github.com/0xPolygon/cdk-rpc/rpc"
	"github.com/0xPolygon/lanebridge/chain"
	"github.com/0xPolygon/lanebridge/congestion"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/log"
	"github.com/0xPolygon/lanebridge/rpc/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	// LANES is the namespace of the lanes service
	LANES     = "lanes"
	meterName = "github.com/0xPolygon/lanebridge/rpc"

	// maxMessagesPerQuery bounds the nonce range of the range queries
	maxMessagesPerQuery = 1024
)

// LanesEndpoints contains implementations for the "lanes" RPC endpoints
type LanesEndpoints struct {
	logger       *log.Logger
	meter        metric.Meter
	readTimeout  time.Duration
	writeTimeout time.Duration
	chain        ChainInterface
}

// NewLanesEndpoints returns LanesEndpoints
func NewLanesEndpoints(
	logger *log.Logger,
	writeTimeout time.Duration,
	readTimeout time.Duration,
	c ChainInterface,
) *LanesEndpoints {
	meter := otel.Meter(meterName)
	return &LanesEndpoints{
		logger:       logger,
		meter:        meter,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		chain:        c,
	}
}

func (l *LanesEndpoints) count(ctx context.Context, name string) {
	c, merr := l.meter.Int64Counter(name)
	if merr != nil {
		l.logger.Warnf("failed to create %s counter: %s", name, merr)
		return
	}
	c.Add(ctx, 1)
}

func (l *LanesEndpoints) read(name string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), l.readTimeout)
	l.count(ctx, name)
	return ctx, cancel
}

func (l *LanesEndpoints) write(name string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), l.writeTimeout)
	l.count(ctx, name)
	return ctx, cancel
}

func rangeError(from, to uint64) rpc.Error {
	if from > to {
		return rpc.NewRPCError(rpc.DefaultErrorCode, fmt.Sprintf("invalid range [%d, %d]", from, to))
	}
	if to-from >= maxMessagesPerQuery {
		return rpc.NewRPCError(rpc.DefaultErrorCode,
			fmt.Sprintf("range [%d, %d] is wider than %d nonces", from, to, maxMessagesPerQuery))
	}
	return nil
}

// FeeQuote returns the fee an export of the requested program pays right now. The fee
// moves with the congestion of the lane and is not locked.
func (l *LanesEndpoints) FeeQuote(req types.FeeQuoteRequest) (interface{}, rpc.Error) {
	_, cancel := l.read("fee_quote")
	defer cancel()

	dest, program, err := req.Decode()
	if err != nil {
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode, fmt.Sprintf("invalid fee quote request: %s", err))
	}
	quote, err := l.chain.FeeQuote(req.Network, dest, program)
	if err != nil {
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode, fmt.Sprintf("failed to quote fee, error: %s", err))
	}
	return quote, nil
}

// OutboundLane returns the nonces of an outbound lane
func (l *LanesEndpoints) OutboundLane(id lane.LaneID) (interface{}, rpc.Error) {
	_, cancel := l.read("outbound_lane")
	defer cancel()

	data, err := l.chain.OutboundLane(id)
	if err != nil {
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode, fmt.Sprintf("failed to get outbound lane %s, error: %s", id, err))
	}
	return data, nil
}

// OutboundMessages returns the stored messages of an outbound lane with nonce in [from, to]
func (l *LanesEndpoints) OutboundMessages(id lane.LaneID, from, to uint64) (interface{}, rpc.Error) {
	_, cancel := l.read("outbound_messages")
	defer cancel()

	if rerr := rangeError(from, to); rerr != nil {
		return nil, rerr
	}
	msgs, err := l.chain.OutboundMessages(id, from, to)
	if err != nil {
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode,
			fmt.Sprintf("failed to get messages [%d, %d] of lane %s, error: %s", from, to, id, err))
	}
	return msgs, nil
}

// InboundLane returns the last nonce dispatched from an inbound lane
func (l *LanesEndpoints) InboundLane(id lane.LaneID) (interface{}, rpc.Error) {
	_, cancel := l.read("inbound_lane")
	defer cancel()

	data, err := l.chain.InboundLane(id)
	if err != nil {
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode, fmt.Sprintf("failed to get inbound lane %s, error: %s", id, err))
	}
	return data, nil
}

// DispatchResults returns the outcome of the inbound messages with nonce in [from, to]
func (l *LanesEndpoints) DispatchResults(id lane.LaneID, from, to uint64) (interface{}, rpc.Error) {
	_, cancel := l.read("dispatch_results")
	defer cancel()

	if rerr := rangeError(from, to); rerr != nil {
		return nil, rerr
	}
	results, err := l.chain.DispatchResults(id, from, to)
	if err != nil {
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode,
			fmt.Sprintf("failed to get dispatch results [%d, %d] of lane %s, error: %s", from, to, id, err))
	}
	return results, nil
}

// ChannelStatus returns the open horizontal channels, the congestion of every watched
// channel and the depth of the transport queues
func (l *LanesEndpoints) ChannelStatus() (interface{}, rpc.Error) {
	_, cancel := l.read("channel_status")
	defer cancel()

	status, err := l.chain.ChannelStatus()
	if err != nil {
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode, fmt.Sprintf("failed to get channel status, error: %s", err))
	}
	return status, nil
}

// SubmitProgram queues an outbound program for the next block
func (l *LanesEndpoints) SubmitProgram(req types.ProgramRequest) (interface{}, rpc.Error) {
	_, cancel := l.write("submit_program")
	defer cancel()

	origin, program, err := req.Decode()
	if err != nil {
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode, fmt.Sprintf("invalid program request: %s", err))
	}
	if err := l.chain.SubmitProgram(origin, program); err != nil {
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode, fmt.Sprintf("failed to submit program, error: %s", err))
	}
	return nil, nil
}

// DeliverMessages queues a batch of messages from the bridged chain for the next block
func (l *LanesEndpoints) DeliverMessages(batch chain.InboundBatch) (interface{}, rpc.Error) {
	_, cancel := l.write("deliver_messages")
	defer cancel()

	if err := l.chain.SubmitInbound(batch); err != nil {
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode, fmt.Sprintf("failed to submit delivery, error: %s", err))
	}
	l.logger.Debugf("delivery of %d messages queued", len(batch.Messages))
	return nil, nil
}

// ConfirmDelivery queues a delivery confirmation from the bridged chain for the next block
func (l *LanesEndpoints) ConfirmDelivery(conf chain.Confirmation) (interface{}, rpc.Error) {
	_, cancel := l.write("confirm_delivery")
	defer cancel()

	if err := l.chain.SubmitConfirmation(conf); err != nil {
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode, fmt.Sprintf("failed to submit confirmation, error: %s", err))
	}
	return nil, nil
}

func (l *LanesEndpoints) notify(name string, kind chain.NotificationKind, ch congestion.Channel) (interface{}, rpc.Error) {
	_, cancel := l.write(name)
	defer cancel()

	if err := l.chain.SubmitChannelNotification(chain.ChannelNotification{Kind: kind, Channel: ch}); err != nil {
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode,
			fmt.Sprintf("failed to submit %s notification for %s, error: %s", kind, ch, err))
	}
	return nil, nil
}

// OpenChannel reports a completed open handshake with a sibling
func (l *LanesEndpoints) OpenChannel(paraID uint32) (interface{}, rpc.Error) {
	return l.notify("open_channel", chain.NotifyOpen, congestion.SiblingChannel(paraID))
}

// CloseChannel reports that the channel to a sibling was closed
func (l *LanesEndpoints) CloseChannel(paraID uint32) (interface{}, rpc.Error) {
	return l.notify("close_channel", chain.NotifyClose, congestion.SiblingChannel(paraID))
}

// SuspendChannel marks a lane or sibling channel congested until it is resumed
func (l *LanesEndpoints) SuspendChannel(ch congestion.Channel) (interface{}, rpc.Error) {
	return l.notify("suspend_channel", chain.NotifySuspend, ch)
}

// ResumeChannel lifts a suspension
func (l *LanesEndpoints) ResumeChannel(ch congestion.Channel) (interface{}, rpc.Error) {
	return l.notify("resume_channel", chain.NotifyResume, ch)
}
