package dispatcher

import (
	"errors"
	"fmt"

	"github.com/0xPolygon/lanebridge/congestion"
	"github.com/0xPolygon/lanebridge/db"
	"github.com/0xPolygon/lanebridge/events"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/ledger"
	"github.com/0xPolygon/lanebridge/log"
	"github.com/0xPolygon/lanebridge/router"
	"github.com/0xPolygon/lanebridge/weight"
	"github.com/0xPolygon/lanebridge/xcm"
)

var ErrWeightBudgetExceeded = errors.New("delivery weight budget exceeded")

// LocalExecutor runs programs whose destination is this chain. Refusals must wrap
// xcm.ErrRejected, any other error aborts the block.
type LocalExecutor interface {
	Execute(tx *db.Tx, rec *events.Recorder, origin xcm.Location, program xcm.Program) error
}

// Dispatcher turns inbound lane messages into routed programs
type Dispatcher struct {
	logger    *log.Logger
	universal xcm.Junctions
	ledger    *ledger.Ledger
	router    *router.Router
	local     LocalExecutor
	weigher   *xcm.Weigher
}

func New(
	logger *log.Logger,
	universal xcm.Junctions,
	l *ledger.Ledger,
	r *router.Router,
	local LocalExecutor,
) (*Dispatcher, error) {
	if _, err := universal.Global(); err != nil {
		return nil, fmt.Errorf("invalid universal location %s: %w", universal, err)
	}
	return &Dispatcher{
		logger:    logger,
		universal: universal,
		ledger:    l,
		router:    r,
		local:     local,
		weigher:   xcm.NewWeigher(),
	}, nil
}

// Dispatch processes one inbound message. Failures belonging to the message are
// reported in the result, the error is only set when the block must be aborted.
func (d *Dispatcher) Dispatch(tx *db.Tx, rec *events.Recorder, msg lane.Message) (lane.DispatchResult, error) {
	return d.dispatch(tx, rec, msg, nil)
}

func (d *Dispatcher) dispatch(
	tx *db.Tx, rec *events.Recorder, msg lane.Message, budget *weight.Budget,
) (lane.DispatchResult, error) {
	result := lane.DispatchResult{Key: msg.Key(), Outcome: lane.NotDispatched, Weight: weight.ReceiveMessage}
	charge := func() error {
		if budget == nil {
			return nil
		}
		if err := budget.Charge(result.Weight); err != nil {
			return fmt.Errorf("%w: message %s needs %s, %s left",
				ErrWeightBudgetExceeded, msg.Key(), result.Weight, budget.Remaining())
		}
		return nil
	}
	notDispatched := func(reason lane.Reason, cause error) lane.DispatchResult {
		result.Reason = reason
		d.logger.Debugf("message %s not dispatched (%s): %v", msg.Key(), reason, cause)
		rec.Emit(events.MessageDispatched{Lane: msg.Lane, Nonce: msg.Nonce, Outcome: lane.NotDispatched, Reason: reason})
		return result
	}
	reject := func(reason lane.Reason, cause error) (lane.DispatchResult, error) {
		if err := charge(); err != nil {
			return lane.DispatchResult{}, err
		}
		return notDispatched(reason, cause), nil
	}

	conf, err := d.ledger.Lane(msg.Lane)
	if err != nil {
		return lane.DispatchResult{}, err
	}

	bm, err := xcm.DecodeBridgeMessage(msg.Payload)
	if err != nil {
		if errors.Is(err, xcm.ErrUnsupportedVersion) {
			return reject(lane.ReasonUnsupportedVersion, err)
		}
		return reject(lane.ReasonInvalidEncoding, err)
	}
	program := bm.Message.Program.Prepend(xcm.UniversalOrigin{Junction: xcm.GlobalConsensus(conf.Network)})
	programWeight, err := d.weigher.Weigh(program)
	if err != nil {
		return reject(lane.ReasonInvalidEncoding, err)
	}
	result.Weight = result.Weight.Add(programWeight)

	dest, err := xcm.RelativeTo(bm.UniversalDest, d.universal)
	switch {
	case errors.Is(err, xcm.ErrNonUniversal):
		return reject(lane.ReasonNonUniversalDestination, err)
	case errors.Is(err, xcm.ErrWrongGlobal):
		return reject(lane.ReasonWrongGlobal, err)
	case err != nil:
		return lane.DispatchResult{}, err
	}

	ch, err := d.router.ResolveAndAdmit(tx, dest)
	switch {
	case errors.Is(err, congestion.ErrCongested):
		return reject(lane.ReasonCongested, err)
	case errors.Is(err, router.ErrRoutingError):
		return reject(lane.ReasonRoutingError, err)
	case err != nil:
		return lane.DispatchResult{}, err
	}
	if ch.Kind != router.ChannelLocal {
		result.Weight = result.Weight.Add(weight.SendMessage)
	}
	if err := charge(); err != nil {
		return lane.DispatchResult{}, err
	}

	// the hand-off may write before failing, a refusal must leave nothing behind
	sp, err := tx.Savepoint()
	if err != nil {
		return lane.DispatchResult{}, err
	}
	cp := rec.Checkpoint()
	if ch.Kind == router.ChannelLocal {
		// the prepended UniversalOrigin moves the origin to the bridged network
		err = d.local.Execute(tx, rec, xcm.Here(), program)
	} else {
		_, err = d.router.Send(tx, rec, ch, xcm.NewVersionedProgram(program))
	}
	if err != nil {
		rec.Rewind(cp)
		if errRb := sp.Rollback(); errRb != nil {
			return lane.DispatchResult{}, errRb
		}
		switch {
		case errors.Is(err, xcm.ErrRejected):
			return notDispatched(lane.ReasonExecutorRejected, err), nil
		case errors.Is(err, router.ErrRoutingError):
			return notDispatched(lane.ReasonRoutingError, err), nil
		default:
			return lane.DispatchResult{}, err
		}
	}
	if err := sp.Release(); err != nil {
		return lane.DispatchResult{}, err
	}

	result.Outcome = lane.Dispatched
	rec.Emit(events.MessageDispatched{Lane: msg.Lane, Nonce: msg.Nonce, Outcome: lane.Dispatched})
	d.logger.Debugf("message %s dispatched to %s", msg.Key(), ch)
	return result, nil
}

// DispatchBatch processes a delivery batch. Nonces must continue the inbound lanes without
// gaps or duplicates and the batch must fit the budget. Otherwise nothing of the batch is
// kept and the error is returned so the messages get redelivered. A nonce that already
// failed with a transient reason may be delivered again with the same payload.
func (d *Dispatcher) DispatchBatch(
	tx *db.Tx, rec *events.Recorder, batch []lane.Message, budget *weight.Budget,
) ([]lane.DispatchResult, error) {
	sp, err := tx.Savepoint()
	if err != nil {
		return nil, err
	}
	cp := rec.Checkpoint()
	results, err := d.dispatchBatch(tx, rec, batch, budget)
	if err != nil {
		rec.Rewind(cp)
		if errRb := sp.Rollback(); errRb != nil {
			d.logger.Errorf("error rolling back batch: %v", errRb)
		}
		return nil, err
	}
	return results, sp.Release()
}

func (d *Dispatcher) dispatchBatch(
	tx *db.Tx, rec *events.Recorder, batch []lane.Message, budget *weight.Budget,
) ([]lane.DispatchResult, error) {
	next := map[lane.LaneID]uint64{}
	var touched []lane.LaneID
	results := make([]lane.DispatchResult, 0, len(batch))
	for _, msg := range batch {
		expected, ok := next[msg.Lane]
		if !ok {
			inbound, err := d.ledger.InboundLane(tx, msg.Lane)
			if err != nil {
				return nil, err
			}
			expected = inbound.LastDeliveredNonce + 1
			touched = append(touched, msg.Lane)
		}
		redelivery := msg.Nonce < expected
		if redelivery {
			retry, err := d.ledger.Retryable(tx, msg.Lane, msg.Nonce)
			if err != nil {
				return nil, err
			}
			if retry == nil || !retry.Matches(msg.Payload) {
				return nil, fmt.Errorf("%w: lane %s got nonce %d, expected %d",
					lane.ErrNonceOutOfOrder, msg.Lane, msg.Nonce, expected)
			}
		} else {
			if expected > lane.MaxNonce {
				return nil, fmt.Errorf("%w: inbound lane %s", lane.ErrLaneOverflow, msg.Lane)
			}
			if msg.Nonce != expected {
				return nil, fmt.Errorf("%w: lane %s got nonce %d, expected %d",
					lane.ErrNonceOutOfOrder, msg.Lane, msg.Nonce, expected)
			}
			next[msg.Lane] = expected + 1
		}

		result, err := d.dispatch(tx, rec, msg, budget)
		if err != nil {
			return nil, err
		}
		if err := d.settle(tx, msg, result, redelivery); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	for _, id := range touched {
		if err := d.ledger.SetInboundLane(tx, id, lane.InboundLaneData{LastDeliveredNonce: next[id] - 1}); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// IsTransient reports whether a NotDispatched result may succeed if the message is delivered again
func IsTransient(result lane.DispatchResult) bool {
	return result.Outcome == lane.NotDispatched &&
		(result.Reason == lane.ReasonRoutingError || result.Reason == lane.ReasonCongested)
}

// settle keeps transient failures deliverable again at the same nonce
func (d *Dispatcher) settle(tx *db.Tx, msg lane.Message, result lane.DispatchResult, redelivery bool) error {
	switch {
	case IsTransient(result):
		return d.ledger.MarkRetryable(tx, msg, result.Reason)
	case redelivery:
		return d.ledger.ClearRetryable(tx, msg.Lane, msg.Nonce)
	default:
		return nil
	}
}
