package ledger

import (
	"errors"
	"fmt"
	"sort"

	"github.com/0xPolygon/lanebridge/db"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/log"
	"github.com/russross/meddler"
)

// Ledger owns the nonce counters and the pending payloads of the configured lanes.
// Every method takes the querier to run on, mutations are expected to run inside
// the block transaction so they roll back with it.
type Ledger struct {
	logger *log.Logger
	lanes  map[lane.LaneID]lane.Config
}

type outboundLaneRow struct {
	Lane                 lane.LaneID `meddler:"lane_id,text"`
	OldestUnprunedNonce  uint64      `meddler:"oldest_unpruned_nonce"`
	LatestReceivedNonce  uint64      `meddler:"latest_received_nonce"`
	LatestGeneratedNonce uint64      `meddler:"latest_generated_nonce"`
}

type outboundMessageRow struct {
	Lane    lane.LaneID `meddler:"lane_id,text"`
	Nonce   uint64      `meddler:"nonce"`
	Payload []byte      `meddler:"payload"`
}

type inboundLaneRow struct {
	Lane               lane.LaneID `meddler:"lane_id,text"`
	LastDeliveredNonce uint64      `meddler:"last_delivered_nonce"`
}

func New(logger *log.Logger, lanes []lane.Config) (*Ledger, error) {
	confs, err := lane.Configs(lanes)
	if err != nil {
		return nil, err
	}
	return &Ledger{logger: logger, lanes: confs}, nil
}

// Lane returns the configuration of a lane
func (l *Ledger) Lane(id lane.LaneID) (lane.Config, error) {
	conf, ok := l.lanes[id]
	if !ok {
		return lane.Config{}, fmt.Errorf("%w: %s", lane.ErrUnknownLane, id)
	}
	return conf, nil
}

// Lanes returns the configured lanes ordered by id
func (l *Ledger) Lanes() []lane.Config {
	out := make([]lane.Config, 0, len(l.lanes))
	for _, conf := range l.lanes {
		out = append(out, conf)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// OutboundLane returns the counters of the lane, the default ones if it never had traffic
func (l *Ledger) OutboundLane(q db.Querier, id lane.LaneID) (lane.OutboundLaneData, error) {
	if _, err := l.Lane(id); err != nil {
		return lane.OutboundLaneData{}, err
	}
	row := &outboundLaneRow{}
	err := meddler.QueryRow(q, row, "SELECT * FROM outbound_lane WHERE lane_id = $1;", id.String())
	if errors.Is(db.ReturnErrNotFound(err), db.ErrNotFound) {
		return lane.DefaultOutboundLaneData(), nil
	}
	if err != nil {
		return lane.OutboundLaneData{}, err
	}
	return lane.OutboundLaneData{
		OldestUnprunedNonce:  row.OldestUnprunedNonce,
		LatestReceivedNonce:  row.LatestReceivedNonce,
		LatestGeneratedNonce: row.LatestGeneratedNonce,
	}, nil
}

func (l *Ledger) saveOutboundLane(q db.Querier, id lane.LaneID, data lane.OutboundLaneData) error {
	if !data.Valid() {
		return fmt.Errorf("refusing to store inconsistent lane %s data %+v", id, data)
	}
	_, err := q.Exec(`
		INSERT INTO outbound_lane (lane_id, oldest_unpruned_nonce, latest_received_nonce, latest_generated_nonce)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (lane_id) DO UPDATE SET
			oldest_unpruned_nonce = excluded.oldest_unpruned_nonce,
			latest_received_nonce = excluded.latest_received_nonce,
			latest_generated_nonce = excluded.latest_generated_nonce;`,
		id.String(), data.OldestUnprunedNonce, data.LatestReceivedNonce, data.LatestGeneratedNonce)
	return err
}

// EnqueueOutbound stores payload under the next nonce of the lane and returns that nonce
func (l *Ledger) EnqueueOutbound(q db.Querier, id lane.LaneID, payload []byte) (uint64, error) {
	data, err := l.OutboundLane(q, id)
	if err != nil {
		return 0, err
	}
	if data.LatestGeneratedNonce >= lane.MaxNonce {
		return 0, fmt.Errorf("%w: lane %s", lane.ErrLaneOverflow, id)
	}
	nonce := data.LatestGeneratedNonce + 1
	if err := meddler.Insert(q, "outbound_message", &outboundMessageRow{
		Lane:    id,
		Nonce:   nonce,
		Payload: payload,
	}); err != nil {
		return 0, fmt.Errorf("error storing message %d of lane %s: %w", nonce, id, err)
	}
	data.LatestGeneratedNonce = nonce
	if err := l.saveOutboundLane(q, id, data); err != nil {
		return 0, err
	}
	l.logger.Debugf("lane %s: enqueued message %d (%d bytes)", id, nonce, len(payload))
	return nonce, nil
}

// RecordDeliveryConfirmation marks the messages up to upTo as received by the other side.
// Confirming again what is already confirmed returns ErrStaleConfirmation and changes nothing.
func (l *Ledger) RecordDeliveryConfirmation(q db.Querier, id lane.LaneID, upTo uint64) error {
	data, err := l.OutboundLane(q, id)
	if err != nil {
		return err
	}
	if upTo <= data.LatestReceivedNonce {
		return fmt.Errorf("%w: lane %s already confirmed up to %d, got %d",
			lane.ErrStaleConfirmation, id, data.LatestReceivedNonce, upTo)
	}
	if upTo > data.LatestGeneratedNonce {
		return fmt.Errorf("%w: lane %s generated up to %d, got %d",
			lane.ErrConfirmationAhead, id, data.LatestGeneratedNonce, upTo)
	}
	data.LatestReceivedNonce = upTo
	return l.saveOutboundLane(q, id, data)
}

// Prune discards the payloads of received messages up to upTo and returns how many were
// removed. Nothing beyond the latest received nonce is ever pruned.
func (l *Ledger) Prune(q db.Querier, id lane.LaneID, upTo uint64) (uint64, error) {
	data, err := l.OutboundLane(q, id)
	if err != nil {
		return 0, err
	}
	target := upTo
	if target > data.LatestReceivedNonce {
		target = data.LatestReceivedNonce
	}
	if target < data.OldestUnprunedNonce {
		return 0, nil
	}
	if _, err := q.Exec("DELETE FROM outbound_message WHERE lane_id = $1 AND nonce <= $2;",
		id.String(), target); err != nil {
		return 0, fmt.Errorf("error pruning lane %s up to %d: %w", id, target, err)
	}
	pruned := target - data.OldestUnprunedNonce + 1
	data.OldestUnprunedNonce = target + 1
	if err := l.saveOutboundLane(q, id, data); err != nil {
		return 0, err
	}
	return pruned, nil
}

// PruneConfirmed prunes at most max of the received messages of the lane
func (l *Ledger) PruneConfirmed(q db.Querier, id lane.LaneID, max uint64) (uint64, error) {
	if max == 0 {
		return 0, nil
	}
	data, err := l.OutboundLane(q, id)
	if err != nil {
		return 0, err
	}
	if data.LatestReceivedNonce < data.OldestUnprunedNonce {
		return 0, nil
	}
	upTo := data.OldestUnprunedNonce + max - 1
	if upTo < data.OldestUnprunedNonce || upTo > data.LatestReceivedNonce {
		upTo = data.LatestReceivedNonce
	}
	return l.Prune(q, id, upTo)
}

// OutboundMessages returns the stored messages of the lane with nonce in [from, to]
func (l *Ledger) OutboundMessages(q db.Querier, id lane.LaneID, from, to uint64) ([]lane.Message, error) {
	if _, err := l.Lane(id); err != nil {
		return nil, err
	}
	if to > lane.MaxNonce {
		to = lane.MaxNonce
	}
	var rows []*outboundMessageRow
	if err := meddler.QueryAll(q, &rows, `
		SELECT * FROM outbound_message
		WHERE lane_id = $1 AND nonce >= $2 AND nonce <= $3
		ORDER BY nonce ASC;`, id.String(), from, to); err != nil {
		return nil, err
	}
	messages := make([]lane.Message, len(rows))
	for i, row := range rows {
		messages[i] = lane.Message{Lane: row.Lane, Nonce: row.Nonce, Payload: row.Payload}
	}
	return messages, nil
}

// InboundLane returns the high-water mark of the messages dispatched from the lane
func (l *Ledger) InboundLane(q db.Querier, id lane.LaneID) (lane.InboundLaneData, error) {
	if _, err := l.Lane(id); err != nil {
		return lane.InboundLaneData{}, err
	}
	row := &inboundLaneRow{}
	err := meddler.QueryRow(q, row, "SELECT * FROM inbound_lane WHERE lane_id = $1;", id.String())
	if errors.Is(db.ReturnErrNotFound(err), db.ErrNotFound) {
		return lane.InboundLaneData{}, nil
	}
	if err != nil {
		return lane.InboundLaneData{}, err
	}
	return lane.InboundLaneData{LastDeliveredNonce: row.LastDeliveredNonce}, nil
}

func (l *Ledger) SetInboundLane(q db.Querier, id lane.LaneID, data lane.InboundLaneData) error {
	if _, err := l.Lane(id); err != nil {
		return err
	}
	_, err := q.Exec(`
		INSERT INTO inbound_lane (lane_id, last_delivered_nonce) VALUES ($1, $2)
		ON CONFLICT (lane_id) DO UPDATE SET last_delivered_nonce = excluded.last_delivered_nonce;`,
		id.String(), data.LastDeliveredNonce)
	return err
}
