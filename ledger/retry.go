package ledger

import (
	"errors"

	"github.com/0xPolygon/lanebridge/common"
	"github.com/0xPolygon/lanebridge/db"
	"github.com/0xPolygon/lanebridge/lane"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/russross/meddler"
)

// InboundRetry is an inbound message already counted as delivered whose dispatch failed
// for a transient reason. The same payload may be delivered again at the same nonce.
type InboundRetry struct {
	Lane        lane.LaneID    `meddler:"lane_id,text"`
	Nonce       uint64         `meddler:"nonce"`
	PayloadHash ethcommon.Hash `meddler:"payload_hash,hash"`
	Reason      lane.Reason    `meddler:"reason,text"`
}

// MarkRetryable allows msg to be delivered again, replacing a previous mark of the same nonce
func (l *Ledger) MarkRetryable(q db.Querier, msg lane.Message, reason lane.Reason) error {
	if _, err := l.Lane(msg.Lane); err != nil {
		return err
	}
	_, err := q.Exec(`
		INSERT INTO inbound_retry (lane_id, nonce, payload_hash, reason) VALUES ($1, $2, $3, $4)
		ON CONFLICT (lane_id, nonce) DO UPDATE SET
			payload_hash = excluded.payload_hash, reason = excluded.reason;`,
		msg.Lane.String(), msg.Nonce, common.Blake2b256(msg.Payload).Hex(), reason.String())
	return err
}

// Retryable returns the retry mark of a nonce, nil if it can't be delivered again
func (l *Ledger) Retryable(q db.Querier, id lane.LaneID, nonce uint64) (*InboundRetry, error) {
	if _, err := l.Lane(id); err != nil {
		return nil, err
	}
	row := &InboundRetry{}
	err := meddler.QueryRow(q, row,
		"SELECT * FROM inbound_retry WHERE lane_id = $1 AND nonce = $2;", id.String(), nonce)
	if errors.Is(db.ReturnErrNotFound(err), db.ErrNotFound) {
		return nil, nil //nolint:nilnil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// ClearRetryable removes the retry mark of a nonce, once its dispatch settled
func (l *Ledger) ClearRetryable(q db.Querier, id lane.LaneID, nonce uint64) error {
	_, err := q.Exec("DELETE FROM inbound_retry WHERE lane_id = $1 AND nonce = $2;", id.String(), nonce)
	return err
}

// Matches reports whether payload is the one that failed
func (r *InboundRetry) Matches(payload []byte) bool {
	return r.PayloadHash == common.Blake2b256(payload)
}
