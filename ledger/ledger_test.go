package ledger

import (
	"context"
	"database/sql"
	"path"
	"testing"

	"github.com/0xPolygon/lanebridge/db"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/ledger/migrations"
	"github.com/0xPolygon/lanebridge/log"
	"github.com/0xPolygon/lanebridge/xcm"
	"github.com/stretchr/testify/require"
)

var (
	laneL     = lane.LaneID{0, 0, 0, 1}
	laneOther = lane.LaneID{0, 0, 0, 2}
)

func newTestLedger(t *testing.T) (*Ledger, *sql.DB) {
	t.Helper()
	logger := log.WithFields("module", "ledger-test")
	database, err := db.NewSQLiteDB(path.Join(t.TempDir(), "ledger.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, migrations.RunMigrations(logger, database))

	l, err := New(logger, []lane.Config{
		{ID: laneL, Network: xcm.Kusama},
		{ID: laneOther, Network: xcm.Westend},
	})
	require.NoError(t, err)
	return l, database
}

func requireInvariant(t *testing.T, l *Ledger, q db.Querier, id lane.LaneID) lane.OutboundLaneData {
	t.Helper()
	data, err := l.OutboundLane(q, id)
	require.NoError(t, err)
	require.True(t, data.Valid(), "invariant broken: %+v", data)
	return data
}

func TestEnqueueAssignsSequentialNonces(t *testing.T) {
	l, database := newTestLedger(t)

	data := requireInvariant(t, l, database, laneL)
	require.Equal(t, lane.DefaultOutboundLaneData(), data)

	for i := uint64(1); i <= 3; i++ {
		nonce, err := l.EnqueueOutbound(database, laneL, []byte{byte(i)})
		require.NoError(t, err)
		require.Equal(t, i, nonce)
	}
	require.Equal(t, lane.OutboundLaneData{
		OldestUnprunedNonce:  1,
		LatestReceivedNonce:  0,
		LatestGeneratedNonce: 3,
	}, requireInvariant(t, l, database, laneL))

	// lanes are independent
	nonce, err := l.EnqueueOutbound(database, laneOther, []byte{0xff})
	require.NoError(t, err)
	require.Equal(t, uint64(1), nonce)

	msgs, err := l.OutboundMessages(database, laneL, 0, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	for i, m := range msgs {
		require.Equal(t, uint64(i+1), m.Nonce)
		require.Equal(t, laneL, m.Lane)
		require.Equal(t, []byte{byte(i + 1)}, []byte(m.Payload))
	}
}

func TestEnqueueUnknownLane(t *testing.T) {
	l, database := newTestLedger(t)
	_, err := l.EnqueueOutbound(database, lane.LaneID{9, 9, 9, 9}, []byte{1})
	require.ErrorIs(t, err, lane.ErrUnknownLane)
}

func TestEnqueueOverflow(t *testing.T) {
	l, database := newTestLedger(t)
	require.NoError(t, l.saveOutboundLane(database, laneL, lane.OutboundLaneData{
		OldestUnprunedNonce:  1,
		LatestReceivedNonce:  0,
		LatestGeneratedNonce: lane.MaxNonce,
	}))
	_, err := l.EnqueueOutbound(database, laneL, []byte{1})
	require.ErrorIs(t, err, lane.ErrLaneOverflow)
	// counters untouched
	require.Equal(t, lane.MaxNonce, requireInvariant(t, l, database, laneL).LatestGeneratedNonce)
}

func TestDeliveryConfirmationIsIdempotent(t *testing.T) {
	l, database := newTestLedger(t)
	for i := 0; i < 5; i++ {
		_, err := l.EnqueueOutbound(database, laneL, []byte{1})
		require.NoError(t, err)
	}

	require.NoError(t, l.RecordDeliveryConfirmation(database, laneL, 3))
	require.Equal(t, uint64(3), requireInvariant(t, l, database, laneL).LatestReceivedNonce)

	err := l.RecordDeliveryConfirmation(database, laneL, 3)
	require.ErrorIs(t, err, lane.ErrStaleConfirmation)
	err = l.RecordDeliveryConfirmation(database, laneL, 2)
	require.ErrorIs(t, err, lane.ErrStaleConfirmation)
	require.Equal(t, uint64(3), requireInvariant(t, l, database, laneL).LatestReceivedNonce)

	err = l.RecordDeliveryConfirmation(database, laneL, 6)
	require.ErrorIs(t, err, lane.ErrConfirmationAhead)
	require.Equal(t, uint64(3), requireInvariant(t, l, database, laneL).LatestReceivedNonce)

	require.NoError(t, l.RecordDeliveryConfirmation(database, laneL, 5))
	require.Equal(t, uint64(5), requireInvariant(t, l, database, laneL).LatestReceivedNonce)
}

func TestPrune(t *testing.T) {
	l, database := newTestLedger(t)
	for i := 0; i < 6; i++ {
		_, err := l.EnqueueOutbound(database, laneL, []byte{byte(i)})
		require.NoError(t, err)
	}

	// nothing received, nothing pruned
	pruned, err := l.Prune(database, laneL, 4)
	require.NoError(t, err)
	require.Zero(t, pruned)

	require.NoError(t, l.RecordDeliveryConfirmation(database, laneL, 4))

	// never beyond the received nonce
	pruned, err = l.Prune(database, laneL, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(4), pruned)
	data := requireInvariant(t, l, database, laneL)
	require.Equal(t, uint64(5), data.OldestUnprunedNonce)

	// repeating is a no-op
	pruned, err = l.Prune(database, laneL, 10)
	require.NoError(t, err)
	require.Zero(t, pruned)
	pruned, err = l.Prune(database, laneL, 2)
	require.NoError(t, err)
	require.Zero(t, pruned)

	msgs, err := l.OutboundMessages(database, laneL, data.OldestUnprunedNonce, data.LatestGeneratedNonce)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, uint64(5), msgs[0].Nonce)
}

func TestPruneConfirmedIsBounded(t *testing.T) {
	l, database := newTestLedger(t)
	for i := 0; i < 10; i++ {
		_, err := l.EnqueueOutbound(database, laneL, []byte{byte(i)})
		require.NoError(t, err)
	}
	require.NoError(t, l.RecordDeliveryConfirmation(database, laneL, 7))

	pruned, err := l.PruneConfirmed(database, laneL, 3)
	require.NoError(t, err)
	require.Equal(t, uint64(3), pruned)
	require.Equal(t, uint64(4), requireInvariant(t, l, database, laneL).OldestUnprunedNonce)

	pruned, err = l.PruneConfirmed(database, laneL, 100)
	require.NoError(t, err)
	require.Equal(t, uint64(4), pruned)
	require.Equal(t, uint64(8), requireInvariant(t, l, database, laneL).OldestUnprunedNonce)

	pruned, err = l.PruneConfirmed(database, laneL, 100)
	require.NoError(t, err)
	require.Zero(t, pruned)

	pruned, err = l.PruneConfirmed(database, laneL, 0)
	require.NoError(t, err)
	require.Zero(t, pruned)
}

func TestInvariantHoldsForOperationSequences(t *testing.T) {
	l, database := newTestLedger(t)
	ops := []struct {
		op string
		n  uint64
	}{
		{"enqueue", 0}, {"confirm", 1}, {"prune", 5}, {"enqueue", 0}, {"enqueue", 0},
		{"confirm", 2}, {"confirm", 9}, {"prune", 1}, {"confirm", 3}, {"prune", 3},
		{"enqueue", 0}, {"prune", 4}, {"confirm", 4}, {"prune", 4}, {"confirm", 4},
	}
	for _, o := range ops {
		switch o.op {
		case "enqueue":
			_, err := l.EnqueueOutbound(database, laneL, []byte{1})
			require.NoError(t, err)
		case "confirm":
			_ = l.RecordDeliveryConfirmation(database, laneL, o.n)
		case "prune":
			_, err := l.Prune(database, laneL, o.n)
			require.NoError(t, err)
		}
		requireInvariant(t, l, database, laneL)
	}
	require.Equal(t, lane.OutboundLaneData{
		OldestUnprunedNonce:  5,
		LatestReceivedNonce:  4,
		LatestGeneratedNonce: 4,
	}, requireInvariant(t, l, database, laneL))
}

func TestRollbackDiscardsNonceAdvance(t *testing.T) {
	l, database := newTestLedger(t)
	tx, err := db.NewTx(context.Background(), database)
	require.NoError(t, err)
	_, err = l.EnqueueOutbound(tx, laneL, []byte{1})
	require.NoError(t, err)
	require.Equal(t, uint64(1), requireInvariant(t, l, tx, laneL).LatestGeneratedNonce)
	require.NoError(t, tx.Rollback())

	require.Equal(t, lane.DefaultOutboundLaneData(), requireInvariant(t, l, database, laneL))
	msgs, err := l.OutboundMessages(database, laneL, 1, 10)
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestInboundLane(t *testing.T) {
	l, database := newTestLedger(t)
	data, err := l.InboundLane(database, laneL)
	require.NoError(t, err)
	require.Zero(t, data.LastDeliveredNonce)

	require.NoError(t, l.SetInboundLane(database, laneL, lane.InboundLaneData{LastDeliveredNonce: 4}))
	require.NoError(t, l.SetInboundLane(database, laneL, lane.InboundLaneData{LastDeliveredNonce: 5}))
	data, err = l.InboundLane(database, laneL)
	require.NoError(t, err)
	require.Equal(t, uint64(5), data.LastDeliveredNonce)

	_, err = l.InboundLane(database, lane.LaneID{1, 2, 3, 4})
	require.ErrorIs(t, err, lane.ErrUnknownLane)
}
