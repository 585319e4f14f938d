package dispatcher

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"testing"

	"github.com/0xPolygon/lanebridge/congestion"
	congestionmigrations "github.com/0xPolygon/lanebridge/congestion/migrations"
	"github.com/0xPolygon/lanebridge/db"
	"github.com/0xPolygon/lanebridge/db/types"
	"github.com/0xPolygon/lanebridge/dispatcher/mocks"
	"github.com/0xPolygon/lanebridge/events"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/ledger"
	ledgermigrations "github.com/0xPolygon/lanebridge/ledger/migrations"
	"github.com/0xPolygon/lanebridge/log"
	"github.com/0xPolygon/lanebridge/router"
	routermigrations "github.com/0xPolygon/lanebridge/router/migrations"
	"github.com/0xPolygon/lanebridge/weight"
	"github.com/0xPolygon/lanebridge/xcm"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	laneL = lane.LaneID{0, 0, 0, 1}
	laneM = lane.LaneID{0, 0, 0, 2}

	toParent    = xcm.Junctions{xcm.GlobalConsensus(xcm.Polkadot)}
	toSibling42 = xcm.Junctions{xcm.GlobalConsensus(xcm.Polkadot), xcm.Parachain(42)}
	toHere      = xcm.Junctions{xcm.GlobalConsensus(xcm.Polkadot), xcm.Parachain(1002)}
)

type testDispatcher struct {
	*Dispatcher
	db     *sql.DB
	ledger *ledger.Ledger
	ctrl   *congestion.Controller
	router *router.Router
	local  *mocks.LocalExecutor
}

func newTestDispatcher(t *testing.T) *testDispatcher {
	t.Helper()
	logger := log.WithFields("module", "dispatcher-test")
	database, err := db.NewSQLiteDB(path.Join(t.TempDir(), "dispatcher.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	migs := []types.Migration{}
	migs = append(migs, ledgermigrations.Migrations...)
	migs = append(migs, congestionmigrations.Migrations...)
	migs = append(migs, routermigrations.Migrations...)
	require.NoError(t, db.RunMigrationsDB(logger, database, migs))

	l, err := ledger.New(logger, []lane.Config{
		{ID: laneL, Network: xcm.Kusama},
		{ID: laneM, Network: xcm.Westend},
	})
	require.NoError(t, err)
	ctrl, err := congestion.New(logger, congestion.Config{Threshold: 10, RecoveryChecks: 1, IncreaseFactor: "1.05"})
	require.NoError(t, err)
	r := router.New(logger, router.Config{MaxUpwardMessageSize: 1024, MaxHorizontalMessageSize: 1024}, ctrl)
	local := mocks.NewLocalExecutor(t)
	d, err := New(logger, xcm.UniversalLocation(xcm.Polkadot, 1002), l, r, local)
	require.NoError(t, err)
	return &testDispatcher{Dispatcher: d, db: database, ledger: l, ctrl: ctrl, router: r, local: local}
}

func (td *testDispatcher) newTx(t *testing.T) *db.Tx {
	t.Helper()
	tx, err := db.NewTx(context.Background(), td.db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback() })
	return tx
}

func innerProgram() xcm.Program {
	return xcm.Program{xcm.ClearOrigin{}}
}

func payload(t *testing.T, dest xcm.Junctions) []byte {
	t.Helper()
	b, err := xcm.BridgeMessage{UniversalDest: dest, Message: xcm.NewVersionedProgram(innerProgram())}.Bytes()
	require.NoError(t, err)
	return b
}

func TestDispatchRoutingToSiblingNeedsOpenChannel(t *testing.T) {
	td := newTestDispatcher(t)
	tx := td.newTx(t)

	rec := events.NewRecorder()
	res, err := td.Dispatch(tx, rec, lane.Message{Lane: laneL, Nonce: 1, Payload: payload(t, toParent)})
	require.NoError(t, err)
	require.Equal(t, lane.Dispatched, res.Outcome)
	require.Len(t, rec.Filter(events.KindUpwardMessageSent), 1)

	toSibling := lane.Message{Lane: laneL, Nonce: 1, Payload: payload(t, toSibling42)}
	rec = events.NewRecorder()
	res, err = td.Dispatch(tx, rec, toSibling)
	require.NoError(t, err)
	require.Equal(t, lane.NotDispatched, res.Outcome)
	require.Equal(t, lane.ReasonRoutingError, res.Reason)
	require.Empty(t, rec.Filter(events.KindXcmpMessageSent))
	require.Equal(t, []events.Event{events.MessageDispatched{
		Lane: laneL, Nonce: 1, Outcome: lane.NotDispatched, Reason: lane.ReasonRoutingError,
	}}, rec.Events())

	require.NoError(t, td.router.OpenChannel(tx, nil, 42))
	rec = events.NewRecorder()
	res, err = td.Dispatch(tx, rec, toSibling)
	require.NoError(t, err)
	require.Equal(t, lane.Dispatched, res.Outcome)
	require.Len(t, rec.Filter(events.KindXcmpMessageSent), 1)

	drained, err := td.router.Drain(tx, router.Horizontal(42), 10)
	require.NoError(t, err)
	require.Len(t, drained, 1)
	forwarded, err := xcm.DecodeVersionedProgram(drained[0].Payload)
	require.NoError(t, err)
	require.Equal(t, innerProgram().Prepend(xcm.UniversalOrigin{Junction: xcm.GlobalConsensus(xcm.Kusama)}), forwarded.Program)
}

func TestDispatchNotDispatchedReasons(t *testing.T) {
	unsupported := payload(t, toParent)
	unsupported[0] = 2

	testCases := []struct {
		name     string
		payload  []byte
		prepare  func(t *testing.T, td *testDispatcher, tx *db.Tx)
		expected lane.Reason
	}{
		{name: "garbage", payload: []byte{3, 0xff}, expected: lane.ReasonInvalidEncoding},
		{name: "trailing bytes", payload: append(payload(t, toParent), 0), expected: lane.ReasonInvalidEncoding},
		{name: "unsupported version", payload: unsupported, expected: lane.ReasonUnsupportedVersion},
		{name: "non universal", payload: payload(t, xcm.Junctions{xcm.Parachain(42)}), expected: lane.ReasonNonUniversalDestination},
		{name: "wrong global", payload: payload(t, xcm.Junctions{xcm.GlobalConsensus(xcm.Kusama)}), expected: lane.ReasonWrongGlobal},
		{
			name:    "congested sibling",
			payload: payload(t, toSibling42),
			prepare: func(t *testing.T, td *testDispatcher, tx *db.Tx) {
				t.Helper()
				require.NoError(t, td.router.OpenChannel(tx, nil, 42))
				_, err := td.ctrl.Suspend(tx, congestion.SiblingChannel(42))
				require.NoError(t, err)
			},
			expected: lane.ReasonCongested,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			td := newTestDispatcher(t)
			tx := td.newTx(t)
			if tc.prepare != nil {
				tc.prepare(t, td, tx)
			}
			rec := events.NewRecorder()
			res, err := td.Dispatch(tx, rec, lane.Message{Lane: laneL, Nonce: 1, Payload: tc.payload})
			require.NoError(t, err)
			require.Equal(t, lane.NotDispatched, res.Outcome)
			require.Equal(t, tc.expected, res.Reason)
			require.Len(t, rec.Events(), 1)
		})
	}
}

func TestDispatchOversizedForwardIsRoutingError(t *testing.T) {
	td := newTestDispatcher(t)
	td.router = router.New(log.WithFields("module", "dispatcher-test"), router.Config{MaxUpwardMessageSize: 2}, td.ctrl)
	td.Dispatcher.router = td.router
	tx := td.newTx(t)

	res, err := td.Dispatch(tx, nil, lane.Message{Lane: laneL, Nonce: 1, Payload: payload(t, toParent)})
	require.NoError(t, err)
	require.Equal(t, lane.ReasonRoutingError, res.Reason)
	depth, err := td.router.QueueDepth(tx, router.Upward())
	require.NoError(t, err)
	require.Zero(t, depth)
}

func TestDispatchToLocalExecutor(t *testing.T) {
	td := newTestDispatcher(t)
	tx := td.newTx(t)
	expectedOrigin := xcm.Here()
	expectedProgram := innerProgram().Prepend(xcm.UniversalOrigin{Junction: xcm.GlobalConsensus(xcm.Kusama)})
	msg := lane.Message{Lane: laneL, Nonce: 1, Payload: payload(t, toHere)}

	td.local.EXPECT().Execute(tx, mock.Anything, expectedOrigin, expectedProgram).Return(nil).Once()
	res, err := td.Dispatch(tx, nil, msg)
	require.NoError(t, err)
	require.Equal(t, lane.Dispatched, res.Outcome)

	// a refusal leaves nothing behind
	td.local.EXPECT().Execute(tx, mock.Anything, expectedOrigin, expectedProgram).
		RunAndReturn(func(tx *db.Tx, rec *events.Recorder, _ xcm.Location, _ xcm.Program) error {
			require.NoError(t, td.router.OpenChannel(tx, rec, 7))
			return fmt.Errorf("%w: no fees", xcm.ErrRejected)
		}).Once()
	rec := events.NewRecorder()
	res, err = td.Dispatch(tx, rec, msg)
	require.NoError(t, err)
	require.Equal(t, lane.ReasonExecutorRejected, res.Reason)
	require.Empty(t, rec.Filter(events.KindChannelOpened))
	open, err := td.router.IsOpen(tx, 7)
	require.NoError(t, err)
	require.False(t, open)

	storageErr := errors.New("disk on fire")
	td.local.EXPECT().Execute(tx, mock.Anything, expectedOrigin, expectedProgram).Return(storageErr).Once()
	_, err = td.Dispatch(tx, nil, msg)
	require.ErrorIs(t, err, storageErr)
}

func TestDispatchBatch(t *testing.T) {
	td := newTestDispatcher(t)
	tx := td.newTx(t)
	rec := events.NewRecorder()

	batch := []lane.Message{
		{Lane: laneL, Nonce: 1, Payload: payload(t, toParent)},
		{Lane: laneM, Nonce: 1, Payload: payload(t, toSibling42)},
		{Lane: laneL, Nonce: 2, Payload: []byte{3, 0xad}},
		{Lane: laneL, Nonce: 3, Payload: payload(t, toParent)},
	}
	results, err := td.DispatchBatch(tx, rec, batch, weight.NewBudget(weight.Max))
	require.NoError(t, err)
	require.Len(t, results, len(batch))
	for i, res := range results {
		require.Equal(t, batch[i].Key(), res.Key)
		require.False(t, res.Weight.IsZero())
	}
	require.Equal(t, lane.Dispatched, results[0].Outcome)
	// a routing failure on one lane doesn't stop the others
	require.Equal(t, lane.ReasonRoutingError, results[1].Reason)
	require.Equal(t, lane.ReasonInvalidEncoding, results[2].Reason)
	require.Equal(t, lane.Dispatched, results[3].Outcome)
	require.Len(t, rec.Filter(events.KindMessageDispatched), 4)

	inbound, err := td.ledger.InboundLane(tx, laneL)
	require.NoError(t, err)
	require.Equal(t, uint64(3), inbound.LastDeliveredNonce)
	inbound, err = td.ledger.InboundLane(tx, laneM)
	require.NoError(t, err)
	require.Equal(t, uint64(1), inbound.LastDeliveredNonce)

	// redelivering a consumed nonce is a protocol violation
	_, err = td.DispatchBatch(tx, rec, batch[:1], weight.NewBudget(weight.Max))
	require.ErrorIs(t, err, lane.ErrNonceOutOfOrder)
}

func TestDispatchBatchAbortsAsAWhole(t *testing.T) {
	testCases := []struct {
		name        string
		batch       func(t *testing.T) []lane.Message
		budget      weight.Weight
		expectedErr error
	}{
		{
			name: "gap",
			batch: func(t *testing.T) []lane.Message {
				return []lane.Message{
					{Lane: laneL, Nonce: 1, Payload: payload(t, toParent)},
					{Lane: laneL, Nonce: 3, Payload: payload(t, toParent)},
				}
			},
			budget:      weight.Max,
			expectedErr: lane.ErrNonceOutOfOrder,
		},
		{
			name: "duplicate",
			batch: func(t *testing.T) []lane.Message {
				return []lane.Message{
					{Lane: laneL, Nonce: 1, Payload: payload(t, toParent)},
					{Lane: laneL, Nonce: 1, Payload: payload(t, toParent)},
				}
			},
			budget:      weight.Max,
			expectedErr: lane.ErrNonceOutOfOrder,
		},
		{
			name: "budget",
			batch: func(t *testing.T) []lane.Message {
				return []lane.Message{
					{Lane: laneL, Nonce: 1, Payload: payload(t, toParent)},
					{Lane: laneL, Nonce: 2, Payload: payload(t, toParent)},
				}
			},
			budget:      weight.SendMessage.Add(weight.ReceiveMessage).Mul(2).Sub(weight.New(1, 0)),
			expectedErr: ErrWeightBudgetExceeded,
		},
		{
			name: "unknown lane",
			batch: func(t *testing.T) []lane.Message {
				return []lane.Message{
					{Lane: laneL, Nonce: 1, Payload: payload(t, toParent)},
					{Lane: lane.LaneID{9, 9, 9, 9}, Nonce: 1, Payload: payload(t, toParent)},
				}
			},
			budget:      weight.Max,
			expectedErr: lane.ErrUnknownLane,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			td := newTestDispatcher(t)
			tx := td.newTx(t)
			rec := events.NewRecorder()
			rec.Emit(events.ChannelOpened{ParaID: 1})

			results, err := td.DispatchBatch(tx, rec, tc.batch(t), weight.NewBudget(tc.budget))
			require.ErrorIs(t, err, tc.expectedErr)
			require.Nil(t, results)

			require.Equal(t, []events.Event{events.ChannelOpened{ParaID: 1}}, rec.Events())
			inbound, err := td.ledger.InboundLane(tx, laneL)
			require.NoError(t, err)
			require.Zero(t, inbound.LastDeliveredNonce)
			depth, err := td.router.QueueDepth(tx, router.Upward())
			require.NoError(t, err)
			require.Zero(t, depth)
		})
	}
}

func TestDispatchBatchRedeliversTransientFailures(t *testing.T) {
	td := newTestDispatcher(t)
	tx := td.newTx(t)
	rec := events.NewRecorder()
	budget := weight.NewBudget(weight.Max)

	toSibling := lane.Message{Lane: laneL, Nonce: 1, Payload: payload(t, toSibling42)}
	results, err := td.DispatchBatch(tx, rec, []lane.Message{toSibling}, budget)
	require.NoError(t, err)
	require.Equal(t, lane.ReasonRoutingError, results[0].Reason)
	require.True(t, IsTransient(results[0]))

	// still closed: the nonce stays deliverable
	results, err = td.DispatchBatch(tx, rec, []lane.Message{toSibling}, budget)
	require.NoError(t, err)
	require.Equal(t, lane.ReasonRoutingError, results[0].Reason)

	// another payload at the same nonce is not a redelivery
	other := lane.Message{Lane: laneL, Nonce: 1, Payload: payload(t, toParent)}
	_, err = td.DispatchBatch(tx, rec, []lane.Message{other}, budget)
	require.ErrorIs(t, err, lane.ErrNonceOutOfOrder)

	require.NoError(t, td.router.OpenChannel(tx, rec, 42))
	next := lane.Message{Lane: laneL, Nonce: 2, Payload: payload(t, toParent)}
	results, err = td.DispatchBatch(tx, rec, []lane.Message{toSibling, next}, budget)
	require.NoError(t, err)
	require.Equal(t, lane.Dispatched, results[0].Outcome)
	require.Equal(t, toSibling.Key(), results[0].Key)
	require.Equal(t, lane.Dispatched, results[1].Outcome)

	inbound, err := td.ledger.InboundLane(tx, laneL)
	require.NoError(t, err)
	require.Equal(t, uint64(2), inbound.LastDeliveredNonce)
	retry, err := td.ledger.Retryable(tx, laneL, 1)
	require.NoError(t, err)
	require.Nil(t, retry)

	// once dispatched the nonce is consumed for good
	_, err = td.DispatchBatch(tx, rec, []lane.Message{toSibling}, budget)
	require.ErrorIs(t, err, lane.ErrNonceOutOfOrder)
}
