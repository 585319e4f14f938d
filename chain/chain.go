package chain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/0xPolygon/lanebridge/chain/migrations"
	"github.com/0xPolygon/lanebridge/common"
	"github.com/0xPolygon/lanebridge/congestion"
	"github.com/0xPolygon/lanebridge/db"
	"github.com/0xPolygon/lanebridge/dispatcher"
	"github.com/0xPolygon/lanebridge/events"
	"github.com/0xPolygon/lanebridge/exporter"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/ledger"
	"github.com/0xPolygon/lanebridge/log"
	"github.com/0xPolygon/lanebridge/router"
	"github.com/0xPolygon/lanebridge/weight"
	"github.com/0xPolygon/lanebridge/xcm"
	"github.com/russross/meddler"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/0xPolygon/lanebridge/chain"

var (
	ErrBlockFull = errors.New("block weight exhausted")
	// ErrNotApplicable is returned for a notification that makes no sense for its channel
	ErrNotApplicable = errors.New("notification does not apply to channel")
)

// Components groups the configuration of everything the chain wires together
type Components struct {
	Common     common.Config
	Lanes      []lane.Config
	Congestion congestion.Config
	Fees       exporter.FeeConfig
	Router     router.Config
}

// Chain applies blocks to the lane state. Every block runs in a single database
// transaction: it is committed as a whole or not at all.
type Chain struct {
	logger     *log.Logger
	cfg        Config
	db         *sql.DB
	universal  xcm.Junctions
	ledger     *ledger.Ledger
	congestion *congestion.Controller
	router     *router.Router
	dispatcher *dispatcher.Dispatcher
	exporter   *exporter.Exporter
	weigher    *xcm.Weigher
	bus        *events.Bus[BlockEvents]
	// block processing is strictly sequential
	mu sync.Mutex

	blocksCounter     metric.Int64Counter
	dispatchedCounter metric.Int64Counter
	exportedCounter   metric.Int64Counter
}

func New(logger *log.Logger, cfg Config, components Components) (*Chain, error) {
	network, err := xcm.ParseNetworkID(components.Common.Network)
	if err != nil {
		return nil, err
	}
	universal := xcm.UniversalLocation(network, components.Common.ParaID)

	if err := migrations.RunMigrations(cfg.DBPath); err != nil {
		return nil, err
	}
	database, err := db.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	l, err := ledger.New(logger.WithFields("module", "ledger"), components.Lanes)
	if err != nil {
		return nil, err
	}
	ctrl, err := congestion.New(logger.WithFields("module", "congestion"), components.Congestion)
	if err != nil {
		return nil, err
	}
	r := router.New(logger.WithFields("module", "router"), components.Router, ctrl)
	exp, err := exporter.New(logger.WithFields("module", "exporter"), universal, l, ctrl,
		components.Fees, cfg.TrustedOrigins)
	if err != nil {
		return nil, err
	}
	d, err := dispatcher.New(logger.WithFields("module", "dispatcher"), universal, l, r, exp)
	if err != nil {
		return nil, err
	}

	c := &Chain{
		logger:     logger,
		cfg:        cfg,
		db:         database,
		universal:  universal,
		ledger:     l,
		congestion: ctrl,
		router:     r,
		dispatcher: d,
		exporter:   exp,
		weigher:    xcm.NewWeigher(),
		bus:        events.NewBus[BlockEvents](logger, 0),
	}
	c.initMetrics()
	return c, nil
}

func (c *Chain) initMetrics() {
	meter := otel.Meter(meterName)
	counter := func(name string) metric.Int64Counter {
		ctr, err := meter.Int64Counter(name)
		if err != nil {
			c.logger.Warnf("failed to create %s counter: %s", name, err)
			ctr, _ = noop.NewMeterProvider().Meter(meterName).Int64Counter(name)
		}
		return ctr
	}
	c.blocksCounter = counter("blocks_processed")
	c.dispatchedCounter = counter("messages_dispatched")
	c.exportedCounter = counter("messages_exported")
}

// Subscribe returns a channel receiving the events of every committed block
func (c *Chain) Subscribe(name string) <-chan BlockEvents {
	return c.bus.Subscribe(name)
}

func (c *Chain) Unsubscribe(ch <-chan BlockEvents) {
	c.bus.Unsubscribe(ch)
}

func (c *Chain) Close() error {
	c.bus.Close()
	return c.db.Close()
}

// Universal is the universal location of this chain
func (c *Chain) Universal() xcm.Junctions {
	return c.universal
}

// ProcessBlock applies a block. Items that fail on their own are reported in the result,
// any other error aborts the whole block and nothing of it is kept.
func (c *Chain) ProcessBlock(ctx context.Context, block Block) (*BlockResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := db.NewTx(ctx, c.db)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if errRllbck := tx.Rollback(); errRllbck != nil {
				c.logger.Errorf("error while rolling back tx %v", errRllbck)
			}
		}
	}()

	last, err := c.lastBlock(tx)
	if err != nil {
		return nil, err
	}
	res := &BlockResult{Number: last + 1}
	rec := events.NewRecorder()
	budget := weight.NewBudget(c.cfg.MaxBlockWeight)

	if err = c.onInitialize(tx, rec, budget); err != nil {
		return nil, err
	}
	if res.Notifications, err = c.processNotifications(tx, rec, budget, block.Notifications); err != nil {
		return nil, err
	}
	if res.Confirmations, err = c.processConfirmations(tx, rec, budget, block.Confirmations); err != nil {
		return nil, err
	}
	if res.Programs, err = c.processPrograms(tx, rec, budget, block.Programs); err != nil {
		return nil, err
	}
	if res.Inbound, err = c.processInbound(tx, rec, budget, res.Number, block.Inbound); err != nil {
		return nil, err
	}
	if err = c.prune(tx, rec); err != nil {
		return nil, err
	}
	if res.Drained, err = c.drain(tx); err != nil {
		return nil, err
	}
	res.Weight = budget.Consumed()
	res.Events = rec.Events()

	if _, err = tx.Exec(`INSERT INTO block (num, ref_time, proof_size, events) VALUES ($1, $2, $3, $4);`,
		res.Number, res.Weight.RefTime, res.Weight.ProofSize, len(res.Events)); err != nil {
		return nil, err
	}

	tx.AddCommitCallback(func() {
		c.bus.Publish(BlockEvents{Number: res.Number, Events: res.Events})
		c.blocksCounter.Add(ctx, 1)
		c.dispatchedCounter.Add(ctx, int64(len(rec.Filter(events.KindMessageDispatched))))
		c.exportedCounter.Add(ctx, int64(len(rec.Filter(events.KindMessageAccepted))))
	})
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	c.logger.Debugf("block %d: %d events, weight %s, %d messages drained",
		res.Number, len(res.Events), res.Weight, len(res.Drained))
	return res, nil
}

func (c *Chain) lastBlock(q db.Querier) (uint64, error) {
	var num uint64
	err := q.QueryRow("SELECT COALESCE(MAX(num), 0) FROM block;").Scan(&num)
	return num, err
}

// onInitialize checks the congestion of every lane and open sibling channel
func (c *Chain) onInitialize(tx *db.Tx, rec *events.Recorder, budget *weight.Budget) error {
	check := func(ch congestion.Channel, depth uint64) error {
		up, err := c.congestion.Check(tx, ch, depth)
		if err != nil {
			return err
		}
		rec.Emit(events.FromCongestionUpdate(up)...)
		if up.State.Congested {
			budget.Consume(weight.OnInitializeWhenCongested)
		} else {
			budget.Consume(weight.OnInitializeWhenNonCongested)
		}
		return nil
	}

	for _, conf := range c.ledger.Lanes() {
		data, err := c.ledger.OutboundLane(tx, conf.ID)
		if err != nil {
			return err
		}
		if err := check(congestion.LaneChannel(conf.ID), data.QueuedMessages()); err != nil {
			return err
		}
	}
	siblings, err := c.router.OpenChannels(tx)
	if err != nil {
		return err
	}
	for _, id := range siblings {
		depth, err := c.router.QueueDepth(tx, router.Horizontal(id))
		if err != nil {
			return err
		}
		if err := check(congestion.SiblingChannel(id), depth); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) processNotifications(
	tx *db.Tx, rec *events.Recorder, budget *weight.Budget, notifications []ChannelNotification,
) ([]ItemResult, error) {
	results := make([]ItemResult, 0, len(notifications))
	for _, n := range notifications {
		budget.Consume(weight.ReportBridgeStatus)
		err := c.applyNotification(tx, rec, n)
		if err != nil && !errors.Is(err, ErrNotApplicable) && !errors.Is(err, lane.ErrUnknownLane) {
			return nil, err
		}
		if err != nil {
			c.logger.Warnf("ignoring %s notification for %s: %v", n.Kind, n.Channel, err)
		}
		results = append(results, newItemResult(err))
	}
	return results, nil
}

func (c *Chain) applyNotification(tx *db.Tx, rec *events.Recorder, n ChannelNotification) error {
	switch n.Channel.Kind {
	case congestion.KindLane:
		id, err := lane.ParseLaneID(n.Channel.ID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNotApplicable, err)
		}
		if _, err := c.ledger.Lane(id); err != nil {
			return err
		}
	case congestion.KindSibling:
		if _, err := n.Channel.ParaID(); err != nil {
			return fmt.Errorf("%w: %w", ErrNotApplicable, err)
		}
	}

	var (
		up  congestion.Update
		err error
	)
	switch n.Kind {
	case NotifyOpen, NotifyClose:
		paraID, errID := n.Channel.ParaID()
		if errID != nil {
			return fmt.Errorf("%w: %w", ErrNotApplicable, errID)
		}
		if n.Kind == NotifyOpen {
			return c.router.OpenChannel(tx, rec, paraID)
		}
		return c.router.CloseChannel(tx, rec, paraID)
	case NotifySuspend:
		up, err = c.congestion.Suspend(tx, n.Channel)
	case NotifyResume:
		up, err = c.congestion.Resume(tx, n.Channel)
	default:
		return fmt.Errorf("%w: unknown notification %s", ErrNotApplicable, n.Kind)
	}
	if err != nil {
		return err
	}
	rec.Emit(events.FromCongestionUpdate(up)...)
	return nil
}

func (c *Chain) processConfirmations(
	tx *db.Tx, rec *events.Recorder, budget *weight.Budget, confirmations []Confirmation,
) ([]ItemResult, error) {
	results := make([]ItemResult, 0, len(confirmations))
	for _, conf := range confirmations {
		budget.Consume(weight.RocksDbWeight.ReadsWrites(1, 1))
		err := c.ledger.RecordDeliveryConfirmation(tx, conf.Lane, conf.UpTo)
		switch {
		case err == nil:
			rec.Emit(events.MessagesDelivered{Lane: conf.Lane, UpTo: conf.UpTo})
		case errors.Is(err, lane.ErrStaleConfirmation):
			// retries of an older confirmation are expected
			c.logger.Debugf("stale confirmation: %v", err)
			err = nil
		case errors.Is(err, lane.ErrConfirmationAhead), errors.Is(err, lane.ErrUnknownLane):
			c.logger.Warnf("rejected confirmation: %v", err)
		default:
			return nil, err
		}
		results = append(results, newItemResult(err))
	}
	return results, nil
}

func isRejection(err error) bool {
	return errors.Is(err, xcm.ErrRejected)
}

// processPrograms runs the outbound programs of the block. A lane counter overflow is a
// protocol violation: every program of the block is undone and reported with it.
func (c *Chain) processPrograms(
	tx *db.Tx, rec *events.Recorder, budget *weight.Budget, programs []Program,
) ([]ProgramResult, error) {
	sp, err := tx.Savepoint()
	if err != nil {
		return nil, err
	}
	cp := rec.Checkpoint()
	stepBudget := weight.NewBudget(budget.Remaining())
	results, err := c.runPrograms(tx, rec, stepBudget, programs)
	if errors.Is(err, lane.ErrLaneOverflow) {
		rec.Rewind(cp)
		if errRb := sp.Rollback(); errRb != nil {
			return nil, errRb
		}
		c.logger.Errorf("outbound programs of the block aborted: %v", err)
		aborted := make([]ProgramResult, len(programs))
		for i := range aborted {
			aborted[i] = ProgramResult{ItemResult: newItemResult(err)}
		}
		return aborted, nil
	}
	if err != nil {
		return nil, err
	}
	if err := sp.Release(); err != nil {
		return nil, err
	}
	budget.Consume(stepBudget.Consumed())
	return results, nil
}

func (c *Chain) runPrograms(
	tx *db.Tx, rec *events.Recorder, budget *weight.Budget, programs []Program,
) ([]ProgramResult, error) {
	results := make([]ProgramResult, 0, len(programs))
	for _, p := range programs {
		w, err := c.weigher.Weigh(p.Program)
		if err != nil {
			results = append(results, ProgramResult{ItemResult: newItemResult(err)})
			continue
		}
		if err := budget.Charge(w); err != nil {
			results = append(results, ProgramResult{ItemResult: newItemResult(fmt.Errorf("%w: %w", ErrBlockFull, err))})
			continue
		}

		sp, err := tx.Savepoint()
		if err != nil {
			return nil, err
		}
		cp := rec.Checkpoint()
		msgs, err := c.exporter.ExecuteAndCollect(tx, rec, p.Origin, p.Program)
		if err != nil {
			rec.Rewind(cp)
			if errRb := sp.Rollback(); errRb != nil {
				return nil, errRb
			}
			if !isRejection(err) {
				return nil, err
			}
			c.logger.Infof("program from %s rejected: %v", p.Origin, err)
			results = append(results, ProgramResult{ItemResult: newItemResult(err)})
			continue
		}
		if err := sp.Release(); err != nil {
			return nil, err
		}
		res := ProgramResult{}
		for _, m := range msgs {
			res.Exported = append(res.Exported, m.Key())
		}
		results = append(results, res)
	}
	return results, nil
}

type dispatchResultRow struct {
	Lane      lane.LaneID  `meddler:"lane_id,text"`
	Nonce     uint64       `meddler:"nonce"`
	BlockNum  uint64       `meddler:"block_num"`
	Outcome   lane.Outcome `meddler:"outcome,text"`
	Reason    lane.Reason  `meddler:"reason,text"`
	RefTime   uint64       `meddler:"ref_time"`
	ProofSize uint64       `meddler:"proof_size"`
}

func (r *dispatchResultRow) result() lane.DispatchResult {
	return lane.DispatchResult{
		Key:     lane.MessageKey{Lane: r.Lane, Nonce: r.Nonce},
		Outcome: r.Outcome,
		Reason:  r.Reason,
		Weight:  weight.New(r.RefTime, r.ProofSize),
	}
}

func isBatchViolation(err error) bool {
	return errors.Is(err, lane.ErrNonceOutOfOrder) ||
		errors.Is(err, dispatcher.ErrWeightBudgetExceeded) ||
		errors.Is(err, lane.ErrUnknownLane) ||
		errors.Is(err, lane.ErrLaneOverflow)
}

func (c *Chain) processInbound(
	tx *db.Tx, rec *events.Recorder, budget *weight.Budget, blockNum uint64, batches []InboundBatch,
) ([]BatchResult, error) {
	out := make([]BatchResult, 0, len(batches))
	for _, batch := range batches {
		// the batch can't use more than what it paid for nor more than what is left in the block
		batchBudget := weight.NewBudget(weight.Min(batch.MaxWeight, budget.Remaining()))
		results, err := c.dispatcher.DispatchBatch(tx, rec, batch.Messages, batchBudget)
		if err != nil {
			if !isBatchViolation(err) {
				return nil, err
			}
			c.logger.Warnf("delivery batch of %d messages rejected: %v", len(batch.Messages), err)
			out = append(out, BatchResult{ItemResult: newItemResult(err)})
			continue
		}
		budget.Consume(batchBudget.Consumed())
		for _, r := range results {
			row := &dispatchResultRow{
				Lane:      r.Key.Lane,
				Nonce:     r.Key.Nonce,
				BlockNum:  blockNum,
				Outcome:   r.Outcome,
				Reason:    r.Reason,
				RefTime:   r.Weight.RefTime,
				ProofSize: r.Weight.ProofSize,
			}
			// a redelivered nonce replaces its previous result
			if _, err := tx.Exec("DELETE FROM dispatch_result WHERE lane_id = $1 AND nonce = $2;",
				r.Key.Lane.String(), r.Key.Nonce); err != nil {
				return nil, fmt.Errorf("error replacing result of %s: %w", r.Key, err)
			}
			if err := meddler.Insert(tx, "dispatch_result", row); err != nil {
				return nil, fmt.Errorf("error storing result of %s: %w", r.Key, err)
			}
		}
		out = append(out, BatchResult{Results: results})
	}
	return out, nil
}

func (c *Chain) prune(tx *db.Tx, rec *events.Recorder) error {
	for _, conf := range c.ledger.Lanes() {
		pruned, err := c.ledger.PruneConfirmed(tx, conf.ID, c.cfg.MaxMessagesToPruneAtOnce)
		if err != nil {
			return err
		}
		if pruned == 0 {
			continue
		}
		data, err := c.ledger.OutboundLane(tx, conf.ID)
		if err != nil {
			return err
		}
		rec.Emit(events.MessagesPruned{Lane: conf.ID, Pruned: pruned, OldestUnpruned: data.OldestUnprunedNonce})
	}
	return nil
}

// drain hands the queued upward and horizontal messages to the transport. They leave the
// queues with the block, so an aborted block keeps them queued.
func (c *Chain) drain(tx *db.Tx) ([]router.OutboundMessage, error) {
	channels, err := c.router.QueuedChannels(tx)
	if err != nil {
		return nil, err
	}
	var drained []router.OutboundMessage
	for _, ch := range channels {
		msgs, err := c.router.Drain(tx, ch, 0)
		if err != nil {
			return nil, err
		}
		drained = append(drained, msgs...)
	}
	return drained, nil
}
