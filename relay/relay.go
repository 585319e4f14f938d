package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/0xPolygon/lanebridge/chain"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/log"
	"github.com/avast/retry-go/v4"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPollInterval  = 3 * time.Second
	defaultBatchSize     = 16
	defaultPendingRounds = 3
)

var ErrNoLanes = errors.New("no lanes to relay")

// Source is the chain whose outbound lanes are relayed
type Source interface {
	OutboundLane(ctx context.Context, id lane.LaneID) (lane.OutboundLaneData, error)
	OutboundMessages(ctx context.Context, id lane.LaneID, from, to uint64) ([]lane.Message, error)
	ConfirmDelivery(ctx context.Context, conf chain.Confirmation) error
}

// Target is the chain the messages are delivered to
type Target interface {
	InboundLane(ctx context.Context, id lane.LaneID) (lane.InboundLaneData, error)
	DeliverMessages(ctx context.Context, batch chain.InboundBatch) error
}

// Relay moves the messages of the source outbound lanes to the target and the delivery
// confirmations back to the source
type Relay struct {
	logger      *log.Logger
	cfg         Config
	source      Source
	target      Target
	checkpoints *CheckpointStore
	retryOpts   []retry.Option

	mu sync.Mutex
	// rounds a submitted delivery has been waiting for inclusion, per lane
	pending map[lane.LaneID]uint32
}

func New(logger *log.Logger, cfg Config, source Source, target Target) (*Relay, error) {
	if len(cfg.Lanes) == 0 {
		return nil, ErrNoLanes
	}
	if cfg.PollInterval.Duration <= 0 {
		cfg.PollInterval.Duration = defaultPollInterval
	}
	if cfg.MaxMessagesPerBatch == 0 {
		cfg.MaxMessagesPerBatch = defaultBatchSize
	}
	if cfg.PendingRounds == 0 {
		cfg.PendingRounds = defaultPendingRounds
	}
	if cfg.RetryAttempts == 0 {
		cfg.RetryAttempts = 1
	}
	checkpoints, err := NewCheckpointStore(cfg.CheckpointPath)
	if err != nil {
		return nil, err
	}
	return &Relay{
		logger:      logger,
		cfg:         cfg,
		source:      source,
		target:      target,
		checkpoints: checkpoints,
		retryOpts: []retry.Option{
			retry.Attempts(cfg.RetryAttempts),
			retry.Delay(cfg.RetryDelay.Duration),
			retry.LastErrorOnly(true),
		},
		pending: make(map[lane.LaneID]uint32),
	}, nil
}

func (r *Relay) do(ctx context.Context, what string, fn func() error) error {
	opts := append([]retry.Option{
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Warnf("%s failed (attempt %d/%d): %v", what, n+1, r.cfg.RetryAttempts, err)
		}),
	}, r.retryOpts...)
	if err := retry.Do(fn, opts...); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

// Start relays every configured lane until ctx is done
func (r *Relay) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range r.cfg.Lanes {
		id := id
		g.Go(func() error {
			r.run(ctx, id)
			return nil
		})
	}
	return g.Wait()
}

func (r *Relay) run(ctx context.Context, id lane.LaneID) {
	logger := r.logger.WithFields("lane", id.String())
	ticker := time.NewTicker(r.cfg.PollInterval.Duration)
	defer ticker.Stop()
	logger.Infof("relaying lane every %s", r.cfg.PollInterval)
	for {
		select {
		case <-ticker.C:
			if err := r.Step(ctx, id); err != nil {
				logger.Errorf("relay round failed: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Step runs one round on a lane: confirm what the target dispatched and deliver the next batch
func (r *Relay) Step(ctx context.Context, id lane.LaneID) error {
	var (
		out lane.OutboundLaneData
		in  lane.InboundLaneData
	)
	err := r.do(ctx, "reading source outbound lane", func() (err error) {
		out, err = r.source.OutboundLane(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	err = r.do(ctx, "reading target inbound lane", func() (err error) {
		in, err = r.target.InboundLane(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	cp, err := r.checkpoints.Get(id)
	if err != nil {
		return err
	}

	if err := r.confirm(ctx, id, out, in, &cp); err != nil {
		return err
	}
	return r.deliver(ctx, id, out, in, &cp)
}

func (r *Relay) confirm(
	ctx context.Context, id lane.LaneID, out lane.OutboundLaneData, in lane.InboundLaneData, cp *Checkpoint,
) error {
	upTo := in.LastDeliveredNonce
	if upTo > out.LatestGeneratedNonce {
		// the target saw messages the source does not know about, it is not our pair
		return fmt.Errorf("target delivered up to %d but source generated only %d", upTo, out.LatestGeneratedNonce)
	}
	// sent again every round until the source includes it, older ones are no-ops there
	if upTo <= out.LatestReceivedNonce {
		return nil
	}
	conf := chain.Confirmation{Lane: id, UpTo: upTo}
	if err := r.do(ctx, "confirming delivery", func() error {
		return r.source.ConfirmDelivery(ctx, conf)
	}); err != nil {
		return err
	}
	cp.Confirmed = upTo
	r.logger.Debugf("lane %s: confirmed up to %d", id, upTo)
	return r.checkpoints.Put(id, *cp)
}

func (r *Relay) deliver(
	ctx context.Context, id lane.LaneID, out lane.OutboundLaneData, in lane.InboundLaneData, cp *Checkpoint,
) error {
	next := in.LastDeliveredNonce + 1
	if cp.Submitted > in.LastDeliveredNonce {
		// the last delivery is not included yet
		r.mu.Lock()
		r.pending[id]++
		rounds := r.pending[id]
		r.mu.Unlock()
		if rounds <= r.cfg.PendingRounds {
			return nil
		}
		r.logger.Warnf("lane %s: delivery up to %d not included after %d rounds, sending again from %d",
			id, cp.Submitted, rounds-1, next)
	}
	r.mu.Lock()
	r.pending[id] = 0
	r.mu.Unlock()

	if next > out.LatestGeneratedNonce {
		return nil
	}
	to := out.LatestGeneratedNonce
	if to-next+1 > r.cfg.MaxMessagesPerBatch {
		to = next + r.cfg.MaxMessagesPerBatch - 1
	}
	var msgs []lane.Message
	err := r.do(ctx, "reading source messages", func() (err error) {
		msgs, err = r.source.OutboundMessages(ctx, id, next, to)
		return err
	})
	if err != nil {
		return err
	}
	if len(msgs) == 0 || msgs[0].Nonce != next {
		return fmt.Errorf("source returned no message %d for lane %s", next, id)
	}

	batch := chain.InboundBatch{Messages: msgs, MaxWeight: r.cfg.MaxBatchWeight}
	if err := r.do(ctx, "delivering messages", func() error {
		return r.target.DeliverMessages(ctx, batch)
	}); err != nil {
		return err
	}
	cp.Submitted = msgs[len(msgs)-1].Nonce
	r.logger.Infof("lane %s: delivered %d messages [%d, %d]", id, len(msgs), next, cp.Submitted)
	return r.checkpoints.Put(id, *cp)
}

func (r *Relay) Close() error {
	return multierr.Combine(
		r.checkpoints.Close(),
		closeIfCloser(r.source),
		closeIfCloser(r.target),
	)
}

func closeIfCloser(v interface{}) error {
	if c, ok := v.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
