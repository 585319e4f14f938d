package node

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/0xPolygon/lanebridge/chain"
	"github.com/0xPolygon/lanebridge/log"
	"github.com/0xPolygon/lanebridge/router"
	"github.com/0xPolygon/lanebridge/xcm"
)

const defaultBlockTime = 6 * time.Second

var (
	ErrEmptyProgram = errors.New("empty program")
	ErrEmptyBatch   = errors.New("empty delivery batch")
)

// Transport carries the messages drained from the upward and horizontal queues
type Transport interface {
	Send(ctx context.Context, msgs []router.OutboundMessage) error
}

// Node produces blocks out of what was submitted since the previous one
type Node struct {
	*chain.Chain

	logger    *log.Logger
	cfg       Config
	transport Transport

	mu      sync.Mutex
	pending chain.Block
}

func New(logger *log.Logger, cfg Config, c *chain.Chain, transport Transport) *Node {
	return &Node{
		Chain:     c,
		logger:    logger,
		cfg:       cfg,
		transport: transport,
	}
}

func (n *Node) SubmitProgram(origin xcm.Location, program xcm.Program) error {
	if len(program) == 0 {
		return ErrEmptyProgram
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending.Programs = append(n.pending.Programs, chain.Program{Origin: origin, Program: program})
	return nil
}

func (n *Node) SubmitInbound(batch chain.InboundBatch) error {
	if len(batch.Messages) == 0 {
		return ErrEmptyBatch
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending.Inbound = append(n.pending.Inbound, batch)
	return nil
}

func (n *Node) SubmitConfirmation(conf chain.Confirmation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending.Confirmations = append(n.pending.Confirmations, conf)
	return nil
}

func (n *Node) SubmitChannelNotification(notification chain.ChannelNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending.Notifications = append(n.pending.Notifications, notification)
	return nil
}

// Pending returns how many items wait for the next block
func (n *Node) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pending.Notifications) + len(n.pending.Confirmations) +
		len(n.pending.Programs) + len(n.pending.Inbound)
}

func split[T any](items []T, limit int) (taken, rest []T) {
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], items[limit:]
}

func (n *Node) take() chain.Block {
	n.mu.Lock()
	defer n.mu.Unlock()
	block := chain.Block{
		Notifications: n.pending.Notifications,
		Confirmations: n.pending.Confirmations,
	}
	var (
		programs []chain.Program
		batches  []chain.InboundBatch
	)
	block.Programs, programs = split(n.pending.Programs, n.cfg.MaxProgramsPerBlock)
	block.Inbound, batches = split(n.pending.Inbound, n.cfg.MaxInboundBatchesPerBlock)
	n.pending = chain.Block{Programs: programs, Inbound: batches}
	return block
}

// putBack returns the items of an aborted block to the front of the pool
func (n *Node) putBack(block chain.Block) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending.Notifications = concat(block.Notifications, n.pending.Notifications)
	n.pending.Confirmations = concat(block.Confirmations, n.pending.Confirmations)
	n.pending.Programs = concat(block.Programs, n.pending.Programs)
	n.pending.Inbound = concat(block.Inbound, n.pending.Inbound)
}

func concat[T any](front, back []T) []T {
	out := make([]T, 0, len(front)+len(back))
	return append(append(out, front...), back...)
}

// ProduceBlock processes one block with the pending items. If the block is aborted its
// items stay in the pool.
func (n *Node) ProduceBlock(ctx context.Context) (*chain.BlockResult, error) {
	block := n.take()
	res, err := n.ProcessBlock(ctx, block)
	if err != nil {
		n.putBack(block)
		return nil, err
	}
	if len(res.Drained) > 0 {
		if err := n.transport.Send(ctx, res.Drained); err != nil {
			n.logger.Errorf("error sending %d messages of block %d: %v", len(res.Drained), res.Number, err)
		}
	}
	return res, nil
}

// Start produces a block every BlockTime until ctx is done
func (n *Node) Start(ctx context.Context) {
	blockTime := n.cfg.BlockTime.Duration
	if blockTime <= 0 {
		blockTime = defaultBlockTime
	}
	ticker := time.NewTicker(blockTime)
	defer ticker.Stop()
	n.logger.Infof("producing blocks every %s", blockTime)
	for {
		select {
		case <-ticker.C:
			res, err := n.ProduceBlock(ctx)
			if err != nil {
				n.logger.Errorf("error producing block: %v", err)
				continue
			}
			n.logger.Debugf("block %d produced", res.Number)
		case <-ctx.Done():
			n.logger.Info("block production stopped")
			return
		}
	}
}

// LogTransport only logs the drained messages, for deployments where the relay chain
// collects them from the node events
type LogTransport struct {
	logger *log.Logger
}

func NewLogTransport(logger *log.Logger) *LogTransport {
	return &LogTransport{logger: logger}
}

func (t *LogTransport) Send(_ context.Context, msgs []router.OutboundMessage) error {
	for _, m := range msgs {
		t.logger.Infof("message %s to %s: %d bytes", m.Hash, m.Channel(), len(m.Payload))
	}
	return nil
}
