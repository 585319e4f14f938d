package exporter

import (
	"errors"
	"fmt"
	"math/big"

	lbcommon "github.com/0xPolygon/lanebridge/common"
	"github.com/0xPolygon/lanebridge/congestion"
	"github.com/0xPolygon/lanebridge/db"
	"github.com/0xPolygon/lanebridge/events"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/ledger"
	"github.com/0xPolygon/lanebridge/log"
	"github.com/0xPolygon/lanebridge/weight"
	"github.com/0xPolygon/lanebridge/xcm"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrNoLaneForNetwork = errors.New("no lane configured for network")
	ErrBlobTooLarge     = errors.New("exported message too large")
	ErrInvalidOrigin    = errors.New("origin cannot be expressed from this chain")
)

// Exporter wraps programs for remote networks into lane messages
type Exporter struct {
	logger    *log.Logger
	universal xcm.Junctions
	ledger    *ledger.Ledger
	ctrl      *congestion.Controller
	fees      FeeConfig
	trusted   map[uint32]struct{}
	weigher   *xcm.Weigher
}

func New(
	logger *log.Logger,
	universal xcm.Junctions,
	l *ledger.Ledger,
	ctrl *congestion.Controller,
	fees FeeConfig,
	trustedOrigins []uint32,
) (*Exporter, error) {
	if _, err := universal.Global(); err != nil {
		return nil, fmt.Errorf("invalid universal location %s: %w", universal, err)
	}
	if fees.WeightFeeDivisor == 0 {
		return nil, errors.New("WeightFeeDivisor must be greater than 0")
	}
	trusted := make(map[uint32]struct{}, len(trustedOrigins))
	for _, id := range trustedOrigins {
		trusted[id] = struct{}{}
	}
	return &Exporter{
		logger:    logger,
		universal: universal,
		ledger:    l,
		ctrl:      ctrl,
		fees:      fees,
		trusted:   trusted,
		weigher:   xcm.NewWeigher(),
	}, nil
}

// LaneFor returns the lane messages to network are exported on, the lowest lane id wins
func (e *Exporter) LaneFor(network xcm.NetworkID) (lane.Config, error) {
	for _, conf := range e.ledger.Lanes() {
		if conf.Network == network {
			return conf, nil
		}
	}
	return lane.Config{}, fmt.Errorf("%w: %s", ErrNoLaneForNetwork, network)
}

// universalSource is the universal location of origin, which is relative to this chain
func (e *Exporter) universalSource(origin xcm.Location) (xcm.Junctions, error) {
	// the global consensus junction can't be popped
	if int(origin.Parents) >= len(e.universal) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOrigin, origin)
	}
	keep := len(e.universal) - int(origin.Parents)
	out := make(xcm.Junctions, 0, keep+len(origin.Interior))
	out = append(out, e.universal[:keep]...)
	return append(out, origin.Interior...), nil
}

func topicID(inner []byte, id lane.LaneID, nonce uint64) common.Hash {
	return lbcommon.Blake2b256(inner, id[:], lbcommon.Uint64ToBytes(nonce))
}

// bridgeMessage builds what travels over the lane. The origin is expressed below the
// global consensus, the receiving side prepends the global itself.
func (e *Exporter) bridgeMessage(
	origin xcm.Location, network xcm.NetworkID, dest xcm.Junctions, inner xcm.Program, id lane.LaneID, nonce uint64,
) (xcm.BridgeMessage, error) {
	source, err := e.universalSource(origin)
	if err != nil {
		return xcm.BridgeMessage{}, err
	}
	if _, ok := inner.Topic(); !ok {
		encoded, err := inner.Bytes()
		if err != nil {
			return xcm.BridgeMessage{}, err
		}
		inner = inner.Append(xcm.SetTopic{ID: topicID(encoded, id, nonce)})
	}
	if sub := source[1:]; len(sub) > 0 {
		inner = inner.Prepend(xcm.DescendOrigin{Interior: sub})
	}
	universalDest := make(xcm.Junctions, 0, len(dest)+1)
	universalDest = append(universalDest, xcm.GlobalConsensus(network))
	universalDest = append(universalDest, dest...)
	return xcm.BridgeMessage{UniversalDest: universalDest, Message: xcm.NewVersionedProgram(inner)}, nil
}

// Export enqueues inner, a program for dest inside network, on the lane of the network.
// The topic of the message is kept when inner ends with SetTopic, otherwise one is derived
// from the program and its lane position.
func (e *Exporter) Export(
	q db.Querier, rec *events.Recorder, origin xcm.Location, network xcm.NetworkID, dest xcm.Junctions, inner xcm.Program,
) (lane.Message, error) {
	conf, err := e.LaneFor(network)
	if err != nil {
		return lane.Message{}, err
	}
	if err := e.ctrl.Admit(q, congestion.LaneChannel(conf.ID)); err != nil {
		return lane.Message{}, err
	}
	data, err := e.ledger.OutboundLane(q, conf.ID)
	if err != nil {
		return lane.Message{}, err
	}
	if data.LatestGeneratedNonce >= lane.MaxNonce {
		return lane.Message{}, fmt.Errorf("%w: %s", lane.ErrLaneOverflow, conf.ID)
	}
	nonce := data.LatestGeneratedNonce + 1

	bm, err := e.bridgeMessage(origin, network, dest, inner, conf.ID, nonce)
	if err != nil {
		return lane.Message{}, err
	}
	blob, err := bm.Bytes()
	if err != nil {
		return lane.Message{}, err
	}
	if len(blob) > xcm.MaxBlobSize {
		return lane.Message{}, fmt.Errorf("%w: %d bytes, limit %d", ErrBlobTooLarge, len(blob), xcm.MaxBlobSize)
	}
	got, err := e.ledger.EnqueueOutbound(q, conf.ID, blob)
	if err != nil {
		return lane.Message{}, err
	}
	if got != nonce {
		return lane.Message{}, fmt.Errorf("lane %s assigned nonce %d, expected %d", conf.ID, got, nonce)
	}
	rec.Emit(events.MessageAccepted{Lane: conf.ID, Nonce: nonce})
	e.logger.Debugf("exported message %d on lane %s to %s", nonce, conf.ID, network)
	return lane.Message{Lane: conf.ID, Nonce: nonce, Payload: blob}, nil
}

// FeeQuote is what an export to a network costs right now
type FeeQuote struct {
	Lane      lane.LaneID   `json:"lane"`
	FeeFactor *big.Int      `json:"feeFactor"`
	BaseFee   *big.Int      `json:"baseFee"`
	Fee       *big.Int      `json:"fee"`
	Weight    weight.Weight `json:"weight"`
}

// Quote prices exporting inner to dest inside network. The fee is not locked: an export
// paid with an older quote is still accepted.
func (e *Exporter) Quote(
	q db.Querier, network xcm.NetworkID, dest xcm.Junctions, inner xcm.Program,
) (FeeQuote, error) {
	conf, err := e.LaneFor(network)
	if err != nil {
		return FeeQuote{}, err
	}
	factor, err := e.ctrl.FeeFactor(q, congestion.LaneChannel(conf.ID))
	if err != nil {
		return FeeQuote{}, err
	}
	// the origin and the nonce don't change the size, any will do
	bm, err := e.bridgeMessage(xcm.Here(), network, dest, inner, conf.ID, 1)
	if err != nil {
		return FeeQuote{}, err
	}
	blob, err := bm.Bytes()
	if err != nil {
		return FeeQuote{}, err
	}
	encodedInner, err := inner.Bytes()
	if err != nil {
		return FeeQuote{}, err
	}
	w := weight.ExportMessage(uint64(len(encodedInner)))

	base := new(big.Int).SetUint64(e.fees.BaseFee)
	base.Add(base, new(big.Int).Mul(
		new(big.Int).SetUint64(e.fees.ByteFee), big.NewInt(int64(len(blob)))))
	base.Add(base, new(big.Int).SetUint64(w.RefTime/e.fees.WeightFeeDivisor))
	return FeeQuote{
		Lane:      conf.ID,
		FeeFactor: factor,
		BaseFee:   base,
		Fee:       congestion.ApplyFactor(base, factor),
		Weight:    w,
	}, nil
}
