package lane

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/0xPolygon/lanebridge/weight"
	"github.com/0xPolygon/lanebridge/xcm"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	ErrUnknownLane        = errors.New("lane is not configured")
	ErrLaneOverflow       = errors.New("lane nonce overflow")
	ErrStaleConfirmation  = errors.New("stale delivery confirmation")
	ErrConfirmationAhead  = errors.New("confirmation ahead of generated messages")
	ErrNonceOutOfOrder    = errors.New("nonce out of order")
	ErrInvalidLaneID      = errors.New("invalid lane id")
	ErrDuplicatedLaneConf = errors.New("lane configured twice")
)

// MaxNonce is the highest nonce a lane can assign, the largest value the store holds
const MaxNonce uint64 = math.MaxInt64

// LaneID names a bidirectional channel between this chain and a bridged network
type LaneID [4]byte

func ParseLaneID(s string) (LaneID, error) {
	var id LaneID
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil || len(raw) != len(id) {
		return id, fmt.Errorf("%w: %q", ErrInvalidLaneID, s)
	}
	copy(id[:], raw)
	return id, nil
}

func (l LaneID) String() string {
	return hex.EncodeToString(l[:])
}

func (l LaneID) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *LaneID) UnmarshalText(text []byte) error {
	id, err := ParseLaneID(string(text))
	if err != nil {
		return err
	}
	*l = id
	return nil
}

// Config binds a lane to the remote network its messages are exported to
type Config struct {
	ID      LaneID        `mapstructure:"ID"`
	Network xcm.NetworkID `mapstructure:"Network"`
}

// Configs checks that no lane id is repeated and returns them indexed
func Configs(lanes []Config) (map[LaneID]Config, error) {
	out := make(map[LaneID]Config, len(lanes))
	for _, l := range lanes {
		if _, ok := out[l.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatedLaneConf, l.ID)
		}
		out[l.ID] = l
	}
	return out, nil
}

// OutboundLaneData are the counters of an outbound lane.
// oldest_unpruned <= latest_received+1 <= latest_generated+1 always holds.
type OutboundLaneData struct {
	OldestUnprunedNonce  uint64 `json:"oldestUnprunedNonce"`
	LatestReceivedNonce  uint64 `json:"latestReceivedNonce"`
	LatestGeneratedNonce uint64 `json:"latestGeneratedNonce"`
}

// DefaultOutboundLaneData is the state of a lane that never had traffic
func DefaultOutboundLaneData() OutboundLaneData {
	return OutboundLaneData{OldestUnprunedNonce: 1}
}

// QueuedMessages are the messages generated but not yet confirmed as delivered
func (d OutboundLaneData) QueuedMessages() uint64 {
	return d.LatestGeneratedNonce - d.LatestReceivedNonce
}

func (d OutboundLaneData) Valid() bool {
	return d.OldestUnprunedNonce <= d.LatestReceivedNonce+1 &&
		d.LatestReceivedNonce <= d.LatestGeneratedNonce
}

// InboundLaneData is the high-water mark of the messages dispatched from a lane
type InboundLaneData struct {
	LastDeliveredNonce uint64 `json:"lastDeliveredNonce"`
}

type MessageKey struct {
	Lane  LaneID `json:"lane"`
	Nonce uint64 `json:"nonce"`
}

func (k MessageKey) String() string {
	return fmt.Sprintf("%s/%d", k.Lane, k.Nonce)
}

type Message struct {
	Lane    LaneID        `json:"lane"`
	Nonce   uint64        `json:"nonce"`
	Payload hexutil.Bytes `json:"payload"`
}

func (m Message) Key() MessageKey {
	return MessageKey{Lane: m.Lane, Nonce: m.Nonce}
}

type Outcome uint8

const (
	Dispatched Outcome = iota
	NotDispatched
)

func (o Outcome) String() string {
	if o == Dispatched {
		return "Dispatched"
	}
	return "NotDispatched"
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Dispatched":
		*o = Dispatched
	case "NotDispatched":
		*o = NotDispatched
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}
	return nil
}

// Reason explains a NotDispatched outcome
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonInvalidEncoding
	ReasonUnsupportedVersion
	ReasonNonUniversalDestination
	ReasonWrongGlobal
	ReasonRoutingError
	ReasonCongested
	ReasonExecutorRejected
)

var reasonNames = [...]string{
	"", "InvalidEncoding", "UnsupportedVersion", "NonUniversalDestination", "WrongGlobal",
	"RoutingError", "Congested", "ExecutorRejected",
}

func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return fmt.Sprintf("Reason(%d)", uint8(r))
}

func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Reason) UnmarshalText(text []byte) error {
	for i, name := range reasonNames {
		if name == string(text) {
			*r = Reason(i)
			return nil
		}
	}
	return fmt.Errorf("unknown reason %q", text)
}

// DispatchResult is the outcome of one inbound message. Weight is what the dispatch
// consumed from the delivery budget.
type DispatchResult struct {
	Key     MessageKey    `json:"key"`
	Outcome Outcome       `json:"outcome"`
	Reason  Reason        `json:"reason,omitempty"`
	Weight  weight.Weight `json:"weight"`
}

func (r DispatchResult) String() string {
	if r.Outcome == Dispatched {
		return fmt.Sprintf("%s: Dispatched", r.Key)
	}
	return fmt.Sprintf("%s: NotDispatched(%s)", r.Key, r.Reason)
}
