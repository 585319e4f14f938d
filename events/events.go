package events

import (
	"fmt"
	"math/big"

	"github.com/0xPolygon/lanebridge/congestion"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/ethereum/go-ethereum/common"
)

type Kind uint8

const (
	KindMessageAccepted Kind = iota
	KindUpwardMessageSent
	KindXcmpMessageSent
	KindMessageDispatched
	KindChannelOpened
	KindChannelClosed
	KindChannelCongested
	KindChannelRecovered
	KindFeeFactorChanged
	KindMessagesDelivered
	KindMessagesPruned
)

var kindNames = [...]string{
	"MessageAccepted", "UpwardMessageSent", "XcmpMessageSent", "MessageDispatched",
	"ChannelOpened", "ChannelClosed", "ChannelCongested", "ChannelRecovered",
	"FeeFactorChanged", "MessagesDelivered", "MessagesPruned",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is something observable that happened while processing a block
type Event interface {
	Kind() Kind
}

// MessageAccepted is emitted when an exported program gets a nonce on a lane
type MessageAccepted struct {
	Lane  lane.LaneID `json:"lane"`
	Nonce uint64      `json:"nonce"`
}

type UpwardMessageSent struct {
	Hash common.Hash `json:"hash"`
}

type XcmpMessageSent struct {
	ParaID uint32      `json:"paraId"`
	Hash   common.Hash `json:"hash"`
}

// MessageDispatched is emitted once for every inbound nonce, whatever its outcome
type MessageDispatched struct {
	Lane    lane.LaneID  `json:"lane"`
	Nonce   uint64       `json:"nonce"`
	Outcome lane.Outcome `json:"outcome"`
	Reason  lane.Reason  `json:"reason,omitempty"`
}

type ChannelOpened struct {
	ParaID uint32 `json:"paraId"`
}

type ChannelClosed struct {
	ParaID uint32 `json:"paraId"`
}

type ChannelCongested struct {
	Channel congestion.Channel `json:"channel"`
}

type ChannelRecovered struct {
	Channel congestion.Channel `json:"channel"`
}

type FeeFactorChanged struct {
	Channel  congestion.Channel `json:"channel"`
	Previous *big.Int           `json:"previous"`
	Current  *big.Int           `json:"current"`
}

// MessagesDelivered is emitted when the bridged side confirms delivery up to UpTo
type MessagesDelivered struct {
	Lane lane.LaneID `json:"lane"`
	UpTo uint64      `json:"upTo"`
}

type MessagesPruned struct {
	Lane           lane.LaneID `json:"lane"`
	Pruned         uint64      `json:"pruned"`
	OldestUnpruned uint64      `json:"oldestUnpruned"`
}

func (MessageAccepted) Kind() Kind   { return KindMessageAccepted }
func (UpwardMessageSent) Kind() Kind { return KindUpwardMessageSent }
func (XcmpMessageSent) Kind() Kind   { return KindXcmpMessageSent }
func (MessageDispatched) Kind() Kind { return KindMessageDispatched }
func (ChannelOpened) Kind() Kind     { return KindChannelOpened }
func (ChannelClosed) Kind() Kind     { return KindChannelClosed }
func (ChannelCongested) Kind() Kind  { return KindChannelCongested }
func (ChannelRecovered) Kind() Kind  { return KindChannelRecovered }
func (FeeFactorChanged) Kind() Kind  { return KindFeeFactorChanged }
func (MessagesDelivered) Kind() Kind { return KindMessagesDelivered }
func (MessagesPruned) Kind() Kind    { return KindMessagesPruned }

// FromCongestionUpdate translates a controller update into the events it implies
func FromCongestionUpdate(u congestion.Update) []Event {
	var out []Event
	switch u.Transition {
	case congestion.BecameCongested:
		out = append(out, ChannelCongested{Channel: u.State.Channel})
	case congestion.Recovered:
		out = append(out, ChannelRecovered{Channel: u.State.Channel})
	}
	if u.FeeFactorChanged() {
		out = append(out, FeeFactorChanged{
			Channel:  u.State.Channel,
			Previous: u.PreviousFeeFactor,
			Current:  u.State.FeeFactor,
		})
	}
	return out
}
