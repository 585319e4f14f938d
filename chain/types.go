package chain

import (
	"fmt"

	"github.com/0xPolygon/lanebridge/congestion"
	"github.com/0xPolygon/lanebridge/events"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/router"
	"github.com/0xPolygon/lanebridge/weight"
	"github.com/0xPolygon/lanebridge/xcm"
)

// Program is an outbound program submitted by origin, a location relative to this chain
type Program struct {
	Origin  xcm.Location
	Program xcm.Program
}

// Confirmation tells that the bridged side dispatched the lane messages up to UpTo
type Confirmation struct {
	Lane lane.LaneID `json:"lane"`
	UpTo uint64      `json:"upTo"`
}

type NotificationKind uint8

const (
	NotifyOpen NotificationKind = iota
	NotifyClose
	NotifySuspend
	NotifyResume
)

var notificationNames = [...]string{"open", "close", "suspend", "resume"}

func (k NotificationKind) String() string {
	if int(k) < len(notificationNames) {
		return notificationNames[k]
	}
	return fmt.Sprintf("NotificationKind(%d)", uint8(k))
}

func (k NotificationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *NotificationKind) UnmarshalText(text []byte) error {
	for i, name := range notificationNames {
		if name == string(text) {
			*k = NotificationKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown notification %q", text)
}

// ChannelNotification comes from the channel management handshake. Open and close only
// apply to sibling channels, suspend and resume to any channel.
type ChannelNotification struct {
	Kind    NotificationKind   `json:"kind"`
	Channel congestion.Channel `json:"channel"`
}

// InboundBatch is a delivery from the bridge transport with the weight it paid for
type InboundBatch struct {
	Messages  []lane.Message `json:"messages"`
	MaxWeight weight.Weight  `json:"maxWeight"`
}

// Block is what one state transition processes
type Block struct {
	Notifications []ChannelNotification
	Confirmations []Confirmation
	Programs      []Program
	Inbound       []InboundBatch
}

// ItemResult is the outcome of an item that can fail on its own without aborting the block
type ItemResult struct {
	Error string `json:"error,omitempty"`
}

func newItemResult(err error) ItemResult {
	if err == nil {
		return ItemResult{}
	}
	return ItemResult{Error: err.Error()}
}

type ProgramResult struct {
	ItemResult
	Exported []lane.MessageKey `json:"exported,omitempty"`
}

type BatchResult struct {
	ItemResult
	Results []lane.DispatchResult `json:"results,omitempty"`
}

// BlockResult describes a committed block
type BlockResult struct {
	Number        uint64                   `json:"number"`
	Weight        weight.Weight            `json:"weight"`
	Notifications []ItemResult             `json:"notifications"`
	Confirmations []ItemResult             `json:"confirmations"`
	Programs      []ProgramResult          `json:"programs"`
	Inbound       []BatchResult            `json:"inbound"`
	Events        []events.Event           `json:"-"`
	Drained       []router.OutboundMessage `json:"drained"`
}

// BlockEvents is what the event bus publishes for every committed block
type BlockEvents struct {
	Number uint64
	Events []events.Event
}

// ChannelStatus is the readout of the channel management and congestion state
type ChannelStatus struct {
	OpenChannels []uint32           `json:"openChannels"`
	Congestion   []congestion.State `json:"congestion"`
	Queues       []QueueStatus      `json:"queues"`
}

type QueueStatus struct {
	Channel router.Channel `json:"channel"`
	Depth   uint64         `json:"depth"`
}
