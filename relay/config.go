package relay

import (
	"github.com/0xPolygon/lanebridge/config/types"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/weight"
)

type Config struct {
	// SourceURL is the RPC of the chain whose outbound lanes are relayed
	SourceURL string `mapstructure:"SourceURL"`
	// TargetURL is the RPC of the chain the messages are delivered to
	TargetURL string `mapstructure:"TargetURL"`
	// Lanes to relay, empty disables the relayer
	Lanes []lane.LaneID `mapstructure:"Lanes"`
	// CheckpointPath is the bbolt file keeping the relay progress
	CheckpointPath string `mapstructure:"CheckpointPath"`
	// PollInterval is the time between two rounds on a lane
	PollInterval types.Duration `mapstructure:"PollInterval"`
	// MaxMessagesPerBatch bounds the messages of one delivery
	MaxMessagesPerBatch uint64 `mapstructure:"MaxMessagesPerBatch"`
	// RetryAttempts and RetryDelay apply to every call to the source and the target
	RetryAttempts uint           `mapstructure:"RetryAttempts"`
	RetryDelay    types.Duration `mapstructure:"RetryDelay"`
	// MaxBatchWeight is the dispatch weight paid for every delivery
	MaxBatchWeight weight.Weight `mapstructure:"MaxBatchWeight"`
	// PendingRounds is the number of rounds a delivery may stay unincluded before it is sent again
	PendingRounds uint32 `mapstructure:"PendingRounds"`
}
