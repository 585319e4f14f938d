package node

import "github.com/0xPolygon/lanebridge/config/types"

type Config struct {
	// BlockTime is the interval between two blocks
	BlockTime types.Duration `mapstructure:"BlockTime"`
	// MaxProgramsPerBlock bounds the outbound programs taken from the pool per block,
	// the rest wait for the next one
	MaxProgramsPerBlock int `mapstructure:"MaxProgramsPerBlock"`
	// MaxInboundBatchesPerBlock bounds the delivery batches taken from the pool per block
	MaxInboundBatchesPerBlock int `mapstructure:"MaxInboundBatchesPerBlock"`
}
