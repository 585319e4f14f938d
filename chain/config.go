package chain

import "github.com/0xPolygon/lanebridge/weight"

// Config is the configuration of the state transition
type Config struct {
	// DBPath is the path of the sqlite database holding lanes, channels and fee factors
	DBPath string `mapstructure:"DBPath"`
	// MaxMessagesToPruneAtOnce bounds the confirmed messages pruned per lane at the end of a block
	MaxMessagesToPruneAtOnce uint64 `mapstructure:"MaxMessagesToPruneAtOnce"`
	// TrustedOrigins are the siblings allowed to export with UnpaidExecution
	TrustedOrigins []uint32 `mapstructure:"TrustedOrigins"`
	// MaxBlockWeight is the weight a block can consume
	MaxBlockWeight weight.Weight `mapstructure:"MaxBlockWeight"`
}
