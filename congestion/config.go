package congestion

type Config struct {
	// Threshold is the queue depth above which a channel is congested
	Threshold uint64 `mapstructure:"Threshold"`
	// RecoveryChecks is the number of consecutive checks at or below the threshold
	// needed to leave the congested state
	RecoveryChecks uint32 `mapstructure:"RecoveryChecks"`
	// IncreaseFactor multiplies the fee factor on every check above the threshold, e.g. "1.05"
	IncreaseFactor string `mapstructure:"IncreaseFactor"`
	// DecreaseFactor multiplies the fee factor on every other check.
	// Empty means dividing by IncreaseFactor
	DecreaseFactor string `mapstructure:"DecreaseFactor"`
}
