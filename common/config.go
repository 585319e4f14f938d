package common

type Config struct {
	// ParaID is the id of this chain under its relay chain
	ParaID uint32 `mapstructure:"ParaID"`
	// Network is the global consensus this chain belongs to: Polkadot, Kusama, ...
	Network string `mapstructure:"Network"`
}
