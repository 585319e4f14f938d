package router

// Config bounds what the router forwards
type Config struct {
	// MaxUpwardMessageSize is the largest encoded program sent to the relay chain
	MaxUpwardMessageSize uint32 `mapstructure:"MaxUpwardMessageSize"`
	// MaxHorizontalMessageSize is the largest encoded program sent to a sibling
	MaxHorizontalMessageSize uint32 `mapstructure:"MaxHorizontalMessageSize"`
	// MaxDrainPerBlock is how many queued messages per channel are handed to the transport each block
	MaxDrainPerBlock uint32 `mapstructure:"MaxDrainPerBlock"`
}
