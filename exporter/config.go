package exporter

// FeeConfig prices the delivery of an exported message before the congestion factor
// is applied: fee = (BaseFee + ByteFee*len(blob) + refTime/WeightFeeDivisor) * factor
type FeeConfig struct {
	BaseFee          uint64 `mapstructure:"BaseFee"`
	ByteFee          uint64 `mapstructure:"ByteFee"`
	WeightFeeDivisor uint64 `mapstructure:"WeightFeeDivisor"`
}
