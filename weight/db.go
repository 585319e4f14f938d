package weight

// DbWeight is the cost of a single storage read and write
type DbWeight struct {
	Read  uint64
	Write uint64
}

// RocksDbWeight are the reference costs of a RocksDB backed store
var RocksDbWeight = DbWeight{
	Read:  25_000_000,
	Write: 100_000_000,
}

func (d DbWeight) Reads(n uint64) Weight {
	return FromRefTime(satMul(d.Read, n))
}

func (d DbWeight) Writes(n uint64) Weight {
	return FromRefTime(satMul(d.Write, n))
}

func (d DbWeight) ReadsWrites(reads, writes uint64) Weight {
	return d.Reads(reads).Add(d.Writes(writes))
}
