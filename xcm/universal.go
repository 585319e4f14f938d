package xcm

import (
	"errors"
	"fmt"
)

// ErrRejected is returned by executors refusing a program: bad origin, missing fees,
// unexpected instructions. It never means the storage failed.
var ErrRejected = errors.New("program rejected")

var (
	ErrNonUniversal = errors.New("location is not universal")
	ErrWrongGlobal  = errors.New("location belongs to another global consensus")
)

// UniversalLocation of a parachain, the root every relative location of the chain hangs from
func UniversalLocation(network NetworkID, paraID uint32) Junctions {
	return Junctions{GlobalConsensus(network), Parachain(paraID)}
}

// Global returns the network a universal location starts with
func (j Junctions) Global() (NetworkID, error) {
	if len(j) == 0 {
		return 0, fmt.Errorf("%w: empty interior", ErrNonUniversal)
	}
	gc, ok := j[0].(GlobalConsensus)
	if !ok {
		return 0, fmt.Errorf("%w: starts with %s", ErrNonUniversal, j[0])
	}
	return NetworkID(gc), nil
}

// RelativeTo expresses the universal location dest from the chain at universal location
// `here`. Both must live under the same global consensus.
func RelativeTo(dest, here Junctions) (Location, error) {
	destNetwork, err := dest.Global()
	if err != nil {
		return Location{}, err
	}
	hereNetwork, err := here.Global()
	if err != nil {
		return Location{}, err
	}
	if destNetwork != hereNetwork {
		return Location{}, fmt.Errorf("%w: %s, local is %s", ErrWrongGlobal, destNetwork, hereNetwork)
	}
	return Reanchor(dest, here), nil
}
