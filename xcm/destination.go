package xcm

import "fmt"

type DestinationKind uint8

const (
	DestMalformed DestinationKind = iota
	DestHere
	DestParent
	DestSibling
	DestRemoteNetwork
)

// Destination is the routing class of a location as seen from a parachain
type Destination struct {
	Kind DestinationKind
	// ParaID is set for DestSibling
	ParaID uint32
	// Network is set for DestRemoteNetwork
	Network NetworkID
}

func (d Destination) String() string {
	switch d.Kind {
	case DestHere:
		return "Here"
	case DestParent:
		return "Parent"
	case DestSibling:
		return fmt.Sprintf("Sibling(%d)", d.ParaID)
	case DestRemoteNetwork:
		return fmt.Sprintf("RemoteNetwork(%s)", d.Network)
	default:
		return "Malformed"
	}
}

// Classify maps a location relative to this parachain onto the closed set of
// destinations the router knows about
func Classify(l Location) Destination {
	switch l.Parents {
	case 0:
		return Destination{Kind: DestHere}
	case 1:
		if len(l.Interior) == 0 {
			return Destination{Kind: DestParent}
		}
		if id, ok := l.Interior[0].(Parachain); ok {
			return Destination{Kind: DestSibling, ParaID: uint32(id)}
		}
	case 2: //nolint:gomnd
		if len(l.Interior) > 0 {
			if gc, ok := l.Interior[0].(GlobalConsensus); ok {
				return Destination{Kind: DestRemoteNetwork, Network: NetworkID(gc)}
			}
		}
	}
	return Destination{Kind: DestMalformed}
}
