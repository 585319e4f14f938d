package xcm

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

const (
	junctionParachain byte = iota
	junctionAccountID32
	junctionPalletInstance
	junctionGeneralIndex
	junctionGlobalConsensus
)

// Junction is one step of an interior path. The concrete types are comparable,
// so two junctions are equal when == says so.
type Junction interface {
	fmt.Stringer
	encode(e scale.Encoder) error
}

type (
	Parachain       uint32
	AccountID32     [32]byte
	PalletInstance  uint8
	GeneralIndex    uint64
	GlobalConsensus NetworkID
)

func (p Parachain) String() string       { return fmt.Sprintf("Parachain(%d)", uint32(p)) }
func (a AccountID32) String() string     { return "AccountId32(0x" + hex.EncodeToString(a[:]) + ")" }
func (p PalletInstance) String() string  { return fmt.Sprintf("PalletInstance(%d)", uint8(p)) }
func (g GeneralIndex) String() string    { return fmt.Sprintf("GeneralIndex(%d)", uint64(g)) }
func (g GlobalConsensus) String() string { return "GlobalConsensus(" + NetworkID(g).String() + ")" }

func (p Parachain) encode(e scale.Encoder) error {
	if err := e.PushByte(junctionParachain); err != nil {
		return err
	}
	return encodeCompact(e, uint64(p))
}

func (a AccountID32) encode(e scale.Encoder) error {
	if err := e.PushByte(junctionAccountID32); err != nil {
		return err
	}
	return e.Write(a[:])
}

func (p PalletInstance) encode(e scale.Encoder) error {
	if err := e.PushByte(junctionPalletInstance); err != nil {
		return err
	}
	return e.PushByte(byte(p))
}

func (g GeneralIndex) encode(e scale.Encoder) error {
	if err := e.PushByte(junctionGeneralIndex); err != nil {
		return err
	}
	return encodeCompact(e, uint64(g))
}

func (g GlobalConsensus) encode(e scale.Encoder) error {
	if !NetworkID(g).Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownNetwork, uint8(g))
	}
	if err := e.PushByte(junctionGlobalConsensus); err != nil {
		return err
	}
	return e.PushByte(byte(g))
}

func decodeJunction(d scale.Decoder) (Junction, error) {
	tag, err := readByte(d)
	if err != nil {
		return nil, err
	}
	switch tag {
	case junctionParachain:
		id, err := decodeCompact(d)
		if err != nil {
			return nil, err
		}
		if id > uint64(^uint32(0)) {
			return nil, fmt.Errorf("%w: parachain id %d overflows u32", ErrDecode, id)
		}
		return Parachain(id), nil
	case junctionAccountID32:
		var a AccountID32
		if err := readFull(d, a[:]); err != nil {
			return nil, err
		}
		return a, nil
	case junctionPalletInstance:
		b, err := readByte(d)
		if err != nil {
			return nil, err
		}
		return PalletInstance(b), nil
	case junctionGeneralIndex:
		i, err := decodeCompact(d)
		if err != nil {
			return nil, err
		}
		return GeneralIndex(i), nil
	case junctionGlobalConsensus:
		b, err := readByte(d)
		if err != nil {
			return nil, err
		}
		if !NetworkID(b).Valid() {
			return nil, fmt.Errorf("%w: unknown network %d", ErrDecode, b)
		}
		return GlobalConsensus(b), nil
	default:
		return nil, fmt.Errorf("%w: unknown junction %d", ErrDecode, tag)
	}
}

// Junctions is an interior path, at most MaxJunctions long
type Junctions []Junction

func (j Junctions) Equal(o Junctions) bool {
	if len(j) != len(o) {
		return false
	}
	for i := range j {
		if j[i] != o[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether the first len(prefix) junctions equal prefix
func (j Junctions) HasPrefix(prefix Junctions) bool {
	return len(prefix) <= len(j) && j[:len(prefix)].Equal(prefix)
}

func (j Junctions) String() string {
	if len(j) == 0 {
		return "Here"
	}
	parts := make([]string, len(j))
	for i, junction := range j {
		parts[i] = junction.String()
	}
	return strings.Join(parts, "/")
}

func (j Junctions) Encode(e scale.Encoder) error {
	if len(j) > MaxJunctions {
		return fmt.Errorf("too many junctions: %d", len(j))
	}
	if err := e.PushByte(byte(len(j))); err != nil {
		return err
	}
	for _, junction := range j {
		if junction == nil {
			return fmt.Errorf("nil junction in %s", j)
		}
		if err := junction.encode(e); err != nil {
			return err
		}
	}
	return nil
}

func (j *Junctions) Decode(d scale.Decoder) error {
	n, err := readByte(d)
	if err != nil {
		return err
	}
	if n > MaxJunctions {
		return fmt.Errorf("%w: %d junctions", ErrDecode, n)
	}
	out := make(Junctions, 0, n)
	for i := 0; i < int(n); i++ {
		junction, err := decodeJunction(d)
		if err != nil {
			return err
		}
		out = append(out, junction)
	}
	*j = out
	return nil
}

func (j Junctions) Bytes() ([]byte, error) {
	return encodeToBytes(j.Encode)
}

func DecodeJunctions(data []byte) (Junctions, error) {
	var j Junctions
	err := decodeExact(data, j.Decode)
	return j, err
}

// Location is a path relative to the chain interpreting it: Parents hops up,
// then down through Interior
type Location struct {
	Parents  uint8
	Interior Junctions
}

// Here is the chain interpreting the location
func Here() Location { return Location{} }

// ParentLocation is the relay chain of the interpreting chain
func ParentLocation() Location { return Location{Parents: 1} }

// SiblingLocation is another parachain under the same relay chain
func SiblingLocation(paraID uint32) Location {
	return Location{Parents: 1, Interior: Junctions{Parachain(paraID)}}
}

func NewLocation(parents uint8, interior ...Junction) Location {
	return Location{Parents: parents, Interior: interior}
}

func (l Location) Equal(o Location) bool {
	return l.Parents == o.Parents && l.Interior.Equal(o.Interior)
}

func (l Location) String() string {
	return fmt.Sprintf("{parents: %d, interior: %s}", l.Parents, l.Interior)
}

func (l Location) Encode(e scale.Encoder) error {
	if err := e.PushByte(l.Parents); err != nil {
		return err
	}
	return l.Interior.Encode(e)
}

func (l *Location) Decode(d scale.Decoder) error {
	parents, err := readByte(d)
	if err != nil {
		return err
	}
	l.Parents = parents
	return l.Interior.Decode(d)
}

func (l Location) Bytes() ([]byte, error) {
	return encodeToBytes(l.Encode)
}

func DecodeLocation(data []byte) (Location, error) {
	var l Location
	err := decodeExact(data, l.Decode)
	return l, err
}

// Reanchor expresses the universal location dest relative to the universal location
// `from`. Both must start with a GlobalConsensus junction.
func Reanchor(dest, from Junctions) Location {
	common := 0
	for common < len(dest) && common < len(from) && dest[common] == from[common] {
		common++
	}
	interior := make(Junctions, len(dest)-common)
	copy(interior, dest[common:])
	return Location{Parents: uint8(len(from) - common), Interior: interior}
}
