package xcm

import (
	"fmt"

	lbcommon "github.com/0xPolygon/lanebridge/common"
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/ethereum/go-ethereum/common"
)

// Program is an unversioned list of instructions
type Program []Instruction

func (p Program) Encode(e scale.Encoder) error {
	if len(p) > MaxInstructions {
		return fmt.Errorf("too many instructions: %d", len(p))
	}
	if err := encodeCompact(e, uint64(len(p))); err != nil {
		return err
	}
	for i, instruction := range p {
		if instruction == nil {
			return fmt.Errorf("nil instruction at %d", i)
		}
		if err := e.PushByte(byte(instruction.Opcode())); err != nil {
			return err
		}
		if err := instruction.encodeFields(e); err != nil {
			return fmt.Errorf("error encoding %s: %w", instruction.Opcode(), err)
		}
	}
	return nil
}

func decodeProgram(d scale.Decoder, depth int) (Program, error) {
	if depth > MaxDecodeDepth {
		return nil, ErrTooDeep
	}
	n, err := decodeCompact(d)
	if err != nil {
		return nil, err
	}
	if n > MaxInstructions {
		return nil, ErrTooManyInstructions
	}
	p := make(Program, 0, n)
	for i := uint64(0); i < n; i++ {
		instruction, err := decodeInstruction(d, depth)
		if err != nil {
			return nil, err
		}
		p = append(p, instruction)
	}
	return p, nil
}

// Bytes is the SCALE encoding of the program
func (p Program) Bytes() ([]byte, error) {
	return encodeToBytes(p.Encode)
}

func DecodeProgram(data []byte) (Program, error) {
	var p Program
	err := decodeExact(data, func(d scale.Decoder) error {
		var err error
		p, err = decodeProgram(d, 1)
		return err
	})
	return p, err
}

// Hash is the blake2b-256 of the encoded program
func (p Program) Hash() (common.Hash, error) {
	b, err := p.Bytes()
	if err != nil {
		return common.Hash{}, err
	}
	return lbcommon.Blake2b256(b), nil
}

// Topic returns the id set by a trailing SetTopic
func (p Program) Topic() (common.Hash, bool) {
	if len(p) == 0 {
		return common.Hash{}, false
	}
	if t, ok := p[len(p)-1].(SetTopic); ok {
		return t.ID, true
	}
	return common.Hash{}, false
}

// Prepend returns a new program with the instructions placed before p's
func (p Program) Prepend(instructions ...Instruction) Program {
	out := make(Program, 0, len(instructions)+len(p))
	out = append(out, instructions...)
	return append(out, p...)
}

// Append returns a new program with the instructions placed after p's
func (p Program) Append(instructions ...Instruction) Program {
	out := make(Program, 0, len(instructions)+len(p))
	out = append(out, p...)
	return append(out, instructions...)
}

// VersionedProgram is a program prefixed with the version of its encoding
type VersionedProgram struct {
	Version uint8
	Program Program
}

func NewVersionedProgram(p Program) VersionedProgram {
	return VersionedProgram{Version: CurrentVersion, Program: p}
}

func (v VersionedProgram) Encode(e scale.Encoder) error {
	if v.Version != CurrentVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, v.Version)
	}
	if err := e.PushByte(v.Version); err != nil {
		return err
	}
	return v.Program.Encode(e)
}

func (v *VersionedProgram) Decode(d scale.Decoder) error {
	version, err := readByte(d)
	if err != nil {
		return err
	}
	if version != CurrentVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	v.Version = version
	v.Program, err = decodeProgram(d, 1)
	return err
}

func (v VersionedProgram) Bytes() ([]byte, error) {
	return encodeToBytes(v.Encode)
}

func DecodeVersionedProgram(data []byte) (VersionedProgram, error) {
	var v VersionedProgram
	err := decodeExact(data, v.Decode)
	return v, err
}

// BridgeMessage is the payload carried by a lane: a program and the universal
// location it must be delivered to
type BridgeMessage struct {
	UniversalDest Junctions
	Message       VersionedProgram
}

func (m BridgeMessage) Encode(e scale.Encoder) error {
	if err := e.PushByte(CurrentVersion); err != nil {
		return err
	}
	if err := m.UniversalDest.Encode(e); err != nil {
		return err
	}
	return m.Message.Encode(e)
}

func (m *BridgeMessage) Decode(d scale.Decoder) error {
	version, err := readByte(d)
	if err != nil {
		return err
	}
	if version != CurrentVersion {
		return fmt.Errorf("%w: destination version %d", ErrUnsupportedVersion, version)
	}
	if err := m.UniversalDest.Decode(d); err != nil {
		return err
	}
	return m.Message.Decode(d)
}

func (m BridgeMessage) Bytes() ([]byte, error) {
	return encodeToBytes(m.Encode)
}

func DecodeBridgeMessage(data []byte) (BridgeMessage, error) {
	var m BridgeMessage
	err := decodeExact(data, m.Decode)
	return m, err
}
