package xcm

import (
	"fmt"

	"github.com/0xPolygon/lanebridge/weight"
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/ethereum/go-ethereum/common"
)

type Opcode uint8

const (
	OpWithdrawAsset Opcode = iota
	OpReserveAssetDeposited
	OpClearOrigin
	OpBuyExecution
	OpUnpaidExecution
	OpDepositAsset
	OpExportMessage
	OpSetTopic
	OpTransact
	OpUniversalOrigin
	OpDescendOrigin
	OpClearTopic
	OpTrap
)

var opcodeNames = [...]string{
	"WithdrawAsset", "ReserveAssetDeposited", "ClearOrigin", "BuyExecution", "UnpaidExecution",
	"DepositAsset", "ExportMessage", "SetTopic", "Transact", "UniversalOrigin", "DescendOrigin",
	"ClearTopic", "Trap",
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return fmt.Sprintf("Opcode(%d)", uint8(o))
}

// Instruction is one step of a Program
type Instruction interface {
	Opcode() Opcode
	encodeFields(e scale.Encoder) error
}

type WithdrawAsset struct{ Assets []Asset }

type ReserveAssetDeposited struct{ Assets []Asset }

type ClearOrigin struct{}

type BuyExecution struct {
	Fees        Asset
	WeightLimit WeightLimit
}

type UnpaidExecution struct {
	WeightLimit WeightLimit
	// CheckOrigin, when set, must equal the origin executing the program
	CheckOrigin *Location
}

type DepositAsset struct {
	Assets      AssetFilter
	Beneficiary Location
}

// ExportMessage sends Xcm to Destination inside the remote consensus Network
type ExportMessage struct {
	Network     NetworkID
	Destination Junctions
	Xcm         Program
}

type SetTopic struct{ ID common.Hash }

type OriginKind uint8

const (
	OriginNative OriginKind = iota
	OriginSovereignAccount
	OriginSuperuser
	OriginXcm
)

type Transact struct {
	OriginKind          OriginKind
	RequireWeightAtMost weight.Weight
	Call                []byte
}

type UniversalOrigin struct{ Junction Junction }

type DescendOrigin struct{ Interior Junctions }

type ClearTopic struct{}

type Trap struct{ Code uint64 }

func (WithdrawAsset) Opcode() Opcode         { return OpWithdrawAsset }
func (ReserveAssetDeposited) Opcode() Opcode { return OpReserveAssetDeposited }
func (ClearOrigin) Opcode() Opcode           { return OpClearOrigin }
func (BuyExecution) Opcode() Opcode          { return OpBuyExecution }
func (UnpaidExecution) Opcode() Opcode       { return OpUnpaidExecution }
func (DepositAsset) Opcode() Opcode          { return OpDepositAsset }
func (ExportMessage) Opcode() Opcode         { return OpExportMessage }
func (SetTopic) Opcode() Opcode              { return OpSetTopic }
func (Transact) Opcode() Opcode              { return OpTransact }
func (UniversalOrigin) Opcode() Opcode       { return OpUniversalOrigin }
func (DescendOrigin) Opcode() Opcode         { return OpDescendOrigin }
func (ClearTopic) Opcode() Opcode            { return OpClearTopic }
func (Trap) Opcode() Opcode                  { return OpTrap }

func (i WithdrawAsset) encodeFields(e scale.Encoder) error { return encodeAssets(e, i.Assets) }

func (i ReserveAssetDeposited) encodeFields(e scale.Encoder) error { return encodeAssets(e, i.Assets) }

func (ClearOrigin) encodeFields(scale.Encoder) error { return nil }

func (i BuyExecution) encodeFields(e scale.Encoder) error {
	if err := i.Fees.Encode(e); err != nil {
		return err
	}
	return i.WeightLimit.Encode(e)
}

func (i UnpaidExecution) encodeFields(e scale.Encoder) error {
	if err := i.WeightLimit.Encode(e); err != nil {
		return err
	}
	if err := encodeBool(e, i.CheckOrigin != nil); err != nil {
		return err
	}
	if i.CheckOrigin == nil {
		return nil
	}
	return i.CheckOrigin.Encode(e)
}

func (i DepositAsset) encodeFields(e scale.Encoder) error {
	if err := i.Assets.Encode(e); err != nil {
		return err
	}
	return i.Beneficiary.Encode(e)
}

func (i ExportMessage) encodeFields(e scale.Encoder) error {
	if !i.Network.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownNetwork, uint8(i.Network))
	}
	if err := e.PushByte(byte(i.Network)); err != nil {
		return err
	}
	if err := i.Destination.Encode(e); err != nil {
		return err
	}
	return i.Xcm.Encode(e)
}

func (i SetTopic) encodeFields(e scale.Encoder) error { return e.Write(i.ID.Bytes()) }

func (i Transact) encodeFields(e scale.Encoder) error {
	if err := e.PushByte(byte(i.OriginKind)); err != nil {
		return err
	}
	if err := encodeCompact(e, i.RequireWeightAtMost.RefTime); err != nil {
		return err
	}
	if err := encodeCompact(e, i.RequireWeightAtMost.ProofSize); err != nil {
		return err
	}
	return encodeBytes(e, i.Call)
}

func (i UniversalOrigin) encodeFields(e scale.Encoder) error {
	if i.Junction == nil {
		return fmt.Errorf("UniversalOrigin without junction")
	}
	return i.Junction.encode(e)
}

func (i DescendOrigin) encodeFields(e scale.Encoder) error { return i.Interior.Encode(e) }

func (ClearTopic) encodeFields(scale.Encoder) error { return nil }

func (i Trap) encodeFields(e scale.Encoder) error { return encodeCompact(e, i.Code) }

// decodeInstruction reads one instruction. depth is the nesting level of the program
// being decoded, ExportMessage decodes its inner program one level deeper.
func decodeInstruction(d scale.Decoder, depth int) (Instruction, error) {
	op, err := readByte(d)
	if err != nil {
		return nil, err
	}
	switch Opcode(op) {
	case OpWithdrawAsset:
		assets, err := decodeAssets(d)
		return WithdrawAsset{Assets: assets}, err
	case OpReserveAssetDeposited:
		assets, err := decodeAssets(d)
		return ReserveAssetDeposited{Assets: assets}, err
	case OpClearOrigin:
		return ClearOrigin{}, nil
	case OpBuyExecution:
		var i BuyExecution
		if err := i.Fees.Decode(d); err != nil {
			return nil, err
		}
		err := i.WeightLimit.Decode(d)
		return i, err
	case OpUnpaidExecution:
		var i UnpaidExecution
		if err := i.WeightLimit.Decode(d); err != nil {
			return nil, err
		}
		hasOrigin, err := decodeBool(d)
		if err != nil || !hasOrigin {
			return i, err
		}
		i.CheckOrigin = &Location{}
		err = i.CheckOrigin.Decode(d)
		return i, err
	case OpDepositAsset:
		var i DepositAsset
		if err := i.Assets.Decode(d); err != nil {
			return nil, err
		}
		err := i.Beneficiary.Decode(d)
		return i, err
	case OpExportMessage:
		var i ExportMessage
		network, err := readByte(d)
		if err != nil {
			return nil, err
		}
		i.Network = NetworkID(network)
		if !i.Network.Valid() {
			return nil, fmt.Errorf("%w: unknown network %d", ErrDecode, network)
		}
		if err := i.Destination.Decode(d); err != nil {
			return nil, err
		}
		i.Xcm, err = decodeProgram(d, depth+1)
		return i, err
	case OpSetTopic:
		var i SetTopic
		err := readFull(d, i.ID[:])
		return i, err
	case OpTransact:
		var i Transact
		kind, err := readByte(d)
		if err != nil {
			return nil, err
		}
		if kind > byte(OriginXcm) {
			return nil, fmt.Errorf("%w: unknown origin kind %d", ErrDecode, kind)
		}
		i.OriginKind = OriginKind(kind)
		if i.RequireWeightAtMost.RefTime, err = decodeCompact(d); err != nil {
			return nil, err
		}
		if i.RequireWeightAtMost.ProofSize, err = decodeCompact(d); err != nil {
			return nil, err
		}
		i.Call, err = decodeBytes(d, maxCallSize)
		return i, err
	case OpUniversalOrigin:
		junction, err := decodeJunction(d)
		return UniversalOrigin{Junction: junction}, err
	case OpDescendOrigin:
		var i DescendOrigin
		err := i.Interior.Decode(d)
		return i, err
	case OpClearTopic:
		return ClearTopic{}, nil
	case OpTrap:
		code, err := decodeCompact(d)
		return Trap{Code: code}, err
	default:
		return nil, fmt.Errorf("%w: unknown instruction %d", ErrDecode, op)
	}
}
