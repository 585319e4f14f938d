package xcm

import (
	"fmt"
	"math/big"

	"github.com/0xPolygon/lanebridge/weight"
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

// Asset is a fungible amount of the asset identified by ID
type Asset struct {
	ID     Location
	Amount *big.Int
}

func NewAsset(id Location, amount uint64) Asset {
	return Asset{ID: id, Amount: new(big.Int).SetUint64(amount)}
}

func (a Asset) IsZero() bool {
	return a.Amount == nil || a.Amount.Sign() == 0
}

func (a Asset) Encode(e scale.Encoder) error {
	if err := a.ID.Encode(e); err != nil {
		return err
	}
	amount := a.Amount
	if amount == nil {
		amount = new(big.Int)
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("negative asset amount %s", amount)
	}
	return e.EncodeUintCompact(*amount)
}

func (a *Asset) Decode(d scale.Decoder) error {
	if err := a.ID.Decode(d); err != nil {
		return err
	}
	amount, err := d.DecodeUintCompact()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	a.Amount = amount
	return nil
}

func encodeAssets(e scale.Encoder, assets []Asset) error {
	if len(assets) > MaxAssets {
		return fmt.Errorf("too many assets: %d", len(assets))
	}
	if err := encodeCompact(e, uint64(len(assets))); err != nil {
		return err
	}
	for _, a := range assets {
		if err := a.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

func decodeAssets(d scale.Decoder) ([]Asset, error) {
	n, err := decodeLen(d, MaxAssets)
	if err != nil {
		return nil, err
	}
	assets := make([]Asset, n)
	for i := range assets {
		if err := assets[i].Decode(d); err != nil {
			return nil, err
		}
	}
	return assets, nil
}

type FilterKind uint8

const (
	FilterDefinite FilterKind = iota
	FilterAll
	FilterAllCounted
)

// AssetFilter selects holding register assets: a definite list, all of them,
// or all of them up to Count distinct assets
type AssetFilter struct {
	Kind   FilterKind
	Assets []Asset
	Count  uint32
}

func (f AssetFilter) Encode(e scale.Encoder) error {
	if err := e.PushByte(byte(f.Kind)); err != nil {
		return err
	}
	switch f.Kind {
	case FilterDefinite:
		return encodeAssets(e, f.Assets)
	case FilterAll:
		return nil
	case FilterAllCounted:
		return encodeCompact(e, uint64(f.Count))
	default:
		return fmt.Errorf("unknown asset filter %d", f.Kind)
	}
}

func (f *AssetFilter) Decode(d scale.Decoder) error {
	kind, err := readByte(d)
	if err != nil {
		return err
	}
	f.Kind = FilterKind(kind)
	switch f.Kind {
	case FilterDefinite:
		f.Assets, err = decodeAssets(d)
		return err
	case FilterAll:
		return nil
	case FilterAllCounted:
		count, err := decodeCompact(d)
		if err != nil {
			return err
		}
		if count > uint64(^uint32(0)) {
			return fmt.Errorf("%w: asset count %d overflows u32", ErrDecode, count)
		}
		f.Count = uint32(count)
		return nil
	default:
		return fmt.Errorf("%w: unknown asset filter %d", ErrDecode, kind)
	}
}

// WeightLimit caps the weight a program may buy. The zero value is unlimited.
type WeightLimit struct {
	Limited bool
	Limit   weight.Weight
}

func Unlimited() WeightLimit { return WeightLimit{} }

func Limited(w weight.Weight) WeightLimit { return WeightLimit{Limited: true, Limit: w} }

func (l WeightLimit) Encode(e scale.Encoder) error {
	if err := encodeBool(e, l.Limited); err != nil {
		return err
	}
	if !l.Limited {
		return nil
	}
	if err := encodeCompact(e, l.Limit.RefTime); err != nil {
		return err
	}
	return encodeCompact(e, l.Limit.ProofSize)
}

func (l *WeightLimit) Decode(d scale.Decoder) error {
	limited, err := decodeBool(d)
	if err != nil {
		return err
	}
	l.Limited = limited
	l.Limit = weight.Zero
	if !limited {
		return nil
	}
	if l.Limit.RefTime, err = decodeCompact(d); err != nil {
		return err
	}
	l.Limit.ProofSize, err = decodeCompact(d)
	return err
}
