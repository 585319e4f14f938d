package xcm

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

const (
	// CurrentVersion is the only program version this chain understands
	CurrentVersion uint8 = 3

	MaxDecodeDepth  = 8
	MaxInstructions = 100
	MaxJunctions    = 8
	MaxAssets       = 20
	MaxBlobSize     = 128 * 1024
	maxCallSize     = 64 * 1024
	topicSize       = 32
)

var (
	ErrDecode              = errors.New("invalid encoding")
	ErrUnsupportedVersion  = errors.New("unsupported program version")
	ErrTooDeep             = fmt.Errorf("%w: nesting deeper than %d", ErrDecode, MaxDecodeDepth)
	ErrTooManyInstructions = fmt.Errorf("%w: more than %d instructions", ErrDecode, MaxInstructions)
	ErrTrailingBytes       = fmt.Errorf("%w: unexpected data after decoding", ErrDecode)
	ErrBlobTooLarge        = fmt.Errorf("%w: blob larger than %d bytes", ErrDecode, MaxBlobSize)
)

func encodeCompact(e scale.Encoder, n uint64) error {
	return e.EncodeUintCompact(*new(big.Int).SetUint64(n))
}

func decodeCompact(d scale.Decoder) (uint64, error) {
	v, err := d.DecodeUintCompact()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: compact value %s overflows u64", ErrDecode, v)
	}
	return v.Uint64(), nil
}

// decodeLen reads a compact length prefix and rejects it above limit
func decodeLen(d scale.Decoder, limit int) (int, error) {
	n, err := decodeCompact(d)
	if err != nil {
		return 0, err
	}
	if n > uint64(limit) {
		return 0, fmt.Errorf("%w: length %d above limit %d", ErrDecode, n, limit)
	}
	return int(n), nil
}

func readByte(d scale.Decoder) (byte, error) {
	b, err := d.ReadOneByte()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return b, nil
}

func readFull(d scale.Decoder, dst []byte) error {
	if len(dst) == 0 {
		return nil
	}
	if err := d.Read(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func encodeBytes(e scale.Encoder, b []byte) error {
	if err := encodeCompact(e, uint64(len(b))); err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	return e.Write(b)
}

func decodeBytes(d scale.Decoder, limit int) ([]byte, error) {
	n, err := decodeLen(d, limit)
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if err := readFull(d, b); err != nil {
		return nil, err
	}
	return b, nil
}

func encodeBool(e scale.Encoder, v bool) error {
	if v {
		return e.PushByte(1)
	}
	return e.PushByte(0)
}

func decodeBool(d scale.Decoder) (bool, error) {
	b, err := readByte(d)
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: invalid bool %d", ErrDecode, b)
	}
}

func encodeToBytes(encode func(e scale.Encoder) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(*scale.NewEncoder(&buf)); err != nil {
		return nil, err
	}
	if buf.Len() > MaxBlobSize {
		return nil, ErrBlobTooLarge
	}
	return buf.Bytes(), nil
}

// decodeExact runs decode over data and fails if any byte is left unread
func decodeExact(data []byte, decode func(d scale.Decoder) error) error {
	if len(data) > MaxBlobSize {
		return ErrBlobTooLarge
	}
	d := scale.NewDecoder(bytes.NewReader(data))
	if err := decode(*d); err != nil {
		return err
	}
	if _, err := d.ReadOneByte(); err == nil {
		return ErrTrailingBytes
	}
	return nil
}
