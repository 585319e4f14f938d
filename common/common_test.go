package common

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUintBytesRoundTrip(t *testing.T) {
	t.Parallel()

	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 0}, Uint64ToBytes(256))
	require.Equal(t, uint64(1<<40+7), BytesToUint64(Uint64ToBytes(1<<40+7)))
	require.Equal(t, []byte{0, 0, 0x03, 0xea}, Uint32ToBytes(1002))
	require.Equal(t, uint32(1002), BytesToUint32(Uint32ToBytes(1002)))
}

func TestBlake2b256(t *testing.T) {
	t.Parallel()

	// blake2b-256 of the empty input
	require.Equal(t,
		"0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8",
		hex.EncodeToString(Blake2b256().Bytes()))
	require.Equal(t, Blake2b256([]byte("ab")), Blake2b256([]byte("a"), []byte("b")))
	require.NotEqual(t, Blake2b256([]byte("a")), Blake2b256([]byte("b")))
}
