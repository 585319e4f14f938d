package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDurationUnmarshal(t *testing.T) {
	tcs := []struct {
		input    string
		expected time.Duration
		err      bool
	}{
		{input: `"60s"`, expected: time.Minute},
		{input: `"1m10s"`, expected: 70 * time.Second},
		{input: `"250ms"`, expected: 250 * time.Millisecond},
		{input: `"abc"`, err: true},
	}
	for _, tc := range tcs {
		t.Run(tc.input, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tc.input), &d)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, d.Duration)
		})
	}
}

func TestDurationMarshal(t *testing.T) {
	b, err := NewDuration(90 * time.Second).MarshalText()
	require.NoError(t, err)
	require.Equal(t, "1m30s", string(b))
}
