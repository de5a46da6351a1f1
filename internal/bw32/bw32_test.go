package bw32

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"scloudplus/internal/params"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, bits := range []int{128, 192, 256} {
		p, err := params.Lookup(bits)
		require.NoError(t, err)

		msg := make([]byte, p.SS)
		_, err = rand.Read(msg)
		require.NoError(t, err)

		encoded := make([]uint16, p.MBar*p.NBar)
		require.NoError(t, Encode(msg, p, encoded))

		decoded := make([]byte, p.SS)
		require.NoError(t, Decode(encoded, p, decoded))

		require.Equal(t, msg, decoded, "level %d", bits)
	}
}

func TestEncodeDecodeSurvivesSmallNoise(t *testing.T) {
	p, err := params.Lookup(128)
	require.NoError(t, err)

	msg := make([]byte, p.SS)
	_, err = rand.Read(msg)
	require.NoError(t, err)

	encoded := make([]uint16, p.MBar*p.NBar)
	require.NoError(t, Encode(msg, p, encoded))

	for i := range encoded {
		encoded[i] = (encoded[i] + 1) & params.ModQ
	}

	decoded := make([]byte, p.SS)
	require.NoError(t, Decode(encoded, p, decoded))
	require.Equal(t, msg, decoded)
}
