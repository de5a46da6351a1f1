package pke

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"scloudplus/internal/params"
)

func TestKeygenEncryptDecryptRoundTrip(t *testing.T) {
	for _, bits := range []int{128, 192, 256} {
		p, err := params.Lookup(bits)
		require.NoError(t, err)

		pk := make([]byte, p.PkSize)
		sk := make([]byte, p.PkeSkSize)
		require.NoError(t, Keygen(p, pk, sk))

		msg := make([]byte, p.SS)
		_, err = rand.Read(msg)
		require.NoError(t, err)
		r := make([]byte, params.RandRLen)
		_, err = rand.Read(r)
		require.NoError(t, err)

		ctx := make([]byte, p.CtxSize)
		require.NoError(t, Encrypt(pk, msg, r, p, ctx))

		got := make([]byte, p.SS)
		require.NoError(t, Decrypt(sk, ctx, p, got))

		require.Equal(t, msg, got, "level %d", bits)
	}
}
