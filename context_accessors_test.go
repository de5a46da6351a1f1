package scloudplus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccessorsBeforeParameterisation(t *testing.T) {
	var ctx Context
	_, ok := ctx.Level()
	require.False(t, ok)
	_, ok = ctx.PublicKeySize()
	require.False(t, ok)
	_, ok = ctx.PublicKey()
	require.False(t, ok)
}

func TestAccessorsAfterGenerate(t *testing.T) {
	var ctx Context
	require.NoError(t, ctx.SetKeyBits(192))
	require.NoError(t, ctx.Generate())

	bits, ok := ctx.Level()
	require.True(t, ok)
	require.Equal(t, 192, bits)

	pkSize, ok := ctx.PublicKeySize()
	require.True(t, ok)
	pk, ok := ctx.PublicKey()
	require.True(t, ok)
	require.Len(t, pk, pkSize)

	ssSize, ok := ctx.SharedSecretSize()
	require.True(t, ok)
	require.Equal(t, 24, ssSize)
}

func TestCloneIsIndependent(t *testing.T) {
	var ctx Context
	require.NoError(t, ctx.SetKeyBits(128))
	require.NoError(t, ctx.Generate())

	clone := ctx.Clone()
	require.True(t, ctx.Equal(clone))

	clone.pk[0] ^= 0xFF
	require.False(t, ctx.Equal(clone))

	pk, _ := ctx.PublicKey()
	clonePk, _ := clone.PublicKey()
	require.NotEqual(t, pk, clonePk)
}

func TestEqualAcrossDifferentLevels(t *testing.T) {
	var a, b Context
	require.NoError(t, a.SetKeyBits(128))
	require.NoError(t, b.SetKeyBits(192))
	require.False(t, a.Equal(&b))
}
