package scloudplus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// No known-answer test vectors ship with this source tree, so correctness
// is tested as a full round trip per level rather than a literal byte
// comparison against recorded ciphertexts.
func TestRoundTripAllLevels(t *testing.T) {
	for _, bits := range []int{128, 192, 256} {
		var ctx Context
		require.NoError(t, ctx.SetKeyBits(bits))
		require.NoError(t, ctx.Generate())

		c, ss1, err := ctx.Encapsulate()
		require.NoError(t, err)

		ss2, err := ctx.Decapsulate(c)
		require.NoError(t, err)

		require.Equal(t, ss1, ss2, "level %d", bits)
		ctx.Free()
	}
}

func TestTamperedCiphertextDoesNotMatch(t *testing.T) {
	var ctx Context
	require.NoError(t, ctx.SetKeyBits(128))
	require.NoError(t, ctx.Generate())
	defer ctx.Free()

	c, ss1, err := ctx.Encapsulate()
	require.NoError(t, err)

	c[0] ^= 0xFF
	ss2, err := ctx.Decapsulate(c)
	require.NoError(t, err)
	require.NotEqual(t, ss1, ss2)
	require.Len(t, ss2, 16)
}

func TestDecapsulateRejectsWrongLength(t *testing.T) {
	var ctx Context
	require.NoError(t, ctx.SetKeyBits(128))
	require.NoError(t, ctx.Generate())
	defer ctx.Free()

	c, _, err := ctx.Encapsulate()
	require.NoError(t, err)

	_, err = ctx.Decapsulate(c[:len(c)-1])
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEncapsulateBeforeSetKeyBits(t *testing.T) {
	var ctx Context
	_, _, err := ctx.Encapsulate()
	require.ErrorIs(t, err, ErrNullInput)
}

func TestSetKeyBitsRejectsUnknownLevel(t *testing.T) {
	var ctx Context
	err := ctx.SetKeyBits(512)
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestSetKeyBitsSecondCallSameValueIsNoop(t *testing.T) {
	var ctx Context
	require.NoError(t, ctx.SetKeyBits(128))
	require.NoError(t, ctx.SetKeyBits(128))
}

func TestSetKeyBitsSecondCallDifferentValueFails(t *testing.T) {
	var ctx Context
	require.NoError(t, ctx.SetKeyBits(128))
	err := ctx.SetKeyBits(192)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestImportPubImportPriv(t *testing.T) {
	var src Context
	require.NoError(t, src.SetKeyBits(128))
	require.NoError(t, src.Generate())

	var withPub Context
	require.NoError(t, withPub.SetKeyBits(128))
	require.NoError(t, withPub.ImportPub(src.pk))

	c, ss1, err := withPub.Encapsulate()
	require.NoError(t, err)

	var withPriv Context
	require.NoError(t, withPriv.SetKeyBits(128))
	require.NoError(t, withPriv.ImportPriv(src.sk))

	ss2, err := withPriv.Decapsulate(c)
	require.NoError(t, err)
	require.Equal(t, ss1, ss2)
}

// Implicit rejection should decorrelate the shared secret from the
// original across single-byte tampers. Mean Hamming distance of the XOR
// between original and tampered secrets should land near half the bit
// length.
func TestImplicitRejectionStatistics(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test skipped in -short mode")
	}
	var ctx Context
	require.NoError(t, ctx.SetKeyBits(128))
	require.NoError(t, ctx.Generate())
	defer ctx.Free()

	c, ss1, err := ctx.Encapsulate()
	require.NoError(t, err)

	const trials = 200
	var totalBits int
	for i := 0; i < trials; i++ {
		tampered := append([]byte(nil), c...)
		tampered[i%len(tampered)] ^= byte(1 << uint(i%8))

		ss2, err := ctx.Decapsulate(tampered)
		require.NoError(t, err)

		for j := range ss1 {
			diff := ss1[j] ^ ss2[j]
			for diff != 0 {
				totalBits++
				diff &= diff - 1
			}
		}
	}
	mean := float64(totalBits) / float64(trials)
	want := 0.5 * float64(len(ss1)*8)
	require.InDelta(t, want, mean, want*0.25)
}
