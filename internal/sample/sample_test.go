package sample

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"scloudplus/internal/params"
)

func TestCBDRanges(t *testing.T) {
	for b := 0; b < 256; b++ {
		out := make([]uint16, 4)
		CBD1(byte(b), out)
		for _, v := range out {
			requireInRange(t, v, 1)
		}
		out2 := make([]uint16, 2)
		CBD2(byte(b), out2)
		for _, v := range out2 {
			requireInRange(t, v, 2)
		}
	}
}

func requireInRange(t *testing.T, v uint16, eta int) {
	t.Helper()
	s := int16(v)
	require.GreaterOrEqual(t, s, int16(-eta))
	require.LessOrEqual(t, s, int16(eta))
}

func TestEta1Range(t *testing.T) {
	for _, bits := range []int{128, 192, 256} {
		p, err := params.Lookup(bits)
		require.NoError(t, err)
		seed := make([]byte, params.SeedR2Len)
		_, err = rand.Read(seed)
		require.NoError(t, err)
		out := make([]uint16, p.M*p.NBar)
		require.NoError(t, Eta1(seed, p, out))
		for _, v := range out {
			requireInRange(t, v, p.Eta1)
		}
	}
}

func TestPsiWeight(t *testing.T) {
	for _, bits := range []int{128, 192, 256} {
		p, err := params.Lookup(bits)
		require.NoError(t, err)
		seed := make([]byte, params.SeedR1Len)
		_, err = rand.Read(seed)
		require.NoError(t, err)
		out := make([]uint16, p.N*p.NBar)
		require.NoError(t, Psi(seed, p, out))
		for col := 0; col < p.NBar; col++ {
			row := out[col*p.N : col*p.N+p.N]
			pos, neg := 0, 0
			for _, v := range row {
				switch int16(v) {
				case 1:
					pos++
				case -1:
					neg++
				case 0:
				default:
					t.Fatalf("level %d: unexpected coefficient %d", bits, int16(v))
				}
			}
			require.Equal(t, p.H1, pos, "level %d col %d", bits, col)
			require.Equal(t, p.H1, neg, "level %d col %d", bits, col)
		}
	}
}

func TestPhiWeight(t *testing.T) {
	for _, bits := range []int{128, 192, 256} {
		p, err := params.Lookup(bits)
		require.NoError(t, err)
		seed := make([]byte, params.SeedR1Len)
		_, err = rand.Read(seed)
		require.NoError(t, err)
		out := make([]uint16, p.M*p.MBar)
		require.NoError(t, Phi(seed, p, out))
		for col := 0; col < p.MBar; col++ {
			row := out[col*p.M : col*p.M+p.M]
			pos, neg := 0, 0
			for _, v := range row {
				switch int16(v) {
				case 1:
					pos++
				case -1:
					neg++
				}
			}
			require.Equal(t, p.H2, pos, "level %d col %d", bits, col)
			require.Equal(t, p.H2, neg, "level %d col %d", bits, col)
		}
	}
}
