package packing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"scloudplus/internal/params"
)

func TestPackUnpackPK(t *testing.T) {
	for _, p := range []*params.Set{level(t, 128), level(t, 192), level(t, 256)} {
		n := p.M * p.NBar
		b := make([]uint16, n)
		for i := range b {
			b[i] = uint16(i*37+11) & params.ModQ
		}
		packed := make([]byte, p.PkSize-params.SeedALen)
		PackPK(b, packed)
		got := make([]uint16, n)
		UnpackPK(packed, got)
		require.Equal(t, b, got, "level %d", p.Level)
	}
}

func TestPackUnpackSK(t *testing.T) {
	for _, p := range []*params.Set{level(t, 128), level(t, 192), level(t, 256)} {
		n := p.N * p.NBar
		s := make([]uint16, n)
		for i := range s {
			switch i % 3 {
			case 0:
				s[i] = 1
			case 1:
				s[i] = 0xFFFF // -1 mod 2^16
			default:
				s[i] = 0
			}
		}
		packed := make([]byte, p.PkeSkSize)
		PackSK(s, packed)
		got := make([]uint16, n)
		UnpackSK(packed, got)
		require.Equal(t, s, got, "level %d", p.Level)
	}
}

func TestPackUnpackC1(t *testing.T) {
	for _, p := range []*params.Set{level(t, 128), level(t, 192), level(t, 256)} {
		n := p.MBar * p.N
		c := make([]uint16, n)
		mask := uint16(1<<p.LogQ1 - 1)
		for i := range c {
			c[i] = uint16(i*13+3) & mask
		}
		packed := make([]byte, p.C1Size)
		PackC1(p.LogQ1, c, packed)
		got := make([]uint16, n)
		UnpackC1(p.LogQ1, packed, got)
		require.Equal(t, c, got, "level %d", p.Level)
	}
}

func TestPackUnpackC2(t *testing.T) {
	for _, p := range []*params.Set{level(t, 128), level(t, 192), level(t, 256)} {
		n := p.MBar * p.NBar
		c := make([]uint16, n)
		mask := uint16(1<<p.LogQ2 - 1)
		for i := range c {
			c[i] = uint16(i*29+5) & mask
		}
		packed := make([]byte, p.C2Size)
		PackC2(p.LogQ2, c, packed)
		got := make([]uint16, n)
		UnpackC2(p.LogQ2, packed, got)
		require.Equal(t, c, got, "level %d", p.Level)
	}
}

func level(t *testing.T, bits int) *params.Set {
	t.Helper()
	p, err := params.Lookup(bits)
	require.NoError(t, err)
	return p
}
