package compress

import (
	"testing"

	"github.com/stretchr/testify/require"

	"scloudplus/internal/params"
)

func TestC1RoundTripBounded(t *testing.T) {
	for _, p := range []*params.Set{levelSet(t, 128), levelSet(t, 192), levelSet(t, 256)} {
		n := 64
		in := make([]uint16, n)
		for i := range in {
			in[i] = uint16(i * 61 % 4096)
		}
		comp := make([]uint16, n)
		C1(p.LogQ1, in, comp)
		back := make([]uint16, n)
		DecompressC1(p.LogQ1, comp, back)
		bound := uint16(4096/(1<<uint(p.LogQ1+1)) + 1)
		for i, v := range in {
			require.LessOrEqual(t, absDiffMod(v, back[i], 4096), bound, "level %d idx %d", p.Level, i)
		}
	}
}

func TestC2RoundTripBounded(t *testing.T) {
	for _, p := range []*params.Set{levelSet(t, 128), levelSet(t, 192), levelSet(t, 256)} {
		n := 64
		in := make([]uint16, n)
		for i := range in {
			in[i] = uint16(i * 97 % 4096)
		}
		comp := make([]uint16, n)
		C2(p.LogQ1, p.LogQ2, in, comp)
		back := make([]uint16, n)
		DecompressC2(p.LogQ1, p.LogQ2, comp, back)
		bound := uint16(4096/(1<<uint(p.LogQ2+1)) + 1)
		for i, v := range in {
			require.LessOrEqual(t, absDiffMod(v, back[i], 4096), bound, "level %d idx %d", p.Level, i)
		}
	}
}

func absDiffMod(a, b uint16, q int) uint16 {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	if d > q/2 {
		d = q - d
	}
	return uint16(d)
}

func levelSet(t *testing.T, bits int) *params.Set {
	t.Helper()
	p, err := params.Lookup(bits)
	require.NoError(t, err)
	return p
}
