package matrix

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"scloudplus/internal/params"
)

func TestExpanderDeterministic(t *testing.T) {
	seed := make([]byte, params.SeedALen)
	_, err := rand.Read(seed)
	require.NoError(t, err)

	e1, err := NewExpander(seed, 600)
	require.NoError(t, err)
	e2, err := NewExpander(seed, 600)
	require.NoError(t, err)

	row1 := make([]uint16, 600)
	row2 := make([]uint16, 600)
	e1.Row(3, row1)
	e2.Row(3, row2)
	require.Equal(t, row1, row2)

	row0 := make([]uint16, 600)
	e1.Row(0, row0)
	require.NotEqual(t, row0, row1)
}

func TestASEMasksToModQ(t *testing.T) {
	p, err := params.Lookup(128)
	require.NoError(t, err)
	seedA := make([]byte, params.SeedALen)
	_, err = rand.Read(seedA)
	require.NoError(t, err)

	s := make([]uint16, p.N*p.NBar)
	e := make([]uint16, p.M*p.NBar)
	for i := range s {
		s[i] = uint16(i % 3)
	}
	out := make([]uint16, p.M*p.NBar)
	require.NoError(t, AS_E(seedA, s, e, p, out))
	for _, v := range out {
		require.LessOrEqual(t, v, uint16(params.ModQ))
	}
}

func TestAddSub(t *testing.T) {
	a := []uint16{1, 4095, 0}
	b := []uint16{2, 2, 4095}
	sum := make([]uint16, 3)
	Add(a, b, sum)
	require.Equal(t, []uint16{3, 4097 & params.ModQ, 4095}, sum)

	diff := make([]uint16, 3)
	Sub(sum, b, diff)
	require.Equal(t, a, diff)
}
