// Package bw32 implements the Barnes-Wall BW32 lattice codec SCloud+ uses
// to spread each message chunk across 32 ring coefficients: Encode maps a
// tau-dependent number of message bits to a lattice point via a labelling
// construction built from a recursive Kronecker-product combiner over the
// Gaussian integers, and Decode runs the recursive bounded-distance decoder
// to recover the closest lattice point from a noisy received vector and
// invert the labelling.
//
// Grounded on LabelingComputeV/W, DelabelingReduceW/ComputeU/RecoverW and
// BDDForBWn in scloudplus_util.c. The bit-packing tables (which message
// bits feed which of the 32 coordinates) are reproduced verbatim since
// they encode no invariant beyond "match the reference exactly" — this is
// a wire format, not an algorithm, and any other layout would be
// interoperability-incompatible rather than merely different.
package bw32

import (
	"fmt"

	"scloudplus/internal/params"
)

// Complex is a Gaussian integer, the coefficient ring Z[i] the Barnes-Wall
// construction operates over.
type Complex struct {
	Real, Imag int32
}

func cAdd(a, b Complex) Complex { return Complex{a.Real + b.Real, a.Imag + b.Imag} }
func cSub(a, b Complex) Complex { return Complex{a.Real - b.Real, a.Imag - b.Imag} }

func cMul(a, b Complex) Complex {
	return Complex{a.Real*b.Real - a.Imag*b.Imag, a.Real*b.Imag + a.Imag*b.Real}
}

// cDivPhi divides by 1+i: a/(1+i) = a*(1-i)/2.
func cDivPhi(a Complex) Complex {
	return Complex{(a.Real + a.Imag) >> 1, (a.Imag - a.Real) >> 1}
}

var phi = Complex{1, 1}

// round maps in to the nearest multiple of 2^(logq-tau), rounding ties
// away from zero.
func round(in, logq, tau int32) int32 {
	mod := int32(1) << uint(logq-tau)
	mod2 := mod >> 1
	r := in % mod
	q := in / mod
	if in >= 0 {
		if r >= mod2 {
			q++
		}
	} else {
		if r <= -mod2 {
			q--
		}
	}
	return q * mod
}

var (
	uA = [6]int{0, 1, 2, 4, 8, 16}
	uB = [20]int{3, 5, 6, 7, 9, 10, 11, 12, 13, 14, 17, 18, 19, 20, 21, 22, 24, 25, 26, 28}
	uC = [6]int{15, 23, 27, 29, 30, 31}
)

// LabelingComputeV maps a message block (8 bytes for tau=3, 12 for tau=4)
// to the 16 Gaussian integers v of algorithm 2, steps 1-3.
func LabelingComputeV(m []byte, tau int) ([params.BWComplexLen]Complex, error) {
	var a [6]byte
	var b [20]byte
	var c [6]byte
	switch tau {
	case 3:
		a[0] = (m[0] >> 0) & 0x07
		a[1] = (m[0] >> 3) & 0x07
		a[2] = ((m[0] >> 6) & 0x03) | ((m[1] << 2) & 0x04)
		a[3] = (m[1] >> 1) & 0x07
		a[4] = (m[1] >> 4) & 0x07
		a[5] = ((m[1] >> 7) & 0x01) | ((m[2] << 1) & 0x06)
		for i := 0; i < 3; i++ {
			b[i] = (m[2] >> uint(2+2*i)) & 0x03
		}
		for i := 0; i < 4; i++ {
			b[3+i] = (m[3] >> uint(2*i)) & 0x03
			b[7+i] = (m[4] >> uint(2*i)) & 0x03
			b[11+i] = (m[5] >> uint(2*i)) & 0x03
			b[15+i] = (m[6] >> uint(2*i)) & 0x03
		}
		b[19] = m[7] & 0x03
		for i := 0; i < 6; i++ {
			c[i] = (m[7] >> uint(2+i)) & 0x01
		}
	case 4:
		a[0] = m[0] & 0x0F
		a[1] = (m[0] >> 4) & 0x0F
		a[2] = m[1] & 0x0F
		a[3] = (m[1] >> 4) & 0x0F
		a[4] = m[2] & 0x0F
		a[5] = (m[2] >> 4) & 0x0F

		b[0] = m[3] & 0x07
		b[1] = (m[3] >> 3) & 0x07
		b[2] = ((m[3] >> 6) & 0x03) | ((m[4] << 2) & 0x04)
		b[3] = (m[4] >> 1) & 0x07
		b[4] = (m[4] >> 4) & 0x07
		b[5] = ((m[4] >> 7) & 0x01) | ((m[5] << 1) & 0x06)
		b[6] = (m[5] >> 2) & 0x07
		b[7] = (m[5] >> 5) & 0x07

		b[8] = m[6] & 0x07
		b[9] = (m[6] >> 3) & 0x07
		b[10] = ((m[6] >> 6) & 0x03) | ((m[7] << 2) & 0x04)
		b[11] = (m[7] >> 1) & 0x07
		b[12] = (m[7] >> 4) & 0x07
		b[13] = ((m[7] >> 7) & 0x01) | ((m[8] << 1) & 0x06)
		b[14] = (m[8] >> 2) & 0x07
		b[15] = (m[8] >> 5) & 0x07

		b[16] = m[9] & 0x07
		b[17] = (m[9] >> 3) & 0x07
		b[18] = ((m[9] >> 6) & 0x03) | ((m[10] << 2) & 0x04)
		b[19] = (m[10] >> 1) & 0x07

		c[0] = (m[10] >> 4) & 0x03
		c[1] = (m[10] >> 6) & 0x03
		c[2] = m[11] & 0x03
		c[3] = (m[11] >> 2) & 0x03
		c[4] = (m[11] >> 4) & 0x03
		c[5] = (m[11] >> 6) & 0x03
	default:
		return [16]Complex{}, fmt.Errorf("scloudplus: bw32: unsupported tau %d", tau)
	}

	d := [32]byte{
		a[0], a[1], a[2], b[0], a[3], b[1], b[2], b[3],
		a[4], b[4], b[5], b[6], b[7], b[8], b[9], c[0],
		a[5], b[10], b[11], b[12], b[13], b[14], b[15], c[1],
		b[16], b[17], b[18], c[2], b[19], c[3], c[4], c[5],
	}
	var v [16]Complex
	for i := 0; i < 16; i++ {
		v[i] = Complex{int32(d[2*i]), int32(d[2*i+1])}
	}
	return v, nil
}

// LabelingComputeW applies the recursive Kronecker-product construction
// (algorithm 2, steps 4-8) that turns v into a BW32 lattice point, scaled
// into Z_q and packed as 32 interleaved real/imaginary coefficients.
func LabelingComputeW(v [16]Complex, logq, tau int) ([32]uint16, error) {
	tmp := v
	for i := 0; i < 8; i++ {
		tmp[2*i+1] = cAdd(tmp[2*i], cMul(tmp[2*i+1], phi))
	}
	for i := 0; i < 4; i++ {
		tmp[4*i+2] = cAdd(tmp[4*i], cMul(tmp[4*i+2], phi))
		tmp[4*i+3] = cAdd(tmp[4*i+1], cMul(tmp[4*i+3], phi))
	}
	for i := 0; i < 2; i++ {
		tmp[8*i+4] = cAdd(tmp[8*i], cMul(tmp[8*i+4], phi))
		tmp[8*i+5] = cAdd(tmp[8*i+1], cMul(tmp[8*i+5], phi))
		tmp[8*i+6] = cAdd(tmp[8*i+2], cMul(tmp[8*i+6], phi))
		tmp[8*i+7] = cAdd(tmp[8*i+3], cMul(tmp[8*i+7], phi))
	}
	for i := 0; i < 8; i++ {
		tmp[8+i] = cAdd(tmp[i], cMul(tmp[8+i], phi))
	}

	var mask int32
	switch tau {
	case 3:
		mask = 0x7
	case 4:
		mask = 0xF
	default:
		return [32]uint16{}, fmt.Errorf("scloudplus: bw32: unsupported tau %d", tau)
	}
	scale := uint16(1) << uint(logq-tau)
	var w [32]uint16
	for i := 0; i < 16; i++ {
		w[2*i] = (uint16(tmp[i].Real&mask) * scale) & params.ModQ
		w[2*i+1] = (uint16(tmp[i].Imag&mask) * scale) & params.ModQ
	}
	return w, nil
}

// Encode runs LabelingComputeV and LabelingComputeW over every mu-bit
// message chunk, writing mu_count*32 coefficients into out (which must be
// at least mbar*nbar long; any trailing coefficients beyond mu_count*32
// are left at zero, matching the reference's allocation of more matrix
// cells than the labelling ever fills at Level256).
func Encode(msg []byte, p *params.Set, out []uint16) error {
	for i := range out {
		out[i] = 0
	}
	chunkBytes := p.Mu >> 3
	for i := 0; i < p.MuCnt; i++ {
		v, err := LabelingComputeV(msg[i*chunkBytes:], p.Tau)
		if err != nil {
			return err
		}
		w, err := LabelingComputeW(v, p.LogQ, p.Tau)
		if err != nil {
			return err
		}
		copy(out[i*32:i*32+32], w[:])
	}
	return nil
}

// DelabelingReduceW adjusts a decoded complex vector so each component
// lands in its canonical range S_{2tau-wH(j)} (algorithm 3, steps 6-10).
func DelabelingReduceW(in [16]Complex, tau int) ([16]Complex, error) {
	var out [16]Complex
	reduce := func(idx int, realMask, imagMask int32) {
		mod := in[idx].Imag & imagMask
		sub := mod - in[idx].Imag
		out[idx] = Complex{(in[idx].Real + sub) & realMask, mod}
	}
	switch tau {
	case 3:
		out[0] = Complex{in[0].Real & 0x7, in[0].Imag & 0x7}
		out[3] = Complex{in[3].Real & 0x3, in[3].Imag & 0x3}
		out[5] = Complex{in[5].Real & 0x3, in[5].Imag & 0x3}
		out[6] = Complex{in[6].Real & 0x3, in[6].Imag & 0x3}
		out[9] = Complex{in[9].Real & 0x3, in[9].Imag & 0x3}
		out[10] = Complex{in[10].Real & 0x3, in[10].Imag & 0x3}
		out[12] = Complex{in[12].Real & 0x3, in[12].Imag & 0x3}
		out[15] = Complex{in[15].Real & 0x1, in[15].Imag & 0x1}
		reduce(1, 0x7, 0x3)
		reduce(2, 0x7, 0x3)
		reduce(4, 0x7, 0x3)
		reduce(8, 0x7, 0x3)
		reduce(7, 0x3, 0x1)
		reduce(11, 0x3, 0x1)
		reduce(13, 0x3, 0x1)
		reduce(14, 0x3, 0x1)
	case 4:
		out[0] = Complex{in[0].Real & 0xF, in[0].Imag & 0xF}
		out[3] = Complex{in[3].Real & 0x7, in[3].Imag & 0x7}
		out[5] = Complex{in[5].Real & 0x7, in[5].Imag & 0x7}
		out[6] = Complex{in[6].Real & 0x7, in[6].Imag & 0x7}
		out[9] = Complex{in[9].Real & 0x7, in[9].Imag & 0x7}
		out[10] = Complex{in[10].Real & 0x7, in[10].Imag & 0x7}
		out[12] = Complex{in[12].Real & 0x7, in[12].Imag & 0x7}
		out[15] = Complex{in[15].Real & 0x3, in[15].Imag & 0x3}
		reduce(1, 0xF, 0x7)
		reduce(2, 0xF, 0x7)
		reduce(4, 0xF, 0x7)
		reduce(8, 0xF, 0x7)
		reduce(7, 0x7, 0x3)
		reduce(11, 0x7, 0x3)
		reduce(13, 0x7, 0x3)
		reduce(14, 0x7, 0x3)
	default:
		return [16]Complex{}, fmt.Errorf("scloudplus: bw32: unsupported tau %d", tau)
	}
	return out, nil
}

// DelabelingComputeU inverts LabelingComputeV, packing the 16 reduced
// Gaussian integers back into a message chunk (algorithm 3, steps 11-12).
func DelabelingComputeU(v [16]Complex, tau int) ([]byte, error) {
	var vecV [32]uint16
	for i := 0; i < 16; i++ {
		vecV[2*i] = uint16(v[i].Real)
		vecV[2*i+1] = uint16(v[i].Imag)
	}
	switch tau {
	case 3:
		m := make([]byte, 8)
		for i := 5; i >= 0; i-- {
			m[7] = m[7]<<1 | byte(vecV[uC[i]])
		}
		m[7] = m[7]<<2 | byte(vecV[uB[19]])
		m[6] = (m[6] | byte(vecV[uB[18]])) << 2
		m[6] = (m[6] | byte(vecV[uB[17]])) << 2
		m[6] = (m[6] | byte(vecV[uB[16]])) << 2
		m[6] = (m[6] | byte(vecV[uB[15]])) << 0
		m[5] = (m[5] | byte(vecV[uB[14]])) << 2
		m[5] = (m[5] | byte(vecV[uB[13]])) << 2
		m[5] = (m[5] | byte(vecV[uB[12]])) << 2
		m[5] = (m[5] | byte(vecV[uB[11]])) << 0
		m[4] = (m[4] | byte(vecV[uB[10]])) << 2
		m[4] = (m[4] | byte(vecV[uB[9]])) << 2
		m[4] = (m[4] | byte(vecV[uB[8]])) << 2
		m[4] = (m[4] | byte(vecV[uB[7]])) << 0
		m[3] = (m[3] | byte(vecV[uB[6]])) << 2
		m[3] = (m[3] | byte(vecV[uB[5]])) << 2
		m[3] = (m[3] | byte(vecV[uB[4]])) << 2
		m[3] = (m[3] | byte(vecV[uB[3]])) << 0
		m[2] = (m[2] | byte(vecV[uB[2]])) << 2
		m[2] = (m[2] | byte(vecV[uB[1]])) << 2
		m[2] = (m[2] | byte(vecV[uB[0]])) << 2
		m[2] = m[2] | byte(vecV[uA[5]]>>1)
		m[1] = m[1] | byte(vecV[uA[5]]<<7)
		m[1] = m[1] | byte(vecV[uA[4]]<<4)
		m[1] = m[1] | byte(vecV[uA[3]]<<1)
		m[1] = m[1] | byte(vecV[uA[2]]>>2)
		m[0] = m[0] | byte(vecV[uA[2]]<<6)
		m[0] = m[0] | byte(vecV[uA[1]]<<3)
		m[0] = m[0] | byte(vecV[uA[0]]<<0)
		return m, nil
	case 4:
		m := make([]byte, 12)
		m[11] = byte(vecV[uC[5]]<<6 | vecV[uC[4]]<<4 | vecV[uC[3]]<<2 | vecV[uC[2]])
		m[10] = byte(vecV[uC[1]]<<6 | vecV[uC[0]]<<4 | vecV[uB[19]]<<1 | vecV[uB[18]]>>2)
		m[9] = byte(vecV[uB[18]]<<6 | vecV[uB[17]]<<3 | vecV[uB[16]])
		m[8] = byte(vecV[uB[15]]<<5 | vecV[uB[14]]<<2 | vecV[uB[13]]>>1)
		m[7] = byte(vecV[uB[13]]<<7 | vecV[uB[12]]<<4 | vecV[uB[11]]<<1 | vecV[uB[10]]>>2)
		m[6] = byte(vecV[uB[10]]<<6 | vecV[uB[9]]<<3 | vecV[uB[8]])
		m[5] = byte(vecV[uB[7]]<<5 | vecV[uB[6]]<<2 | vecV[uB[5]]>>1)
		m[4] = byte(vecV[uB[5]]<<7 | vecV[uB[4]]<<4 | vecV[uB[3]]<<1 | vecV[uB[2]]>>2)
		m[3] = byte(vecV[uB[2]]<<6 | vecV[uB[1]]<<3 | vecV[uB[0]])
		m[2] = byte(vecV[uA[5]]<<4 | vecV[uA[4]])
		m[1] = byte(vecV[uA[3]]<<4 | vecV[uA[2]])
		m[0] = byte(vecV[uA[1]]<<4 | vecV[uA[0]])
		return m, nil
	default:
		return nil, fmt.Errorf("scloudplus: bw32: unsupported tau %d", tau)
	}
}

// DelabelingRecoverW inverts LabelingComputeW's Kronecker-product
// construction (algorithm 3, steps 1-5), recovering the pre-reduction
// complex vector from a decoded lattice point.
func DelabelingRecoverW(w [16]Complex, logq, tau int) ([16]Complex, error) {
	var tmp [16]Complex
	shift := uint(logq - tau)
	for i := 0; i < 16; i++ {
		tmp[i] = Complex{w[i].Real >> shift, w[i].Imag >> shift}
	}
	for i := 0; i < 8; i++ {
		tmp[8+i] = cDivPhi(cSub(tmp[8+i], tmp[i]))
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 4; j++ {
			tmp[8*i+4+j] = cDivPhi(cSub(tmp[8*i+4+j], tmp[8*i+j]))
		}
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 2; j++ {
			tmp[4*i+2+j] = cDivPhi(cSub(tmp[4*i+2+j], tmp[4*i+j]))
		}
	}
	for i := 0; i < 8; i++ {
		tmp[2*i+1] = cDivPhi(cSub(tmp[2*i+1], tmp[2*i]))
	}
	return DelabelingReduceW(tmp, tau)
}

func euclideanDistance(a, b []Complex) int64 {
	var sum int64
	for i := range a {
		dr := int64(a[i].Real - b[i].Real)
		di := int64(a[i].Imag - b[i].Imag)
		sum += dr*dr + di*di
	}
	return sum
}

// bddForBWn is the recursive bounded-distance decoder for the length-BWn
// Barnes-Wall lattice: it splits t into two half-length lattice problems,
// decodes each, reconciles them through the phi-division glue, and keeps
// whichever of the two candidate reconstructions lands closer to t. Ties
// (d1 == d2) resolve to the second candidate, matching the reference's
// plain d1 < d2 test.
func bddForBWn(t []Complex, logq, tau int32) []Complex {
	bwn := int32(len(t)) * 2
	if bwn == 2 {
		return []Complex{{round(t[0].Real, logq, tau), round(t[0].Imag, logq, tau)}}
	}
	tLen := len(t)
	half := tLen / 2
	t1, t2 := t[:half], t[half:]
	y1 := bddForBWn(t1, logq, tau)
	y2 := bddForBWn(t2, logq, tau)

	z1in := make([]Complex, half)
	z2in := make([]Complex, half)
	for i := 0; i < half; i++ {
		z1in[i] = cDivPhi(cSub(t2[i], y1[i]))
		z2in[i] = cDivPhi(cSub(t1[i], y2[i]))
	}
	z1 := bddForBWn(z1in, logq, tau)
	z2 := bddForBWn(z2in, logq, tau)
	for i := 0; i < half; i++ {
		z1[i] = cMul(z1[i], phi)
		z2[i] = cMul(z2[i], phi)
	}

	out1 := make([]Complex, tLen)
	out2 := make([]Complex, tLen)
	for i := 0; i < half; i++ {
		out1[i] = y1[i]
		out1[half+i] = cAdd(y1[i], z1[i])
		out2[i] = cAdd(y2[i], z2[i])
		out2[half+i] = y2[i]
	}
	if euclideanDistance(out1, t) < euclideanDistance(out2, t) {
		return out1
	}
	return out2
}

// Decode runs the bounded-distance decoder and delabelling over every
// 32-coefficient block of matrixM, recovering mu_count message chunks
// into msg (which must be at least mu_count*(mu/8) bytes).
func Decode(matrixM []uint16, p *params.Set, msg []byte) error {
	chunkBytes := p.Mu >> 3
	for i := 0; i < p.MuCnt; i++ {
		block := matrixM[i*32 : i*32+32]
		encMsg := make([]Complex, 16)
		for j := 0; j < 16; j++ {
			encMsg[j] = Complex{int32(block[2*j]), int32(block[2*j+1])}
		}
		y := bddForBWn(encMsg, int32(p.LogQ), int32(p.Tau))
		var w [16]Complex
		copy(w[:], y)
		u, err := DelabelingRecoverW(w, p.LogQ, p.Tau)
		if err != nil {
			return err
		}
		chunk, err := DelabelingComputeU(u, p.Tau)
		if err != nil {
			return err
		}
		copy(msg[i*chunkBytes:i*chunkBytes+chunkBytes], chunk)
	}
	return nil
}
