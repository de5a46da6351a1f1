// Package sample implements SCloud+'s secret and error distributions: the
// centred binomial samplers used for the LWE error terms and the
// fixed-weight ternary samplers (Psi, Phi) used for the PKE secret and its
// companion noise matrix.
//
// Every sampler here is grounded on SCLOUDPLUS_SampleEta1/Eta2/Psi/Phi and
// their CBD1/CBD2/cbd3/CBD7/U8ToN/U8ToM helpers in scloudplus_util.c. The
// fixed-weight samplers keep the reference's mask-based slot fill so that a
// rejected candidate index costs the same amount of work as an accepted
// one.
package sample

import (
	"fmt"

	"golang.org/x/crypto/sha3"

	"scloudplus/internal/params"
)

// CBD1 decodes a single byte into four coefficients in {-1,0,1} via a 1-bit
// centred binomial distribution (eta=1).
func CBD1(in byte, out []uint16) {
	b := in
	for j := 0; j < 4; j++ {
		b0 := b & 1
		b1 := (b >> 1) & 1
		out[j] = uint16(int16(b0) - int16(b1))
		b >>= 2
	}
}

// CBD2 decodes a byte into two coefficients in [-2,2] (eta=2).
func CBD2(in byte, out []uint16) {
	var b uint16
	b += uint16(in) & 0x55
	b += uint16(in>>1) & 0x55
	out[0] = (b & 0x03) - ((b >> 2) & 0x03)
	out[1] = ((b >> 4) & 0x03) - ((b >> 6) & 0x03)
}

// cbd3 decodes 24 bits into four coefficients in [-3,3] (eta=3).
func cbd3(in uint32, out []uint16) {
	var b uint32
	b += in & 0x00249249
	b += (in >> 1) & 0x00249249
	b += (in >> 2) & 0x00249249
	for i := 0; i < 4; i++ {
		out[i] = uint16((b>>(6*i))&0x07) - uint16((b>>(6*i+3))&0x07)
	}
}

// CBD7 decodes 56 bits into four coefficients in [-7,7] (eta=7).
func CBD7(in uint64, out []uint16) {
	var b uint64
	for shift := uint(0); shift < 7; shift++ {
		b += (in >> shift) & 0x2040810204081
	}
	for i := 0; i < 4; i++ {
		out[i] = uint16((b>>(14*i))&0x7F) - uint16((b>>(14*i+7))&0x7F)
	}
}

// Eta1 fills a (m*nbar)-length matrix with the keygen error distribution,
// expanding seed (SCLOUDPLUS_SEED_R2_LEN bytes) through SHAKE-256.
func Eta1(seed []byte, p *params.Set, out []uint16) error {
	if len(seed) != params.SeedR2Len {
		return fmt.Errorf("scloudplus: sample.Eta1: bad seed length %d", len(seed))
	}
	n := p.M * p.NBar
	hashLen := (n * 2 * p.Eta1) >> 3
	tmp := make([]byte, hashLen)
	shake := sha3.NewShake256()
	shake.Write(seed)
	shake.Read(tmp)

	switch p.Eta1 {
	case 2:
		for i, t := 0, 0; i < n; i, t = i+2, t+1 {
			CBD2(tmp[t], out[i:i+2])
		}
	case 3:
		for i, t := 0, 0; i < n; i, t = i+4, t+3 {
			cbd3(u24le(tmp[t:t+3]), out[i:i+4])
		}
	case 7:
		for i, t := 0, 0; i < n; i, t = i+4, t+7 {
			CBD7(u56le(tmp[t:t+7]), out[i:i+4])
		}
	default:
		return fmt.Errorf("scloudplus: sample.Eta1: unsupported eta1 %d", p.Eta1)
	}
	return nil
}

// Eta2 fills the encaps error matrices E1 (mbar*n) and E2 (mbar*nbar) from a
// single SHAKE-256 expansion of seed, matching the reference's contiguous
// layout (E1's bytes first, E2's bytes second).
func Eta2(seed []byte, p *params.Set, out1, out2 []uint16) error {
	if len(seed) != params.SeedR2Len {
		return fmt.Errorf("scloudplus: sample.Eta2: bad seed length %d", len(seed))
	}
	n1 := p.MBar * p.N
	n2 := p.MBar * p.NBar
	hash1Len := (n1 * 2 * p.Eta2) >> 3
	hash2Len := (n2*2*p.Eta2 + 7) >> 3
	tmp := make([]byte, hash1Len+hash2Len)
	shake := sha3.NewShake256()
	shake.Write(seed)
	shake.Read(tmp)
	tmp1 := tmp[:hash1Len]
	tmp2 := tmp[hash1Len:]

	switch p.Eta2 {
	case 1:
		for i, t := 0, 0; i < n1; i, t = i+4, t+1 {
			CBD1(tmp1[t], out1[i:i+4])
		}
		for i, t := 0, 0; i < n2; i, t = i+4, t+1 {
			CBD1(tmp2[t], out2[i:i+4])
		}
	case 2:
		for i, t := 0, 0; i < n1; i, t = i+2, t+1 {
			CBD2(tmp1[t], out1[i:i+2])
		}
		for i, t := 0, 0; i < n2; i, t = i+2, t+1 {
			CBD2(tmp2[t], out2[i:i+2])
		}
	case 7:
		for i, t := 0, 0; i < n1; i, t = i+4, t+7 {
			CBD7(u56le(tmp1[t:t+7]), out1[i:i+4])
		}
		for i, t := 0, 0; i < n2; i, t = i+4, t+7 {
			CBD7(u56le(tmp2[t:t+7]), out2[i:i+4])
		}
	default:
		return fmt.Errorf("scloudplus: sample.Eta2: unsupported eta2 %d", p.Eta2)
	}
	return nil
}

// Psi fills an (n*nbar)-length ternary matrix with nbar columns of exactly
// h1 entries equal to 1 and h1 entries equal to -1, the rest zero. Locations
// are drawn by rejection sampling from a SHAKE-256 stream seeded by seed
// (SCLOUDPLUS_SEED_R1_LEN bytes), squeezed in fixed 680-byte blocks of
// which only the first MnIn bytes are decoded by decodeCandidates, the
// rest discarded. A location is accepted into a column only the first
// time it is hit; the slot write uses a mask so a rejected hit costs the
// same work as an accepted one.
func Psi(seed []byte, p *params.Set, out []uint16) error {
	if len(seed) != params.SeedR1Len {
		return fmt.Errorf("scloudplus: sample.Psi: bad seed length %d", len(seed))
	}
	for i := range out {
		out[i] = 0
	}
	shake := sha3.NewShake256()
	shake.Write(seed)
	return fixedWeight(shake, p, p.N, p.NBar, p.H1, out, func(hash []byte, cands []uint16) int {
		return decodeCandidates(hash, p, p.N, cands)
	})
}

// Phi fills an (m*mbar)-length ternary matrix analogous to Psi, with h2
// entries of each sign per mbar column out of m candidate rows.
func Phi(seed []byte, p *params.Set, out []uint16) error {
	if len(seed) != params.SeedR1Len {
		return fmt.Errorf("scloudplus: sample.Phi: bad seed length %d", len(seed))
	}
	for i := range out {
		out[i] = 0
	}
	shake := sha3.NewShake256()
	shake.Write(seed)
	return fixedWeight(shake, p, p.M, p.MBar, p.H2, out, func(hash []byte, cands []uint16) int {
		return decodeCandidates(hash, p, p.M, cands)
	})
}

func fixedWeight(shake sha3.ShakeHash, p *params.Set, stride, cols, h int, out []uint16,
	decode func(hash []byte, cands []uint16) int) error {
	block := make([]byte, params.SqueezeBlockLen)
	cands := make([]uint16, p.MnOut)
	shake.Read(block)
	outLen := decode(block[:p.MnIn], cands)
	k := 0
	for i := 0; i < cols; i++ {
		j := 0
		for j < h*2 {
			if k == outLen {
				shake.Read(block)
				outLen = decode(block[:p.MnIn], cands)
				k = 0
			}
			loc := int(cands[k])
			idx := i*stride + loc
			cond := uint16(0)
			if out[idx] == 0 {
				cond = 1
			}
			mask := -cond
			val := uint16(int16(1 - 2*(j&1)))
			out[idx] = (out[idx] &^ mask) | (val & mask)
			j += int(cond)
			k++
		}
	}
	return nil
}

// decodeCandidates runs the per-level U8ToN/U8ToM reject-sampling decoder
// (the two only differ in the modulus they reject against, n vs m, which
// both Psi and Phi supply as bound) and returns the number of valid
// candidates written to cands.
func decodeCandidates(hash []byte, p *params.Set, bound int, cands []uint16) int {
	switch p.SS {
	case 16:
		return decode3x28(hash, bound, cands)
	case 24:
		return decode8x11(hash, bound, cands)
	case 32:
		return decode5x51(hash, bound, cands)
	}
	return 0
}

// decode3x28 implements U8ToN/U8ToM's ss==16 branch: every 7 input bytes
// yield two 28-bit candidates, each rejection-sampled against n1^3 and, if
// accepted, split into three base-n1 digits (n1 = 600).
func decode3x28(hash []byte, bound int, cands []uint16) int {
	const n1, n2, n3 = 600, 360000, 216000000
	out := 0
	for i := 0; i+7 <= len(hash); i += 7 {
		tmp := u32le(hash[i:i+4]) & 0xFFFFFFF
		if tmp < n3 {
			cands[out] = uint16(tmp % n1)
			cands[out+1] = uint16(tmp / n1 % n1)
			cands[out+2] = uint16(tmp / n2 % n1)
			out += 3
		}
		tmp = (u32le(hash[i+3:i+7]) >> 4) & 0xFFFFFFF
		if tmp < n3 {
			cands[out] = uint16(tmp % n1)
			cands[out+1] = uint16(tmp / n1 % n1)
			cands[out+2] = uint16(tmp / n2 % n1)
			out += 3
		}
	}
	_ = bound // n1 == params.Level128's n == m, the rejection bound is baked into n3
	return out
}

// decode8x11 implements the ss==24 branch: every 11 input bytes yield eight
// overlapping 11-bit fields, each accepted directly when below bound (n or
// m, both close to 2^11 at this level).
func decode8x11(hash []byte, bound int, cands []uint16) int {
	out := 0
	for i := 0; i+11 <= len(hash); i += 11 {
		var tmp [8]uint16
		tmp[0] = u16le(hash[i:i+2]) & 0x7FF
		tmp[1] = (u16le(hash[i+1:i+3]) >> 3) & 0x7FF
		tmp[2] = uint16((u32le(hash[i+2:i+6]) >> 6) & 0x7FF)
		tmp[3] = (u16le(hash[i+4:i+6]) >> 1) & 0x7FF
		tmp[4] = (u16le(hash[i+5:i+7]) >> 4) & 0x7FF
		tmp[5] = uint16((u32le(hash[i+6:i+10]) >> 7) & 0x7FF)
		tmp[6] = (u16le(hash[i+8:i+10]) >> 2) & 0x7FF
		tmp[7] = (u16le(hash[i+9:i+11]) >> 5) & 0x7FF
		for j := 0; j < 8; j++ {
			if int(tmp[j]) < bound {
				cands[out] = tmp[j]
				out++
			}
		}
	}
	return out
}

// decode5x51 implements the ss==32 branch: thirteen 51-byte blocks each
// yield eight overlapping 51-bit fields, rejection-sampled against n5 and
// split into five base-1120 digits, followed by one trailing 17-byte block
// yielding two more fields of the same shape.
func decode5x51(hash []byte, _ int, cands []uint16) int {
	const n1, n2, n3, n4, n5 = 1120, 1254400, 1404928000, 1573519360000, 1762341683200000
	out := 0
	digit := func(a uint64) {
		cands[out] = uint16(a % n1)
		cands[out+1] = uint16(a / n1 % n1)
		cands[out+2] = uint16(a / n2 % n1)
		cands[out+3] = uint16(a / n3 % n1)
		cands[out+4] = uint16(a / n4 % n1)
		out += 5
	}
	base := 0
	for iter := 0; iter < 13; iter++ {
		a := [8]uint64{
			u64le(hash[base:base+8]) & 0x7FFFFFFFFFFFF,
			(u64le(hash[base+6:base+14]) >> 3) & 0x7FFFFFFFFFFFF,
			(u64le(hash[base+12:base+20]) >> 6) & 0x7FFFFFFFFFFFF,
			(u64le(hash[base+19:base+27]) >> 1) & 0x7FFFFFFFFFFFF,
			(u64le(hash[base+25:base+33]) >> 4) & 0x7FFFFFFFFFFFF,
			(u64le(hash[base+31:base+39]) >> 7) & 0x7FFFFFFFFFFFF,
			(u64le(hash[base+38:base+46]) >> 2) & 0x7FFFFFFFFFFFF,
			(u64le(hash[base+44:base+52]) >> 5) & 0x7FFFFFFFFFFFF,
		}
		for j := 0; j < 8; j++ {
			if a[j] < n5 {
				digit(a[j])
			}
		}
		base += 51
	}
	a0 := u64le(hash[base:base+8]) & 0x7FFFFFFFFFFFF
	a1 := (u64le(hash[base+6:base+14]) >> 3) & 0x7FFFFFFFFFFFF
	for _, a := range [2]uint64{a0, a1} {
		if a < n5 {
			digit(a)
		}
	}
	return out
}

func u16le(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }

func u24le(b []byte) uint32 { return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 }

func u32le(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func u56le(b []byte) uint64 {
	var v uint64
	for i := 0; i < 7; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

func u64le(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
