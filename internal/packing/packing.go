// Package packing implements the SCloud+ byte layouts for the public key,
// the private key's ternary matrix, and the two ciphertext halves.
//
// Every Pack/Unpack pair here is grounded on SCLOUDPLUS_PackPK/UnPackPK,
// PackSK/UnPackSK and PackC1/C2 from the reference scloudplus_util.c: pack
// two 12-bit coefficients into 3 bytes, four 2-bit ternary values into one
// byte, and the per-level bit-stream layouts for the compressed ciphertext
// halves. All functions are total; packing has no failure modes.
package packing

import "scloudplus/internal/params"

// PackPK packes matrix B (logq-bit coefficients, row-major) into 3 bytes per
// pair: (a | b<<12) little endian, mirroring SCLOUDPLUS_PackPK.
func PackPK(b []uint16, out []byte) {
	for i := 0; i < len(b); i += 2 {
		a0 := uint32(b[i]) | uint32(b[i+1])<<16
		v := (a0 & 0xFFF) | ((a0 >> 4) & 0xFFF000)
		o := (i / 2) * 3
		out[o] = byte(v)
		out[o+1] = byte(v >> 8)
		out[o+2] = byte(v >> 16)
	}
}

// UnpackPK is PackPK's inverse.
func UnpackPK(in []byte, out []uint16) {
	for i := 0; i < len(out); i += 2 {
		o := (i / 2) * 3
		lo := uint16(in[o]) | uint16(in[o+1])<<8
		hi := uint16(in[o+1]) | uint16(in[o+2])<<8
		out[i] = lo & params.ModQ
		out[i+1] = (hi >> 4) & params.ModQ
	}
}

// PackSK encodes each ternary coefficient in {-1,0,1} as 2 bits (sign
// extended on unpack), four coefficients per byte LSB-first.
func PackSK(s []uint16, out []byte) {
	for i := 0; i < len(s); i += 4 {
		b := s[i] & 0x03
		b |= (s[i+1] << 2) & 0x0C
		b |= (s[i+2] << 4) & 0x30
		b |= (s[i+3] << 6) & 0xC0
		out[i/4] = byte(b)
	}
}

// UnpackSK is PackSK's inverse; each 2-bit field is sign extended to a
// 16-bit signed value then reinterpreted as uint16 (so -1 reads back as
// 0xFFFF, matching the modular arithmetic the matrix pipeline expects).
func UnpackSK(in []byte, out []uint16) {
	signExtend2 := func(v byte) uint16 {
		return uint16(int16(uint16(v)<<14) >> 14)
	}
	for i := 0; i < len(out); i += 4 {
		b := in[i/4]
		out[i] = signExtend2(b & 0x03)
		out[i+1] = signExtend2((b >> 2) & 0x03)
		out[i+2] = signExtend2((b >> 4) & 0x03)
		out[i+3] = signExtend2((b >> 6) & 0x03)
	}
}

// PackC1 packs the compressed C1 matrix. For logq1 == 12 (Level192) it uses
// the pk 3-byte layout; for logq1 == 9/10 it stores the low byte of every
// coefficient contiguously, then packs the high bits (1 or 2 per
// coefficient) in trailing bytes, MSB first.
func PackC1(logQ1 int, c []uint16, out []byte) {
	n := len(c)
	switch logQ1 {
	case 12:
		PackPK(c, out)
	case 9:
		for i := 0; i < n; i++ {
			out[i] = byte(c[i])
		}
		for i := 0; i < n>>3; i++ {
			var hi byte
			for j := 0; j < 8; j++ {
				hi = (hi << 1) | byte((c[8*i+j]>>8)&0x1)
			}
			out[n+i] = hi
		}
	case 10:
		for i := 0; i < n; i++ {
			out[i] = byte(c[i])
		}
		for i := 0; i < n>>2; i++ {
			var hi byte
			for j := 0; j < 4; j++ {
				hi = (hi << 2) | byte((c[4*i+j]>>8)&0x3)
			}
			out[n+i] = hi
		}
	}
}

// UnpackC1 is PackC1's inverse.
func UnpackC1(logQ1 int, in []byte, out []uint16) {
	n := len(out)
	switch logQ1 {
	case 12:
		UnpackPK(in, out)
	case 9:
		for i := 0; i < n; i++ {
			out[i] = uint16(in[i])
		}
		for i := 0; i < n>>3; i++ {
			hi := in[n+i]
			for j := 0; j < 8; j++ {
				bit := (uint16(hi) >> uint(7-j)) & 0x1
				out[8*i+j] |= bit << 8
			}
		}
	case 10:
		for i := 0; i < n; i++ {
			out[i] = uint16(in[i])
		}
		for i := 0; i < n>>2; i++ {
			hi := in[n+i]
			for j := 0; j < 4; j++ {
				bits := (uint16(hi) >> uint(2*(3-j))) & 0x3
				out[4*i+j] |= bits << 8
			}
		}
	}
}

// PackC2 packs the compressed C2 matrix. logq2 == 7 streams eight
// coefficients into seven bytes (7-1,6-2,...,1-7 bit split), with a
// partial tail block when the coefficient count isn't a multiple of 8.
// logq2 == 10 reuses the low-byte + packed-high-bits layout of PackC1.
func PackC2(logQ2 int, c []uint16, out []byte) {
	n := len(c)
	switch logQ2 {
	case 7:
		full := n / 8
		for i := 0; i < full; i++ {
			pack7of8(c[8*i:8*i+8], out[7*i:7*i+7])
		}
		if rem := n - full*8; rem > 0 {
			tail := make([]uint16, 8)
			copy(tail, c[full*8:])
			tmp := make([]byte, 7)
			pack7of8(tail, tmp)
			copy(out[7*full:], tmp[:rem])
		}
	case 10:
		for i := 0; i < n; i++ {
			out[i] = byte(c[i])
		}
		for i := 0; i < n>>2; i++ {
			var hi byte
			for j := 0; j < 4; j++ {
				hi = (hi << 2) | byte((c[4*i+j]>>8)&0x3)
			}
			out[n+i] = hi
		}
	}
}

func pack7of8(c []uint16, out []byte) {
	out[0] = byte(c[0]&0x7F) | byte(c[1]<<7)
	out[1] = byte((c[1]>>1)&0x3F) | byte(c[2]<<6)
	out[2] = byte((c[2]>>2)&0x1F) | byte(c[3]<<5)
	out[3] = byte((c[3]>>3)&0x0F) | byte(c[4]<<4)
	out[4] = byte((c[4]>>4)&0x07) | byte(c[5]<<3)
	out[5] = byte((c[5]>>5)&0x03) | byte(c[6]<<2)
	out[6] = byte((c[6]>>6)&0x01) | byte(c[7]<<1)
}

func unpack8of7(in []byte, out []uint16) {
	out[0] = uint16(in[0]) & 0x7F
	out[1] = (uint16(in[0]) >> 7) & 0x7F & 0x01
	out[1] |= (uint16(in[1]) << 1) & 0x7E
	out[2] = (uint16(in[1]) >> 6) & 0x7F & 0x03
	out[2] |= (uint16(in[2]) << 2) & 0x7C
	out[3] = (uint16(in[2]) >> 5) & 0x7F & 0x07
	out[3] |= (uint16(in[3]) << 3) & 0x78
	out[4] = (uint16(in[3]) >> 4) & 0x7F & 0x0F
	out[4] |= (uint16(in[4]) << 4) & 0x70
	out[5] = (uint16(in[4]) >> 3) & 0x7F & 0x1F
	out[5] |= (uint16(in[5]) << 5) & 0x60
	out[6] = (uint16(in[5]) >> 2) & 0x7F & 0x3F
	out[6] |= (uint16(in[6]) << 6) & 0x40
	out[7] = (uint16(in[6]) >> 1) & 0x7F
}

// UnpackC2 is PackC2's inverse.
func UnpackC2(logQ2 int, in []byte, out []uint16) {
	n := len(out)
	switch logQ2 {
	case 7:
		full := n / 8
		for i := 0; i < full; i++ {
			unpack8of7(in[7*i:7*i+7], out[8*i:8*i+8])
		}
		if rem := n - full*8; rem > 0 {
			tmp := make([]byte, 7)
			copy(tmp, in[7*full:])
			tail := make([]uint16, 8)
			unpack8of7(tmp, tail)
			copy(out[full*8:], tail[:rem])
		}
	case 10:
		for i := 0; i < n; i++ {
			out[i] = uint16(in[i])
		}
		for i := 0; i < n>>2; i++ {
			hi := in[n+i]
			for j := 0; j < 4; j++ {
				bits := (uint16(hi) >> uint(2*(3-j))) & 0x3
				out[4*i+j] |= bits << 8
			}
		}
	}
}
