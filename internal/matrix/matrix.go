// Package matrix implements SCloud+'s LWE arithmetic: the AES-128-ECB
// pseudorandom generator that expands a 16-byte seed into the public
// matrix A, and the four noisy products (A*S+E, S*A+E, S*B+E, C*S) that
// build public keys and ciphertexts from it.
//
// Grounded on SCLOUDPLUS_AS_E/SA_E/SB_E/CS/Add/Sub in scloudplus_util.c.
// The reference batches 4 or 8 rows of A per AES-ECB call to amortize the
// cipher update; each 16-byte block it encrypts carries exactly one row
// counter in its first four bytes and zero padding in the rest, so the
// batching is a performance detail, not a semantic one. Expander.Row
// reproduces the same per-block counter one row at a time, which is
// bit-for-bit equivalent and considerably easier to follow.
package matrix

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"

	"scloudplus/internal/params"
)

// Expander generates rows of the public matrix A on demand from a 16-byte
// seed, keyed into AES-128 once and reused for every row.
type Expander struct {
	block cipher.Block
	n     int
}

// NewExpander builds an Expander for an M x N matrix A whose rows are N
// coefficients wide, keyed by seedA (params.SeedALen bytes).
func NewExpander(seedA []byte, n int) (*Expander, error) {
	if len(seedA) != params.SeedALen {
		return nil, fmt.Errorf("scloudplus: matrix.NewExpander: bad seed length %d", len(seedA))
	}
	block, err := aes.NewCipher(seedA)
	if err != nil {
		return nil, fmt.Errorf("scloudplus: matrix.NewExpander: %w", err)
	}
	return &Expander{block: block, n: n}, nil
}

// Row fills out (length n) with row's coefficients of A: n/8 AES-128-ECB
// blocks, one per group of 8 coefficients, each encrypting the little
// endian counter row*(n/8)+j zero-padded to 16 bytes.
func (e *Expander) Row(row int, out []uint16) {
	blocks := e.n / 8
	var pt, ct [16]byte
	for j := 0; j < blocks; j++ {
		for i := range pt {
			pt[i] = 0
		}
		binary.LittleEndian.PutUint32(pt[0:4], uint32(row*blocks+j))
		e.block.Encrypt(ct[:], pt[:])
		for t := 0; t < 8; t++ {
			out[8*j+t] = binary.LittleEndian.Uint16(ct[2*t : 2*t+2])
		}
	}
}

// AS_E computes B = A*S^T + E, an (m x nbar) matrix, where A (m x n) is
// expanded from seedA row by row, S is stored as nbar rows of n
// coefficients (SamplePsi's layout) and E is the keygen error matrix (also
// m x nbar). out may not alias e.
func AS_E(seedA []byte, s, e []uint16, p *params.Set, out []uint16) error {
	exp, err := NewExpander(seedA, p.N)
	if err != nil {
		return err
	}
	copy(out, e)
	arow := make([]uint16, p.N)
	for row := 0; row < p.M; row++ {
		exp.Row(row, arow)
		for k := 0; k < p.NBar; k++ {
			var sum uint16
			srow := s[k*p.N : k*p.N+p.N]
			for j := 0; j < p.N; j++ {
				sum += arow[j] * srow[j]
			}
			out[row*p.NBar+k] += sum
		}
	}
	for i := range out {
		out[i] &= params.ModQ
	}
	return nil
}

// SA_E accumulates C += S*A, an (mbar x n) matrix, into e in place, where S
// is stored as mbar rows of m coefficients (SamplePhi's layout) and A (m x
// n) is expanded from seedA row by row. This builds the C1 ciphertext
// half, C1 = S'*A + E1.
func SA_E(seedA []byte, s []uint16, p *params.Set, e []uint16) error {
	exp, err := NewExpander(seedA, p.N)
	if err != nil {
		return err
	}
	arow := make([]uint16, p.N)
	for row := 0; row < p.M; row++ {
		exp.Row(row, arow)
		for j := 0; j < p.MBar; j++ {
			sp := s[j*p.M+row]
			erow := e[j*p.N : j*p.N+p.N]
			for q := 0; q < p.N; q++ {
				erow[q] += sp * arow[q]
			}
		}
	}
	for i := range e {
		e[i] &= params.ModQ
	}
	return nil
}

// SB_E computes out = S*B + E, an (mbar x nbar) matrix, where S is stored
// as mbar rows of m coefficients (SamplePhi's layout), B is the public key
// (m x nbar) and E is the encaps error matrix E2 (mbar x nbar). This
// builds the C2 ciphertext half before message encoding is folded in.
func SB_E(s, b, e []uint16, p *params.Set, out []uint16) {
	copy(out, e)
	for i := 0; i < p.MBar; i++ {
		srow := s[i*p.M : i*p.M+p.M]
		for j := 0; j < p.NBar; j++ {
			var sum uint16
			for k := 0; k < p.M; k++ {
				sum += srow[k] * b[k*p.NBar+j]
			}
			out[i*p.NBar+j] += sum
		}
	}
	for i := range out {
		out[i] &= params.ModQ
	}
}

// CS computes out = C*S^T, an (mbar x nbar) matrix, where C is the
// received C1 ciphertext half (mbar x n) and S is the PKE secret key
// (SamplePsi's layout, nbar rows of n coefficients). This recovers
// S'*A*S, which decaps subtracts from C2 to recover the noisy message.
func CS(c, s []uint16, p *params.Set, out []uint16) {
	for i := range out {
		out[i] = 0
	}
	for i := 0; i < p.MBar; i++ {
		crow := c[i*p.N : i*p.N+p.N]
		for j := 0; j < p.NBar; j++ {
			var sum uint16
			srow := s[j*p.N : j*p.N+p.N]
			for k := 0; k < p.N; k++ {
				sum += crow[k] * srow[k]
			}
			out[i*p.NBar+j] = sum & params.ModQ
		}
	}
}

// Add computes out = (a+b) mod q elementwise.
func Add(a, b, out []uint16) {
	for i := range out {
		out[i] = (a[i] + b[i]) & params.ModQ
	}
}

// Sub computes out = (a-b) mod q elementwise.
func Sub(a, b, out []uint16) {
	for i := range out {
		out[i] = (a[i] - b[i]) & params.ModQ
	}
}
