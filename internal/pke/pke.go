// Package pke implements the IND-CPA public key encryption scheme that
// SCloud+'s KEM wraps with the Fujisaki-Okamoto transform: lattice keygen,
// encryption and decryption built from the sample, matrix, compress,
// bw32 and packing packages.
//
// Grounded on SCLOUDPLUS_PKEKeygen/PKEEncrypt/PKEDecrypt in scloudplus.c.
package pke

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/sha3"

	"scloudplus/internal/bw32"
	"scloudplus/internal/compress"
	"scloudplus/internal/matrix"
	"scloudplus/internal/packing"
	"scloudplus/internal/params"
	"scloudplus/internal/sample"
)

// Keygen samples a fresh PKE keypair for level p, writing the packed
// public key (p.PkSize bytes, matrix B plus the trailing matrix-A seed)
// and the packed secret key (p.PkeSkSize bytes, the ternary matrix S).
func Keygen(p *params.Set, pk, sk []byte) error {
	if len(pk) != p.PkSize || len(sk) != p.PkeSkSize {
		return fmt.Errorf("scloudplus: pke.Keygen: bad buffer sizes")
	}
	var alpha [params.AlphaLen]byte
	if _, err := rand.Read(alpha[:]); err != nil {
		return err
	}
	seed := make([]byte, params.SeedALen+params.SeedR1Len+params.SeedR2Len)
	shake := sha3.NewShake256()
	shake.Write(alpha[:])
	shake.Read(seed)
	seedA := seed[:params.SeedALen]
	r1 := seed[params.SeedALen : params.SeedALen+params.SeedR1Len]
	r2 := seed[params.SeedALen+params.SeedR1Len:]

	s := make([]uint16, p.N*p.NBar)
	if err := sample.Psi(r1, p, s); err != nil {
		return err
	}
	e := make([]uint16, p.M*p.NBar)
	if err := sample.Eta1(r2, p, e); err != nil {
		return err
	}
	b := make([]uint16, p.M*p.NBar)
	if err := matrix.AS_E(seedA, s, e, p, b); err != nil {
		return err
	}

	packing.PackPK(b, pk[:p.PkSize-params.SeedALen])
	copy(pk[p.PkSize-params.SeedALen:], seedA)
	packing.PackSK(s, sk)
	return nil
}

// Encrypt encrypts an SS-byte message under pk using randomness r
// (params.RandRLen bytes), writing the packed ciphertext (p.CtxSize
// bytes) to ctx.
func Encrypt(pk, msg, r []byte, p *params.Set, ctx []byte) error {
	if len(pk) != p.PkSize || len(msg) != p.SS || len(r) != params.RandRLen || len(ctx) != p.CtxSize {
		return fmt.Errorf("scloudplus: pke.Encrypt: bad buffer sizes")
	}
	seed := make([]byte, params.SeedR1Len+params.SeedR2Len)
	shake := sha3.NewShake256()
	shake.Write(r)
	shake.Read(seed)
	r1 := seed[:params.SeedR1Len]
	r2 := seed[params.SeedR1Len:]

	s1 := make([]uint16, p.M*p.MBar)
	if err := sample.Phi(r1, p, s1); err != nil {
		return err
	}
	e1 := make([]uint16, p.MBar*p.N)
	e2 := make([]uint16, p.MBar*p.NBar)
	if err := sample.Eta2(r2, p, e1, e2); err != nil {
		return err
	}

	mu0 := make([]uint16, p.MBar*p.NBar)
	if err := bw32.Encode(msg, p, mu0); err != nil {
		return err
	}

	b := make([]uint16, p.M*p.NBar)
	packing.UnpackPK(pk[:p.PkSize-params.SeedALen], b)
	seedA := pk[p.PkSize-params.SeedALen:]

	c1 := e1
	if err := matrix.SA_E(seedA, s1, p, c1); err != nil {
		return err
	}
	c2 := make([]uint16, p.MBar*p.NBar)
	matrix.SB_E(s1, b, e2, p, c2)
	matrix.Add(c2, mu0, c2)

	c1Compressed := make([]uint16, p.MBar*p.N)
	compress.C1(p.LogQ1, c1, c1Compressed)
	c2Compressed := make([]uint16, p.MBar*p.NBar)
	compress.C2(p.LogQ1, p.LogQ2, c2, c2Compressed)

	packing.PackC1(p.LogQ1, c1Compressed, ctx[:p.C1Size])
	packing.PackC2(p.LogQ2, c2Compressed, ctx[p.C1Size:])
	return nil
}

// Decrypt decrypts a packed ciphertext under sk, writing the recovered
// SS-byte message to msg.
func Decrypt(sk, ctx []byte, p *params.Set, msg []byte) error {
	if len(sk) != p.PkeSkSize || len(ctx) != p.CtxSize || len(msg) != p.SS {
		return fmt.Errorf("scloudplus: pke.Decrypt: bad buffer sizes")
	}
	s := make([]uint16, p.N*p.NBar)
	packing.UnpackSK(sk, s)

	c1 := make([]uint16, p.MBar*p.N)
	packing.UnpackC1(p.LogQ1, ctx[:p.C1Size], c1)
	c2 := make([]uint16, p.MBar*p.NBar)
	packing.UnpackC2(p.LogQ2, ctx[p.C1Size:], c2)
	compress.DecompressC1(p.LogQ1, c1, c1)
	compress.DecompressC2(p.LogQ1, p.LogQ2, c2, c2)

	d := make([]uint16, p.MBar*p.NBar)
	matrix.CS(c1, s, p, d)
	matrix.Sub(c2, d, d)

	return bw32.Decode(d, p, msg)
}
