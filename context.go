package scloudplus

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/sha3"

	"scloudplus/internal/consttime"
	"scloudplus/internal/params"
	"scloudplus/internal/pke"
)

type ctxState int

const (
	stateEmpty ctxState = iota
	stateParameterised
	stateKeyed
)

// Context carries one parameter set and, once keyed, a public and/or
// private key across Encapsulate and Decapsulate calls. The zero value is
// empty; call SetKeyBits to parameterise it, then Generate, ImportPub or
// ImportPriv to key it. A Context is not safe for concurrent use by more
// than one goroutine at a time; disjoint Contexts may run concurrently.
//
// Grounded on the PQCP_SCLOUDPLUS_CTX lifecycle in scloudplus.c:
// Gen/Encaps/Decaps/Ctrl/FreeCtx.
type Context struct {
	state ctxState
	para  *params.Set

	pk []byte
	sk []byte
}

// SetKeyBits is the context's single control command: it parameterises
// the context for the named security level (128, 192 or 256). Calling it
// again with the same value already in force is a no-op; calling it with
// a different value, or from the keyed state, fails with
// ErrInvalidArgument.
func (c *Context) SetKeyBits(bits int) error {
	p, err := params.Lookup(bits)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if c.state == stateKeyed {
		return fmt.Errorf("%w: context already keyed", ErrInvalidArgument)
	}
	if c.state != stateEmpty {
		if c.para == p {
			return nil
		}
		return fmt.Errorf("%w: context already parameterised at a different level", ErrInvalidArgument)
	}
	c.para = p
	c.state = stateParameterised
	return nil
}

// Generate samples a fresh key pair into the context, moving it from
// parameterised to keyed. It fails with ErrNullInput if SetKeyBits has not
// been called. On failure the context remains parameterised with no key
// material retained.
func (c *Context) Generate() error {
	if c.state == stateEmpty {
		return fmt.Errorf("%w: no parameter set", ErrNullInput)
	}
	p := c.para

	pk := make([]byte, p.PkSize)
	sk := make([]byte, p.KemSkSize)
	if err := pke.Keygen(p, pk, sk[:p.PkeSkSize]); err != nil {
		return fmt.Errorf("%w: %v", ErrOracle, err)
	}
	copy(sk[p.PkeSkSize:p.PkeSkSize+p.PkSize], pk)

	hpk := sha3.Sum256(pk)
	copy(sk[p.PkeSkSize+p.PkSize:p.PkeSkSize+p.PkSize+params.HpkLen], hpk[:])

	z := sk[p.KemSkSize-params.RandZLen:]
	if _, err := rand.Read(z); err != nil {
		return fmt.Errorf("%w: %v", ErrOracle, err)
	}

	c.pk = pk
	c.sk = sk
	c.state = stateKeyed
	log.Debugf("scloudplus: generated %d-bit key pair", c.para.Level)
	return nil
}

// ImportPub loads an externally-generated public key into the context,
// moving it to keyed. pk must be exactly the parameter set's pk_size.
func (c *Context) ImportPub(pk []byte) error {
	if c.state == stateEmpty {
		return fmt.Errorf("%w: no parameter set", ErrNullInput)
	}
	if pk == nil {
		return fmt.Errorf("%w: nil public key", ErrNullInput)
	}
	if len(pk) != c.para.PkSize {
		return fmt.Errorf("%w: public key length %d, want %d", ErrInvalidArgument, len(pk), c.para.PkSize)
	}
	c.pk = append([]byte(nil), pk...)
	c.state = stateKeyed
	return nil
}

// ImportPriv loads an externally-generated private (KEM) key into the
// context, moving it to keyed. sk must be exactly the parameter set's
// kem_sk_size; the public key it embeds is also made available for
// Encapsulate.
func (c *Context) ImportPriv(sk []byte) error {
	if c.state == stateEmpty {
		return fmt.Errorf("%w: no parameter set", ErrNullInput)
	}
	if sk == nil {
		return fmt.Errorf("%w: nil private key", ErrNullInput)
	}
	if len(sk) != c.para.KemSkSize {
		return fmt.Errorf("%w: private key length %d, want %d", ErrInvalidArgument, len(sk), c.para.KemSkSize)
	}
	c.sk = append([]byte(nil), sk...)
	c.pk = append([]byte(nil), sk[c.para.PkeSkSize:c.para.PkeSkSize+c.para.PkSize]...)
	c.state = stateKeyed
	return nil
}

// Encapsulate generates a fresh shared secret and its ciphertext under the
// context's public key. It requires the context to be keyed with a public
// key present (Generate, ImportPub or ImportPriv all supply one).
func (c *Context) Encapsulate() (ctx, ss []byte, err error) {
	if c.state != stateKeyed || c.pk == nil {
		return nil, nil, fmt.Errorf("%w: no public key", ErrNullInput)
	}
	p := c.para

	m := make([]byte, p.SS)
	if _, err := rand.Read(m); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrOracle, err)
	}
	hpk := sha3.Sum256(c.pk)

	rk := sha3.Sum512(append(append([]byte(nil), m...), hpk[:]...))
	r := rk[:params.RandRLen]
	k := rk[params.RandRLen:]

	ctx = make([]byte, p.CtxSize)
	if err := pke.Encrypt(c.pk, m, r, p, ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrOracle, err)
	}

	ss = make([]byte, p.SS)
	shake := sha3.NewShake256()
	shake.Write(k)
	shake.Write(ctx)
	shake.Read(ss)
	return ctx, ss, nil
}

// Decapsulate recovers the shared secret encapsulated in ctx using the
// context's private key. It requires the context to be keyed with a
// private key present. If ctx's length does not match the parameter set's
// ctx_size, it fails with ErrInvalidArgument. Otherwise it always
// succeeds: a tampered or otherwise invalid ciphertext yields the
// implicit-rejection secret instead of an error, per the FO transform.
func (c *Context) Decapsulate(ctx []byte) (ss []byte, err error) {
	if c.state != stateKeyed || c.sk == nil {
		return nil, fmt.Errorf("%w: no private key", ErrNullInput)
	}
	p := c.para
	if len(ctx) != p.CtxSize {
		return nil, fmt.Errorf("%w: ciphertext length %d, want %d", ErrInvalidArgument, len(ctx), p.CtxSize)
	}

	pkeSk := c.sk[:p.PkeSkSize]
	pk := c.sk[p.PkeSkSize : p.PkeSkSize+p.PkSize]
	hpk := c.sk[p.PkeSkSize+p.PkSize : p.PkeSkSize+p.PkSize+params.HpkLen]
	z := c.sk[p.KemSkSize-params.RandZLen:]

	m1 := make([]byte, p.SS)
	if err := pke.Decrypt(pkeSk, ctx, p, m1); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracle, err)
	}

	rk1 := sha3.Sum512(append(append([]byte(nil), m1...), hpk...))
	r1 := rk1[:params.RandRLen]
	k1 := rk1[params.RandRLen:]

	ctx1 := make([]byte, p.CtxSize)
	if err := pke.Encrypt(pk, m1, r1, p, ctx1); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracle, err)
	}

	ok := consttime.Equal(ctx, ctx1)
	key := make([]byte, params.SeedKLen)
	consttime.Select(key, z, k1, ok)

	ss = make([]byte, p.SS)
	shake := sha3.NewShake256()
	shake.Write(key)
	shake.Write(ctx)
	shake.Read(ss)
	log.Debugf("scloudplus: decapsulated, implicit-reject=%v", !ok)
	return ss, nil
}

// Free zeroises and releases the context's key material, returning it to
// the empty state. It is valid to call from any state, including empty,
// and never fails. The parameter set reference is shared-immutable and is
// never freed.
func (c *Context) Free() {
	zero(c.pk)
	zero(c.sk)
	c.pk = nil
	c.sk = nil
	c.para = nil
	c.state = stateEmpty
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
