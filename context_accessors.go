package scloudplus

import "scloudplus/internal/consttime"

// Level reports the context's security level in classical bits and whether
// one has been chosen yet. Grounded on the provider's GET_SECBITS control
// command.
func (c *Context) Level() (bits int, ok bool) {
	if c.para == nil {
		return 0, false
	}
	return int(c.para.Level), true
}

// PublicKeySize, PrivateKeySize, CiphertextSize and SharedSecretSize report
// the byte sizes a parameterised context's pk, sk, ciphertext and shared
// secret will have, without requiring a key to already be present.
// Grounded on the provider's GET_PARA/GET_CIPHERLEN control commands.
func (c *Context) PublicKeySize() (int, bool) {
	if c.para == nil {
		return 0, false
	}
	return c.para.PkSize, true
}

func (c *Context) PrivateKeySize() (int, bool) {
	if c.para == nil {
		return 0, false
	}
	return c.para.KemSkSize, true
}

func (c *Context) CiphertextSize() (int, bool) {
	if c.para == nil {
		return 0, false
	}
	return c.para.CtxSize, true
}

func (c *Context) SharedSecretSize() (int, bool) {
	if c.para == nil {
		return 0, false
	}
	return c.para.SS, true
}

// PublicKey returns a defensive copy of the context's public key, and false
// if none is loaded. Grounded on GetPubKey; callers never receive the
// context's internal buffer.
func (c *Context) PublicKey() ([]byte, bool) {
	if c.pk == nil {
		return nil, false
	}
	return append([]byte(nil), c.pk...), true
}

// PrivateKey returns a defensive copy of the context's private key, and
// false if none is loaded. Grounded on GetPrvKey.
func (c *Context) PrivateKey() ([]byte, bool) {
	if c.sk == nil {
		return nil, false
	}
	return append([]byte(nil), c.sk...), true
}

// Clone returns a deep copy of c: independent key-material buffers sharing
// the same immutable parameter-set reference. Grounded on DupCtx.
func (c *Context) Clone() *Context {
	return &Context{
		state: c.state,
		para:  c.para,
		pk:    append([]byte(nil), c.pk...),
		sk:    append([]byte(nil), c.sk...),
	}
}

// Equal reports whether c and other share the same parameter set and, if
// both are keyed, the same public key. Grounded on Cmp; uses a
// constant-time comparison on the key bytes since the routine already
// exists and a public key's bytes carry no reason to branch on.
func (c *Context) Equal(other *Context) bool {
	if other == nil || c.para != other.para {
		return false
	}
	if (c.pk == nil) != (other.pk == nil) {
		return false
	}
	if c.pk == nil {
		return true
	}
	return consttime.Equal(c.pk, other.pk)
}
