// Package consttime provides the constant-time comparison and selection
// primitives the Fujisaki-Okamoto decapsulation path uses for implicit
// rejection. It is grounded on SCLOUDPLUS_Verify/SCLOUDPLUS_CMov in
// scloudplus_util.c, which hand-roll the same operations; Go's standard
// library already ships a hardened, audited equivalent in crypto/subtle,
// so this wraps that package rather than re-implementing the bit tricks.
package consttime

import "crypto/subtle"

// Equal reports whether a and b are identical, in time independent of
// where they first differ. Mismatched lengths are never equal.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Select sets dst to b if cond is true and to a otherwise, without
// branching on cond. dst, a and b must have the same length; dst may
// alias a but not b.
func Select(dst, a, b []byte, cond bool) {
	c := 0
	if cond {
		c = 1
	}
	copy(dst, a)
	subtle.ConstantTimeCopy(c, dst, b)
}
