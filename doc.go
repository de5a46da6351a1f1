// Package scloudplus implements the SCloud+ post-quantum key encapsulation
// mechanism: an IND-CCA2 KEM built from an unstructured-lattice LWE public
// key encryption scheme, a Barnes-Wall BW32 lattice code for message
// encoding, and the Fujisaki-Okamoto transform for CCA2 security.
//
// Three parameter sets are available, selected by classical security bits:
// 128, 192 and 256. A Context carries one parameter set and a key pair
// across Generate, Encapsulate and Decapsulate calls; the zero value of
// Context is usable once SetKeyBits has chosen a level.
package scloudplus
