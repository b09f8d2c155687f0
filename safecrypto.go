/*
Package safecrypto is the arithmetic core of a lattice-based cryptography library.
It provides pure Go multi-precision limb arithmetic, modular polynomial multiplication, division,
gcd and resultant over word-sized prime moduli, and the bit packing codecs used to serialize
signatures and keys.
*/
package safecrypto
