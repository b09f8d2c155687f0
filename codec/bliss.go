package codec

import (
	"fmt"
)

// EncodeSignature writes a BLISS signature as interleaved (z1[i], z2[i])
// pairs of z1Bits and z2Bits bits. Requires len(z1) == len(z2).
func EncodeSignature(p *Packer, z1, z2 []int32, z1Bits, z2Bits int) (err error) {

	if len(z1) != len(z2) {
		panic(fmt.Errorf("cannot EncodeSignature: len(z1)=%d != len(z2)=%d", len(z1), len(z2)))
	}

	for i := range z1 {
		if err = writeRaw(p, z1[i], z1Bits); err != nil {
			return fmt.Errorf("cannot EncodeSignature: z1[%d]: %w", i, err)
		}
		if err = writeRaw(p, z2[i], z2Bits); err != nil {
			return fmt.Errorf("cannot EncodeSignature: z2[%d]: %w", i, err)
		}
	}

	p.stats.Add(FieldZ1, len(z1)*z1Bits)
	p.stats.Add(FieldZ2, len(z2)*z2Bits)

	return
}

// DecodeSignature reads a signature written by EncodeSignature into z1 and z2.
func DecodeSignature(p *Packer, z1, z2 []int32, z1Bits, z2Bits int) (err error) {

	if len(z1) != len(z2) {
		panic(fmt.Errorf("cannot DecodeSignature: len(z1)=%d != len(z2)=%d", len(z1), len(z2)))
	}

	var value uint32
	for i := range z1 {
		if value, err = p.Read(z1Bits); err != nil {
			return fmt.Errorf("cannot DecodeSignature: z1[%d]: %w", i, err)
		}
		z1[i] = signExtend(value, z1Bits)

		if value, err = p.Read(z2Bits); err != nil {
			return fmt.Errorf("cannot DecodeSignature: z2[%d]: %w", i, err)
		}
		z2[i] = signExtend(value, z2Bits)
	}

	return
}

// EncodePublicKey writes the coefficients of the public key a, reduced in
// [0, q), on bits bits each.
func EncodePublicKey(p *Packer, a []int16, bits int) (err error) {

	if err = checkBits(bits, 16); err != nil {
		return fmt.Errorf("cannot EncodePublicKey: %w", err)
	}

	for i := range a {
		if err = writeRaw(p, a[i], bits); err != nil {
			return fmt.Errorf("cannot EncodePublicKey: a[%d]: %w", i, err)
		}
	}

	p.stats.Add(FieldPublicKey, len(a)*bits)

	return
}

// DecodePublicKey reads a public key written by EncodePublicKey.
func DecodePublicKey(p *Packer, a []int16, bits int) (err error) {
	if err = DecodeRawUnsigned(p, a, bits); err != nil {
		return fmt.Errorf("cannot DecodePublicKey: %w", err)
	}
	return
}

// EncodePrivateKey writes the private key (f, g) as interleaved pairs of
// bits bits. The BLISS key g = 2*g' + 1 is written as g', the constant
// coefficient of g being the only odd one. Requires len(f) == len(g).
func EncodePrivateKey(p *Packer, f, g []int16, bits int) (err error) {

	if len(f) != len(g) {
		panic(fmt.Errorf("cannot EncodePrivateKey: len(f)=%d != len(g)=%d", len(f), len(g)))
	}

	if err = checkBits(bits, 16); err != nil {
		return fmt.Errorf("cannot EncodePrivateKey: %w", err)
	}

	for i := range f {

		if err = writeRaw(p, f[i], bits); err != nil {
			return fmt.Errorf("cannot EncodePrivateKey: f[%d]: %w", i, err)
		}

		half := int32(g[i])
		if i == 0 {
			half--
		}
		half >>= 1

		if err = writeRaw(p, half, bits); err != nil {
			return fmt.Errorf("cannot EncodePrivateKey: g[%d]: %w", i, err)
		}
	}

	p.stats.Add(FieldF, len(f)*bits)
	p.stats.Add(FieldG, len(g)*bits)

	return
}

// DecodePrivateKey reads a private key written by EncodePrivateKey.
func DecodePrivateKey(p *Packer, f, g []int16, bits int) (err error) {

	if len(f) != len(g) {
		panic(fmt.Errorf("cannot DecodePrivateKey: len(f)=%d != len(g)=%d", len(f), len(g)))
	}

	if err = checkBits(bits, 16); err != nil {
		return fmt.Errorf("cannot DecodePrivateKey: %w", err)
	}

	var value uint32
	for i := range f {

		if value, err = p.Read(bits); err != nil {
			return fmt.Errorf("cannot DecodePrivateKey: f[%d]: %w", i, err)
		}
		f[i] = int16(signExtend(value, bits))

		if value, err = p.Read(bits); err != nil {
			return fmt.Errorf("cannot DecodePrivateKey: g[%d]: %w", i, err)
		}
		g[i] = int16(2 * signExtend(value, bits))
	}

	if len(g) > 0 {
		g[0]++
	}

	return
}
