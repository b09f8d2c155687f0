package codec

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Coefficient is the type of the coefficients handled by the raw codecs.
type Coefficient interface {
	constraints.Integer
}

// maxBits returns the widest symbol a T can hold, capped to a packer word.
func maxBits[T Coefficient]() int {
	var t T
	switch any(t).(type) {
	case int8, uint8:
		return 8
	case int16, uint16:
		return 16
	}
	return 32
}

// signExtend interprets the bits lowest bits of value as a two's complement
// integer.
func signExtend(value uint32, bits int) int32 {
	if bits == 0 {
		return 0
	}
	if sign := uint32(1) << (bits - 1); value&sign != 0 {
		value |= ^lowMask(uint(bits))
	}
	return int32(value)
}

// writeRaw writes the bits lowest bits of c, in two's complement.
func writeRaw[T Coefficient](p *Packer, c T, bits int) error {
	return p.Write(uint32(c), bits)
}

// EncodeRaw writes each coefficient of coeffs on bits bits. Negative values
// are written in two's complement and must be decoded with DecodeRawSigned.
func EncodeRaw[T Coefficient](p *Packer, coeffs []T, bits int) (err error) {

	if err = checkBits(bits, maxBits[T]()); err != nil {
		return fmt.Errorf("cannot EncodeRaw: %w", err)
	}

	for i := range coeffs {
		if err = writeRaw(p, coeffs[i], bits); err != nil {
			return fmt.Errorf("cannot EncodeRaw: coefficient %d: %w", i, err)
		}
	}

	p.stats.Add(FieldRaw, len(coeffs)*bits)

	return
}

// DecodeRawSigned reads len(coeffs) symbols of bits bits and sign-extends
// them into coeffs.
func DecodeRawSigned[T constraints.Signed](p *Packer, coeffs []T, bits int) (err error) {

	if err = checkBits(bits, maxBits[T]()); err != nil {
		return fmt.Errorf("cannot DecodeRawSigned: %w", err)
	}

	for i := range coeffs {
		var value uint32
		if value, err = p.Read(bits); err != nil {
			return fmt.Errorf("cannot DecodeRawSigned: coefficient %d: %w", i, err)
		}
		coeffs[i] = T(signExtend(value, bits))
	}

	return
}

// DecodeRawUnsigned reads len(coeffs) symbols of bits bits into coeffs
// without sign extension.
func DecodeRawUnsigned[T Coefficient](p *Packer, coeffs []T, bits int) (err error) {

	if err = checkBits(bits, maxBits[T]()); err != nil {
		return fmt.Errorf("cannot DecodeRawUnsigned: %w", err)
	}

	for i := range coeffs {
		var value uint32
		if value, err = p.Read(bits); err != nil {
			return fmt.Errorf("cannot DecodeRawUnsigned: coefficient %d: %w", i, err)
		}
		coeffs[i] = T(value)
	}

	return
}
