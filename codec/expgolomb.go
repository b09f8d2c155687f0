package codec

import (
	"fmt"
	"math/bits"
)

// maxExpGolombBits is the length of the longest code produced from a 16-bit
// value, the signed mapping of -32768 being 65536.
const maxExpGolombBits = 33

// expGolomb returns the order-0 Exp-Golomb code of v: the binary form of
// v+1 preceded by as many zeros as it has bits after the leading one.
func expGolomb(v uint32) (code uint32, length int) {
	code = v + 1
	return code, 2*bits.Len32(code) - 1
}

// ExpGolombEncode returns the order-0 Exp-Golomb code of v and its length
// in bits. The code is the lowest bits of the returned word, its leading
// zeros included in the length.
func ExpGolombEncode(v uint16) (code uint32, length int) {
	return expGolomb(uint32(v))
}

// ExpGolombDecode returns the value of a code produced by ExpGolombEncode.
func ExpGolombDecode(code uint32) uint16 {
	return uint16(code - 1)
}

// zigzag maps 0, 1, -1, 2, -2, ... to 0, 1, 2, 3, 4, ...
func zigzag(v int16) uint32 {
	if v > 0 {
		return uint32(v)<<1 - 1
	}
	return uint32(-int32(v)) << 1
}

// ExpGolombSignEncode returns the Exp-Golomb code of v after mapping
// 0, 1, -1, 2, -2, ... to 0, 1, 2, 3, 4, ...
func ExpGolombSignEncode(v int16) (code uint32, length int) {
	return expGolomb(zigzag(v))
}

// ExpGolombSignDecode returns the value of a code produced by
// ExpGolombSignEncode.
func ExpGolombSignDecode(code uint32) int16 {
	if code <= 1 {
		return 0
	}
	v := int32(code >> 1)
	if code&1 == 1 {
		v = -v
	}
	return int16(v)
}

// writeExpGolomb writes code on length bits, the leading zeros separately
// when the code does not fit in a word.
func writeExpGolomb(p *Packer, code uint32, length int) (err error) {
	if length > 32 {
		if err = p.Write(0, length-32); err != nil {
			return
		}
		length = 32
	}
	return p.Write(code, length)
}

// readExpGolomb reads one code: it counts the leading zeros up to the first
// one, then reads as many bits.
func readExpGolomb(p *Packer) (code uint32, err error) {

	var zeros int
	for {
		var bit uint32
		if bit, err = p.Read(1); err != nil {
			return
		}
		if bit == 1 {
			break
		}
		if zeros++; 2*zeros+1 > maxExpGolombBits {
			return 0, fmt.Errorf("%w: more than %d leading zeros", ErrInvalidCode, zeros-1)
		}
	}

	var rest uint32
	if rest, err = p.Read(zeros); err != nil {
		return
	}

	return 1<<zeros | rest, nil
}

// EncodeExpGolomb writes the signed Exp-Golomb codes of coeffs.
func EncodeExpGolomb(p *Packer, coeffs []int16) (err error) {

	var total int
	for i, c := range coeffs {
		code, length := ExpGolombSignEncode(c)
		if err = writeExpGolomb(p, code, length); err != nil {
			return fmt.Errorf("cannot EncodeExpGolomb: coefficient %d: %w", i, err)
		}
		total += length
	}

	p.stats.Add(FieldExpGolomb, total)

	return
}

// DecodeExpGolomb reads len(coeffs) codes written by EncodeExpGolomb.
func DecodeExpGolomb(p *Packer, coeffs []int16) (err error) {

	for i := range coeffs {
		var code uint32
		if code, err = readExpGolomb(p); err != nil {
			return fmt.Errorf("cannot DecodeExpGolomb: coefficient %d: %w", i, err)
		}
		coeffs[i] = ExpGolombSignDecode(code)
	}

	return
}

// EncodeExpGolombUnsigned writes the Exp-Golomb codes of values.
func EncodeExpGolombUnsigned(p *Packer, values []uint16) (err error) {

	var total int
	for i, v := range values {
		code, length := ExpGolombEncode(v)
		if err = writeExpGolomb(p, code, length); err != nil {
			return fmt.Errorf("cannot EncodeExpGolombUnsigned: value %d: %w", i, err)
		}
		total += length
	}

	p.stats.Add(FieldExpGolomb, total)

	return
}

// DecodeExpGolombUnsigned reads len(values) codes written by
// EncodeExpGolombUnsigned.
func DecodeExpGolombUnsigned(p *Packer, values []uint16) (err error) {

	for i := range values {
		var code uint32
		if code, err = readExpGolomb(p); err != nil {
			return fmt.Errorf("cannot DecodeExpGolombUnsigned: value %d: %w", i, err)
		}
		values[i] = ExpGolombDecode(code)
	}

	return
}
