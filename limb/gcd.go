package limb

// GCD returns the greatest common divisor of a and b, with GCD(0, 0) = 0.
func GCD(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// XGCD returns g = GCD(a, b) and cofactors x, y such that a*x + b*y = g
// in arithmetic modulo 2^64: negative cofactors are returned in two's
// complement.
func XGCD(a, b uint64) (g, x, y uint64) {

	if b > a {
		g, y, x = XGCD(b, a)
		return
	}

	var oldX, oldY uint64 = 1, 0
	x, y = 0, 1

	for b != 0 {
		q := a / b
		a, b = b, a-q*b
		x, oldX = oldX-q*x, x
		y, oldY = oldY-q*y, y
	}

	return a, oldX, oldY
}

// BinXGCD returns u, v such that u*(2a) - v*b = 1 using the binary
// extended gcd. The argument a is half of the even operand and b must be odd.
func BinXGCD(a, b uint64) (u, v uint64) {

	u, v = 1, 0
	alpha, beta := a, b

	// invariant: 2a = u*2*alpha - v*beta
	for a > 0 {
		a >>= 1
		if u&1 == 0 {
			u >>= 1
			v >>= 1
		} else {
			// (u + beta) / 2 without overflowing
			u = (u >> 1) + (beta >> 1) + (u & beta & 1)
			v = (v >> 1) + alpha
		}
	}

	return
}

// InvMod returns the inverse of x modulo y and true, or 0 and false if x is
// not invertible modulo y.
func InvMod(x, y uint64) (inv uint64, ok bool) {

	if y == 0 {
		return 0, false
	}

	if y == 1 {
		return 0, true
	}

	r0, r1 := y, x%y

	// |t0|, |t1|: the cofactors of x alternate in sign
	var t0, t1 uint64 = 0, 1
	odd := false

	for r1 != 0 {
		q := r0 / r1
		r0, r1 = r1, r0-q*r1
		t0, t1 = t1, t0+q*t1
		odd = !odd
	}

	if r0 != 1 {
		return 0, false
	}

	// after an odd number of steps the cofactor is positive
	if odd {
		return t0, true
	}

	return y - t0, true
}
