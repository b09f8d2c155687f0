package limb

import (
	"fmt"
	"math/big"
	"math/bits"
)

// IsPrime applies the Baillie-PSW test, which is exact for numbers below 2^64.
func IsPrime(x uint64) bool {
	return new(big.Int).SetUint64(x).ProbablyPrime(0)
}

// NextPrime returns the smallest prime strictly greater than x, or an error if
// no such prime fits in a limb.
func NextPrime(x uint64) (uint64, error) {
	if x < 2 {
		return 2, nil
	}
	p := x + 1 + x&1
	for ; p > x; p += 2 {
		if IsPrime(p) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("cannot NextPrime: no prime above %d fits in %d bits", x, Bits)
}

// GenerateNTTPrimes returns n primes p = 1 mod nthRoot close to 2^logQ,
// searched alternately upward and downward. nthRoot is expected to be a power of two.
func GenerateNTTPrimes(logQ, nthRoot, n int) (primes []uint64, err error) {

	if logQ < 2 || logQ > 63 {
		return nil, fmt.Errorf("cannot GenerateNTTPrimes: logQ=%d must be in [2, 63]", logQ)
	}

	if nthRoot <= 0 || bits.Len64(uint64(nthRoot)) > logQ {
		return nil, fmt.Errorf("cannot GenerateNTTPrimes: invalid nthRoot=%d", nthRoot)
	}

	step := uint64(nthRoot)
	pow2 := uint64(1) << logQ
	up, down := pow2+1, pow2+1
	checkUp, checkDown := true, true

	for len(primes) < n {

		if !(checkUp || checkDown) {
			return primes, fmt.Errorf("cannot GenerateNTTPrimes: only %d primes found for logQ=%d, nthRoot=%d", len(primes), logQ, nthRoot)
		}

		if checkUp {
			if up += step; bits.Len64(up) > logQ+1 || up < step {
				checkUp = false
			} else if IsPrime(up) {
				primes = append(primes, up)
				continue
			}
		}

		if checkDown {
			if down <= step {
				checkDown = false
			} else if down -= step; IsPrime(down) {
				primes = append(primes, down)
			}
		}
	}

	return
}
