// Package numtheory contains the modular arithmetic the block cipher is
// built upon: greatest common divisors, modular inverses, factorization,
// Euler's totient, primality and fast modular exponentiation.
//
// All functions are pure and operate on [math/big] integers. Arguments are
// never modified, results are always freshly allocated.
// Euclid's algorithm and its extended form are iterative, so adversarial
// inputs can't exhaust the stack.
package numtheory

import (
	"fmt"
	"math/big"
)

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
)

// DomainError is returned when a function is called with an argument outside
// of the range it is defined on, e.g. a negative exponent.
type DomainError struct {
	Op    string
	Value *big.Int
	Want  string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("numtheory: %s is undefined for %v, argument must be %s", e.Op, e.Value, e.Want)
}

// NoInverseError is returned by [ModInverse] if A has no inverse modulo N,
// because both share the divisor GCD.
type NoInverseError struct {
	A   *big.Int
	N   *big.Int
	GCD *big.Int
}

func (e *NoInverseError) Error() string {
	return fmt.Sprintf("numtheory: %v has no inverse modulo %v, gcd(%v, %v) = %v",
		e.A, e.N, e.A, e.N, e.GCD)
}

// GCD returns the greatest common divisor of x and y. The order of the
// arguments does not matter and negative values are treated by their
// absolute value. GCD(0, 0) is 0.
func GCD(x, y *big.Int) *big.Int {
	a := new(big.Int).Abs(x)
	b := new(big.Int).Abs(y)

	//reduce the larger operand first
	if a.Cmp(b) < 0 {
		a, b = b, a
	}

	for b.Sign() != 0 {
		a, b = b, a.Mod(a, b)
	}

	return a
}

// ExtendedEuclid returns g = gcd(a, b) along with Bézout coefficients x and y,
// so that a*x + b*y = g. For a = 0 the result is (b, 0, 1).
// a and b are expected to be non-negative.
func ExtendedEuclid(a, b *big.Int) (g, x, y *big.Int) {
	if a.Sign() == 0 {
		return new(big.Int).Set(b), big.NewInt(0), big.NewInt(1)
	}

	// invariant: oldR = a*oldX + b*oldY and r = a*curX + b*curY
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldX, curX := big.NewInt(1), big.NewInt(0)
	oldY, curY := big.NewInt(0), big.NewInt(1)

	quotient := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		quotient.Quo(oldR, r)

		tmp.Mul(quotient, r)
		oldR, r = r, new(big.Int).Sub(oldR, tmp)

		tmp.Mul(quotient, curX)
		oldX, curX = curX, new(big.Int).Sub(oldX, tmp)

		tmp.Mul(quotient, curY)
		oldY, curY = curY, new(big.Int).Sub(oldY, tmp)
	}

	return oldR, oldX, oldY
}

// ModInverse returns x in [0, n) with (a*x) mod n = 1.
// It returns a [*NoInverseError] if gcd(a, n) != 1 and a [*DomainError]
// if n is not positive.
func ModInverse(a, n *big.Int) (*big.Int, error) {
	if n.Sign() <= 0 {
		return nil, &DomainError{Op: "ModInverse", Value: new(big.Int).Set(n), Want: "a positive modulus"}
	}

	reduced := new(big.Int).Mod(a, n)
	g, x, _ := ExtendedEuclid(reduced, n)
	if g.Cmp(bigOne) != 0 {
		return nil, &NoInverseError{
			A:   new(big.Int).Set(a),
			N:   new(big.Int).Set(n),
			GCD: g,
		}
	}

	return x.Mod(x, n), nil
}

// PrimeFactors returns the prime factors of n in non-decreasing order,
// including multiplicity, e.g. 12 yields [2 2 3]. PrimeFactors(1) is empty.
// Factorization is done by trial division, so n should stay small.
func PrimeFactors(n *big.Int) ([]*big.Int, error) {
	if n.Sign() <= 0 {
		return nil, &DomainError{Op: "PrimeFactors", Value: new(big.Int).Set(n), Want: "at least 1"}
	}

	out := make([]*big.Int, 0)
	rest := new(big.Int).Set(n)
	quo := new(big.Int)
	rem := new(big.Int)

	divideOut := func(d *big.Int) {
		for {
			quo.QuoRem(rest, d, rem)
			if rem.Sign() != 0 {
				return
			}
			out = append(out, new(big.Int).Set(d))
			rest.Set(quo)
		}
	}

	divideOut(bigTwo)

	d := big.NewInt(3)
	square := new(big.Int)
	for square.Mul(d, d).Cmp(rest) <= 0 {
		divideOut(d)
		d.Add(d, bigTwo)
	}

	if rest.Cmp(bigOne) > 0 {
		out = append(out, rest)
	}

	return out, nil
}

// PrimePower is a prime together with its exponent in a factorization.
type PrimePower struct {
	Prime    *big.Int
	Exponent int
}

// Groups the sorted output of PrimeFactors.
func groupFactors(factors []*big.Int) []PrimePower {
	out := make([]PrimePower, 0, len(factors))
	for _, f := range factors {
		if len(out) > 0 && out[len(out)-1].Prime.Cmp(f) == 0 {
			out[len(out)-1].Exponent++
			continue
		}
		out = append(out, PrimePower{Prime: f, Exponent: 1})
	}
	return out
}

// Factorize returns the prime factorization of n as (prime, exponent) pairs
// in ascending order of the primes.
func Factorize(n *big.Int) ([]PrimePower, error) {
	factors, err := PrimeFactors(n)
	if err != nil {
		return nil, err
	}
	return groupFactors(factors), nil
}

// EulerTotient returns the number of integers in [1, n) that are coprime to n,
// computed as the product of (p-1) * p^(e-1) over the factorization of n.
// It returns a [*DomainError] for n < 2.
func EulerTotient(n *big.Int) (*big.Int, error) {
	if n.Cmp(bigTwo) < 0 {
		return nil, &DomainError{Op: "EulerTotient", Value: new(big.Int).Set(n), Want: "at least 2"}
	}

	powers, err := Factorize(n)
	if err != nil {
		return nil, err
	}

	phi := big.NewInt(1)
	term := new(big.Int)
	for _, pp := range powers {
		term.Exp(pp.Prime, big.NewInt(int64(pp.Exponent-1)), nil)
		phi.Mul(phi, term)
		phi.Mul(phi, term.Sub(pp.Prime, bigOne))
	}

	return phi, nil
}

// IsPrime tests n for primality by trial division up to sqrt(n).
// Everything below 2, including negative numbers, is not prime.
func IsPrime(n *big.Int) bool {
	if n.Cmp(bigTwo) < 0 {
		return false
	}

	if n.Cmp(bigTwo) == 0 {
		return true
	}

	if n.Bit(0) == 0 {
		return false
	}

	rem := new(big.Int)
	square := new(big.Int)
	for d := big.NewInt(3); square.Mul(d, d).Cmp(n) <= 0; d.Add(d, bigTwo) {
		if rem.Mod(n, d).Sign() == 0 {
			return false
		}
	}

	return true
}

// NextPrime returns the smallest prime strictly greater than lowerLimit.
func NextPrime(lowerLimit *big.Int) *big.Int {
	if lowerLimit.Cmp(bigTwo) < 0 {
		return big.NewInt(2)
	}

	candidate := new(big.Int).Add(lowerLimit, bigOne)
	if candidate.Bit(0) == 0 {
		candidate.Add(candidate, bigOne)
	}

	for !IsPrime(candidate) {
		candidate.Add(candidate, bigTwo)
	}

	return candidate
}

// FastModExp computes base^exponent mod modulus by square-and-multiply,
// walking the bits of exponent from the most significant one down:
// every bit squares the running result, set bits additionally multiply it by base.
// The result is in [0, modulus). A negative exponent or a non-positive modulus
// yields a [*DomainError].
func FastModExp(base, exponent, modulus *big.Int) (*big.Int, error) {
	if exponent.Sign() < 0 {
		return nil, &DomainError{Op: "FastModExp", Value: new(big.Int).Set(exponent), Want: "a non-negative exponent"}
	}
	if modulus.Sign() <= 0 {
		return nil, &DomainError{Op: "FastModExp", Value: new(big.Int).Set(modulus), Want: "a positive modulus"}
	}

	b := new(big.Int).Mod(base, modulus)
	result := new(big.Int).Mod(bigOne, modulus)

	for i := exponent.BitLen() - 1; i >= 0; i-- {
		result.Mul(result, result)
		result.Mod(result, modulus)

		if exponent.Bit(i) == 1 {
			result.Mul(result, b)
			result.Mod(result, modulus)
		}
	}

	return result, nil
}
