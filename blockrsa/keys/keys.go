// Package keys derives exponent pairs for the modular block cipher from two
// primes and offers advisory checks on exponents.
//
// For primes p and q the modulus is n = p*q and phi(n) = (p-1)*(q-1).
// A public exponent e is usable if gcd(e, phi(n)) = 1, the private exponent
// is then d = e^-1 mod phi(n).
package keys

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/wokdav/modrsa/blockrsa/numtheory"
	"github.com/wokdav/modrsa/logging"
)

var bigOne = big.NewInt(1)

// NotPrimeError is returned if one of the factors handed to
// [DerivePrivateKey] is not a prime number.
type NotPrimeError struct {
	Name  string
	Value *big.Int
}

func (e *NotPrimeError) Error() string {
	return fmt.Sprintf("keys: the value %s (%v) must be prime", e.Name, e.Value)
}

// ExponentNotCoprimeError is returned if the public exponent shares a
// divisor with phi(n). Alternatives is the number of exponents in [1, phi(n))
// that would be usable, i.e. phi(phi(n)).
type ExponentNotCoprimeError struct {
	Exponent     *big.Int
	Phi          *big.Int
	GCD          *big.Int
	Alternatives *big.Int
}

func (e *ExponentNotCoprimeError) Error() string {
	return fmt.Sprintf("keys: the encryption exponent %v is not relatively prime to phi(modulus) %v, "+
		"their greatest common divisor is %v; %v exponents would be relatively prime",
		e.Exponent, e.Phi, e.GCD, e.Alternatives)
}

// Key is one half of an exponent pair together with the modulus.
type Key struct {
	Exponent *big.Int
	Modulus  *big.Int
}

func (k Key) String() string {
	return fmt.Sprintf("%v, %v", k.Exponent, k.Modulus)
}

// Derivation holds every intermediate value of a key derivation, so callers
// can report how the keys came to be.
type Derivation struct {
	P, Q    *big.Int
	PhiP    *big.Int
	PhiQ    *big.Int
	Modulus *big.Int
	Phi     *big.Int
	GCD     *big.Int
	Public  Key
	Private Key
}

// DerivePrivateKey computes the modulus and the private exponent for the
// given public exponent and the primes p and q.
//
// It fails with a [*NotPrimeError] if p or q isn't prime and with an
// [*ExponentNotCoprimeError] if the public exponent is unusable.
func DerivePrivateKey(publicExponent, p, q *big.Int) (*Derivation, error) {
	if publicExponent.Sign() <= 0 {
		return nil, fmt.Errorf("keys: public exponent must be positive, got %v", publicExponent)
	}
	if !numtheory.IsPrime(p) {
		return nil, &NotPrimeError{Name: "P", Value: new(big.Int).Set(p)}
	}
	if !numtheory.IsPrime(q) {
		return nil, &NotPrimeError{Name: "Q", Value: new(big.Int).Set(q)}
	}

	//phi of a prime is the prime minus one
	d := Derivation{
		P:       new(big.Int).Set(p),
		Q:       new(big.Int).Set(q),
		PhiP:    new(big.Int).Sub(p, bigOne),
		PhiQ:    new(big.Int).Sub(q, bigOne),
		Modulus: new(big.Int).Mul(p, q),
	}
	d.Phi = new(big.Int).Mul(d.PhiP, d.PhiQ)
	d.GCD = numtheory.GCD(publicExponent, d.Phi)

	logging.Debugf("keys: modulus %v, phi(p) %v, phi(q) %v, phi(modulus) %v, gcd(e, phi) %v",
		d.Modulus, d.PhiP, d.PhiQ, d.Phi, d.GCD)

	if d.GCD.Cmp(bigOne) != 0 {
		notCoprime := &ExponentNotCoprimeError{
			Exponent: new(big.Int).Set(publicExponent),
			Phi:      d.Phi,
			GCD:      d.GCD,
		}

		// phi(modulus) is at least 2 here, otherwise the gcd would be 1
		alternatives, err := numtheory.EulerTotient(d.Phi)
		if err != nil {
			return nil, err
		}
		notCoprime.Alternatives = alternatives

		return nil, notCoprime
	}

	private, err := numtheory.ModInverse(publicExponent, d.Phi)
	if err != nil {
		return nil, err
	}

	d.Public = Key{Exponent: new(big.Int).Set(publicExponent), Modulus: d.Modulus}
	d.Private = Key{Exponent: private, Modulus: d.Modulus}

	return &d, nil
}

// IsTrivial reports whether exponent mod modulus equals 1.
// For an exponent of 1 encryption is the identity.
func IsTrivial(exponent, modulus *big.Int) bool {
	if modulus.Sign() <= 0 {
		return false
	}
	return new(big.Int).Mod(exponent, modulus).Cmp(bigOne) == 0
}

// IsInvolutary reports whether exponent is its own partner modulo phi(modulus),
// in which case encrypting twice yields the original message.
// phi(modulus) is obtained by factoring the modulus, which is only feasible for
// small moduli. Exponents without a partner are not involutary.
func IsInvolutary(exponent, modulus *big.Int) (bool, error) {
	phi, err := numtheory.EulerTotient(modulus)
	if err != nil {
		return false, err
	}

	partner, err := numtheory.ModInverse(exponent, phi)
	if err != nil {
		var noInverse *numtheory.NoInverseError
		if errors.As(err, &noInverse) {
			return false, nil
		}
		return false, err
	}

	return new(big.Int).Mod(exponent, phi).Cmp(partner) == 0, nil
}

// SuggestPrimes returns the next two primes above the square root of target.
// Their product is guaranteed to be greater than target, which makes it a
// suitable modulus for a target of 256^blockSize.
func SuggestPrimes(target *big.Int) (first, second *big.Int, err error) {
	if target.Sign() < 0 {
		return nil, nil, fmt.Errorf("keys: can't suggest primes for negative target %v", target)
	}

	root := new(big.Int).Sqrt(target)
	first = numtheory.NextPrime(root)
	second = numtheory.NextPrime(first)

	return first, second, nil
}
