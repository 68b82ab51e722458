// Package modarith implements the big-integer modular arithmetic the rest
// of the voting core builds on: safe-prime generation, generator search,
// bounded discrete-log recovery, and the canonical byte encoding shared by
// the NIZK transcript hash, the mix proof challenge, the audit event hash,
// and token derivation. The audit log's payload digest is taken over the
// payload's JSON encoding, not over this encoding.
package modarith

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/vocdoni/evoting-core/verrors"
)

const maxGeneratorAttempts = 4096

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// GenSafePrime returns a prime p of the given bit length such that
// q = (p-1)/2 is also prime, i.e. p is a safe prime. bits below 16 is
// rejected as unworkable for the rest of the protocol (the group needs
// room for at least a handful of small messages and random exponents).
func GenSafePrime(bits int) (p, q *big.Int, err error) {
	if bits < 16 {
		return nil, nil, fmt.Errorf("%w: prime bit length %d too small", verrors.ErrParameter, bits)
	}
	for attempt := 0; attempt < maxGeneratorAttempts; attempt++ {
		q, err = rand.Prime(rand.Reader, bits-1)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", verrors.ErrParameter, err)
		}
		p = new(big.Int).Mul(q, two)
		p.Add(p, one)
		if p.ProbablyPrime(32) {
			return p, q, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: no safe prime found after %d attempts", verrors.ErrParameter, maxGeneratorAttempts)
}

// FindGenerator returns a generator g of the order-q subgroup of
// (Z/pZ)*, i.e. 2 <= g <= p-2, g^q mod p == 1, g^2 mod p != 1.
func FindGenerator(p, q *big.Int) (*big.Int, error) {
	pMinus2 := new(big.Int).Sub(p, two)
	for attempt := 0; attempt < maxGeneratorAttempts; attempt++ {
		cand, err := rand.Int(rand.Reader, new(big.Int).Sub(pMinus2, one))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", verrors.ErrParameter, err)
		}
		cand.Add(cand, two) // cand in [2, p-2]
		if ModExp(cand, q, p).Cmp(one) != 0 {
			continue
		}
		if ModExp(cand, two, p).Cmp(one) == 0 {
			continue
		}
		return cand, nil
	}
	return nil, fmt.Errorf("%w: no generator found after %d attempts", verrors.ErrParameter, maxGeneratorAttempts)
}

// ModExp computes base^exp mod m.
func ModExp(base, exp, m *big.Int) *big.Int {
	return new(big.Int).Exp(base, exp, m)
}

// ModInv computes the modular inverse of x modulo m, or an error if x has
// no inverse (gcd(x, m) != 1).
func ModInv(x, m *big.Int) (*big.Int, error) {
	inv := new(big.Int).ModInverse(x, m)
	if inv == nil {
		return nil, fmt.Errorf("%w: %s has no inverse mod %s", verrors.ErrParameter, x.String(), m.String())
	}
	return inv, nil
}

// RandomScalar returns a cryptographically random value uniform in
// [1, q-1].
func RandomScalar(q *big.Int) (*big.Int, error) {
	qMinus1 := new(big.Int).Sub(q, one)
	if qMinus1.Sign() <= 0 {
		return nil, fmt.Errorf("%w: subgroup order too small", verrors.ErrParameter)
	}
	r, err := rand.Int(rand.Reader, qMinus1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrParameter, err)
	}
	return r.Add(r, one), nil
}

// DiscreteLogBounded returns the unique k in [0, maxN] such that
// g^k ≡ h (mod p), found by exhaustive trial. It returns
// verrors.ErrTallyOutOfRange if no such k exists within the bound.
func DiscreteLogBounded(h, g, p *big.Int, maxN int) (int, error) {
	if maxN < 0 {
		return 0, fmt.Errorf("%w: negative bound", verrors.ErrTallyOutOfRange)
	}
	acc := big.NewInt(1)
	target := new(big.Int).Mod(h, p)
	for k := 0; k <= maxN; k++ {
		if acc.Cmp(target) == 0 {
			return k, nil
		}
		acc.Mul(acc, g)
		acc.Mod(acc, p)
	}
	return 0, fmt.Errorf("%w: no k <= %d matches", verrors.ErrTallyOutOfRange, maxN)
}

// CanonicalBytes encodes a single big integer canonically: its minimal
// unsigned big-endian representation prefixed by a 4-byte big-endian
// length.
func CanonicalBytes(x *big.Int) []byte {
	b := x.Bytes()
	out := make([]byte, 4+len(b))
	binary.BigEndian.PutUint32(out[:4], uint32(len(b)))
	copy(out[4:], b)
	return out
}

// CanonicalString encodes a UTF-8 string canonically: 4-byte big-endian
// length prefix followed by the bytes.
func CanonicalString(s string) []byte {
	b := []byte(s)
	out := make([]byte, 4+len(b))
	binary.BigEndian.PutUint32(out[:4], uint32(len(b)))
	copy(out[4:], b)
	return out
}
