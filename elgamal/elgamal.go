// Package elgamal implements the ElGamal cryptosystem over the order-q
// subgroup of (Z/pZ)*: key generation, encryption, decryption via
// bounded discrete log, re-encryption, and homomorphic aggregation of
// ciphertexts.
package elgamal

import (
	"fmt"
	"math/big"

	"github.com/vocdoni/evoting-core/modarith"
	"github.com/vocdoni/evoting-core/verrors"
)

// Params are the public group parameters (p, q, g, u).
// g^q ≡ 1 (mod p) and g != 1 are required invariants; callers obtain a
// valid Params only through KeyGen.
type Params struct {
	P *big.Int
	Q *big.Int
	G *big.Int
	U *big.Int
}

// Ciphertext is an ElGamal pair C = (v, e).
type Ciphertext struct {
	V *big.Int
	E *big.Int
}

// KeyGen produces group parameters of the given bit length together with
// a freshly sampled private key alpha in [1, q-1].
// The private key is never stored anywhere but the return value; callers
// (the Authority) are responsible for keeping it secret.
func KeyGen(bits int) (Params, *big.Int, error) {
	p, q, err := modarith.GenSafePrime(bits)
	if err != nil {
		return Params{}, nil, err
	}
	g, err := modarith.FindGenerator(p, q)
	if err != nil {
		return Params{}, nil, err
	}
	alpha, err := modarith.RandomScalar(q)
	if err != nil {
		return Params{}, nil, err
	}
	u := modarith.ModExp(g, alpha, p)
	return Params{P: p, Q: q, G: g, U: u}, alpha, nil
}

// Encrypt encrypts m under params, using beta as the encryption
// randomizer if non-nil, or a freshly sampled one otherwise. m is
// typically 0 or 1 but any small non-negative integer is accepted, as
// required for tally decryption.
func Encrypt(params Params, m int64, beta *big.Int) (Ciphertext, *big.Int, error) {
	var err error
	if beta == nil {
		beta, err = modarith.RandomScalar(params.Q)
		if err != nil {
			return Ciphertext{}, nil, err
		}
	}
	v := modarith.ModExp(params.G, beta, params.P)
	uBeta := modarith.ModExp(params.U, beta, params.P)
	gM := modarith.ModExp(params.G, big.NewInt(m), params.P)
	e := new(big.Int).Mul(uBeta, gM)
	e.Mod(e, params.P)
	return Ciphertext{V: v, E: e}, beta, nil
}

// Decrypt recovers the plaintext m from C under the private key alpha,
// bounded by maxMessage. It fails with
// verrors.ErrTallyOutOfRange if no m <= maxMessage matches.
func Decrypt(params Params, alpha *big.Int, c Ciphertext, maxMessage int) (int, error) {
	vAlpha := modarith.ModExp(c.V, alpha, params.P)
	vAlphaInv, err := modarith.ModInv(vAlpha, params.P)
	if err != nil {
		return 0, err
	}
	m := new(big.Int).Mul(c.E, vAlphaInv)
	m.Mod(m, params.P)
	return modarith.DiscreteLogBounded(m, params.G, params.P, maxMessage)
}

// Rerandomize returns a fresh-looking ciphertext of the same plaintext as
// c, using r as the re-encryption randomizer if non-nil, or a freshly
// sampled one otherwise.
func Rerandomize(params Params, c Ciphertext, r *big.Int) (Ciphertext, *big.Int, error) {
	var err error
	if r == nil {
		r, err = modarith.RandomScalar(params.Q)
		if err != nil {
			return Ciphertext{}, nil, err
		}
	}
	gR := modarith.ModExp(params.G, r, params.P)
	uR := modarith.ModExp(params.U, r, params.P)
	v := new(big.Int).Mul(c.V, gR)
	v.Mod(v, params.P)
	e := new(big.Int).Mul(c.E, uR)
	e.Mod(e, params.P)
	return Ciphertext{V: v, E: e}, r, nil
}

// HomomorphicSum returns the componentwise product of the given
// ciphertexts modulo p, whose decryption equals the sum of the
// plaintexts.
func HomomorphicSum(params Params, cs []Ciphertext) (Ciphertext, error) {
	if len(cs) == 0 {
		return Ciphertext{}, fmt.Errorf("%w: empty ciphertext batch", verrors.ErrParameter)
	}
	v := big.NewInt(1)
	e := big.NewInt(1)
	for _, c := range cs {
		v.Mul(v, c.V)
		v.Mod(v, params.P)
		e.Mul(e, c.E)
		e.Mod(e, params.P)
	}
	return Ciphertext{V: v, E: e}, nil
}
