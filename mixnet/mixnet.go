// Package mixnet implements a re-encryption mixnet: it
// permutes and re-encrypts a batch of ElGamal ciphertexts, and produces a
// proof that the aggregate re-encryption offset is consistent, which is
// sufficient to preserve the plaintext multiset sum for additive
// tallying; it does not prove per-ballot correspondence.
package mixnet

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/vocdoni/evoting-core/elgamal"
	"github.com/vocdoni/evoting-core/modarith"
	"github.com/vocdoni/evoting-core/verrors"
)

// Proof is the public mix transcript μ: the revealed
// aggregate randomizer R and a Schnorr proof of knowledge of R binding it
// to the committed re-encryption.
type Proof struct {
	R *big.Int
	T *big.Int // Schnorr commitment g^k
	S *big.Int // Schnorr response k + c*R mod q
}

// Mix permutes and re-encrypts the input batch X, returning the output
// batch Y and the proof μ. The permutation σ and the
// per-ciphertext randomizers r are private to this call; only the
// aggregate R = Σ r_i mod q appears in μ.
func Mix(params elgamal.Params, x []elgamal.Ciphertext) ([]elgamal.Ciphertext, Proof, error) {
	n := len(x)
	if n == 0 {
		return nil, Proof{}, fmt.Errorf("%w: empty input batch", verrors.ErrParameter)
	}

	perm, err := randomPermutation(n)
	if err != nil {
		return nil, Proof{}, err
	}

	y := make([]elgamal.Ciphertext, n)
	total := big.NewInt(0)
	for i, srcIdx := range perm {
		reCt, r, err := elgamal.Rerandomize(params, x[srcIdx], nil)
		if err != nil {
			return nil, Proof{}, err
		}
		y[i] = reCt
		total.Add(total, r)
		total.Mod(total, params.Q)
	}

	proof, err := proveKnowledgeOfR(params, x, y, total)
	if err != nil {
		return nil, Proof{}, err
	}
	return y, proof, nil
}

// Verify checks μ against the input and output batches: the aggregate
// ciphertexts must differ by exactly g^R / u^R, and the Schnorr proof
// must attest knowledge of that R. It fails with
// verrors.ErrMixProofInvalid on any mismatch.
func Verify(params elgamal.Params, x, y []elgamal.Ciphertext, proof Proof) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: batch size mismatch", verrors.ErrMixProofInvalid)
	}

	sumX, err := elgamal.HomomorphicSum(params, x)
	if err != nil {
		return fmt.Errorf("%w: %v", verrors.ErrMixProofInvalid, err)
	}
	sumY, err := elgamal.HomomorphicSum(params, y)
	if err != nil {
		return fmt.Errorf("%w: %v", verrors.ErrMixProofInvalid, err)
	}

	gR := modarith.ModExp(params.G, proof.R, params.P)
	wantV := new(big.Int).Mul(sumX.V, gR)
	wantV.Mod(wantV, params.P)
	if wantV.Cmp(sumY.V) != 0 {
		return fmt.Errorf("%w: aggregate v does not match", verrors.ErrMixProofInvalid)
	}

	uR := modarith.ModExp(params.U, proof.R, params.P)
	wantE := new(big.Int).Mul(sumX.E, uR)
	wantE.Mod(wantE, params.P)
	if wantE.Cmp(sumY.E) != 0 {
		return fmt.Errorf("%w: aggregate e does not match", verrors.ErrMixProofInvalid)
	}

	challenge := schnorrChallenge(params, x, y, proof.T)
	lhs := modarith.ModExp(params.G, proof.S, params.P)
	gCR := modarith.ModExp(params.G, new(big.Int).Mul(challenge, proof.R), params.P)
	rhs := new(big.Int).Mul(proof.T, gCR)
	rhs.Mod(rhs, params.P)
	if lhs.Cmp(rhs) != 0 {
		return fmt.Errorf("%w: Schnorr proof of knowledge of R failed", verrors.ErrMixProofInvalid)
	}
	return nil
}

func proveKnowledgeOfR(params elgamal.Params, x, y []elgamal.Ciphertext, r *big.Int) (Proof, error) {
	k, err := modarith.RandomScalar(params.Q)
	if err != nil {
		return Proof{}, err
	}
	t := modarith.ModExp(params.G, k, params.P)
	c := schnorrChallenge(params, x, y, t)
	s := new(big.Int).Mul(c, r)
	s.Add(s, k)
	s.Mod(s, params.Q)
	return Proof{R: r, T: t, S: s}, nil
}

// schnorrChallenge binds the Schnorr commitment to the whole mix
// transcript using the same canonical encoding as the NIZK transcript
// hash.
func schnorrChallenge(params elgamal.Params, x, y []elgamal.Ciphertext, t *big.Int) *big.Int {
	h := sha256.New()
	h.Write(modarith.CanonicalBytes(params.P))
	h.Write(modarith.CanonicalBytes(params.Q))
	h.Write(modarith.CanonicalBytes(params.G))
	h.Write(modarith.CanonicalBytes(params.U))
	for _, c := range x {
		h.Write(modarith.CanonicalBytes(c.V))
		h.Write(modarith.CanonicalBytes(c.E))
	}
	for _, c := range y {
		h.Write(modarith.CanonicalBytes(c.V))
		h.Write(modarith.CanonicalBytes(c.E))
	}
	h.Write(modarith.CanonicalBytes(t))
	sum := h.Sum(nil)
	challenge := new(big.Int).SetBytes(sum)
	return challenge.Mod(challenge, params.Q)
}

// randomPermutation returns a uniformly random permutation of [0, n)
// using a Fisher-Yates shuffle driven by crypto/rand.
func randomPermutation(n int) ([]int, error) {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", verrors.ErrParameter, err)
		}
		j := int(jBig.Int64())
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm, nil
}
