// Package nizk implements a disjunctive zero-knowledge proof: a
// Fiat-Shamir-transformed Sigma protocol proving that an ElGamal
// ciphertext encrypts 0 or 1, without revealing which.
package nizk

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/vocdoni/evoting-core/elgamal"
	"github.com/vocdoni/evoting-core/modarith"
	"github.com/vocdoni/evoting-core/verrors"
)

// Proof is the transcript π = (A0, A1, B0, B1, c0, c1, r0, r1).
type Proof struct {
	A0 *big.Int
	A1 *big.Int
	B0 *big.Int
	B1 *big.Int
	C0 *big.Int
	C1 *big.Int
	R0 *big.Int
	R1 *big.Int
}

// Prove generates a disjunctive 0-or-1 proof for ciphertext c, which must
// have been produced as elgamal.Encrypt(params, b, beta) with the given
// beta. b must be 0 or 1.
func Prove(params elgamal.Params, c elgamal.Ciphertext, beta *big.Int, b int) (Proof, error) {
	if b != 0 && b != 1 {
		return Proof{}, fmt.Errorf("%w: bit must be 0 or 1, got %d", verrors.ErrParameter, b)
	}

	w, err := modarith.RandomScalar(params.Q)
	if err != nil {
		return Proof{}, err
	}
	other := 1 - b
	cOther, err := modarith.RandomScalar(params.Q)
	if err != nil {
		return Proof{}, err
	}
	rOther, err := modarith.RandomScalar(params.Q)
	if err != nil {
		return Proof{}, err
	}

	branch := make([]*big.Int, 2) // A
	branchB := make([]*big.Int, 2) // B
	cScalar := make([]*big.Int, 2)
	rScalar := make([]*big.Int, 2)

	// real branch b: A_b = g^w, B_b = u^w.
	branch[b] = modarith.ModExp(params.G, w, params.P)
	branchB[b] = modarith.ModExp(params.U, w, params.P)

	// simulated branch "other": A_j = g^r_j * v^-c_j, B_j = u^r_j * (e*g^-j)^-c_j.
	branch[other], branchB[other] = simulateBranch(params, c, other, cOther, rOther)
	cScalar[other] = cOther
	rScalar[other] = rOther

	challenge := hashTranscript(params, c, branch[0], branch[1], branchB[0], branchB[1])

	cb := new(big.Int).Sub(challenge, cOther)
	cb.Mod(cb, params.Q)
	cScalar[b] = cb

	rb := new(big.Int).Mul(cb, beta)
	rb.Add(rb, w)
	rb.Mod(rb, params.Q)
	rScalar[b] = rb

	return Proof{
		A0: branch[0], A1: branch[1],
		B0: branchB[0], B1: branchB[1],
		C0: cScalar[0], C1: cScalar[1],
		R0: rScalar[0], R1: rScalar[1],
	}, nil
}

// Verify checks that π proves ciphertext c encrypts 0 or 1 under params.
// It returns verrors.ErrInvalidProof on any mismatch.
func Verify(params elgamal.Params, c elgamal.Ciphertext, p Proof) error {
	challenge := hashTranscript(params, c, p.A0, p.A1, p.B0, p.B1)

	sumC := new(big.Int).Add(p.C0, p.C1)
	sumC.Mod(sumC, params.Q)
	if sumC.Cmp(new(big.Int).Mod(challenge, params.Q)) != 0 {
		return fmt.Errorf("%w: challenge split does not match transcript", verrors.ErrInvalidProof)
	}

	if err := verifyBranch(params, c, 0, p.A0, p.B0, p.C0, p.R0); err != nil {
		return err
	}
	if err := verifyBranch(params, c, 1, p.A1, p.B1, p.C1, p.R1); err != nil {
		return err
	}
	return nil
}

// simulateBranch computes (A_j, B_j) for the statement "ciphertext
// encrypts j" given a chosen challenge/response pair, working backward
// from the verification equations instead of forward from a witness.
func simulateBranch(params elgamal.Params, c elgamal.Ciphertext, j int, cj, rj *big.Int) (*big.Int, *big.Int) {
	p := params.P

	vNegCj := negExp(params, c.V, cj)
	gRj := modarith.ModExp(params.G, rj, p)
	aJ := new(big.Int).Mul(gRj, vNegCj)
	aJ.Mod(aJ, p)

	eGNegJ := eTimesGInvJ(params, c, j)
	eGNegJNegCj := negExp(params, eGNegJ, cj)
	uRj := modarith.ModExp(params.U, rj, p)
	bJ := new(big.Int).Mul(uRj, eGNegJNegCj)
	bJ.Mod(bJ, p)

	return aJ, bJ
}

// verifyBranch checks g^{r_j} ≡ A_j · v^{c_j} and u^{r_j} ≡ B_j · (e·g^-j)^{c_j}
// (mod p), for branch j.
func verifyBranch(params elgamal.Params, c elgamal.Ciphertext, j int, aJ, bJ, cJ, rJ *big.Int) error {
	p := params.P

	lhsG := modarith.ModExp(params.G, rJ, p)
	vCj := modarith.ModExp(c.V, cJ, p)
	rhsG := new(big.Int).Mul(aJ, vCj)
	rhsG.Mod(rhsG, p)
	if lhsG.Cmp(rhsG) != 0 {
		return fmt.Errorf("%w: branch %d g-equation failed", verrors.ErrInvalidProof, j)
	}

	lhsU := modarith.ModExp(params.U, rJ, p)
	eGNegJ := eTimesGInvJ(params, c, j)
	eGNegJCj := modarith.ModExp(eGNegJ, cJ, p)
	rhsU := new(big.Int).Mul(bJ, eGNegJCj)
	rhsU.Mod(rhsU, p)
	if lhsU.Cmp(rhsU) != 0 {
		return fmt.Errorf("%w: branch %d u-equation failed", verrors.ErrInvalidProof, j)
	}
	return nil
}

// eTimesGInvJ computes e · g^{-j} mod p.
func eTimesGInvJ(params elgamal.Params, c elgamal.Ciphertext, j int) *big.Int {
	if j == 0 {
		return new(big.Int).Mod(c.E, params.P)
	}
	gJ := modarith.ModExp(params.G, big.NewInt(int64(j)), params.P)
	gJInv, _ := modarith.ModInv(gJ, params.P)
	out := new(big.Int).Mul(c.E, gJInv)
	return out.Mod(out, params.P)
}

// negExp computes base^{-exp} mod p, i.e. (base^exp)^{-1} mod p.
func negExp(params elgamal.Params, base, exp *big.Int) *big.Int {
	positive := modarith.ModExp(base, exp, params.P)
	inv, _ := modarith.ModInv(positive, params.P)
	return inv
}

// hashTranscript computes H(p, q, g, u, v, e, A0, A1, B0, B1) mod q, the
// Fiat-Shamir challenge, using the canonical byte encoding of the
// transcript values.
func hashTranscript(params elgamal.Params, c elgamal.Ciphertext, a0, a1, b0, b1 *big.Int) *big.Int {
	h := sha256.New()
	for _, x := range []*big.Int{params.P, params.Q, params.G, params.U, c.V, c.E, a0, a1, b0, b1} {
		h.Write(modarith.CanonicalBytes(x))
	}
	sum := h.Sum(nil)
	challenge := new(big.Int).SetBytes(sum)
	return challenge.Mod(challenge, params.Q)
}
