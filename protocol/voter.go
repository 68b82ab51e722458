package protocol

import (
	"github.com/vocdoni/evoting-core/elgamal"
	"github.com/vocdoni/evoting-core/nizk"
)

// PrepareBallot is the client-side voter helper: given the public
// parameters and a bit, it produces an encrypted ballot and the
// accompanying NIZK proof that it encrypts 0 or 1.
func PrepareBallot(params elgamal.Params, b int) (elgamal.Ciphertext, nizk.Proof, error) {
	ct, beta, err := elgamal.Encrypt(params, int64(b), nil)
	if err != nil {
		return elgamal.Ciphertext{}, nizk.Proof{}, err
	}
	proof, err := nizk.Prove(params, ct, beta, b)
	if err != nil {
		return elgamal.Ciphertext{}, nizk.Proof{}, err
	}
	return ct, proof, nil
}
