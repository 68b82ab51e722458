package protocol

import (
	"math/big"
	"sync"

	"github.com/vocdoni/evoting-core/auditlog"
	"github.com/vocdoni/evoting-core/elgamal"
	"github.com/vocdoni/evoting-core/log"
	"github.com/vocdoni/evoting-core/nizk"
	"github.com/vocdoni/evoting-core/tokenregistry"
)

// VotingCenter owns the ordered input ciphertext batch once ballots are
// accepted and drives the cast operation.
type VotingCenter struct {
	// mu is the single exclusive lock covering token consumption, proof
	// verification, audit append, and batch append as one atomic unit:
	// either all four effects of a successful Cast occur, or none do.
	mu sync.Mutex

	state  *stateMachine
	audit  *auditlog.Log
	tokens *tokenregistry.Registry
	params elgamal.Params
	batch  []elgamal.Ciphertext
}

// NewVotingCenter creates a VotingCenter bound to the election's shared
// state machine, audit log, and the Authority's TokenRegistry.
func NewVotingCenter(state *stateMachine, audit *auditlog.Log, tokens *tokenregistry.Registry, params elgamal.Params) *VotingCenter {
	return &VotingCenter{
		state:  state,
		audit:  audit,
		tokens: tokens,
		params: params,
	}
}

// voteAuditPayload is the redacted VOTE audit payload: only the
// pseudonymized voter id, the ciphertext, and the proof, never the
// plaintext bit, randomizer, or any secret.
type voteAuditPayload struct {
	VoterIDHash string   `json:"voterIdHash"`
	V           *big.Int `json:"v"`
	E           *big.Int `json:"e"`
	A0          *big.Int `json:"a0"`
	A1          *big.Int `json:"a1"`
	B0          *big.Int `json:"b0"`
	B1          *big.Int `json:"b1"`
	C0          *big.Int `json:"c0"`
	C1          *big.Int `json:"c1"`
	R0          *big.Int `json:"r0"`
	R1          *big.Int `json:"r1"`
}

// Cast validates and accepts a ballot. Token consumption is ordered
// strictly after proof verification, so that a proof failure never
// burns the voter's token; the whole call runs under the single
// critical-section lock so the remaining effects (audit append, batch
// append) stay atomic with it.
func (vc *VotingCenter) Cast(voterID string, token []byte, c elgamal.Ciphertext, proof nizk.Proof) error {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	if err := vc.state.requireOneOf(StateOpen); err != nil {
		return err
	}

	if err := nizk.Verify(vc.params, c, proof); err != nil {
		vc.audit.RejectCast(voterID, err.Error())
		return err
	}

	if err := vc.tokens.AuthenticateAndConsume(voterID, token); err != nil {
		vc.audit.RejectCast(voterID, err.Error())
		return err
	}

	payload := voteAuditPayload{
		VoterIDHash: pseudonymize(voterID),
		V:           c.V, E: c.E,
		A0: proof.A0, A1: proof.A1,
		B0: proof.B0, B1: proof.B1,
		C0: proof.C0, C1: proof.C1,
		R0: proof.R0, R1: proof.R1,
	}
	if _, err := vc.audit.Append(auditlog.KindVote, payload); err != nil {
		return err
	}

	vc.batch = append(vc.batch, c)
	log.Debugw("ballot accepted", "voterId", voterID, "batchSize", len(vc.batch))
	return nil
}

// Batch returns a copy of the accepted ciphertext batch, in acceptance
// order.
func (vc *VotingCenter) Batch() []elgamal.Ciphertext {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	out := make([]elgamal.Ciphertext, len(vc.batch))
	copy(out, vc.batch)
	return out
}
