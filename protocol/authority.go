// Package protocol implements the Authority / VotingCenter / TallyingCenter
// orchestration, wiring together ModArith, ElGamal, NIZK, Mixnet,
// TokenRegistry, and AuditLog into a complete election run.
package protocol

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/vocdoni/evoting-core/auditlog"
	"github.com/vocdoni/evoting-core/config"
	"github.com/vocdoni/evoting-core/elgamal"
	"github.com/vocdoni/evoting-core/log"
	"github.com/vocdoni/evoting-core/tokenregistry"
	"github.com/vocdoni/evoting-core/verrors"
)

// Authority owns the group parameters, the private key, the per-election
// HMAC secret (via TokenRegistry), and drives registration and final
// decryption.
type Authority struct {
	mu sync.Mutex

	state  *stateMachine
	audit  *auditlog.Log
	tokens *tokenregistry.Registry
	cfg    config.Config
	params elgamal.Params
	alpha  *big.Int
}

// NewAuthority creates an Authority bound to a shared state machine and
// audit log (both also shared with the VotingCenter and TallyingCenter of
// the same election instance).
func NewAuthority(state *stateMachine, audit *auditlog.Log) *Authority {
	return &Authority{state: state, audit: audit}
}

// Setup runs key generation, creates the TokenRegistry, and appends
// the genesis SETUP event. The election must still be in SETUP state
// (it always is immediately after NewAuthority).
func (a *Authority) Setup(cfg config.Config) (Manifest, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.state.requireOneOf(StateSetup); err != nil {
		return Manifest{}, err
	}

	params, alpha, err := elgamal.KeyGen(cfg.PrimeBits)
	if err != nil {
		return Manifest{}, err
	}
	tokens, err := tokenregistry.New()
	if err != nil {
		return Manifest{}, err
	}

	a.cfg = cfg
	a.params = params
	a.alpha = alpha
	a.tokens = tokens

	manifest := Manifest{
		Bits:          cfg.PrimeBits,
		P:             params.P,
		Q:             params.Q,
		G:             params.G,
		U:             params.U,
		VoterCountCap: cfg.VoterCountCap,
		GenesisHash:   auditlog.Digest(config.GenesisHash),
	}
	if _, err := a.audit.Append(auditlog.KindSetup, manifest); err != nil {
		return Manifest{}, err
	}
	log.Infof("election setup complete: bits=%d voterCountCap=%d", cfg.PrimeBits, cfg.VoterCountCap)
	return manifest, nil
}

// Params returns the public group parameters. Safe to call after Setup.
func (a *Authority) Params() elgamal.Params {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.params
}

// Tokens exposes the TokenRegistry for the VotingCenter to authenticate
// casts against. Ownership stays with the Authority; the VotingCenter
// only ever calls AuthenticateAndConsume on it.
func (a *Authority) Tokens() *tokenregistry.Registry {
	return a.tokens
}

// Register issues a voter a fresh token. Allowed while the election
// is SETUP or OPEN.
func (a *Authority) Register(voterID string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.state.requireOneOf(StateSetup, StateOpen); err != nil {
		return nil, err
	}

	token, err := a.tokens.Issue(voterID)
	if err != nil {
		return nil, err
	}
	if _, err := a.audit.Append(auditlog.KindRegister, map[string]string{"voterId": voterID}); err != nil {
		return nil, err
	}
	log.Debugw("voter registered", "voterId", voterID)
	return token, nil
}

// Open transitions the election from SETUP to OPEN, after which casting
// is permitted.
func (a *Authority) Open() error {
	if err := a.state.transition(StateSetup, StateOpen); err != nil {
		return err
	}
	log.Infof("election open")
	return nil
}

// Close transitions the election from OPEN to CLOSED, after which mixing
// and decryption are permitted.
func (a *Authority) Close() error {
	if err := a.state.transition(StateOpen, StateClosed); err != nil {
		return err
	}
	log.Infof("election closed")
	return nil
}

// DecryptSum recovers the integer tally from the aggregated ciphertext
// C*, bounded by the configured voter count cap.
func (a *Authority) DecryptSum(cStar elgamal.Ciphertext) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.alpha == nil {
		return 0, fmt.Errorf("%w: authority has not completed setup", verrors.ErrParameter)
	}
	return elgamal.Decrypt(a.params, a.alpha, cStar, a.cfg.VoterCountCap)
}
