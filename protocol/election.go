package protocol

import (
	"github.com/vocdoni/evoting-core/auditlog"
	"github.com/vocdoni/evoting-core/config"
)

// Election wires together a single run of Authority, VotingCenter, and
// TallyingCenter over one shared state machine and audit log. It is the
// entry point callers use to drive an election instance from setup
// through tally.
type Election struct {
	Authority *Authority
	Audit     *auditlog.Log

	state   *stateMachine
	center  *VotingCenter
	tallier *TallyingCenter
}

// NewElection creates an Election and immediately runs Authority.Setup
// with cfg, returning the resulting Manifest alongside the Election so
// callers have the public parameters voters need to prepare ballots.
func NewElection(cfg config.Config) (*Election, Manifest, error) {
	state := newStateMachine()
	audit := auditlog.New()
	authority := NewAuthority(state, audit)

	manifest, err := authority.Setup(cfg)
	if err != nil {
		return nil, Manifest{}, err
	}

	center := NewVotingCenter(state, audit, authority.Tokens(), authority.Params())
	tallier := NewTallyingCenter(state, audit, authority, center)

	return &Election{
		Authority: authority,
		Audit:     audit,
		state:     state,
		center:    center,
		tallier:   tallier,
	}, manifest, nil
}

// Center returns the VotingCenter voters cast ballots against.
func (e *Election) Center() *VotingCenter {
	return e.center
}

// Tallier returns the TallyingCenter that closes out the election.
func (e *Election) Tallier() *TallyingCenter {
	return e.tallier
}

// State returns the election's current lifecycle state.
func (e *Election) State() State {
	return e.state.current()
}
