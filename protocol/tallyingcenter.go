package protocol

import (
	"fmt"

	"github.com/vocdoni/evoting-core/auditlog"
	"github.com/vocdoni/evoting-core/elgamal"
	"github.com/vocdoni/evoting-core/log"
	"github.com/vocdoni/evoting-core/mixnet"
)

// TallyingCenter drives the close-out of an election: mixing the
// accepted ballots, proving the mix preserved their sum, homomorphically
// aggregating the output, and asking the Authority for the final
// decryption.
type TallyingCenter struct {
	state     *stateMachine
	audit     *auditlog.Log
	authority *Authority
	center    *VotingCenter
}

// NewTallyingCenter creates a TallyingCenter bound to the election's
// shared state machine and audit log, plus the Authority and
// VotingCenter instances it orchestrates.
func NewTallyingCenter(state *stateMachine, audit *auditlog.Log, authority *Authority, center *VotingCenter) *TallyingCenter {
	return &TallyingCenter{state: state, audit: audit, authority: authority, center: center}
}

// Tally mixes the accepted ballot batch, verifies the mix, aggregates
// the shuffled ciphertexts, decrypts the sum, and appends the MIX and
// TALLY audit events. The election must be CLOSED; it is moved to
// TALLIED before mixing starts, so a Tally that fails later also leaves
// it TALLIED. Returns the recovered yes count and the voter count the
// no count is implied by (voterCount - yes).
func (tc *TallyingCenter) Tally() (yes int, voterCount int, err error) {
	if err := tc.state.transition(StateClosed, StateTallied); err != nil {
		return 0, 0, err
	}

	x := tc.center.Batch()
	params := tc.authority.Params()

	y, mixProof, err := mixnet.Mix(params, x)
	if err != nil {
		return 0, 0, err
	}
	if err := mixnet.Verify(params, x, y, mixProof); err != nil {
		return 0, 0, err
	}
	if _, err := tc.audit.Append(auditlog.KindMix, map[string]int{"batchSize": len(x)}); err != nil {
		return 0, 0, err
	}

	cStar, err := elgamal.HomomorphicSum(params, y)
	if err != nil {
		return 0, 0, err
	}

	sum, err := tc.authority.DecryptSum(cStar)
	if err != nil {
		return 0, 0, err
	}

	record := TallyRecord{
		V:          cStar.V,
		E:          cStar.E,
		Sum:        sum,
		VoterCount: len(y),
	}
	if _, err := tc.audit.Append(auditlog.KindTally, record); err != nil {
		return 0, 0, err
	}

	log.Infof("tally complete: %s", fmt.Sprintf("yes=%d voterCount=%d", sum, len(y)))
	return sum, len(y), nil
}
