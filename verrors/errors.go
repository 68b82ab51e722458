// Package verrors defines the error kinds shared by every component of the
// voting core. Components wrap these sentinels with
// fmt.Errorf("%w: ...", verrors.ErrX) so callers can still test identity
// with errors.Is while getting a human-readable message.
package verrors

import "errors"

var (
	// ErrParameter covers ModArith generator/prime search failures.
	ErrParameter = errors.New("parameter error")
	// ErrInvalidProof is returned when a NIZK proof fails verification.
	ErrInvalidProof = errors.New("invalid proof")
	// ErrMixProofInvalid is returned when a mix's re-encryption proof fails.
	ErrMixProofInvalid = errors.New("mix proof invalid")
	// ErrUnknownVoter is returned when a voter_id has no registered token.
	ErrUnknownVoter = errors.New("unknown voter")
	// ErrAlreadyRegistered is returned by TokenRegistry.Issue for a
	// voter_id that already holds a token.
	ErrAlreadyRegistered = errors.New("voter already registered")
	// ErrBadToken is returned when a token does not match its digest.
	ErrBadToken = errors.New("bad token")
	// ErrTokenAlreadyUsed is returned on a second consumption attempt.
	ErrTokenAlreadyUsed = errors.New("token already used")
	// ErrWrongState is returned when an operation runs outside its
	// required election state.
	ErrWrongState = errors.New("wrong state")
	// ErrTallyOutOfRange is returned when discrete_log_bounded finds no
	// matching exponent within the caller-supplied bound.
	ErrTallyOutOfRange = errors.New("tally out of range")
	// ErrAuditTampered is returned by AuditLog.Verify when the hash chain
	// does not reproduce.
	ErrAuditTampered = errors.New("audit log tampered")
)
