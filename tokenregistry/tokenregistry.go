// Package tokenregistry implements HMAC-bound single-use voter tokens:
// issuance binds a voter_id to a fresh token, and
// authenticate-and-consume enforces that each token authorizes exactly
// one cast.
package tokenregistry

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vocdoni/evoting-core/modarith"
	"github.com/vocdoni/evoting-core/verrors"
)

type entry struct {
	tokenDigest []byte
	issuedAt    time.Time
	usedAt      *time.Time
}

// Registry holds, per election instance, the HMAC secret K and the
// voter_id -> token-state mapping. K is generated in New and never
// exposed.
type Registry struct {
	mu      sync.Mutex
	key     []byte
	entries map[string]*entry
}

// New creates a Registry with a freshly generated per-election HMAC
// secret K, generated at setup and never exported.
func New() (*Registry, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrParameter, err)
	}
	return &Registry{
		key:     key,
		entries: make(map[string]*entry),
	}, nil
}

// Issue mints a fresh token for voter_id. It fails with
// verrors.ErrAlreadyRegistered if voter_id already holds a token.
func (r *Registry) Issue(voterID string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[voterID]; ok {
		return nil, fmt.Errorf("%w: %s", verrors.ErrAlreadyRegistered, voterID)
	}

	nonce, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrParameter, err)
	}
	issuedAt := time.Now().UTC()

	token := r.derive(voterID, issuedAt, nonce[:])
	digest := sha256.Sum256(token)

	r.entries[voterID] = &entry{
		tokenDigest: digest[:],
		issuedAt:    issuedAt,
	}
	return token, nil
}

// AuthenticateAndConsume validates token against the registered digest
// for voter_id and, on success, marks it used. The digest comparison is
// constant-time to avoid leaking partial matches.
func (r *Registry) AuthenticateAndConsume(voterID string, token []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[voterID]
	if !ok {
		return fmt.Errorf("%w: %s", verrors.ErrUnknownVoter, voterID)
	}

	digest := sha256.Sum256(token)
	if subtle.ConstantTimeCompare(digest[:], e.tokenDigest) != 1 {
		return fmt.Errorf("%w: %s", verrors.ErrBadToken, voterID)
	}

	if e.usedAt != nil {
		return fmt.Errorf("%w: %s", verrors.ErrTokenAlreadyUsed, voterID)
	}

	now := time.Now().UTC()
	e.usedAt = &now
	return nil
}

// derive computes HMAC_SHA256(K, voter_id ‖ issued_at ‖ nonce) using the
// canonical byte encoding of each component.
func (r *Registry) derive(voterID string, issuedAt time.Time, nonce []byte) []byte {
	mac := hmac.New(sha256.New, r.key)
	mac.Write(modarith.CanonicalString(voterID))
	mac.Write(modarith.CanonicalString(issuedAt.Format(time.RFC3339Nano)))
	mac.Write(modarith.CanonicalString(string(nonce)))
	return mac.Sum(nil)
}
