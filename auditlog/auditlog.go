// Package auditlog implements an append-only, linked-hash event log:
// every electoral event is chained to its predecessor by hash, so
// tampering with any stored field is detectable by Verify.
package auditlog

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vocdoni/evoting-core/config"
	"github.com/vocdoni/evoting-core/modarith"
	"github.com/vocdoni/evoting-core/verrors"
)

// Kind enumerates the event kinds recorded in the chain.
type Kind string

const (
	KindSetup    Kind = "SETUP"
	KindRegister Kind = "REGISTER"
	KindVote     Kind = "VOTE"
	KindMix      Kind = "MIX"
	KindTally    Kind = "TALLY"
)

// Digest is a fixed-size hash rendered as 0x-prefixed hex in JSON, in the
// teacher's HexBytes style (crypto/ethereum / types.HexBytes), so a
// persisted audit event reads the same way across every election
// instance.
type Digest [32]byte

// MarshalJSON renders the digest as 0x-prefixed hex.
func (d Digest) MarshalJSON() ([]byte, error) {
	return json.Marshal(hexutil.Encode(d[:]))
}

// String renders the digest as 0x-prefixed hex.
func (d Digest) String() string {
	return hexutil.Encode(d[:])
}

// Event is a single audit record E_i = (index, kind, payload, prev_hash,
// hash, timestamp).
type Event struct {
	Index         int       `json:"index"`
	Kind          Kind      `json:"kind"`
	PayloadDigest Digest    `json:"payloadDigestHex"`
	PrevHash      Digest    `json:"prevHashHex"`
	Hash          Digest    `json:"hashHex"`
	Timestamp     time.Time `json:"timestamp"`
}

// RejectedEvent records a failed cast attempt in the side channel that
// never extends the main hash chain.
type RejectedEvent struct {
	VoterID   string    `json:"voterId"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// Log is the append-only audit chain owned by a single election
// instance. It is append-only and shared-read.
type Log struct {
	mu       sync.Mutex
	events   []Event
	payloads [][]byte // raw canonical payload bytes, indexed like events; never re-derived from Event
	rejected []RejectedEvent
}

// New creates an empty Log. The genesis hash (prev_hash_0) is the fixed
// constant of config.GenesisHash.
func New() *Log {
	return &Log{}
}

// Append records a new event of the given kind carrying payload, and
// returns its index. payload is marshaled to JSON
// and digested; the caller is responsible for redacting secrets before
// calling this: never plaintexts, randomizers, or private keys.
func (l *Log) Append(kind Kind, payload any) (int, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to marshal payload: %v", verrors.ErrParameter, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	index := len(l.events)
	payloadDigest := sha256.Sum256(raw)

	var prevHash Digest
	if index == 0 {
		prevHash = Digest(config.GenesisHash)
	} else {
		prevHash = l.events[index-1].Hash
	}

	ts := time.Now().UTC()
	hash := computeHash(index, kind, Digest(payloadDigest), prevHash, ts)

	l.events = append(l.events, Event{
		Index:         index,
		Kind:          kind,
		PayloadDigest: Digest(payloadDigest),
		PrevHash:      prevHash,
		Hash:          hash,
		Timestamp:     ts,
	})
	l.payloads = append(l.payloads, raw)
	return index, nil
}

// RejectCast records a failed cast attempt in a side channel that
// never touches the main hash chain.
func (l *Log) RejectCast(voterID, reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rejected = append(l.rejected, RejectedEvent{
		VoterID:   voterID,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
}

// Rejected returns the side-channel of failed cast attempts.
func (l *Log) Rejected() []RejectedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]RejectedEvent, len(l.rejected))
	copy(out, l.rejected)
	return out
}

// Len returns the number of events in the main chain.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Events returns a copy of the main chain.
func (l *Log) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Verify recomputes each hash in order and checks linkage. It
// returns verrors.ErrAuditTampered naming the offending index
// on the first mismatch.
func (l *Log) Verify() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var prevHash Digest
	for i, e := range l.events {
		if i == 0 {
			prevHash = Digest(config.GenesisHash)
		}
		if e.Index != i {
			return fmt.Errorf("%w: event at position %d carries index %d", verrors.ErrAuditTampered, i, e.Index)
		}
		if e.PrevHash != prevHash {
			return fmt.Errorf("%w: event %d prev_hash does not match predecessor", verrors.ErrAuditTampered, i)
		}
		payloadDigest := sha256.Sum256(l.payloads[i])
		if e.PayloadDigest != Digest(payloadDigest) {
			return fmt.Errorf("%w: event %d payload digest does not match stored payload", verrors.ErrAuditTampered, i)
		}
		wantHash := computeHash(e.Index, e.Kind, e.PayloadDigest, e.PrevHash, e.Timestamp)
		if e.Hash != wantHash {
			return fmt.Errorf("%w: event %d hash does not reproduce", verrors.ErrAuditTampered, i)
		}
		prevHash = e.Hash
	}
	return nil
}

// computeHash implements hash_i = H(index_i ‖ kind_i ‖ payload_digest_i ‖
// prev_hash_i ‖ timestamp_i), using the canonical byte encoding for the
// index, kind, and timestamp; the two 32-byte digests are written as-is.
func computeHash(index int, kind Kind, payloadDigest, prevHash Digest, ts time.Time) Digest {
	h := sha256.New()

	h.Write(modarith.CanonicalBytes(big.NewInt(int64(index))))

	h.Write(modarith.CanonicalString(string(kind)))
	h.Write(payloadDigest[:])
	h.Write(prevHash[:])
	h.Write(modarith.CanonicalString(ts.Format(time.RFC3339Nano)))

	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
