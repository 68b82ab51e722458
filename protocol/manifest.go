package protocol

import (
	"math/big"

	"github.com/vocdoni/evoting-core/auditlog"
)

// Manifest is the SETUP payload: the public parameters of an election
// instance, exactly what gets hashed into the genesis SETUP audit
// event.
type Manifest struct {
	Bits          int             `json:"bits"`
	P             *big.Int        `json:"p"`
	Q             *big.Int        `json:"q"`
	G             *big.Int        `json:"g"`
	U             *big.Int        `json:"u"`
	VoterCountCap int             `json:"voterCountCap"`
	GenesisHash   auditlog.Digest `json:"genesisHashHex"`
}

// CastSubmission is the wire shape of a voter's cast request.
type CastSubmission struct {
	VoterID string   `json:"voterId"`
	Token   []byte   `json:"token"`
	V       *big.Int `json:"v"`
	E       *big.Int `json:"e"`
	A0      *big.Int `json:"a0"`
	A1      *big.Int `json:"a1"`
	B0      *big.Int `json:"b0"`
	B1      *big.Int `json:"b1"`
	C0      *big.Int `json:"c0"`
	C1      *big.Int `json:"c1"`
	R0      *big.Int `json:"r0"`
	R1      *big.Int `json:"r1"`
}

// TallyRecord is the wire shape of a completed tally.
type TallyRecord struct {
	V          *big.Int `json:"v"`
	E          *big.Int `json:"e"`
	Sum        int      `json:"sum"`
	VoterCount int      `json:"voterCount"`
}
