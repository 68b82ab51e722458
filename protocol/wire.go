package protocol

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// pseudonymize derives the hex digest recorded in place of a voter id in
// public audit payloads, so the chain can prove a particular voter cast a
// particular ballot without the log itself naming them.
func pseudonymize(voterID string) string {
	return hexutil.Encode(ethcrypto.Keccak256([]byte(voterID)))
}
