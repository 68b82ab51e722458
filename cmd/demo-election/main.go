// Command demo-election runs a small election entirely in-process:
// setup, registration, an 8-voter cast, close, mix, and tally, printing
// the result and the audit chain.
package main

import (
	"fmt"
	"os"

	"github.com/vocdoni/evoting-core/config"
	"github.com/vocdoni/evoting-core/log"
	"github.com/vocdoni/evoting-core/protocol"
)

var demoBits = []int{1, 1, 0, 1, 0, 0, 1, 1}

func main() {
	log.Init("info", "stderr", nil)

	election, manifest, err := protocol.NewElection(config.Default(len(demoBits)))
	if err != nil {
		fatal(err)
	}
	fmt.Printf("election setup: bits=%d voterCountCap=%d genesis=%s\n",
		manifest.Bits, manifest.VoterCountCap, manifest.GenesisHash)

	type voter struct {
		id    string
		token []byte
	}
	voters := make([]voter, len(demoBits))
	for i := range demoBits {
		id := fmt.Sprintf("voter-%d", i)
		token, err := election.Authority.Register(id)
		if err != nil {
			fatal(err)
		}
		voters[i] = voter{id: id, token: token}
	}

	if err := election.Authority.Open(); err != nil {
		fatal(err)
	}

	params := election.Authority.Params()
	for i, b := range demoBits {
		ct, proof, err := protocol.PrepareBallot(params, b)
		if err != nil {
			fatal(err)
		}
		if err := election.Center().Cast(voters[i].id, voters[i].token, ct, proof); err != nil {
			fatal(err)
		}
	}

	if err := election.Authority.Close(); err != nil {
		fatal(err)
	}

	yes, voterCount, err := election.Tallier().Tally()
	if err != nil {
		fatal(err)
	}
	fmt.Printf("tally: yes=%d no=%d voterCount=%d\n", yes, voterCount-yes, voterCount)

	if err := election.Audit.Verify(); err != nil {
		fatal(err)
	}
	fmt.Printf("audit chain: %d events, verified\n", election.Audit.Len())
	for _, e := range election.Audit.Events() {
		fmt.Printf("  [%d] %s hash=%s\n", e.Index, e.Kind, e.Hash)
	}
}

func fatal(err error) {
	log.Errorf("demo election failed: %v", err)
	os.Exit(1)
}
