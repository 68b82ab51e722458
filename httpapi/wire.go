package httpapi

import (
	"github.com/vocdoni/evoting-core/elgamal"
	"github.com/vocdoni/evoting-core/nizk"
	"github.com/vocdoni/evoting-core/protocol"
)

func castSubmissionCiphertext(sub protocol.CastSubmission) elgamal.Ciphertext {
	return elgamal.Ciphertext{V: sub.V, E: sub.E}
}

func castSubmissionProof(sub protocol.CastSubmission) nizk.Proof {
	return nizk.Proof{
		A0: sub.A0, A1: sub.A1,
		B0: sub.B0, B1: sub.B1,
		C0: sub.C0, C1: sub.C1,
		R0: sub.R0, R1: sub.R1,
	}
}
