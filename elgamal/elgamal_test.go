package elgamal

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := qt.New(t)

	params, alpha, err := KeyGen(24)
	c.Assert(err, qt.IsNil)

	for _, m := range []int64{0, 1} {
		ct, _, err := Encrypt(params, m, nil)
		c.Assert(err, qt.IsNil)

		got, err := Decrypt(params, alpha, ct, 1)
		c.Assert(err, qt.IsNil)
		c.Assert(int64(got), qt.Equals, m)
	}
}

func TestRerandomizePreservesPlaintext(t *testing.T) {
	c := qt.New(t)

	params, alpha, err := KeyGen(24)
	c.Assert(err, qt.IsNil)

	ct, _, err := Encrypt(params, 1, nil)
	c.Assert(err, qt.IsNil)

	reCt, r, err := Rerandomize(params, ct, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(r, qt.Not(qt.IsNil))
	c.Assert(reCt.V.Cmp(ct.V), qt.Not(qt.Equals), 0)

	got, err := Decrypt(params, alpha, reCt, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, 1)
}

func TestHomomorphicSum(t *testing.T) {
	c := qt.New(t)

	params, alpha, err := KeyGen(24)
	c.Assert(err, qt.IsNil)

	bits := []int64{1, 0, 1, 1, 0}
	var want int64
	cts := make([]Ciphertext, len(bits))
	for i, b := range bits {
		ct, _, err := Encrypt(params, b, nil)
		c.Assert(err, qt.IsNil)
		cts[i] = ct
		want += b
	}

	sum, err := HomomorphicSum(params, cts)
	c.Assert(err, qt.IsNil)

	got, err := Decrypt(params, alpha, sum, len(bits))
	c.Assert(err, qt.IsNil)
	c.Assert(int64(got), qt.Equals, want)
}

func TestHomomorphicSumRejectsEmptyBatch(t *testing.T) {
	c := qt.New(t)

	params, _, err := KeyGen(24)
	c.Assert(err, qt.IsNil)

	_, err = HomomorphicSum(params, nil)
	c.Assert(err, qt.ErrorMatches, ".*parameter error.*")
}
