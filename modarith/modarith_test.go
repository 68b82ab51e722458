package modarith

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestGenSafePrime(t *testing.T) {
	c := qt.New(t)

	p, q, err := GenSafePrime(32)
	c.Assert(err, qt.IsNil)
	c.Assert(p.ProbablyPrime(32), qt.IsTrue)
	c.Assert(q.ProbablyPrime(32), qt.IsTrue)

	want := new(big.Int).Mul(q, two)
	want.Add(want, one)
	c.Assert(p.Cmp(want), qt.Equals, 0)
}

func TestGenSafePrimeRejectsTinyBits(t *testing.T) {
	c := qt.New(t)

	_, _, err := GenSafePrime(4)
	c.Assert(err, qt.ErrorMatches, ".*parameter error.*")
}

func TestFindGenerator(t *testing.T) {
	c := qt.New(t)

	p, q, err := GenSafePrime(24)
	c.Assert(err, qt.IsNil)

	g, err := FindGenerator(p, q)
	c.Assert(err, qt.IsNil)
	c.Assert(ModExp(g, q, p).Cmp(one), qt.Equals, 0)
	c.Assert(ModExp(g, two, p).Cmp(one), qt.Not(qt.Equals), 0)
}

func TestModInv(t *testing.T) {
	c := qt.New(t)

	m := big.NewInt(11)
	x := big.NewInt(4)
	inv, err := ModInv(x, m)
	c.Assert(err, qt.IsNil)

	prod := new(big.Int).Mul(x, inv)
	prod.Mod(prod, m)
	c.Assert(prod.Cmp(one), qt.Equals, 0)
}

func TestRandomScalarRange(t *testing.T) {
	c := qt.New(t)

	q := big.NewInt(97)
	for i := 0; i < 50; i++ {
		r, err := RandomScalar(q)
		c.Assert(err, qt.IsNil)
		c.Assert(r.Sign() > 0, qt.IsTrue)
		c.Assert(r.Cmp(q) < 0, qt.IsTrue)
	}
}

func TestDiscreteLogBounded(t *testing.T) {
	c := qt.New(t)

	p := big.NewInt(23)
	g := big.NewInt(5) // 5 generates a subgroup of (Z/23Z)*
	for k := 0; k <= 10; k++ {
		h := ModExp(g, big.NewInt(int64(k)), p)
		got, err := DiscreteLogBounded(h, g, p, 10)
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.Equals, k)
	}
}

func TestDiscreteLogBoundedOutOfRange(t *testing.T) {
	c := qt.New(t)

	p := big.NewInt(23)
	g := big.NewInt(5)
	h := ModExp(g, big.NewInt(9), p)
	_, err := DiscreteLogBounded(h, g, p, 3)
	c.Assert(err, qt.ErrorMatches, ".*tally out of range.*")
}

func TestCanonicalBytesRoundTripLength(t *testing.T) {
	c := qt.New(t)

	x := big.NewInt(0x1234abcd)
	enc := CanonicalBytes(x)
	c.Assert(len(enc) >= 4, qt.IsTrue)

	length := uint32(enc[0])<<24 | uint32(enc[1])<<16 | uint32(enc[2])<<8 | uint32(enc[3])
	c.Assert(int(length), qt.Equals, len(enc)-4)
}
