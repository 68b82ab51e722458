package tokenregistry

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestIssueThenConsume(t *testing.T) {
	c := qt.New(t)

	r, err := New()
	c.Assert(err, qt.IsNil)

	token, err := r.Issue("voter-1")
	c.Assert(err, qt.IsNil)
	c.Assert(len(token) > 0, qt.IsTrue)

	c.Assert(r.AuthenticateAndConsume("voter-1", token), qt.IsNil)
}

func TestDoubleIssueFails(t *testing.T) {
	c := qt.New(t)

	r, err := New()
	c.Assert(err, qt.IsNil)

	_, err = r.Issue("voter-1")
	c.Assert(err, qt.IsNil)

	_, err = r.Issue("voter-1")
	c.Assert(err, qt.ErrorMatches, ".*already registered.*")
}

func TestDoubleConsumeFails(t *testing.T) {
	c := qt.New(t)

	r, err := New()
	c.Assert(err, qt.IsNil)

	token, err := r.Issue("voter-1")
	c.Assert(err, qt.IsNil)

	c.Assert(r.AuthenticateAndConsume("voter-1", token), qt.IsNil)
	c.Assert(r.AuthenticateAndConsume("voter-1", token), qt.ErrorMatches, ".*token already used.*")
}

func TestUnknownVoterFails(t *testing.T) {
	c := qt.New(t)

	r, err := New()
	c.Assert(err, qt.IsNil)

	c.Assert(r.AuthenticateAndConsume("ghost", []byte("x")), qt.ErrorMatches, ".*unknown voter.*")
}

func TestBadTokenFails(t *testing.T) {
	c := qt.New(t)

	r, err := New()
	c.Assert(err, qt.IsNil)

	_, err = r.Issue("voter-1")
	c.Assert(err, qt.IsNil)

	c.Assert(r.AuthenticateAndConsume("voter-1", []byte("not-the-token")), qt.ErrorMatches, ".*bad token.*")
}
