package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vocdoni/evoting-core/config"
	"github.com/vocdoni/evoting-core/protocol"
)

func postJSON(c *qt.C, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		c.Assert(json.NewEncoder(&buf).Encode(body), qt.IsNil)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestElectionLifecycleOverHTTP(t *testing.T) {
	c := qt.New(t)

	a, err := New(config.Default(2))
	c.Assert(err, qt.IsNil)
	router := a.Router()

	rr := postJSON(c, router, "/voters/v1/register", nil)
	c.Assert(rr.Code, qt.Equals, http.StatusOK)
	var regV1 struct {
		Token []byte `json:"token"`
	}
	c.Assert(json.Unmarshal(rr.Body.Bytes(), &regV1), qt.IsNil)

	rr = postJSON(c, router, "/voters/v2/register", nil)
	c.Assert(rr.Code, qt.Equals, http.StatusOK)
	var regV2 struct {
		Token []byte `json:"token"`
	}
	c.Assert(json.Unmarshal(rr.Body.Bytes(), &regV2), qt.IsNil)

	rr = postJSON(c, router, "/elections/open", nil)
	c.Assert(rr.Code, qt.Equals, http.StatusOK)

	params := a.election.Authority.Params()

	ct1, proof1, err := protocol.PrepareBallot(params, 1)
	c.Assert(err, qt.IsNil)
	sub1 := protocol.CastSubmission{
		VoterID: "v1", Token: regV1.Token,
		V: ct1.V, E: ct1.E,
		A0: proof1.A0, A1: proof1.A1, B0: proof1.B0, B1: proof1.B1,
		C0: proof1.C0, C1: proof1.C1, R0: proof1.R0, R1: proof1.R1,
	}
	rr = postJSON(c, router, "/votes", sub1)
	c.Assert(rr.Code, qt.Equals, http.StatusOK)

	ct2, proof2, err := protocol.PrepareBallot(params, 0)
	c.Assert(err, qt.IsNil)
	sub2 := protocol.CastSubmission{
		VoterID: "v2", Token: regV2.Token,
		V: ct2.V, E: ct2.E,
		A0: proof2.A0, A1: proof2.A1, B0: proof2.B0, B1: proof2.B1,
		C0: proof2.C0, C1: proof2.C1, R0: proof2.R0, R1: proof2.R1,
	}
	rr = postJSON(c, router, "/votes", sub2)
	c.Assert(rr.Code, qt.Equals, http.StatusOK)

	// replaying v1's submission must fail with a conflict, not silently tally twice.
	rr = postJSON(c, router, "/votes", sub1)
	c.Assert(rr.Code, qt.Equals, http.StatusConflict)

	rr = postJSON(c, router, "/elections/close", nil)
	c.Assert(rr.Code, qt.Equals, http.StatusOK)

	rr = postJSON(c, router, "/elections/tally", nil)
	c.Assert(rr.Code, qt.Equals, http.StatusOK)
	var result struct {
		Yes        int `json:"yes"`
		No         int `json:"no"`
		VoterCount int `json:"voterCount"`
	}
	c.Assert(json.Unmarshal(rr.Body.Bytes(), &result), qt.IsNil)
	c.Assert(result.Yes, qt.Equals, 1)
	c.Assert(result.No, qt.Equals, 1)

	req := httptest.NewRequest(http.MethodGet, "/audit", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	c.Assert(rr.Code, qt.Equals, http.StatusOK)
}
