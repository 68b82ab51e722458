// Package httpapi exposes a single election instance over HTTP, the
// front service a deployment puts in front of the protocol package so
// voters, registrars, and observers can reach it without linking Go
// code directly.
package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vocdoni/evoting-core/config"
	"github.com/vocdoni/evoting-core/log"
	"github.com/vocdoni/evoting-core/protocol"
)

// API serves a single election instance's lifecycle over HTTP.
type API struct {
	router   *chi.Mux
	election *protocol.Election
	manifest protocol.Manifest
}

// New creates an API and immediately runs election setup with cfg,
// registering all routes. Setup failures are fatal to construction since
// the rest of the API has nothing to serve without a live election.
func New(cfg config.Config) (*API, error) {
	election, manifest, err := protocol.NewElection(cfg)
	if err != nil {
		return nil, err
	}
	a := &API{election: election, manifest: manifest}
	a.initRouter()
	return a, nil
}

// Router returns the chi router, mainly for tests driving the API
// in-process with httptest.
func (a *API) Router() *chi.Mux {
	return a.router
}

var bufPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

func (a *API) initRouter() {
	logHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if log.Level() != log.LogLevelDebug {
				next.ServeHTTP(w, r)
				return
			}
			buf := bufPool.Get().(*bytes.Buffer)
			buf.Reset()
			defer bufPool.Put(buf)

			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "unable to read request body", http.StatusInternalServerError)
				return
			}
			buf.Write(bodyBytes)
			log.Debugw("api request", "method", r.Method, "url", r.URL.String(),
				"body", strings.ReplaceAll(buf.String(), "\"", ""))
			r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			next.ServeHTTP(w, r)
		})
	}

	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	a.router.Use(logHandler)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Timeout(30 * time.Second))

	a.router.Get("/manifest", a.getManifest)
	a.router.Post("/voters/{voterId}/register", a.registerVoter)
	a.router.Post("/elections/open", a.openElection)
	a.router.Post("/votes", a.castVote)
	a.router.Post("/elections/close", a.closeElection)
	a.router.Post("/elections/tally", a.tally)
	a.router.Get("/audit", a.getAudit)
}

func (a *API) getManifest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, a.manifest)
}

func (a *API) registerVoter(w http.ResponseWriter, r *http.Request) {
	voterID := chi.URLParam(r, "voterId")
	token, err := a.election.Authority.Register(voterID)
	if err != nil {
		domainError(err).write(w)
		return
	}
	writeJSON(w, map[string]any{"voterId": voterID, "token": token})
}

func (a *API) openElection(w http.ResponseWriter, r *http.Request) {
	if err := a.election.Authority.Open(); err != nil {
		domainError(err).write(w)
		return
	}
	writeOK(w)
}

func (a *API) castVote(w http.ResponseWriter, r *http.Request) {
	var sub protocol.CastSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		errMalformedBody.write(w)
		return
	}

	ct := castSubmissionCiphertext(sub)
	proof := castSubmissionProof(sub)
	if err := a.election.Center().Cast(sub.VoterID, sub.Token, ct, proof); err != nil {
		domainError(err).write(w)
		return
	}
	writeOK(w)
}

func (a *API) closeElection(w http.ResponseWriter, r *http.Request) {
	if err := a.election.Authority.Close(); err != nil {
		domainError(err).write(w)
		return
	}
	writeOK(w)
}

func (a *API) tally(w http.ResponseWriter, r *http.Request) {
	yes, voterCount, err := a.election.Tallier().Tally()
	if err != nil {
		domainError(err).write(w)
		return
	}
	writeJSON(w, map[string]int{"yes": yes, "no": voterCount - yes, "voterCount": voterCount})
}

func (a *API) getAudit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, a.election.Audit.Events())
}
