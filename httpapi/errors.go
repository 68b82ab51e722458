package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vocdoni/evoting-core/log"
	"github.com/vocdoni/evoting-core/verrors"
)

// apiError wraps an error with the HTTP status it should be reported
// under, and a stable numeric code for programmatic callers.
type apiError struct {
	Err        error
	Code       int
	HTTPStatus int
}

func (e apiError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Err  string `json:"error"`
		Code int    `json:"code"`
	}{
		Err:  e.Err.Error(),
		Code: e.Code,
	})
}

func (e apiError) Error() string { return e.Err.Error() }

func (e apiError) write(w http.ResponseWriter) {
	msg, err := json.Marshal(e)
	if err != nil {
		log.Warnf("failed to marshal API error: %v", err)
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	log.Debugw("api error response", "error", e.Error(), "code", e.Code, "httpStatus", e.HTTPStatus)
	w.Header().Set("Content-Type", "application/json")
	http.Error(w, string(msg), e.HTTPStatus)
}

var (
	errMalformedBody  = apiError{Err: errors.New("malformed JSON body"), Code: 40004, HTTPStatus: http.StatusBadRequest}
	errMarshalFailed  = apiError{Err: errors.New("failed to marshal response"), Code: 50001, HTTPStatus: http.StatusInternalServerError}
	errUnmappedDomain = apiError{Err: errors.New("internal error"), Code: 50002, HTTPStatus: http.StatusInternalServerError}
)

// domainError translates a verrors sentinel into the apiError a client
// should see, defaulting to a generic 500 when the error is not one of
// the recognized domain sentinels.
func domainError(err error) apiError {
	switch {
	case errors.Is(err, verrors.ErrWrongState):
		return apiError{Err: err, Code: 40901, HTTPStatus: http.StatusConflict}
	case errors.Is(err, verrors.ErrInvalidProof):
		return apiError{Err: err, Code: 40001, HTTPStatus: http.StatusBadRequest}
	case errors.Is(err, verrors.ErrMixProofInvalid):
		return apiError{Err: err, Code: 40002, HTTPStatus: http.StatusBadRequest}
	case errors.Is(err, verrors.ErrUnknownVoter):
		return apiError{Err: err, Code: 40401, HTTPStatus: http.StatusNotFound}
	case errors.Is(err, verrors.ErrAlreadyRegistered):
		return apiError{Err: err, Code: 40901, HTTPStatus: http.StatusConflict}
	case errors.Is(err, verrors.ErrBadToken):
		return apiError{Err: err, Code: 40101, HTTPStatus: http.StatusUnauthorized}
	case errors.Is(err, verrors.ErrTokenAlreadyUsed):
		return apiError{Err: err, Code: 40902, HTTPStatus: http.StatusConflict}
	case errors.Is(err, verrors.ErrTallyOutOfRange):
		return apiError{Err: err, Code: 50003, HTTPStatus: http.StatusInternalServerError}
	case errors.Is(err, verrors.ErrAuditTampered):
		return apiError{Err: err, Code: 50004, HTTPStatus: http.StatusInternalServerError}
	case errors.Is(err, verrors.ErrParameter):
		return apiError{Err: err, Code: 40003, HTTPStatus: http.StatusBadRequest}
	default:
		return apiError{Err: errUnmappedDomain.Err, Code: errUnmappedDomain.Code, HTTPStatus: errUnmappedDomain.HTTPStatus}
	}
}
