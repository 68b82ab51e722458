package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/vocdoni/evoting-core/log"
)

func writeJSON(w http.ResponseWriter, data any) {
	jdata, err := json.Marshal(data)
	if err != nil {
		errMarshalFailed.write(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(jdata); err != nil {
		log.Warnf("failed to write http response: %v", err)
	}
}

func writeOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}
