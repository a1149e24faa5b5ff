package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/heartmarshall/mog-workshop/internal/domain"
	"github.com/heartmarshall/mog-workshop/internal/transport/middleware"
)

// maxJSONBodyBytes bounds every JSON request body.
const maxJSONBodyBytes = 256 << 10

// decodeJSON reads a bounded JSON body into dst. On failure it writes 413 or
// 400 and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	writeError(w, http.StatusBadRequest, "invalid request body")
	return false
}

// errorResponse is the JSON body of every non-2xx answer.
type errorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
	// Notice is set on the first failure of a store outage only.
	Notice string `json:"notice,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeFailure answers a failed Result. The message is the kind's
// user-facing text; internal error details never leave the server.
func writeFailure[T any](w http.ResponseWriter, res domain.Result[T]) {
	status, body := failureBody(w, res)
	writeJSON(w, status, body)
}

func failureBody[T any](w http.ResponseWriter, res domain.Result[T]) (int, errorResponse) {
	kind := res.Kind
	msg := kindMessages[kind]
	if msg == "" {
		msg = "request failed"
	}
	var verr *domain.ValidationError
	if kind == domain.KindInvalidInput && errors.As(res.Err, &verr) {
		msg = verr.Error()
	}
	if kind == domain.KindStoreUnavailable {
		w.Header().Set(middleware.StoreDegradedHeader, "1")
	}

	body := errorResponse{Error: msg, Kind: kind.String(), Retryable: kind.Retryable()}
	if res.Notify {
		body.Notice = noticeFor(kind)
	}
	return statusFor(kind), body
}

// noticeFor is the one-time banner text shown when an outage starts.
func noticeFor(kind domain.ErrorKind) string {
	if kind == domain.KindStoreMisconfigured {
		return "Saving is not set up on this server. You can keep editing, but work will not be kept."
	}
	return "Saved work can't be reached right now. You can keep editing; we'll retry on your next action."
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindIdentityUnresolved:
		return http.StatusConflict
	case domain.KindStoreUnavailable, domain.KindStoreMisconfigured, domain.KindGenerationUnconfigured:
		return http.StatusServiceUnavailable
	case domain.KindGenerationTimeout:
		return http.StatusGatewayTimeout
	case domain.KindGenerationFailed:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

var kindMessages = map[domain.ErrorKind]string{
	domain.KindNotFound:               "work item not found",
	domain.KindIdentityUnresolved:     "identity unresolved",
	domain.KindStoreUnavailable:       "saved work is temporarily unavailable",
	domain.KindStoreMisconfigured:     "saved work is not configured on this server",
	domain.KindGenerationFailed:       "text generation failed",
	domain.KindGenerationTimeout:      "text generation timed out",
	domain.KindGenerationUnconfigured: "text generation is not configured on this server",
}
