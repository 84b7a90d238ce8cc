package server

import (
	"encoding/json"
	"net/http"
)

const problemBase = "https://rigplanner.dev/problems/"

// Problem type URIs used in application/problem+json bodies (RFC 7807).
const (
	ProblemTypeNotFound      = problemBase + "not-found"
	ProblemTypeBadRequest    = problemBase + "bad-request"
	ProblemTypeUnprocessable = problemBase + "unprocessable"
	ProblemTypeInternal      = problemBase + "internal-error"
	ProblemTypeRateLimited   = problemBase + "rate-limited"
)

// problemTypes maps the statuses rigplanner emits to their type URI.
var problemTypes = map[int]string{
	http.StatusNotFound:            ProblemTypeNotFound,
	http.StatusBadRequest:          ProblemTypeBadRequest,
	http.StatusUnprocessableEntity: ProblemTypeUnprocessable,
	http.StatusInternalServerError: ProblemTypeInternal,
	http.StatusTooManyRequests:     ProblemTypeRateLimited,
}

// Problem is an RFC 7807 problem details body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// NewProblem builds the Problem for status. Statuses without a registered
// type get "about:blank", as RFC 7807 prescribes.
func NewProblem(status int, detail, instance string) Problem {
	typ, ok := problemTypes[status]
	if !ok {
		typ = "about:blank"
	}
	return Problem{
		Type:     typ,
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: instance,
	}
}

// WriteProblem writes p with the problem+json content type.
func WriteProblem(w http.ResponseWriter, p Problem) {
	writeBody(w, "application/problem+json", p.Status, p)
}

// WriteJSON writes data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	writeBody(w, "application/json", status, data)
}

func writeBody(w http.ResponseWriter, contentType string, status int, body any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func NotFound(w http.ResponseWriter, detail, instance string) {
	WriteProblem(w, NewProblem(http.StatusNotFound, detail, instance))
}

func BadRequest(w http.ResponseWriter, detail, instance string) {
	WriteProblem(w, NewProblem(http.StatusBadRequest, detail, instance))
}

// Unprocessable reports a well-formed request the engine cannot act on,
// such as a comparison with no parts.
func Unprocessable(w http.ResponseWriter, detail, instance string) {
	WriteProblem(w, NewProblem(http.StatusUnprocessableEntity, detail, instance))
}

func InternalError(w http.ResponseWriter, detail, instance string) {
	WriteProblem(w, NewProblem(http.StatusInternalServerError, detail, instance))
}

func RateLimited(w http.ResponseWriter, detail, instance string) {
	WriteProblem(w, NewProblem(http.StatusTooManyRequests, detail, instance))
}
