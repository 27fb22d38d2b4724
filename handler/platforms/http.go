// Package platforms adapts the engine handler to concrete deployment
// targets. Each adapter translates its native envelope into the shared
// Request/Response shape and maps error codes to the platform's own
// failure signalling.
package platforms

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/handler"
)

// HTTPAdapter serves the engine over plain HTTP. The operation name is
// taken from the X-Request-Type header or derived from the URL path, so
// POST /bounty/resolve dispatches the "bounty.resolve" operation.
type HTTPAdapter struct {
	handler *handler.Handler
	metrics http.Handler
}

func NewHTTPAdapter(h *handler.Handler) *HTTPAdapter {
	return &HTTPAdapter{
		handler: h,
		metrics: promhttp.Handler(),
	}
}

func (a *HTTPAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if a.isHealthCheck(r.URL.Path) {
		a.handleHealth(w, r)
		return
	}

	if r.URL.Path == "/metrics" {
		if a.handler.Config().EnableMetrics {
			a.metrics.ServeHTTP(w, r)
		} else {
			http.NotFound(w, r)
		}
		return
	}

	body, err := a.readBody(r)
	if err != nil {
		a.writeResponse(w, handler.NewErrorResponse(
			uuid.New().String(),
			handler.CodeValidationError,
			"failed to read request body",
			err.Error(),
		), nil)
		return
	}

	req := a.buildRequest(r, body)
	resp, err := a.handler.Handle(r.Context(), req)
	a.writeResponse(w, resp, err)
}

func (a *HTTPAdapter) isHealthCheck(path string) bool {
	switch path {
	case "/health", "/healthz", "/ready", "/readyz", "/live", "/livez":
		return a.handler.Config().EnableHealth
	}
	return false
}

func (a *HTTPAdapter) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := a.handler.Health(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "healthy",
		"worker": a.handler.Worker().Name(),
		"time":   time.Now().UTC(),
	})
}

func (a *HTTPAdapter) readBody(r *http.Request) ([]byte, error) {
	maxSize := a.handler.Config().MaxRequestSize
	if maxSize <= 0 {
		maxSize = 10 * 1024 * 1024
	}
	r.Body = http.MaxBytesReader(nil, r.Body, maxSize)
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

func (a *HTTPAdapter) buildRequest(r *http.Request, body []byte) handler.Request {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
	}

	return handler.Request{
		ID:        requestID,
		Source:    "http",
		Type:      a.extractRequestType(r),
		Payload:   json.RawMessage(body),
		Metadata:  a.extractMetadata(r),
		Timestamp: time.Now().UTC(),
	}
}

// extractRequestType resolves the operation name. Header wins; otherwise
// the path segments are joined with dots.
func (a *HTTPAdapter) extractRequestType(r *http.Request) string {
	if reqType := r.Header.Get("X-Request-Type"); reqType != "" {
		return reqType
	}

	path := strings.Trim(r.URL.Path, "/")
	if path == "" {
		return strings.ToLower(r.Method)
	}
	return strings.ReplaceAll(path, "/", ".")
}

func (a *HTTPAdapter) extractMetadata(r *http.Request) map[string]string {
	metadata := map[string]string{
		"http_method": r.Method,
		"http_path":   r.URL.Path,
		"http_host":   r.Host,
	}

	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			metadata["query_"+key] = values[0]
		}
	}

	if caller := r.Header.Get("X-Caller-Identity"); caller != "" {
		metadata["caller"] = caller
	}
	if traceID := r.Header.Get("X-Trace-ID"); traceID != "" {
		metadata["trace_id"] = traceID
	}

	return metadata
}

func (a *HTTPAdapter) writeResponse(w http.ResponseWriter, resp handler.Response, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", resp.ID)

	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(handler.NewErrorResponse(
			resp.ID,
			handler.CodeInternalError,
			"request processing failed",
			err.Error(),
		))
		return
	}

	w.WriteHeader(a.statusCode(resp))
	json.NewEncoder(w).Encode(resp)
}

// statusCode maps response error codes to HTTP status codes.
func (a *HTTPAdapter) statusCode(resp handler.Response) int {
	if resp.Success {
		return http.StatusOK
	}
	if resp.Error == nil {
		return http.StatusInternalServerError
	}

	switch resp.Error.Code {
	case handler.CodeValidationError, handler.CodeInvalidFee:
		return http.StatusBadRequest
	case handler.CodeNotFound, handler.CodeNoCommitment:
		return http.StatusNotFound
	case handler.CodeNotPoster:
		return http.StatusForbidden
	case handler.CodeAlreadyCompleted, handler.CodeBountyNotOpen,
		handler.CodeAlreadyTerminal, handler.CodePastDeadline,
		handler.CodeInvalidWinner, handler.CodeDuplicateSubmission,
		handler.CodeAlreadyCommitted, handler.CodeWindowExpired,
		handler.CodeHashMismatch, handler.CodeAlreadyDecided:
		return http.StatusConflict
	case handler.CodeInsufficientFunds, handler.CodeInsufficientAllowance:
		return http.StatusPaymentRequired
	case handler.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Serve starts an HTTP server on addr with this adapter as the root
// handler.
func (a *HTTPAdapter) Serve(addr string) error {
	return http.ListenAndServe(addr, a)
}
