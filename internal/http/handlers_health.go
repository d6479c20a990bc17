package httpx

import (
	"context"
	"net/http"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// healthHandler returns 200 when check passes, or 503 with the failure.
func healthHandler(check HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, code := healthResponse{Status: "ok"}, http.StatusOK
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()
			if err := check(ctx); err != nil {
				resp, code = healthResponse{Status: "degraded", Error: err.Error()}, http.StatusServiceUnavailable
			}
		}
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", contentTypeJSON)
			w.WriteHeader(code)
			return
		}
		WriteJSON(w, code, resp)
	}
}
