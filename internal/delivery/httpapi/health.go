package httpapi

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const checkTimeout = 2 * time.Second

type checkResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// liveness handles GET /health.
func (s *Server) liveness(w http.ResponseWriter, _ *http.Request) {
	ok(w, map[string]string{"status": "ok"})
}

// readiness handles GET /ready. All checks run concurrently; any failure
// reports the service as degraded with 503.
func (s *Server) readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	results := make([]checkResult, len(s.checks))

	var g errgroup.Group
	for i, c := range s.checks {
		g.Go(func() error {
			res := checkResult{Name: c.Name, OK: true}
			if err := c.Fn(ctx); err != nil {
				res.OK = false
				res.Error = err.Error()
				s.logger.Error("readiness check failed", zap.String("dependency", c.Name), zap.Error(err))
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	status, httpStatus := "ready", http.StatusOK
	for _, res := range results {
		if !res.OK {
			status, httpStatus = "degraded", http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, httpStatus, successEnvelope{Data: map[string]any{
		"status": status,
		"checks": results,
	}})
}
