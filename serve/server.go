package serve

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sade/state"
	"sade/theme"
)

type server struct {
	env       *state.LocalEnv
	log       *zap.Logger
	overrides *theme.Theme
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/theme", s.handleTheme)
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("GET /api/components", s.handleComponents)
	mux.HandleFunc("GET /api/components/{name}", s.handleComponent)
	return s.instrument(mux)
}

// instrument tags every request with its own id and logger and turns handler
// panics into a 500 response.
func (s *server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.Must(uuid.NewV7()).String()
		log := s.log.With(zap.String("req_id", reqID), zap.String("method", r.Method), zap.String("path", r.URL.Path))

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		log.Debug("Request starting")
		defer func(start time.Time) {
			// A broken handler must never take the service down.
			if rec := recover(); rec != nil {
				log.Error("Request ended with panic",
					zap.Any("panic", rec), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			log.Info("Request completed", zap.Int("status", sw.status), zap.Duration("elapsed", time.Since(start)))
		}(time.Now())

		next.ServeHTTP(sw, r.WithContext(contextWithLog(r.Context(), log)))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

type logKey struct{}

func contextWithLog(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, logKey{}, log)
}

// requestLog returns the request scoped logger, falling back to the service
// logger when the request did not pass through instrument.
func (s *server) requestLog(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(logKey{}).(*zap.Logger); ok {
		return log
	}
	return s.log
}

func (s *server) writeJSON(w http.ResponseWriter, log *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Unable to write response", zap.Error(err))
	}
}
