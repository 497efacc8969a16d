package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ddvlanck/tree-index-1/internal/metrics"
	logpkg "github.com/ddvlanck/tree-index-1/pkg/log"
)

const requestIDHeader = "X-Request-ID"

type requestCounter interface {
	ObserveRequest(method string, code int)
}

var _ requestCounter = (*metrics.Metrics)(nil)

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, "+requestIDHeader)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Expose-Headers", "Location, "+requestIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestID keeps an incoming X-Request-ID or mints one, echoes it, and puts
// it on the context for the logger.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logpkg.ContextWithRequestID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(p []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(p)
	s.bytes += n
	return n, err
}

func (s *statusRecorder) code() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

// accessLog logs one line per request at debug level. counter may be nil.
func accessLog(logger logpkg.Logger, counter requestCounter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		code := rec.code()
		if counter != nil {
			counter.ObserveRequest(r.Method, code)
		}
		logger.WithContext(r.Context()).Debug("request",
			logpkg.Str("method", r.Method),
			logpkg.Str("path", r.URL.Path),
			logpkg.Str("status", strconv.Itoa(code)),
			logpkg.Int("bytes", rec.bytes),
			logpkg.Duration("duration_ms", time.Since(start)),
		)
	})
}
