package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Observer receives the outcome of every request.
type Observer interface {
	ObserveResponse(method string, status int, latency time.Duration)
}

// Logger logs requests and responses.
type Logger struct {
	observer Observer
}

type logWriter struct {
	http.ResponseWriter
	statusCode int
}

func (l *logWriter) WriteHeader(code int) {
	if l.statusCode == 0 {
		l.statusCode = code
	}
	l.ResponseWriter.WriteHeader(code)
}

func (l *logWriter) Write(b []byte) (int, error) {
	if l.statusCode == 0 {
		l.statusCode = http.StatusOK
	}
	return l.ResponseWriter.Write(b)
}

// Hijack hijacks the connection. This is necessary for using websockets.
func (l *logWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := l.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	l.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

// Flush implements http.Flusher.
func (l *logWriter) Flush() {
	if f, ok := l.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// NewLogger creates a new Logger middleware. observer may be nil.
func NewLogger(observer Observer) *Logger {
	return &Logger{observer: observer}
}

// Intercept logs the request and response.
func (l Logger) Intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := logWriter{ResponseWriter: w}
		next.ServeHTTP(&rw, r)
		if rw.statusCode == 0 {
			rw.statusCode = http.StatusOK
		}
		latency := time.Since(start)

		if l.observer != nil {
			l.observer.ObserveResponse(r.Method, rw.statusCode, latency)
		}
		ev := log.Info()
		if rw.statusCode >= 500 {
			ev = log.Error()
		} else if rw.statusCode >= 400 {
			ev = log.Warn()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Dur("latency", latency).
			Msg("request")
	})
}
