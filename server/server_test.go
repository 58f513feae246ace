package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observer struct {
	statuses []int
}

func (o *observer) ObserveResponse(_ string, status int, _ time.Duration) {
	o.statuses = append(o.statuses, status)
}

func TestHandler(t *testing.T) {
	obs := &observer{}
	srv := New(Config{Port: DefaultPort}, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}), obs)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://dnd.example.com")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "https://dnd.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, []int{http.StatusAccepted}, obs.statuses)
}

func TestRun(t *testing.T) {
	t.Run("given cancelled context when running then shuts down cleanly", func(t *testing.T) {
		srv := New(Config{Port: 0}, http.NotFoundHandler(), nil)
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- srv.Run(ctx)
		}()
		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop")
		}
	})

	t.Run("given missing certificate when running then error", func(t *testing.T) {
		srv := New(Config{Port: 0, CertFile: "missing.pem", KeyFile: "missing.key"}, http.NotFoundHandler(), nil)
		assert.Error(t, srv.Run(context.Background()))
	})
}
