package relay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeepListening(t *testing.T) {
	t.Run("given a dropped consumer when listening then it reconnects and consumes again", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var mu sync.Mutex
		var calls []string
		consumed := 0
		consume := func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, "consume")
			consumed++
			if consumed == 3 {
				cancel()
				return nil
			}
			return errDeliveryClosed
		}
		reconnects := 0
		reconnect := func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, "reconnect")
			reconnects++
			if reconnects == 1 {
				return errors.New("connection refused")
			}
			return nil
		}

		err := keepListening(ctx, time.Millisecond, consume, reconnect)

		assert.NoError(t, err)
		assert.Equal(t, []string{
			"consume", "reconnect", "reconnect",
			"consume", "reconnect",
			"consume",
		}, calls)
	})

	t.Run("given a cancelled context when reconnecting then it returns without error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		consume := func(context.Context) error { return errDeliveryClosed }
		reconnect := func(context.Context) error {
			cancel()
			return errors.New("connection refused")
		}

		done := make(chan error, 1)
		go func() { done <- keepListening(ctx, time.Millisecond, consume, reconnect) }()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("keepListening did not stop")
		}
	})
}
