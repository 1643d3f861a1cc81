package shared

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carehire/carehire-api/internal/service/auth"
)

func TestCorrelationIDFrom(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		inbound string
		reuse   bool
	}{
		{name: "reuses caller id", inbound: "req-123", reuse: true},
		{name: "reuses uuid", inbound: "6f1c9a7e-2b1d-4c61-9b0e-1a2b3c4d5e6f", reuse: true},
		{name: "generates when empty", inbound: ""},
		{name: "generates when too long", inbound: strings.Repeat("a", maxCorrelationIDLength+1)},
		{name: "generates for whitespace", inbound: "two words"},
		{name: "generates for control characters", inbound: "id\r\nSet-Cookie: x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := CorrelationIDFrom(tt.inbound)
			if tt.reuse {
				assert.Equal(t, tt.inbound, got)
				return
			}
			assert.NotEqual(t, tt.inbound, got)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		})
	}
}

func TestNewCorrelationIDConcurrent(t *testing.T) {
	t.Parallel()

	const n = 200
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- NewCorrelationID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		require.False(t, seen[id], "duplicate correlation id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestContextValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, CorrelationID(ctx))
	assert.Nil(t, IdentityFrom(ctx))

	id := &auth.Identity{Claims: auth.Claims{Subject: uuid.New()}, Token: "tok"}
	ctx = WithIdentity(WithCorrelationID(ctx, "corr-1"), id)

	assert.Equal(t, "corr-1", CorrelationID(ctx))
	assert.Same(t, id, IdentityFrom(ctx))
}
