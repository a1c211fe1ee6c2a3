package redisutils

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClient(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)

	client, err := NewClient(t.Context(), "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	t.Cleanup(func() { _ = client.Close() })

	err = client.Set(t.Context(), "k", "v", 0).Err()
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	if got, _ := mr.Get("k"); got != "v" {
		t.Fatalf("stored value = %q, want v", got)
	}
}

func TestNewClientErrors(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	tests := []struct {
		name string
		url  string
	}{
		{"bad scheme", "http://" + addr},
		{"unreachable", "redis://" + addr},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client, err := NewClient(t.Context(), tc.url)
			if err == nil {
				_ = client.Close()
				t.Fatal("expected error")
			}
		})
	}
}
