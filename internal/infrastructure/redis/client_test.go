package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClient(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), "redis://"+s.Addr()+"/2")
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if db := client.Options().DB; db != 2 {
		t.Fatalf("expected database 2 from the URL path, got %d", db)
	}
	if err := client.Set(context.Background(), "gobooks:connected", "1", 0).Err(); err != nil {
		t.Fatalf("set failed: %v", err)
	}
}

func TestNewClientErrors(t *testing.T) {
	down := miniredis.RunT(t)
	downURL := "redis://" + down.Addr()
	down.Close()

	tests := []struct {
		name string
		url  string
	}{
		{"invalid url", "://bad-url"},
		{"wrong scheme", "http://localhost:6379"},
		{"server down", downURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if client, err := NewClient(context.Background(), tt.url); err == nil {
				_ = client.Close()
				t.Fatalf("expected an error for %s", tt.url)
			}
		})
	}
}

func TestNewClientCancelledContext(t *testing.T) {
	s := miniredis.RunT(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewClient(ctx, "redis://"+s.Addr()); err == nil {
		t.Fatalf("expected ping to fail on a cancelled context")
	}
}
