package main

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analyzer "github.com/FrenchMajesty/text-analyzer"
	"github.com/FrenchMajesty/text-analyzer/internal/api"
)

func newTestServer(t *testing.T) *api.Server {
	t.Helper()
	a, err := analyzer.New()
	require.NoError(t, err)
	return api.NewServer(a)
}

func TestServe_ReturnsStartError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	done := make(chan error, 1)
	go func() {
		done <- serve(context.Background(), newTestServer(t), ln.Addr().String(), time.Second)
	}()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve kept running after the listener failed")
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, newTestServer(t), "127.0.0.1:0", time.Second)
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}
