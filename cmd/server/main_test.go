package main

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer blocks in Start until Shutdown is called, like fiber's Listen.
type fakeServer struct {
	stopped  chan struct{}
	startErr error
	shutdown atomic.Bool
}

func newFakeServer() *fakeServer {
	return &fakeServer{stopped: make(chan struct{})}
}

func (f *fakeServer) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	<-f.stopped
	return nil
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	f.shutdown.Store(true)
	close(f.stopped)
	return nil
}

func TestServe_WaitsForShutdownToFinish(t *testing.T) {
	srv := newFakeServer()
	stop := make(chan os.Signal, 1)

	var tracingFlushed atomic.Bool
	flushTracing := func(ctx context.Context) error {
		// Start has already returned by now; serve must still wait.
		time.Sleep(50 * time.Millisecond)
		tracingFlushed.Store(true)
		return nil
	}

	result := make(chan error, 1)
	go func() { result <- serve(srv, stop, flushTracing, time.Second) }()

	stop <- syscall.SIGTERM

	select {
	case err := <-result:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after the stop signal")
	}
	assert.True(t, srv.shutdown.Load())
	assert.True(t, tracingFlushed.Load(), "serve returned before the tracer was flushed")
}

func TestServe_ReturnsStartError(t *testing.T) {
	srv := newFakeServer()
	srv.startErr = errors.New("address already in use")

	err := serve(srv, make(chan os.Signal), func(context.Context) error { return nil }, time.Second)
	assert.EqualError(t, err, "address already in use")
	assert.False(t, srv.shutdown.Load())
}
