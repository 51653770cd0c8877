package main

import (
	"context"
	"testing"
	"time"

	"github.com/blooner/bloodlink/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Startup failures come back as errors instead of exiting inside run, so
// main is the only place that terminates the process.
func TestRunReturnsStartupError(t *testing.T) {
	cfg := &config.Config{
		Port:            "0",
		AppEnv:          "test",
		MongoURI:        "mongodb://127.0.0.1:1",
		MongoDB:         "bloodlink_run_test",
		TokenTTL:        time.Hour,
		FrontendURL:     "*",
		AuthMode:        config.AuthModeTrust,
		ShutdownTimeout: time.Second,
		DBTimeout:       200 * time.Millisecond,
	}

	done := make(chan error, 1)
	go func() { done <- run(context.Background(), cfg, zap.NewNop()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connect to MongoDB")
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return")
	}
}
