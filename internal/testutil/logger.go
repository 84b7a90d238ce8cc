// Package testutil provides shared test helpers for rigplanner packages.
package testutil

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// Logger returns a logger that writes through t.Log, so output is attached
// to the test that produced it and hidden unless the test fails or -v is set.
func Logger(t testing.TB) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.Level(zap.DebugLevel))
}
