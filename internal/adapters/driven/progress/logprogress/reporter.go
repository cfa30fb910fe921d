// Package logprogress reports run progress through the application
// logger. It is the default ProgressReporter when no interactive
// surface is attached; output only appears in verbose mode.
package logprogress

import (
	"sync/atomic"

	"github.com/curatorhq/curator-cli/internal/core/ports/driven"
	"github.com/curatorhq/curator-cli/internal/logger"
)

// Indeterminate heartbeats arrive on every page fetch; log one in
// every heartbeatSample to keep verbose output readable.
const heartbeatSample = 10

// Ensure Reporter implements the interface.
var _ driven.ProgressReporter = (*Reporter)(nil)

// Reporter logs progress events at debug level.
type Reporter struct {
	heartbeats atomic.Int64
}

// NewReporter creates a logging progress reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Determinate logs known-total progress as a percentage.
func (r *Reporter) Determinate(fraction float64) {
	logger.Debug("progress: %.0f%%", fraction*100)
}

// Indeterminate logs a sampled heartbeat for open-ended work.
func (r *Reporter) Indeterminate() {
	if r.heartbeats.Add(1)%heartbeatSample == 1 {
		logger.Debug("progress: working...")
	}
}

// Message logs a status text update.
func (r *Reporter) Message(text string) {
	logger.Debug("progress: %s", text)
}
