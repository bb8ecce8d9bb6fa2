// Package modkit provides module wiring and core deps
package modkit

import (
	"wdlabels/internal/platform/config"
	"wdlabels/internal/platform/logger"
	"wdlabels/internal/platform/metrics"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	Metrics *metrics.Pipeline // nil disables metrics
	RunID   string
}

// ZeroOK returns true when deps are safe to use with zero values in tests
// consumers should still nil check Metrics
func (d Deps) ZeroOK() bool { return true }
