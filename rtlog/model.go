// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rtlog is the leveled logger used throughout weos. It is a
// narrowed adaptation of the teacher's vlog package: the CLI flag
// registration surface is gone (this module has no command line, per
// spec.md's non-goals), but the logger shape — Level/V-gating, Configure,
// Info/Warning/Error/Fatal — is unchanged.
package rtlog

import (
	"github.com/cosmosnicolaou/llog"
)

// Level specifies a level of verbosity for V-gated logs.
type Level llog.Level

func (l Level) String() string {
	return llog.Level(l).String()
}

// Severity identifies the sort of log line: info, warning, error, fatal.
type Severity llog.Severity

// ModuleSpec sets per-file V levels, e.g. "twq*=2,clock=1".
type ModuleSpec struct {
	llog.ModuleSpec
}

// LevelStats tracks the number of lines/bytes written per severity.
type LevelStats llog.Stats

// InfoLog is the subset of Logger used for V-gated informational logging.
type InfoLog interface {
	Info(args ...interface{})
	Infof(format string, args ...interface{})
}

type discardInfo struct{}

func (*discardInfo) Info(args ...interface{})                 {}
func (*discardInfo) Infof(format string, args ...interface{}) {}

// Logger is the full logging surface exposed by this package, both as the
// package-level default (Info, Warningf, ...) and as independently
// constructed instances (New).
type Logger interface {
	InfoLog

	// V returns whether logging at the given verbosity level is enabled.
	V(level Level) bool
	// VI returns an InfoLog that logs if V(level), or discards otherwise.
	VI(level Level) InfoLog

	Warning(args ...interface{})
	Warningf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	// Fatal logs then terminates the process, mirroring spec.md §8's rule
	// that destroying a joinable thread handle (and a few other
	// unrecoverable conditions) terminates the program.
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})

	Configure(opts ...Option) error
	FlushLog()
}
