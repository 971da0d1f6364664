// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtlog

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/cosmosnicolaou/llog"
)

const (
	initialMaxStackBufSize = 128 * 1024
	stackSkip              = 1
)

// ErrAlreadyConfigured is returned by Configure when called a second time
// without OverridePriorConfiguration.
var ErrAlreadyConfigured = errors.New("rtlog: logger has already been configured")

type logger struct {
	log             *llog.Log
	mu              sync.Mutex
	autoFlush       bool
	maxStackBufSize int
	logDir          string
	configured      bool
}

// Default is the package-level logger every other weos package logs
// through unless it was constructed with an explicit Logger of its own.
var Default Logger

func init() {
	Default = &logger{log: llog.NewLogger("weos", stackSkip), maxStackBufSize: initialMaxStackBufSize}
}

// New creates an independently-configured Logger, e.g. one per simulated
// RTOS instance in tests that must not share global log state.
func New(name string) Logger {
	return &logger{log: llog.NewLogger(name, stackSkip), maxStackBufSize: initialMaxStackBufSize}
}

func (l *logger) maybeFlush() {
	if l.autoFlush {
		l.log.Flush()
	}
}

func (l *logger) Configure(opts ...Option) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	override := false
	for _, o := range opts {
		if v, ok := o.(OverridePriorConfiguration); ok {
			override = bool(v)
		}
	}
	if l.configured && !override {
		return ErrAlreadyConfigured
	}
	for _, o := range opts {
		switch v := o.(type) {
		case AlsoLogToStderr:
			l.log.SetAlsoLogToStderr(bool(v))
		case Level:
			l.log.SetV(llog.Level(v))
		case LogDir:
			l.logDir = string(v)
			l.log.SetLogDir(l.logDir)
		case LogToStderr:
			l.log.SetLogToStderr(bool(v))
		case MaxStackBufSize:
			if sz := int(v); sz > initialMaxStackBufSize {
				l.maxStackBufSize = sz
				l.log.SetMaxStackBufSize(sz)
			}
		case ModuleSpec:
			l.log.SetVModule(v.ModuleSpec)
		case StderrThreshold:
			l.log.SetStderrThreshold(llog.Severity(v))
		case AutoFlush:
			l.autoFlush = bool(v)
		}
	}
	l.configured = true
	return nil
}

func (l *logger) LogDir() string {
	if len(l.logDir) != 0 {
		return l.logDir
	}
	return os.TempDir()
}

func (l *logger) Stats() LevelStats {
	return LevelStats(l.log.Stats())
}

func (l *logger) Info(args ...interface{}) {
	l.log.Print(llog.InfoLog, args...)
	l.maybeFlush()
}

func (l *logger) Infof(format string, args ...interface{}) {
	l.log.Printf(llog.InfoLog, format, args...)
	l.maybeFlush()
}

func (l *logger) Warning(args ...interface{}) {
	l.log.Print(llog.WarningLog, args...)
	l.maybeFlush()
}

func (l *logger) Warningf(format string, args ...interface{}) {
	l.log.Printf(llog.WarningLog, format, args...)
	l.maybeFlush()
}

func (l *logger) Error(args ...interface{}) {
	l.log.Print(llog.ErrorLog, args...)
	l.maybeFlush()
}

func (l *logger) Errorf(format string, args ...interface{}) {
	l.log.Printf(llog.ErrorLog, format, args...)
	l.maybeFlush()
}

// Fatal logs to the FATAL, ERROR and INFO logs, including a stack trace of
// all running goroutines, then calls os.Exit(255) (via llog).
func (l *logger) Fatal(args ...interface{}) {
	l.log.Print(llog.FatalLog, args...)
}

func (l *logger) Fatalf(format string, args ...interface{}) {
	l.log.Printf(llog.FatalLog, format, args...)
}

func (l *logger) Panic(args ...interface{}) {
	l.Error(args...)
	panic(fmt.Sprint(args...))
}

func (l *logger) Panicf(format string, args ...interface{}) {
	l.Errorf(format, args...)
	panic(fmt.Sprintf(format, args...))
}

func (l *logger) V(v Level) bool {
	return l.log.V(llog.Level(v))
}

func (l *logger) VI(v Level) InfoLog {
	if l.log.V(llog.Level(v)) {
		return l
	}
	return &discardInfo{}
}

func (l *logger) FlushLog() {
	l.log.Flush()
}

// ---- package-level convenience wrappers over Default ----

func Configure(opts ...Option) error             { return Default.Configure(opts...) }
func Info(args ...interface{})                   { Default.Info(args...) }
func Infof(format string, args ...interface{})   { Default.Infof(format, args...) }
func Warning(args ...interface{})                { Default.Warning(args...) }
func Warningf(f string, args ...interface{})     { Default.Warningf(f, args...) }
func Error(args ...interface{})                  { Default.Error(args...) }
func Errorf(format string, args ...interface{})  { Default.Errorf(format, args...) }
func Fatal(args ...interface{})                  { Default.Fatal(args...) }
func Fatalf(format string, args ...interface{})  { Default.Fatalf(format, args...) }
func V(level Level) bool                         { return Default.V(level) }
func VI(level Level) InfoLog                     { return Default.VI(level) }
