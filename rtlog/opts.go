// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtlog

// Option configures a Logger via Configure.
type Option interface {
	loggingOpt()
}

type AutoFlush bool
type AlsoLogToStderr bool
type LogDir string
type LogToStderr bool
type MaxStackBufSize int
type StderrThreshold Severity
type OverridePriorConfiguration bool

func (AutoFlush) loggingOpt()                 {}
func (AlsoLogToStderr) loggingOpt()            {}
func (LogDir) loggingOpt()                     {}
func (LogToStderr) loggingOpt()                {}
func (MaxStackBufSize) loggingOpt()            {}
func (Level) loggingOpt()                      {}
func (ModuleSpec) loggingOpt()                 {}
func (StderrThreshold) loggingOpt()            {}
func (OverridePriorConfiguration) loggingOpt() {}
