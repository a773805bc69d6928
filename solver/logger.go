// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"fmt"
	"io"
	"os"
)

// LogLevel controls how much the driver reports per iteration, generalizing
// lbfgsb/optimize.go's LogLevel to the SDP iteration's own quantities.
type LogLevel int

const (
	// LogNone disables all logging.
	LogNone LogLevel = iota
	// LogSummary reports one line per terminal iteration only.
	LogSummary
	// LogIter reports one line per iteration: mu, feasibility error, duality gap.
	LogIter
	// LogVerbose additionally reports each factorization failure with its consecutive-failure count.
	LogVerbose
)

// Logger is a level-gated writer, following lbfgsb/optimize.go's Logger: a
// message stream (human-readable progress) and a data stream (left
// available for machine-readable dumps, unused by the driver itself).
type Logger struct {
	Level LogLevel
	Msg   io.Writer
	Out   io.Writer
}

func (l *Logger) enabled(level LogLevel) bool {
	return l != nil && l.Level >= level
}

func (l *Logger) writer() io.Writer {
	if l.Msg != nil {
		return l.Msg
	}
	return os.Stdout
}

func (l *Logger) logf(level LogLevel, format string, args ...any) {
	if !l.enabled(level) {
		return
	}
	fmt.Fprintf(l.writer(), format, args...)
}
