// Copyright (c) 2026 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package sampledlogger rate-limits messages that repeat for as long as a
// condition lasts, such as a peer being unreachable.
package sampledlogger

import (
	"time"

	"github.com/juju/clock"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes at most one message per interval. Messages dropped in
// between are counted and reported with the next one written.
type Logger struct {
	logger   *zap.Logger
	clock    clock.Clock
	interval time.Duration

	last       atomic.Int64
	suppressed atomic.Int64
}

// New builds a Logger writing to logger.
func New(logger *zap.Logger, clk clock.Clock, interval time.Duration) *Logger {
	return &Logger{logger: logger, clock: clk, interval: interval}
}

// Info logs at info level unless a message was written within the interval.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.log(zapcore.InfoLevel, msg, fields)
}

// Warn logs at warn level unless a message was written within the interval.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.log(zapcore.WarnLevel, msg, fields)
}

// Reset lets the next message through.
func (l *Logger) Reset() {
	l.last.Store(0)
}

func (l *Logger) log(level zapcore.Level, msg string, fields []zap.Field) {
	now := l.clock.Now().UnixNano()
	last := l.last.Load()
	if last != 0 && now-last < int64(l.interval) || !l.last.CAS(last, now) {
		l.suppressed.Inc()
		return
	}
	if n := l.suppressed.Swap(0); n > 0 {
		fields = append(fields, zap.Int64("suppressed", n))
	}
	if ce := l.logger.Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}
