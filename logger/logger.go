/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2021 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

// Package logger provides the structured logging façade used across the
// LB and Application Server: a Level/Fields/Entry builder on top of
// logrus, accessed through a func() Logger indirection so components
// never hold a concrete global logger.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger builds log Entry values at a given severity.
type Logger interface {
	Entry(lvl Level, msg string) *Entry
	SetLevel(lvl Level)
}

// FuncLog is the accessor type every component stores instead of holding a
// Logger value directly, so a logger can be swapped (or captured in
// tests) without threading a pointer through every constructor.
type FuncLog func() Logger

type logger struct {
	log *logrus.Logger
}

// New builds a Logger writing JSON lines to os.Stderr at level lvl.
func New(lvl Level) Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	l.SetOutput(os.Stderr)
	l.SetLevel(lvl.Logrus())
	return &logger{log: l}
}

func (l *logger) Entry(lvl Level, msg string) *Entry {
	return newEntry(func() *logrus.Logger { return l.log }, lvl, msg)
}

func (l *logger) SetLevel(lvl Level) {
	l.log.SetLevel(lvl.Logrus())
}

// Discard is a Logger that never emits anything; useful as a safe default
// for components constructed without an explicit FuncLog.
func Discard() Logger {
	return &logger{log: func() *logrus.Logger {
		l := logrus.New()
		l.SetOutput(discardWriter{})
		return l
	}()}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
