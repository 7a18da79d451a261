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

package logger

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	FieldLevel   = "level"
	FieldTime    = "time"
	FieldMessage = "message"
	FieldError   = "error"
)

// Entry is a single log event under construction: a builder that carries
// its own logrus accessor so it can be created detached from the Logger
// and logged later.
type Entry struct {
	log func() *logrus.Logger

	Time    time.Time
	Level   Level
	Message string
	Error   []error
	Fields  Fields
}

func newEntry(log func() *logrus.Logger, lvl Level, msg string) *Entry {
	return &Entry{
		log:     log,
		Time:    time.Now(),
		Level:   lvl,
		Message: msg,
		Fields:  NewFields(),
	}
}

// FieldAdd attaches one key/value pair to the entry.
func (e *Entry) FieldAdd(key string, val interface{}) *Entry {
	e.Fields = e.Fields.Add(key, val)
	return e
}

// ErrorAdd appends errors to the entry. When cleanNil is true, nil errors
// are skipped instead of being recorded as "no error occurred" noise.
func (e *Entry) ErrorAdd(cleanNil bool, err ...error) *Entry {
	for _, er := range err {
		if cleanNil && er == nil {
			continue
		}
		e.Error = append(e.Error, er)
	}
	return e
}

// Check logs the entry, downgrading its level to lvlNoErr when no non-nil
// error was ever added. Returns true iff an error was present - the
// typical call site is `logEntry.Check(liblog.NilLevel)` to only surface
// the failure path.
func (e *Entry) Check(lvlNoErr Level) bool {
	found := false
	for _, er := range e.Error {
		if er != nil {
			found = true
			break
		}
	}
	if !found {
		e.Level = lvlNoErr
	}
	e.Log()
	return found
}

// Log emits the entry through the bound logrus.Logger. A nil or NilLevel
// entry is silently dropped.
func (e *Entry) Log() {
	if e.log == nil || e.Level == NilLevel {
		return
	}
	log := e.log()
	if log == nil {
		return
	}

	tag := e.Fields.Add(FieldLevel, e.Level.String()).Add(FieldTime, e.Time.Format(time.RFC3339Nano))

	if e.Message != "" {
		tag = tag.Add(FieldMessage, e.Message)
	}

	if len(e.Error) > 0 {
		msg := make([]string, 0, len(e.Error))
		for _, er := range e.Error {
			if er == nil {
				continue
			}
			msg = append(msg, er.Error())
		}
		if len(msg) > 0 {
			tag = tag.Add(FieldError, strings.Join(msg, ", "))
		}
	}

	log.WithFields(tag.Logrus()).Log(e.Level.Logrus())
}
