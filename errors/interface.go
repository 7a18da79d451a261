/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package errors provides error codes and parent-error chaining on top of
// the standard library error interface, in the shape the rest of this
// module expects: a component raises a CodeError-tagged Error and callers
// branch on the code rather than on string matching.
package errors

import (
	"errors"
)

// Error extends the standard error with a numeric code and a parent chain.
type Error interface {
	error

	// IsCode reports whether this error's own code equals the given code.
	IsCode(code CodeError) bool
	// HasCode reports whether this error or any parent has the given code.
	HasCode(code CodeError) bool
	// GetCode returns this error's own code.
	GetCode() CodeError

	// Add appends parent errors (nil entries are ignored).
	Add(parent ...error)
	// HasParent reports whether any parent error is registered.
	HasParent() bool
	// GetParent returns the chain of parent errors.
	GetParent() []error

	// Unwrap gives compatibility with errors.Is / errors.As.
	Unwrap() []error
}

// Is reports whether e is (or wraps) an Error of this package.
func Is(e error) bool {
	var err Error
	return errors.As(e, &err)
}

// Get returns e as an Error if it is one, nil otherwise.
func Get(e error) Error {
	var err Error
	if errors.As(e, &err) {
		return err
	}
	return nil
}

// Has reports whether e is an Error carrying the given code, anywhere in
// its parent chain.
func Has(e error, code CodeError) bool {
	if err := Get(e); err != nil {
		return err.HasCode(code)
	}
	return false
}

// New creates an Error with the given code, message and optional parents.
func New(code CodeError, message string, parent ...error) Error {
	return &ers{
		code: code,
		msg:  message,
		par:  cleanParents(parent),
	}
}

// Newf creates an Error with the given code and a printf-formatted message.
func Newf(code CodeError, pattern string, args ...any) Error {
	return New(code, sprintf(pattern, args...))
}

// Wrap attaches code and message to an existing error, keeping it as the
// sole parent. Returns nil if err is nil.
func Wrap(code CodeError, message string, err error) Error {
	if err == nil {
		return nil
	}
	return New(code, message, err)
}

func cleanParents(parent []error) []Error {
	p := make([]Error, 0, len(parent))
	for _, e := range parent {
		if e == nil {
			continue
		}
		if er, ok := e.(Error); ok {
			p = append(p, er)
		} else {
			p = append(p, &stdParent{ers: ers{code: 0, msg: e.Error()}, src: e})
		}
	}
	return p
}

// stdParent keeps a standard-library parent reachable through Unwrap.
type stdParent struct {
	ers
	src error
}

func (s *stdParent) Unwrap() []error {
	return []error{s.src}
}
