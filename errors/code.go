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

package errors

// CodeError is a small numeric classification for an Error, private to the
// component that raised it; callers branch on it with IsCode/HasCode
// instead of matching on the message string.
type CodeError uint16

const (
	// UnknownError is the zero-value fallback code.
	UnknownError CodeError = 0
)

var registry = make(map[CodeError]string)

// Register associates a default message with a code. Components call this
// in a package-level var declaration so CodeError.Message() is meaningful
// without repeating the text at every call site.
func Register(code CodeError, message string) CodeError {
	registry[code] = message
	return code
}

// Message returns the registered default message for the code, or the
// unknown-error fallback.
func (c CodeError) Message() string {
	if m, ok := registry[c]; ok {
		return m
	}
	return "unknown error"
}

// Error builds a new Error from the code's registered message.
func (c CodeError) Error(parent ...error) Error {
	return New(c, c.Message(), parent...)
}

// Errorf builds a new Error with a formatted message, keeping the code.
func (c CodeError) Errorf(pattern string, args ...any) Error {
	return New(c, sprintf(pattern, args...))
}
