/*
MIT License

Copyright (c) 2019 Nicolas JUHEL

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package appctx provides a cancellable context with a small typed
// key/value store layered on top of it, so long-lived components can be
// attached to and retrieved from a single context value. No other package
// of this module imports it: the LB and Application Server binaries derive
// their lifecycle context from signal.NotifyContext directly.
package appctx

import "context"

type FuncWalk[T comparable] func(key T, val interface{}) bool

type Store[T comparable] interface {
	context.Context

	// Load returns the value stored under key, if any.
	Load(key T) (val interface{}, ok bool)
	// Store saves val under key, overwriting any previous value. Storing
	// a nil val deletes key instead.
	Store(key T, val interface{})
	// Delete removes key from the store.
	Delete(key T)
	// Walk calls fct for every stored pair until fct returns false.
	Walk(fct FuncWalk[T])

	// Cancel cancels the underlying context, signalling shutdown to every
	// reader blocked on Done().
	Cancel()
}

// New returns a Store derived from ctx (context.Background when nil).
func New[T comparable](ctx context.Context) Store[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	c, cancel := context.WithCancel(ctx)
	return &store[T]{ctx: c, cancel: cancel}
}
