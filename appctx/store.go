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

package appctx

import (
	"context"
	"sync"
	"time"
)

type store[T comparable] struct {
	ctx    context.Context
	cancel context.CancelFunc
	m      sync.Map
}

func (s *store[T]) Load(key T) (interface{}, bool) {
	return s.m.Load(key)
}

func (s *store[T]) Store(key T, val interface{}) {
	if val == nil {
		s.m.Delete(key)
		return
	}
	s.m.Store(key, val)
}

func (s *store[T]) Delete(key T) {
	s.m.Delete(key)
}

func (s *store[T]) Walk(fct FuncWalk[T]) {
	if fct == nil {
		return
	}
	s.m.Range(func(k, v interface{}) bool {
		key, ok := k.(T)
		if !ok {
			return true
		}
		return fct(key, v)
	})
}

func (s *store[T]) Cancel() {
	s.cancel()
}

func (s *store[T]) Deadline() (time.Time, bool) {
	return s.ctx.Deadline()
}

func (s *store[T]) Done() <-chan struct{} {
	return s.ctx.Done()
}

func (s *store[T]) Err() error {
	return s.ctx.Err()
}

func (s *store[T]) Value(key interface{}) interface{} {
	if k, ok := key.(T); ok {
		if v, ok := s.Load(k); ok {
			return v
		}
	}
	return s.ctx.Value(key)
}
