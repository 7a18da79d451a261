/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2024 Nicolas JUHEL
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

// Package backend owns the LB's view of Application Server backends: the
// directory of configured (host, port) pairs, their health, the one
// persistent duplex connection held per healthy backend, and the
// round-robin cursor client front-ends consult to pick a backend for an
// inbound chunk.
package backend

import (
	"fmt"
	"net"
)

// Backend identifies one configured Application Server endpoint at its
// position in the most recently reloaded list.
type Backend struct {
	Index int
	Host  string
	Port  int
}

func (b Backend) key() string {
	return net.JoinHostPort(b.Host, fmt.Sprintf("%d", b.Port))
}

func (b Backend) String() string {
	return b.key()
}

// ClientWriter is the LB front-end's client session table, as consumed by
// a backend's reader task to deliver a decoded server->client payload.
// ok=false means the addressed client is no longer connected; the caller
// drops the payload without treating it as a backend failure.
type ClientWriter interface {
	WriteToClient(clientID string, payload []byte) (ok bool, err error)
}
