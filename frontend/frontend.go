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

// Package frontend accepts client TCP connections on the LB's listening
// port, mints each a client_id, and relays raw client bytes to whichever
// backend the directory's round-robin cursor selects.
package frontend

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/google/uuid"

	liblog "github.com/n4rclss/classfabric/logger"
)

var errNotListening = errors.New("frontend: Accept called before Listen")

// DefaultReadBufferSize is the default chunk size read from a client
// socket per iteration.
const DefaultReadBufferSize = 4096

// ChunkWriter selects a backend and forwards one client chunk to it,
// satisfied by *backend.Directory.
type ChunkWriter interface {
	WriteClientChunk(clientID string, payload []byte) error
}

// Frontend is the LB's client-facing TCP listener.
type Frontend struct {
	sessions    *ClientSessions
	chunks      ChunkWriter
	readBufSize int
	log         liblog.FuncLog

	mu       sync.Mutex
	listener net.Listener
	wg       sync.WaitGroup
}

// New builds a Frontend writing accepted client chunks through chunks
// and tracking sessions in the given table.
func New(chunks ChunkWriter, sessions *ClientSessions, log liblog.FuncLog) *Frontend {
	if log == nil {
		log = func() liblog.Logger { return liblog.Discard() }
	}
	return &Frontend{
		sessions:    sessions,
		chunks:      chunks,
		readBufSize: DefaultReadBufferSize,
		log:         log,
	}
}

// Listen binds addr, returning any bind error synchronously. Call Accept
// afterwards to start serving clients.
func (f *Frontend) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.listener = ln
	f.mu.Unlock()
	return nil
}

// Accept runs the accept loop against the listener bound by Listen,
// until ctx is cancelled or Close is called. Listen must be called
// first.
func (f *Frontend) Accept(ctx context.Context) error {
	f.mu.Lock()
	ln := f.listener
	f.mu.Unlock()
	if ln == nil {
		return errNotListening
	}

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}

		f.wg.Add(1)
		go f.handleClient(ctx, conn)
	}
}

// Serve is a convenience wrapper combining Listen and Accept, used by
// callers that don't need to observe the bind error separately from the
// accept-loop error.
func (f *Frontend) Serve(ctx context.Context, addr string) error {
	if err := f.Listen(addr); err != nil {
		return err
	}
	return f.Accept(ctx)
}

func (f *Frontend) handleClient(ctx context.Context, conn net.Conn) {
	defer f.wg.Done()

	clientID := uuid.NewString()
	f.sessions.add(clientID, conn)

	f.log().Entry(liblog.DebugLevel, "client connected").
		FieldAdd("client_id", clientID).FieldAdd("peer", conn.RemoteAddr().String()).Log()

	defer func() {
		f.sessions.remove(clientID)
		_ = conn.Close()
		f.log().Entry(liblog.DebugLevel, "client disconnected").FieldAdd("client_id", clientID).Log()
	}()

	buf := make([]byte, f.readBufSize)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])

			if werr := f.chunks.WriteClientChunk(clientID, chunk); werr != nil {
				f.log().Entry(liblog.WarnLevel, "no backend available for client chunk, dropping client").
					FieldAdd("client_id", clientID).ErrorAdd(true, werr).Log()
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// Close stops accepting new clients, closes every live client socket and
// waits for all client tasks to exit.
func (f *Frontend) Close() error {
	f.mu.Lock()
	ln := f.listener
	f.mu.Unlock()

	var err error
	if ln != nil {
		err = ln.Close()
	}
	f.sessions.CloseAll()
	f.wg.Wait()
	return err
}
