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

// Package serverconn owns the Application Server's side of one persistent
// LB<->Server connection: it decodes envelopes in a loop, hands each
// (client_id, payload) pair to a dispatcher.Dispatcher, and on framing
// error, EOF, or cancellation performs Client Directory cleanup for the
// last client_id it saw before closing. A server holds many of these
// concurrently, one per LB connection it accepts.
package serverconn

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"github.com/n4rclss/classfabric/clientdir"
	"github.com/n4rclss/classfabric/dispatcher"
	"github.com/n4rclss/classfabric/envelope"
	liblog "github.com/n4rclss/classfabric/logger"
)

// Conn is one LB<->Server connection's decode loop and write path.
type Conn struct {
	conn      net.Conn
	framer    envelope.Framer
	dispatch  *dispatcher.Dispatcher
	directory clientdir.Store
	log       liblog.FuncLog

	wmu sync.Mutex

	lastMu       sync.Mutex
	lastClientID string
}

// New builds a Conn wrapping an already-accepted net.Conn from an LB.
func New(conn net.Conn, disp *dispatcher.Dispatcher, directory clientdir.Store, framer envelope.Framer, log liblog.FuncLog) *Conn {
	if log == nil {
		log = func() liblog.Logger { return liblog.Discard() }
	}
	return &Conn{
		conn:      conn,
		framer:    framer,
		dispatch:  disp,
		directory: directory,
		log:       log,
	}
}

// Serve runs the decode loop until ctx is cancelled or the connection
// fails, then performs directory cleanup for the last client_id seen on
// this connection and closes the socket. It returns nil on a clean peer
// close or cancellation, and the triggering error otherwise.
func (c *Conn) Serve(ctx context.Context) error {
	defer c.cleanup()

	go func() {
		<-ctx.Done()
		_ = c.conn.Close()
	}()

	for {
		clientID, payload, err := c.framer.Decode(c.conn)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			c.log().Entry(liblog.WarnLevel, "server connection read failed").ErrorAdd(true, err).Log()
			return err
		}

		c.setLastClientID(clientID)

		if err := c.dispatch.Dispatch(clientID, payload, c.write); err != nil {
			c.log().Entry(liblog.WarnLevel, "failed to write dispatcher response").
				FieldAdd("client_id", clientID).ErrorAdd(true, err).Log()
			return err
		}
	}
}

func (c *Conn) write(frame []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if _, err := c.conn.Write(frame); err != nil {
		return ErrWrite.Error(err)
	}
	return nil
}

func (c *Conn) setLastClientID(clientID string) {
	c.lastMu.Lock()
	c.lastClientID = clientID
	c.lastMu.Unlock()
}

func (c *Conn) cleanup() {
	c.lastMu.Lock()
	clientID := c.lastClientID
	c.lastMu.Unlock()

	_ = c.conn.Close()

	if clientID == "" {
		return
	}
	if err := c.directory.UnregisterByClientID(clientID); err != nil {
		c.log().Entry(liblog.WarnLevel, "directory cleanup failed on connection close").
			FieldAdd("client_id", clientID).ErrorAdd(true, err).Log()
	}
}
