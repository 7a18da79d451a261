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

package backend

import (
	"context"
	"net"
	"sync"

	"github.com/n4rclss/classfabric/envelope"
	liblog "github.com/n4rclss/classfabric/logger"
)

// Conn is one persistent duplex connection to a healthy backend. Writes
// from many client front-end tasks are serialized under wmu so two
// envelopes never interleave on the wire.
type Conn struct {
	Backend Backend

	conn   net.Conn
	framer envelope.Framer

	wmu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// dial opens the duplex connection for b and starts its reader task. The
// reader delivers decoded payloads to clients via out, and calls onError
// exactly once if the read loop exits due to a framing or I/O error.
func dial(parent context.Context, b Backend, framer envelope.Framer, out ClientWriter, log liblog.FuncLog, onError func(Backend, error)) (*Conn, error) {
	d := net.Dialer{}
	nc, err := d.DialContext(parent, "tcp", b.key())
	if err != nil {
		return nil, ErrConnectFailed.Error(err)
	}

	// parent only bounds the connect attempt; the reader lives until Close.
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	c := &Conn{
		Backend: b,
		conn:    nc,
		framer:  framer,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go c.readLoop(out, log, onError)
	return c, nil
}

func (c *Conn) readLoop(out ClientWriter, log liblog.FuncLog, onError func(Backend, error)) {
	defer close(c.done)

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		clientID, payload, err := c.framer.Decode(c.conn)
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			if log != nil {
				log().Entry(liblog.WarnLevel, "backend read failed").
					FieldAdd("backend", c.Backend.String()).ErrorAdd(true, err).Log()
			}
			onError(c.Backend, err)
			return
		}

		ok, werr := out.WriteToClient(clientID, payload)
		if werr != nil && log != nil {
			log().Entry(liblog.WarnLevel, "failed to deliver backend payload to client").
				FieldAdd("backend", c.Backend.String()).FieldAdd("client_id", clientID).
				ErrorAdd(true, werr).Log()
			continue
		}
		if !ok && log != nil {
			log().Entry(liblog.DebugLevel, "dropping payload for unknown client").
				FieldAdd("backend", c.Backend.String()).FieldAdd("client_id", clientID).Log()
		}
	}
}

// Write serializes one client->backend envelope write.
func (c *Conn) Write(clientID string, payload []byte) error {
	raw, err := c.framer.Encode(clientID, payload)
	if err != nil {
		return err
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err = c.conn.Write(raw)
	return err
}

// Close cancels the reader task, closes the socket and waits for the
// reader to exit.
func (c *Conn) Close() error {
	c.cancel()
	err := c.conn.Close()
	<-c.done
	return err
}
