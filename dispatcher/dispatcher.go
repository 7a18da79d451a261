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

// Package dispatcher decodes JSON requests arriving on an LB<->Server
// connection, routes them by their "type" discriminator to a handler, and
// frames the handler's response (or an unsolicited push) back onto the
// same connection. A single Dispatcher is shared across every
// serverconn.Conn the server holds: it carries no connection-specific
// state itself, and builds a push-sender closure fresh on each Dispatch
// call, bound only to that call's Writer — so a push a handler sends is
// only ever valid for the connection that delivered the triggering
// request (there is no multi-LB routing).
package dispatcher

import (
	"encoding/json"

	liberr "github.com/n4rclss/classfabric/errors"

	"github.com/n4rclss/classfabric/clientdir"
	"github.com/n4rclss/classfabric/envelope"
	"github.com/n4rclss/classfabric/handlers"
	liblog "github.com/n4rclss/classfabric/logger"
	"github.com/n4rclss/classfabric/protocol"
)

// Writer is the minimal contract the dispatcher needs from its
// connection: serialize and send one already-framed envelope.
type Writer func(frame []byte) error

// Dispatcher holds everything a handler invocation needs except the
// per-request client_id and push-sender, which Dispatch derives fresh
// from its Writer argument.
type Dispatcher struct {
	registry  handlers.Registry
	directory clientdir.Store
	auth      handlers.AuthStore
	rooms     handlers.RoomStore
	framer    envelope.Framer
	log       liblog.FuncLog
}

// New builds a Dispatcher. registry is typically handlers.Default().
func New(registry handlers.Registry, directory clientdir.Store, auth handlers.AuthStore, rooms handlers.RoomStore, framer envelope.Framer, log liblog.FuncLog) *Dispatcher {
	if log == nil {
		log = func() liblog.Logger { return liblog.Discard() }
	}
	return &Dispatcher{
		registry:  registry,
		directory: directory,
		auth:      auth,
		rooms:     rooms,
		framer:    framer,
		log:       log,
	}
}

// Dispatch decodes one request payload addressed by clientID, invokes its
// handler, and writes the JSON response back through write, framed and
// addressed to clientID. A push-sender bound to the same write closure is
// handed to the handler so it can additionally address other clients on
// this same connection.
//
// Dispatch itself only returns an error for a failure writing the
// response back onto the connection (a transport failure, fatal to the
// caller's loop); malformed/unknown/validation-rejected requests and
// handler failures are all turned into JSON error responses instead.
func (d *Dispatcher) Dispatch(clientID string, payload []byte, write Writer) error {
	reqType, packet, err := protocol.Decode(payload)
	if err != nil {
		return d.respond(clientID, write, protocol.Error(decodeErrorMessage(reqType, err)))
	}

	handler, ok := d.registry[reqType]
	if !ok {
		return d.respond(clientID, write, protocol.Error(protocol.UnknownTypeMessage(reqType)))
	}

	ctx := &handlers.Context{
		ClientID:  clientID,
		Push:      d.pushFunc(write),
		Directory: d.directory,
		Auth:      d.auth,
		Rooms:     d.rooms,
		Log:       d.log,
	}

	resp, herr := handler(ctx, packet)
	if herr != nil {
		d.log().Entry(liblog.WarnLevel, "handler returned an error").
			FieldAdd("type", string(reqType)).FieldAdd("client_id", clientID).ErrorAdd(true, herr).Log()
		resp = protocol.Error("Internal server error.")
	}

	return d.respond(clientID, write, resp)
}

func (d *Dispatcher) respond(clientID string, write Writer, body interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return ErrEncodeResponse.Error(err)
	}

	frame, err := d.framer.Encode(clientID, raw)
	if err != nil {
		return ErrEncodeResponse.Error(err)
	}

	if err = write(frame); err != nil {
		return ErrWriteResponse.Error(err)
	}
	return nil
}

// pushFunc closes over write so a handler can address an envelope to any
// client_id reachable on this connection, independent of the request that
// triggered it.
func (d *Dispatcher) pushFunc(write Writer) handlers.PushFunc {
	return func(targetClientID string, payload interface{}) error {
		raw, err := json.Marshal(payload)
		if err != nil {
			return ErrEncodeResponse.Error(err)
		}
		frame, err := d.framer.Encode(targetClientID, raw)
		if err != nil {
			return ErrEncodeResponse.Error(err)
		}
		return write(frame)
	}
}

func decodeErrorMessage(reqType protocol.Type, err error) string {
	switch {
	case liberr.Has(err, protocol.ErrUnknownType):
		return protocol.UnknownTypeMessage(reqType)
	case liberr.Has(err, protocol.ErrSchemaValidation):
		return "Request failed schema validation."
	default:
		return "Malformed request payload."
	}
}
