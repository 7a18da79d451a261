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

package handlers

import (
	"github.com/n4rclss/classfabric/clientdir"
	liblog "github.com/n4rclss/classfabric/logger"
	"github.com/n4rclss/classfabric/protocol"
)

// PushFunc addresses an unsolicited envelope to targetClientID on the LB
// connection that delivered the triggering request. payload is marshaled
// to JSON by the dispatcher before the push is framed and written.
type PushFunc func(targetClientID string, payload interface{}) error

// Context is what the dispatcher hands every handler: the caller's
// client_id, a push-sender bound to the connection that delivered the
// request, and the collaborators a handler may need to consult.
type Context struct {
	ClientID  string
	Push      PushFunc
	Directory clientdir.Store
	Auth      AuthStore
	Rooms     RoomStore
	Log       liblog.FuncLog
}

// Handler processes a decoded request packet and returns the JSON-
// marshalable response body the dispatcher frames back to the caller.
// An error return is reserved for conditions the handler cannot turn
// into a meaningful {status, message} response itself; the dispatcher
// converts it into a generic error response.
type Handler func(ctx *Context, packet interface{}) (interface{}, error)

// Registry maps a request type to the handler that serves it.
type Registry map[protocol.Type]Handler

// Default builds the Registry wiring every request type in the
// catalogue to its handler.
func Default() Registry {
	return Registry{
		protocol.TypeLogin:      HandleLogin,
		protocol.TypeLogout:     HandleLogout,
		protocol.TypeCreateRoom: HandleCreateRoom,
		protocol.TypeJoinRoom:   HandleJoinRoom,
		protocol.TypeRefresh:    HandleRefresh,
		protocol.TypeNotify:     HandleNotify,
		protocol.TypeStreaming:  HandleStreaming,
		protocol.TypeScreenData: HandleScreenData,
		protocol.TypeRequestApp: HandleRequestApp,
		protocol.TypeReturnApp:  HandleReturnApp,
	}
}
