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
	"fmt"

	"github.com/n4rclss/classfabric/protocol"
)

// HandleStreaming asks target_username to start streaming its screen by
// pushing a streaming request to its currently-registered client_id.
func HandleStreaming(ctx *Context, packet interface{}) (interface{}, error) {
	req := packet.(*protocol.Streaming)
	return requestFromTarget(ctx, req.TargetUsername, protocol.Streaming{
		Type:           protocol.TypeStreaming,
		TargetUsername: req.TargetUsername,
	})
}

// HandleScreenData relays a captured screen frame to the client_id that
// is watching it. Unlike streaming/request_app, the target here is
// addressed directly by client_id rather than resolved from a username,
// since the watcher's identity never passed through the directory.
func HandleScreenData(ctx *Context, packet interface{}) (interface{}, error) {
	req := packet.(*protocol.ScreenData)

	if err := ctx.Push(req.SenderClientID, req); err != nil {
		return protocol.Error("Failed to relay screen data: recipient is offline."), nil
	}

	return protocol.Success("Screen data relayed."), nil
}

// HandleRequestApp asks target_username to report its running-application
// list.
func HandleRequestApp(ctx *Context, packet interface{}) (interface{}, error) {
	req := packet.(*protocol.RequestApp)
	return requestFromTarget(ctx, req.TargetUsername, protocol.RequestApp{
		Type:           protocol.TypeRequestApp,
		TargetUsername: req.TargetUsername,
	})
}

// HandleReturnApp relays a running-application report back to the
// client_id that asked for it.
func HandleReturnApp(ctx *Context, packet interface{}) (interface{}, error) {
	req := packet.(*protocol.ReturnApp)

	if err := ctx.Push(req.SenderClientID, req); err != nil {
		return protocol.Error("Failed to relay application list: requester is offline."), nil
	}

	return protocol.Success("Application list relayed."), nil
}

// requestFromTarget resolves targetUsername through the Client Directory
// and pushes payload to its client_id, reporting whether the target was
// reachable.
func requestFromTarget(ctx *Context, targetUsername string, payload interface{}) (interface{}, error) {
	targetClientID, ok, err := ctx.Directory.LookupClientID(targetUsername)
	if err != nil || !ok {
		return protocol.Error(fmt.Sprintf("User '%s' is not online.", targetUsername)), nil
	}

	if err := ctx.Push(targetClientID, payload); err != nil {
		return protocol.Error(fmt.Sprintf("User '%s' is not reachable.", targetUsername)), nil
	}

	return protocol.Success(fmt.Sprintf("Request sent to '%s'.", targetUsername)), nil
}
