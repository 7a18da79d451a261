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
	liblog "github.com/n4rclss/classfabric/logger"
	"github.com/n4rclss/classfabric/protocol"
)

// HandleLogout unregisters the caller's own client_id from the Client
// Directory and removes the room named by the request, if any. The
// directory is keyed by client_id, not by room membership, and the caller
// can only ever log itself out, so the directory cleanup is always scoped
// to ctx.ClientID rather than to the named teacher; the room removal, by
// contrast, follows req.RoomID as-is, matching the reference server's
// logout-deletes-the-room behavior. Both cleanup steps are best-effort:
// errors or a missing room are logged, not surfaced as a failed logout.
func HandleLogout(ctx *Context, packet interface{}) (interface{}, error) {
	req := packet.(*protocol.Logout)

	if err := ctx.Directory.UnregisterByClientID(ctx.ClientID); err != nil {
		ctx.Log().Entry(liblog.WarnLevel, "directory unregister failed during logout").
			FieldAdd("room_id", req.RoomID).FieldAdd("client_id", ctx.ClientID).
			ErrorAdd(true, err).Log()
	}

	if req.RoomID != "" && !ctx.Rooms.RemoveRoom(req.RoomID) {
		ctx.Log().Entry(liblog.WarnLevel, "no room to remove during logout").
			FieldAdd("room_id", req.RoomID).FieldAdd("client_id", ctx.ClientID).Log()
	}

	return protocol.Success("Logout successful"), nil
}
