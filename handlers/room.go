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

// HandleCreateRoom records a new room owned by the requesting teacher.
func HandleCreateRoom(ctx *Context, packet interface{}) (interface{}, error) {
	req := packet.(*protocol.CreateRoom)

	ctx.Rooms.CreateRoom(req.RoomID, req.Teacher)

	return protocol.Success(fmt.Sprintf("Room '%s' created.", req.RoomID)), nil
}

// HandleJoinRoom adds the requesting student to an existing room's
// roster.
func HandleJoinRoom(ctx *Context, packet interface{}) (interface{}, error) {
	req := packet.(*protocol.JoinRoom)

	if !ctx.Rooms.JoinRoom(req.RoomID, req.Username, req.MSSV, req.StudentName) {
		return protocol.Error(fmt.Sprintf("Room '%s' does not exist.", req.RoomID)), nil
	}

	return protocol.Success(fmt.Sprintf("Joined room '%s'.", req.RoomID)), nil
}

// HandleRefresh returns the current participant roster for a room.
func HandleRefresh(ctx *Context, packet interface{}) (interface{}, error) {
	req := packet.(*protocol.Refresh)

	participants := ctx.Rooms.Participants(req.RoomID)
	if participants == nil {
		participants = []protocol.Participant{}
	}

	return protocol.RefreshResponse{
		Response:     protocol.Success("Room roster refreshed."),
		Participants: participants,
	}, nil
}
