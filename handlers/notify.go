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

	liblog "github.com/n4rclss/classfabric/logger"
	"github.com/n4rclss/classfabric/protocol"
)

// HandleNotify lets a room's teacher broadcast a message to its students.
// Only that room's teacher may notify it. Each student currently
// connected (resolvable to a client_id in the Client Directory) receives
// a push envelope; students the directory cannot resolve are reported
// back as offline rather than silently dropped.
func HandleNotify(ctx *Context, packet interface{}) (interface{}, error) {
	req := packet.(*protocol.Notify)

	teacher, ok := ctx.Rooms.Teacher(req.RoomID)
	if !ok {
		return protocol.Error(fmt.Sprintf("Room '%s' does not exist.", req.RoomID)), nil
	}

	senderUsername, ok, err := ctx.Directory.LookupUsername(ctx.ClientID)
	if err != nil {
		ctx.Log().Entry(liblog.WarnLevel, "directory lookup failed while authorizing notify").
			FieldAdd("room_id", req.RoomID).ErrorAdd(true, err).Log()
	}
	if !ok || senderUsername != teacher {
		return protocol.Error("Only the teacher can send notifications in this room."), nil
	}

	students := ctx.Rooms.StudentUsernames(req.RoomID)

	payload := protocol.Notify{
		Type:        protocol.TypeNotify,
		RoomID:      req.RoomID,
		NotiMessage: req.NotiMessage,
	}

	sent := 0
	var offline []string
	for _, username := range students {
		targetClientID, ok, err := ctx.Directory.LookupClientID(username)
		if err != nil {
			ctx.Log().Entry(liblog.WarnLevel, "directory lookup failed while routing notify").
				FieldAdd("username", username).ErrorAdd(true, err).Log()
		}
		if !ok {
			offline = append(offline, username)
			continue
		}
		if err := ctx.Push(targetClientID, payload); err != nil {
			ctx.Log().Entry(liblog.WarnLevel, "notify push failed").
				FieldAdd("username", username).FieldAdd("client_id", targetClientID).
				ErrorAdd(true, err).Log()
			offline = append(offline, username)
			continue
		}
		sent++
	}

	online := len(students) - len(offline)
	message := fmt.Sprintf(
		"Notification processed for room '%s'. Attempted send to %d/%d online recipients.",
		req.RoomID, sent, online,
	)
	if len(offline) > 0 {
		message += fmt.Sprintf(" (%d users offline: %v)", len(offline), offline)
	}

	return protocol.NotifyResponse{
		Response: protocol.Success(message),
		Offline:  offline,
	}, nil
}
