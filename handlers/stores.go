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

// Package handlers implements the feature handlers the dispatcher routes
// requests to by type, plus the narrow collaborator interfaces (AuthStore,
// RoomStore) the handlers consume. Those collaborators are treated as
// external: only their contracts are specified here, alongside a single
// in-memory reference implementation suitable for a standalone deployment
// or for tests.
package handlers

import "github.com/n4rclss/classfabric/protocol"

// AuthStore is the user-authentication predicate. Its implementation
// (credential storage, hashing, external IdP, ...) is out of scope; the
// login handler only needs this one question answered.
type AuthStore interface {
	// Authenticate reports whether username/password/role identify a
	// valid user with that exact role.
	Authenticate(username, password, role string) bool
}

// RoomStore is the room/participant directory consumed by create_room,
// join_room, refresh, and notify. Its storage model is out of scope;
// these are the operations the handlers need from it.
type RoomStore interface {
	// CreateRoom records roomID as owned by teacher, replacing any prior
	// room of the same id.
	CreateRoom(roomID, teacher string)
	// JoinRoom adds username (identified in the roster by mssv and
	// studentName) to roomID's participant list. Reports false if roomID
	// does not exist.
	JoinRoom(roomID, username, mssv, studentName string) bool
	// Teacher returns the username that owns roomID, if it exists.
	Teacher(roomID string) (teacher string, ok bool)
	// Participants lists roomID's current student participants in join
	// order, for the refresh response's roster.
	Participants(roomID string) []protocol.Participant
	// StudentUsernames lists the usernames of roomID's current student
	// participants, for notify's fan-out.
	StudentUsernames(roomID string) []string
	// RemoveRoom deletes roomID and its participant roster, if present.
	// Reports whether a room was actually removed, for logout's cleanup.
	RemoveRoom(roomID string) bool
}
