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
	"sync"

	"github.com/n4rclss/classfabric/protocol"
)

// MemoryStore is a single in-process AuthStore + RoomStore, seeded with a
// fixed teacher/student pair. It is a reference collaborator for a
// standalone deployment or for tests, not a production credential or
// room store.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]memUser
	rooms map[string]*memRoom
}

type memUser struct {
	password string
	role     string
}

type memRoom struct {
	teacher  string
	order    []string
	students map[string]protocol.Participant
}

// NewMemoryStore seeds the directory with one teacher and one student,
// matching the reference server's default accounts.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: map[string]memUser{
			"teacher1": {password: "teach123", role: "teacher"},
			"student1": {password: "stu456", role: "student"},
		},
		rooms: make(map[string]*memRoom),
	}
}

// Authenticate implements AuthStore.
func (m *MemoryStore) Authenticate(username, password, role string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[username]
	return ok && u.password == password && u.role == role
}

// AddUser registers an additional credential, for tests or alternate
// seed data.
func (m *MemoryStore) AddUser(username, password, role string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[username] = memUser{password: password, role: role}
}

// CreateRoom implements RoomStore.
func (m *MemoryStore) CreateRoom(roomID, teacher string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[roomID] = &memRoom{
		teacher:  teacher,
		students: make(map[string]protocol.Participant),
	}
}

// JoinRoom implements RoomStore.
func (m *MemoryStore) JoinRoom(roomID, username, mssv, studentName string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return false
	}
	if _, exists := room.students[username]; !exists {
		room.order = append(room.order, username)
	}
	room.students[username] = protocol.Participant{
		Username:    username,
		StudentName: studentName,
		MSSV:        mssv,
	}
	return true
}

// Teacher implements RoomStore.
func (m *MemoryStore) Teacher(roomID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return "", false
	}
	return room.teacher, true
}

// Participants implements RoomStore.
func (m *MemoryStore) Participants(roomID string) []protocol.Participant {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return nil
	}
	out := make([]protocol.Participant, 0, len(room.order))
	for _, username := range room.order {
		out = append(out, room.students[username])
	}
	return out
}

// StudentUsernames implements RoomStore.
func (m *MemoryStore) StudentUsernames(roomID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return nil
	}
	out := make([]string, len(room.order))
	copy(out, room.order)
	return out
}

// RemoveRoom implements RoomStore.
func (m *MemoryStore) RemoveRoom(roomID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[roomID]; !ok {
		return false
	}
	delete(m.rooms, roomID)
	return true
}
