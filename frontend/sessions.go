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

package frontend

import (
	"net"
	"sync"
)

// ClientSessions is the LB's live client_id -> socket table. A backend
// reader task consults it to deliver a server->client payload; the
// accept loop registers and removes entries as clients connect and
// disconnect.
type ClientSessions struct {
	mu       sync.RWMutex
	sessions map[string]net.Conn
}

// NewClientSessions returns an empty session table.
func NewClientSessions() *ClientSessions {
	return &ClientSessions{sessions: make(map[string]net.Conn)}
}

func (s *ClientSessions) add(clientID string, conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[clientID] = conn
}

func (s *ClientSessions) remove(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, clientID)
}

// WriteToClient implements backend.ClientWriter: it looks up clientID and
// writes payload to its socket. ok=false means the client is no longer
// connected; the caller should drop the payload rather than treat it as
// a failure.
func (s *ClientSessions) WriteToClient(clientID string, payload []byte) (ok bool, err error) {
	s.mu.RLock()
	conn, found := s.sessions[clientID]
	s.mu.RUnlock()

	if !found {
		return false, nil
	}
	if _, err = conn.Write(payload); err != nil {
		return true, err
	}
	return true, nil
}

// Count returns the number of currently tracked client sessions.
func (s *ClientSessions) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CloseAll closes every tracked client socket, used on LB shutdown. It
// does not drain in-flight reads; sockets are closed immediately.
func (s *ClientSessions) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, conn := range s.sessions {
		_ = conn.Close()
		delete(s.sessions, id)
	}
}
