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

package protocol

// StatusSuccess and StatusError are the two values a response's "status"
// field may carry.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the minimal shape every dispatcher reply carries. Handlers
// that need extra fields (refresh's participant list, notify's offline
// list) embed Response and add their own JSON fields alongside it.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func Success(message string) Response {
	return Response{Status: StatusSuccess, Message: message}
}

func Error(message string) Response {
	return Response{Status: StatusError, Message: message}
}

// Participant is one row of a refresh response's participant list.
type Participant struct {
	Username    string `json:"username"`
	StudentName string `json:"student_name"`
	MSSV        string `json:"mssv"`
}

// RefreshResponse is the room-roster reply to a refresh request.
type RefreshResponse struct {
	Response
	Participants []Participant `json:"participants"`
}

// NotifyResponse reports, alongside success, which addressed
// participants were offline and therefore did not receive a push.
type NotifyResponse struct {
	Response
	Offline []string `json:"offline,omitempty"`
}
