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

// Package protocol defines the JSON request packets the dispatcher
// recognizes on the LB<->Server hop and the schema each type validates
// against. Every packet is schema-closed: additional fields are rejected
// at decode time rather than silently ignored.
package protocol

// Type discriminates the request catalogue.
type Type string

const (
	TypeLogin       Type = "login"
	TypeLogout      Type = "logout"
	TypeCreateRoom  Type = "create_room"
	TypeJoinRoom    Type = "join_room"
	TypeRefresh     Type = "refresh"
	TypeNotify      Type = "notify"
	TypeStreaming   Type = "streaming"
	TypeScreenData  Type = "screen_data"
	TypeRequestApp  Type = "request_app"
	TypeReturnApp   Type = "return_app"
)

// Envelope is decoded first, just far enough to learn the type tag
// before picking the concrete packet struct to strictly decode into.
type Envelope struct {
	Type Type `json:"type"`
}

type Login struct {
	Type     Type   `json:"type" validate:"required,eq=login"`
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=1"`
	Role     string `json:"role" validate:"required,oneof=teacher student"`
}

type Logout struct {
	Type    Type   `json:"type" validate:"required,eq=logout"`
	Teacher string `json:"teacher" validate:"required,min=1"`
	RoomID  string `json:"room_id" validate:"required,min=1"`
}

type CreateRoom struct {
	Type    Type   `json:"type" validate:"required,eq=create_room"`
	RoomID  string `json:"room_id" validate:"required,min=1"`
	Teacher string `json:"teacher" validate:"required,min=1"`
}

type JoinRoom struct {
	Type        Type   `json:"type" validate:"required,eq=join_room"`
	RoomID      string `json:"room_id" validate:"required,min=1"`
	Username    string `json:"username" validate:"required,min=1"`
	MSSV        string `json:"mssv" validate:"required,min=1"`
	StudentName string `json:"student_name" validate:"required,min=1"`
}

type Refresh struct {
	Type   Type   `json:"type" validate:"required,eq=refresh"`
	RoomID string `json:"room_id" validate:"required,min=1"`
}

type Notify struct {
	Type        Type   `json:"type" validate:"required,eq=notify"`
	RoomID      string `json:"room_id" validate:"required,min=1"`
	NotiMessage string `json:"noti_message" validate:"required,min=1"`
}

type Streaming struct {
	Type           Type   `json:"type" validate:"required,eq=streaming"`
	TargetUsername string `json:"target_username" validate:"required,min=1"`
}

type ScreenData struct {
	Type           Type   `json:"type" validate:"required,eq=screen_data"`
	ImageData      string `json:"image_data" validate:"required,min=1"`
	SenderClientID string `json:"sender_client_id" validate:"required,min=1"`
}

type RequestApp struct {
	Type           Type   `json:"type" validate:"required,eq=request_app"`
	TargetUsername string `json:"target_username" validate:"required,min=1"`
}

// RunningApp is one element of ReturnApp.AppData.
type RunningApp struct {
	ProcessName     string `json:"process_name" validate:"required,min=1"`
	MainWindowTitle string `json:"main_window_title" validate:"required,min=1"`
}

type ReturnApp struct {
	Type           Type         `json:"type" validate:"required,eq=return_app"`
	SenderClientID string       `json:"sender_client_id" validate:"required,min=1"`
	AppData        []RunningApp `json:"app_data" validate:"required,dive"`
}
