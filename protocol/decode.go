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

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	liberr "github.com/n4rclss/classfabric/errors"
)

var (
	ErrMalformed        = liberr.Register(4001, "payload is not a well-formed JSON request object")
	ErrUnknownType      = liberr.Register(4002, "unrecognized request type")
	ErrSchemaValidation = liberr.Register(4003, "request failed schema validation")
)

var validate = validator.New()

// factories maps a type tag to a constructor for its concrete packet.
var factories = map[Type]func() interface{}{
	TypeLogin:      func() interface{} { return &Login{} },
	TypeLogout:     func() interface{} { return &Logout{} },
	TypeCreateRoom: func() interface{} { return &CreateRoom{} },
	TypeJoinRoom:   func() interface{} { return &JoinRoom{} },
	TypeRefresh:    func() interface{} { return &Refresh{} },
	TypeNotify:     func() interface{} { return &Notify{} },
	TypeStreaming:  func() interface{} { return &Streaming{} },
	TypeScreenData: func() interface{} { return &ScreenData{} },
	TypeRequestApp: func() interface{} { return &RequestApp{} },
	TypeReturnApp:  func() interface{} { return &ReturnApp{} },
}

// Decode parses payload as a UTF-8 JSON object, looks up its "type" tag,
// strictly decodes it into the matching packet struct (rejecting unknown
// fields), then validates it against that packet's schema. The returned
// value is always a pointer to one of the structs in packets.go.
func Decode(payload []byte) (Type, interface{}, error) {
	var peek Envelope
	if err := json.Unmarshal(payload, &peek); err != nil {
		return "", nil, ErrMalformed.Error(err)
	}
	if peek.Type == "" {
		return "", nil, ErrMalformed.Errorf("missing required field: type")
	}

	factory, ok := factories[peek.Type]
	if !ok {
		return peek.Type, nil, ErrUnknownType.Errorf("Unknown request type: %s", peek.Type)
	}

	packet := factory()

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(packet); err != nil {
		return peek.Type, nil, ErrMalformed.Error(err)
	}

	if err := validate.Struct(packet); err != nil {
		return peek.Type, nil, ErrSchemaValidation.Error(err)
	}

	return peek.Type, packet, nil
}

// UnknownTypeMessage formats the exact error string the dispatcher
// returns to the caller for an unrecognized type, matching the original
// implementation's wording.
func UnknownTypeMessage(t Type) string {
	return fmt.Sprintf("Unknown request type: %s", t)
}
