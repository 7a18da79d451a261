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

// HandleLogin authenticates the caller and, on success, registers its
// client_id under its username in the Client Directory so pushes can
// later address it by name.
//
// A directory registration failure never fails an otherwise-successful
// login: the user is online and reachable by its own client_id, only
// unreachable by username-addressed push until the next registration.
// That failure is logged as a warning, not surfaced to the caller.
func HandleLogin(ctx *Context, packet interface{}) (interface{}, error) {
	req := packet.(*protocol.Login)

	if !ctx.Auth.Authenticate(req.Username, req.Password, req.Role) {
		return protocol.Error("Invalid credentials or role"), nil
	}

	if err := ctx.Directory.Register(req.Username, ctx.ClientID); err != nil {
		ctx.Log().Entry(liblog.WarnLevel, "directory registration failed after successful login").
			FieldAdd("username", req.Username).FieldAdd("client_id", ctx.ClientID).
			ErrorAdd(true, err).Log()
	}

	return protocol.Success("Login successful"), nil
}
