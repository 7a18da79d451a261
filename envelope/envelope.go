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

// Package envelope encodes and decodes the length-prefixed wire frame
// shared by every LB<->Application Server connection:
//
//	[u32 total_len][u8 cid_len][cid bytes][payload bytes]
//
// The Framer is stateless: the same Encode/Decode pair is reused on every
// backend connection, only the configured size cap varies.
package envelope

import (
	"encoding/binary"
	"io"

	liberr "github.com/n4rclss/classfabric/errors"
)

// DefaultMaxFrame is the default total_len cap (10 MiB) applied when a
// Framer is built with NewFramer(0).
const DefaultMaxFrame = 10 << 20

// MaxClientIDLen is the hard ceiling on cid_len: it is a single byte on
// the wire, so it can never exceed 255 regardless of configuration.
const MaxClientIDLen = 255

const lengthPrefixSize = 4

// Framer encodes/decodes envelopes under a configured maximum frame size.
type Framer struct {
	maxFrame uint32
}

// NewFramer returns a Framer capping total_len at maxFrame bytes. A
// maxFrame of 0 selects DefaultMaxFrame.
func NewFramer(maxFrame uint32) Framer {
	if maxFrame == 0 {
		maxFrame = DefaultMaxFrame
	}
	return Framer{maxFrame: maxFrame}
}

// Encode builds the wire representation of (clientID, payload).
func (f Framer) Encode(clientID string, payload []byte) ([]byte, error) {
	if len(clientID) > MaxClientIDLen {
		return nil, ErrOversizedField.Errorf("client id length %d exceeds %d", len(clientID), MaxClientIDLen)
	}

	total := 1 + len(clientID) + len(payload)
	if uint32(total) > f.maxFrame {
		return nil, ErrOversizedField.Errorf("frame length %d exceeds configured cap %d", total, f.maxFrame)
	}

	buf := make([]byte, lengthPrefixSize+total)
	binary.BigEndian.PutUint32(buf[0:4], uint32(total))
	buf[4] = byte(len(clientID))
	copy(buf[5:5+len(clientID)], clientID)
	copy(buf[5+len(clientID):], payload)

	return buf, nil
}

// Decode reads exactly one envelope from r, returning its client id and
// payload. It returns ErrTruncated on a short read, and ErrOversizedFrame
// when the advertised total_len exceeds the configured cap.
func (f Framer) Decode(r io.Reader) (clientID string, payload []byte, err error) {
	var lenBuf [lengthPrefixSize]byte
	if _, err = io.ReadFull(r, lenBuf[:]); err != nil {
		return "", nil, wrapReadErr(err)
	}

	total := binary.BigEndian.Uint32(lenBuf[:])
	if total > f.maxFrame {
		return "", nil, ErrOversizedFrame.Errorf("advertised frame length %d exceeds cap %d", total, f.maxFrame)
	}
	if total < 1 {
		return "", nil, ErrTruncated.Errorf("frame length %d too small to hold cid_len", total)
	}

	body := make([]byte, total)
	if _, err = io.ReadFull(r, body); err != nil {
		return "", nil, wrapReadErr(err)
	}

	cidLen := int(body[0])
	if 1+cidLen > len(body) {
		return "", nil, ErrTruncated.Errorf("cid_len %d exceeds remaining frame of %d bytes", cidLen, len(body)-1)
	}

	clientID = string(body[1 : 1+cidLen])
	payload = body[1+cidLen:]
	return clientID, payload, nil
}

// wrapReadErr wraps a short-read failure from the transport (a clean peer
// close or a mid-frame truncation alike) as a truncated-frame error.
func wrapReadErr(err error) liberr.Error {
	return ErrTruncated.Error(err)
}
