/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package request turns one raw HTTP request buffer into an owned Request
// record, or a compact Failure the caller maps to a status code. No
// returned Request retains a pointer into the buffer it was parsed from.
package request

// Range is a parsed byte-range, covering the three forms the "Range:
// bytes=..." header is recognized in. Start holds a negative value only
// in the suffix form, where it carries -suffixLength. End holds
// EndUnspecified when the header did not supply an upper bound.
type Range struct {
	Start int64
	End   int64
}

// EndUnspecified marks an open-ended range ("bytes=500-").
const EndUnspecified int64 = -1

// Request is the owned, immutable result of a successful parse.
type Request struct {
	Method  string
	Target  string
	Version string

	Host                    string
	Connection              string
	IfNoneMatch             uint32
	IfModifiedSince         string
	UpgradeInsecureRequests bool

	HasRange bool
	Range    Range
}

// KeepAlive reports whether the client asked to keep the connection open.
// HTTP/1.1 defaults to keep-alive unless Connection: close was sent;
// HTTP/1.0 defaults to close unless Connection: keep-alive was sent.
func (r *Request) KeepAlive() bool {
	switch r.Connection {
	case "close":
		return false
	case "keep-alive":
		return true
	default:
		return r.Version == "HTTP/1.1"
	}
}
