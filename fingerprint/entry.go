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

// Package fingerprint builds and serves the content cache the acceptor
// refreshes on a timer: a point-in-time snapshot of every regular file
// under the web root, keyed by a hash of its path, carrying a content hash
// and a Last-Modified string the handler uses for conditional requests.
package fingerprint

import "time"

// httpDateLayout is the single canonical GMT form every Last-Modified and
// Date header in this module uses. The handler compares If-Modified-Since
// against it as plain strings; because the form starts with the weekday
// name, lexicographic order is not temporal order.
const httpDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// Entry is one cacheable file. It is immutable after construction; the
// Tree that produced it owns its lifetime.
type Entry struct {
	path         string
	contentHash  uint32
	pathHash     uint32
	lastModified string
}

// Path returns the entry's absolute filesystem path.
func (e *Entry) Path() string {
	return e.path
}

// ContentHash returns the 32-bit additive content hash, used as a weak
// ETag value.
func (e *Entry) ContentHash() uint32 {
	return e.contentHash
}

// PathHash returns the entry's key in its owning Tree.
func (e *Entry) PathHash() uint32 {
	return e.pathHash
}

// LastModified returns the file's modification time formatted as an
// HTTP-date string in UTC.
func (e *Entry) LastModified() string {
	return e.lastModified
}

func formatHTTPDate(t time.Time) string {
	return t.UTC().Format(httpDateLayout)
}
