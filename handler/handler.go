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

// Package handler drives the per-connection state machine spec.md §4.3
// describes: read, parse, upgrade-check, method dispatch, path resolve,
// cache probe, conditional evaluate, open, serve, close. It is the one
// place that wires request, response, fingerprint and mimetype together;
// every exit path closes the connection, and every path except a failed
// or empty read first emits exactly one response.
package handler

import (
	"net"
	"os"
	"strconv"

	"github.com/sabouaram/snapd/fingerprint"
	"github.com/sabouaram/snapd/logging"
	"github.com/sabouaram/snapd/mimetype"
	"github.com/sabouaram/snapd/request"
	"github.com/sabouaram/snapd/response"
)

// Options is the immutable, shared configuration every Handle call reads.
type Options struct {
	Webroot        string
	MaxRequestSize int
	Resolver       *mimetype.Resolver
}

// Conn bundles the accepted socket with the protocol metadata the handler
// needs but does not own: whether it arrived over TLS (gates ETag emission
// and the insecure-upgrade redirect) and the peer address (for logging).
type Conn struct {
	Conn net.Conn
	TLS  bool
	Peer string
}

// Handle runs one request to completion against tree and closes c.Conn on
// every exit path, matching spec.md §4.3's terminal-state guarantee. It
// never panics and never returns an error. A failed or empty read closes
// the connection without a response; every other failure is mapped to an
// HTTP status and written to the client before the connection closes.
func Handle(c Conn, tree *fingerprint.Tree, opts Options, log logging.Entry) {
	defer func() { _ = c.Conn.Close() }()

	buf := make([]byte, opts.MaxRequestSize)
	n, rerr := c.Conn.Read(buf)
	if rerr != nil || n == 0 {
		return
	}
	if n >= opts.MaxRequestSize {
		writeError(c, log, 400, false)
		return
	}

	req, fail := request.Parse(buf[:n])
	if fail != request.FailureNone {
		writeError(c, log, fail.Status(), false)
		return
	}

	if !c.TLS && req.UpgradeInsecureRequests {
		writeRedirect(c, log, req)
		return
	}

	switch req.Method {
	case "GET", "HEAD":
		serveFile(c, log, req, tree, opts)
	case "OPTIONS":
		writeOptions(c, log, req)
	default:
		writeError(c, log, 501, req.KeepAlive())
	}
}

func serveFile(c Conn, log logging.Entry, req *request.Request, tree *fingerprint.Tree, opts Options) {
	path, ok := resolvePath(opts.Webroot, req.Target)
	if !ok {
		writeError(c, log, 403, req.KeepAlive())
		return
	}

	entry, hit := tree.Lookup(path)

	if hit && conditionalMatch(req, entry) {
		writeNotModified(c, log, req, entry)
		return
	}

	f, operr := os.Open(path)
	if operr != nil {
		writeError(c, log, openErrorStatus(operr), req.KeepAlive())
		return
	}
	defer func() { _ = f.Close() }()

	info, serr := f.Stat()
	if serr != nil {
		writeError(c, log, 500, req.KeepAlive())
		return
	}

	contentType := opts.Resolver.Resolve(path)
	size := info.Size()

	var lastModified string
	var etag string
	if hit {
		lastModified = entry.LastModified()
		if !c.TLS {
			etag = strconv.FormatUint(uint64(entry.ContentHash()), 10)
		}
	}

	if req.HasRange {
		serveRange(c, log, req, f, size, contentType, etag, lastModified)
		return
	}

	meta := response.Meta{
		Status:        200,
		ContentType:   contentType,
		ContentLength: size,
		ETag:          etag,
		LastModified:  lastModified,
		KeepAlive:     req.KeepAlive(),
	}

	if werr := response.WriteHeaders(c.Conn, meta); werr != nil {
		logWriteOutcome(log, "write headers failed", werr)
		return
	}

	if req.Method == "HEAD" {
		return
	}

	if werr := response.ServeBody(c.Conn, f, size); werr != nil {
		logWriteOutcome(log, "write body failed", werr)
	}
}

func serveRange(c Conn, log logging.Entry, req *request.Request, f *os.File, size int64, contentType, etag, lastModified string) {
	clamped, ok := response.ClampRange(req.Range.Start, req.Range.End, size)
	if !ok {
		meta := response.Meta{
			Status:        416,
			ContentLength: 0,
			ContentRange:  response.UnsatisfiableContentRange(size),
			KeepAlive:     req.KeepAlive(),
		}
		if werr := response.WriteHeaders(c.Conn, meta); werr != nil {
			logWriteOutcome(log, "write headers failed", werr)
		}
		return
	}

	if _, serr := f.Seek(clamped.Start, 0); serr != nil {
		writeError(c, log, 500, req.KeepAlive())
		return
	}

	meta := response.Meta{
		Status:        206,
		ContentType:   contentType,
		ContentLength: clamped.Length(),
		ETag:          etag,
		LastModified:  lastModified,
		ContentRange:  response.PartialContentRange(clamped, size),
		KeepAlive:     req.KeepAlive(),
	}

	if werr := response.WriteHeaders(c.Conn, meta); werr != nil {
		logWriteOutcome(log, "write headers failed", werr)
		return
	}

	if req.Method == "HEAD" {
		return
	}

	if werr := response.ServeBody(c.Conn, f, clamped.Length()); werr != nil {
		logWriteOutcome(log, "write body failed", werr)
	}
}

// conditionalMatch implements spec.md §4.3 step 7 exactly: either
// validator, alone, is sufficient to answer 304. No defense against a
// coincidental 32-bit hash collision is added here; spec.md §9 asks that
// this weak-validator semantics not be changed silently.
func conditionalMatch(req *request.Request, entry *fingerprint.Entry) bool {
	if req.IfNoneMatch != 0 && req.IfNoneMatch == entry.ContentHash() {
		return true
	}
	if req.IfModifiedSince != "" && req.IfModifiedSince >= entry.LastModified() {
		return true
	}
	return false
}

func writeNotModified(c Conn, log logging.Entry, req *request.Request, entry *fingerprint.Entry) {
	var etag string
	if !c.TLS {
		etag = strconv.FormatUint(uint64(entry.ContentHash()), 10)
	}

	meta := response.Meta{
		Status:       304,
		ETag:         etag,
		LastModified: entry.LastModified(),
		KeepAlive:    req.KeepAlive(),
	}

	if werr := response.WriteHeaders(c.Conn, meta); werr != nil {
		logWriteOutcome(log, "write headers failed", werr)
	}
}

func writeOptions(c Conn, log logging.Entry, req *request.Request) {
	meta := response.Meta{
		Status:    200,
		Allow:     "GET, HEAD, OPTIONS",
		KeepAlive: req.KeepAlive(),
	}

	if werr := response.WriteHeaders(c.Conn, meta); werr != nil {
		logWriteOutcome(log, "write headers failed", werr)
	}
}

func writeRedirect(c Conn, log logging.Entry, req *request.Request) {
	meta := response.Meta{
		Status:    301,
		Location:  "https://" + req.Host + req.Target,
		KeepAlive: false,
	}

	if werr := response.WriteHeaders(c.Conn, meta); werr != nil {
		logWriteOutcome(log, "write headers failed", werr)
	}
}

func writeError(c Conn, log logging.Entry, code int, keepAlive bool) {
	body := response.ErrorPage(code)

	meta := response.Meta{
		Status:        code,
		ContentType:   "text/html",
		ContentLength: int64(len(body)),
		KeepAlive:     keepAlive,
	}

	if werr := response.WriteHeaders(c.Conn, meta); werr != nil {
		logWriteOutcome(log, "write headers failed", werr)
		return
	}

	if _, werr := c.Conn.Write(body); werr != nil {
		logWriteOutcome(log, "write error body failed", werr)
	}
}

func openErrorStatus(err error) int {
	switch {
	case os.IsNotExist(err):
		return 404
	case os.IsPermission(err):
		return 403
	default:
		return 500
	}
}

func logWriteOutcome(log logging.Entry, msg string, err error) {
	if log == nil {
		return
	}
	if response.IsNormalTermination(err) {
		log.Info(msg + ": client disconnected")
		return
	}
	log.Error(msg, err)
}
