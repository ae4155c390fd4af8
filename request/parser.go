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

package request

import (
	"strconv"
	"strings"
)

const crlfcrlf = "\r\n\r\n"

// Parse reads one HTTP request out of buf. buf must contain the full
// header block, terminated by a blank line; a buffer with no terminator
// is treated as oversized and rejected with FailureBadRequest. Parse
// never retains a slice of buf: every string field is copied.
func Parse(buf []byte) (*Request, Failure) {
	raw := string(buf)

	end := strings.Index(raw, crlfcrlf)
	if end < 0 {
		return nil, FailureBadRequest
	}

	lines := strings.Split(raw[:end], "\r\n")
	if len(lines) == 0 {
		return nil, FailureBadRequest
	}

	tokens := strings.Split(lines[0], " ")
	if len(tokens) != 3 {
		return nil, FailureBadRequest
	}

	req := &Request{
		Method:  copyString(tokens[0]),
		Target:  copyString(tokens[1]),
		Version: copyString(tokens[2]),
	}

	if req.Version != "HTTP/1.0" && req.Version != "HTTP/1.1" {
		return nil, FailureVersionNotSupported
	}

	for _, line := range lines[1:] {
		name, value, ok := splitHeader(line)
		if !ok {
			continue
		}
		applyHeader(req, name, value)
	}

	if req.Version == "HTTP/1.1" && req.Host == "" {
		return nil, FailureBadRequest
	}

	if !isSafePath(req.Target) {
		return nil, FailureForbidden
	}

	return req, FailureNone
}

func splitHeader(line string) (name, value string, ok bool) {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return "", "", false
	}

	name = strings.ToLower(strings.TrimSpace(line[:i]))
	value = line[i+1:]
	value = strings.TrimPrefix(value, " ")

	return name, value, true
}

func applyHeader(req *Request, name, value string) {
	switch name {
	case "host":
		req.Host = copyString(value)
	case "connection":
		req.Connection = copyString(strings.ToLower(value))
	case "if-none-match":
		req.IfNoneMatch = parseETag(value)
	case "if-modified-since":
		req.IfModifiedSince = copyString(value)
	case "upgrade-insecure-requests":
		req.UpgradeInsecureRequests = value == "1"
	case "range":
		if rg, ok := parseRange(value); ok {
			req.HasRange = true
			req.Range = rg
		}
	}
}

// parseETag unquotes an If-None-Match value and parses it as an unsigned
// decimal. A malformed value yields zero, meaning "no validator
// supplied", per the parser's contract.
func parseETag(value string) uint32 {
	value = strings.Trim(value, "\"")
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

// parseRange recognizes "bytes=start-end", "bytes=start-" and
// "bytes=-suffix". Any other form leaves the request non-partial.
func parseRange(value string) (Range, bool) {
	const prefix = "bytes="
	if !strings.HasPrefix(value, prefix) {
		return Range{}, false
	}

	spec := strings.TrimPrefix(value, prefix)
	dash := strings.IndexByte(spec, '-')
	if dash < 0 {
		return Range{}, false
	}

	startPart, endPart := spec[:dash], spec[dash+1:]

	if startPart == "" {
		suffix, err := strconv.ParseInt(endPart, 10, 64)
		if err != nil || suffix < 0 {
			return Range{}, false
		}
		return Range{Start: -suffix, End: EndUnspecified}, true
	}

	start, err := strconv.ParseInt(startPart, 10, 64)
	if err != nil || start < 0 {
		return Range{}, false
	}

	if endPart == "" {
		return Range{Start: start, End: EndUnspecified}, true
	}

	end, err := strconv.ParseInt(endPart, 10, 64)
	if err != nil || end < 0 {
		return Range{}, false
	}

	return Range{Start: start, End: end}, true
}

// isSafePath rejects directory traversal, doubled separators and embedded
// NUL bytes in a request target.
func isSafePath(target string) bool {
	return !strings.Contains(target, "..") &&
		!strings.Contains(target, "//") &&
		!strings.ContainsRune(target, 0)
}

func copyString(s string) string {
	b := make([]byte, len(s))
	copy(b, s)
	return string(b)
}
