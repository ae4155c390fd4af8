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

package response

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const httpDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// Meta carries every field that can appear in a response's header block.
// Zero-value optional fields (empty string) are omitted from the output.
type Meta struct {
	Status        int
	ContentType   string
	ContentLength int64
	ETag          string
	LastModified  string
	ContentRange  string
	Location      string
	Allow         string
	KeepAlive     bool
}

// WriteHeaders writes m's status line and header block, terminated by a
// blank line, in the fixed order this module always uses.
func WriteHeaders(w io.Writer, m Meta) error {
	var b strings.Builder

	b.WriteString("HTTP/1.1 ")
	b.WriteString(strconv.Itoa(m.Status))
	b.WriteByte(' ')
	b.WriteString(ReasonPhrase(m.Status))
	b.WriteString("\r\n")

	if m.ContentType != "" {
		fmt.Fprintf(&b, "Content-Type: %s\r\n", m.ContentType)
	}

	fmt.Fprintf(&b, "Content-Length: %d\r\n", m.ContentLength)
	b.WriteString("Accept-Ranges: bytes\r\n")
	fmt.Fprintf(&b, "Date: %s\r\n", formatHTTPDate(time.Now()))
	fmt.Fprintf(&b, "Server: %s\r\n", ServerToken)

	if m.ETag != "" {
		fmt.Fprintf(&b, "ETag: \"%s\"\r\n", m.ETag)
	}
	if m.LastModified != "" {
		fmt.Fprintf(&b, "Last-Modified: %s\r\n", m.LastModified)
	}
	if m.ContentRange != "" {
		fmt.Fprintf(&b, "Content-Range: %s\r\n", m.ContentRange)
	}
	if m.Location != "" {
		fmt.Fprintf(&b, "Location: %s\r\n", m.Location)
	}
	if m.Allow != "" {
		fmt.Fprintf(&b, "Allow: %s\r\n", m.Allow)
	}

	if m.KeepAlive {
		b.WriteString("Connection: keep-alive\r\n")
	} else {
		b.WriteString("Connection: close\r\n")
	}

	b.WriteString("\r\n")

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return classifyWriteError(err)
	}
	return nil
}

func formatHTTPDate(t time.Time) string {
	return t.UTC().Format(httpDateLayout)
}
