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

package response_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/snapd/response"
)

var _ = Describe("WriteHeaders", func() {
	It("writes the status line, fixed headers, and a trailing blank line", func() {
		var buf bytes.Buffer
		err := response.WriteHeaders(&buf, response.Meta{
			Status:        200,
			ContentType:   "text/html",
			ContentLength: 42,
			KeepAlive:     true,
		})
		Expect(err).ToNot(HaveOccurred())

		out := buf.String()
		Expect(out).To(HavePrefix("HTTP/1.1 200 OK\r\n"))
		Expect(out).To(ContainSubstring("Content-Type: text/html\r\n"))
		Expect(out).To(ContainSubstring("Content-Length: 42\r\n"))
		Expect(out).To(ContainSubstring("Accept-Ranges: bytes\r\n"))
		Expect(out).To(ContainSubstring("Server: " + response.ServerToken + "\r\n"))
		Expect(out).To(ContainSubstring("Connection: keep-alive\r\n"))
		Expect(out).To(HaveSuffix("\r\n\r\n"))
	})

	It("omits optional headers when they are empty", func() {
		var buf bytes.Buffer
		err := response.WriteHeaders(&buf, response.Meta{Status: 304})
		Expect(err).ToNot(HaveOccurred())

		out := buf.String()
		Expect(out).ToNot(ContainSubstring("ETag"))
		Expect(out).ToNot(ContainSubstring("Content-Type"))
		Expect(out).ToNot(ContainSubstring("Location"))
		Expect(out).ToNot(ContainSubstring("Allow"))
	})

	It("quotes a present ETag and writes Connection: close when not keeping alive", func() {
		var buf bytes.Buffer
		err := response.WriteHeaders(&buf, response.Meta{
			Status:    200,
			ETag:      "123456",
			KeepAlive: false,
		})
		Expect(err).ToNot(HaveOccurred())

		out := buf.String()
		Expect(out).To(ContainSubstring(`ETag: "123456"` + "\r\n"))
		Expect(out).To(ContainSubstring("Connection: close\r\n"))
	})

	It("writes Content-Range for a 206 response", func() {
		var buf bytes.Buffer
		clamped, ok := response.ClampRange(0, 99, 1000)
		Expect(ok).To(BeTrue())

		err := response.WriteHeaders(&buf, response.Meta{
			Status:        206,
			ContentLength: clamped.Length(),
			ContentRange:  response.PartialContentRange(clamped, 1000),
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("Content-Range: bytes 0-99/1000\r\n"))
	})

	It("maps every status this module emits to a non-empty reason phrase", func() {
		for _, code := range []int{200, 206, 301, 304, 400, 403, 404, 416, 418, 500, 501, 505} {
			Expect(response.ReasonPhrase(code)).ToNot(BeEmpty())
		}
	})

	It("falls back to Unknown for an unrecognized status", func() {
		Expect(response.ReasonPhrase(999)).To(Equal("Unknown"))
	})

	It("renders an error page carrying the code, message and server token", func() {
		body := string(response.ErrorPage(404))
		Expect(body).To(ContainSubstring("404 Not Found"))
		Expect(body).To(ContainSubstring(response.ServerToken))
		Expect(strings.Count(body, "404")).To(Equal(2))
	})
})
