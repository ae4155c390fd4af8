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

package handler_test

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/snapd/fingerprint"
	"github.com/sabouaram/snapd/handler"
	"github.com/sabouaram/snapd/mimetype"
)

func writeWebroot(root string) {
	Expect(os.MkdirAll(filepath.Join(root, "webpages"), 0o755)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(root, "webpages", "landing.html"), bytes.Repeat([]byte("a"), 1024), 0o644)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(root, "webpages", "big.bin"), bytes.Repeat([]byte("b"), 10000), 0o644)).To(Succeed())
}

type roundTrip struct {
	status  int
	headers map[string]string
	body    []byte
}

func exchange(root string, tlsConn bool, raw string) roundTrip {
	tree, err := fingerprint.Build(root)
	Expect(err).ToNot(HaveOccurred())

	opts := handler.Options{
		Webroot:        root,
		MaxRequestSize: 64 * 1024,
		Resolver:       mimetype.New(),
	}

	server, client := net.Pipe()
	done := make(chan struct{})

	go func() {
		handler.Handle(handler.Conn{Conn: server, TLS: tlsConn, Peer: "127.0.0.1:0"}, tree, opts, nil)
		close(done)
	}()

	go func() {
		_, _ = io.WriteString(client, raw)
	}()

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	r := bufio.NewReader(client)

	statusLine, err := r.ReadString('\n')
	Expect(err).ToNot(HaveOccurred())

	fields := strings.Fields(statusLine)
	Expect(len(fields)).To(BeNumerically(">=", 2))
	status, err := strconv.Atoi(fields[1])
	Expect(err).ToNot(HaveOccurred())

	headers := map[string]string{}
	contentLength := -1
	for {
		line, err := r.ReadString('\n')
		Expect(err).ToNot(HaveOccurred())
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		i := strings.IndexByte(line, ':')
		name := strings.ToLower(strings.TrimSpace(line[:i]))
		val := strings.TrimSpace(line[i+1:])
		headers[name] = val
		if name == "content-length" {
			contentLength, _ = strconv.Atoi(val)
		}
	}

	var body []byte
	if contentLength > 0 {
		body = make([]byte, contentLength)
		_, err = io.ReadFull(r, body)
		Expect(err).ToNot(HaveOccurred())
	}

	_ = client.Close()
	<-done

	return roundTrip{status: status, headers: headers, body: body}
}

var _ = Describe("Handle", func() {
	var root string

	BeforeEach(func() {
		var err error
		root, err = os.MkdirTemp("", "handler-")
		Expect(err).ToNot(HaveOccurred())
		writeWebroot(root)
	})

	AfterEach(func() {
		Expect(os.RemoveAll(root)).To(Succeed())
	})

	It("serves the landing page for / with an ETag over plaintext", func() {
		rt := exchange(root, false, "GET / HTTP/1.1\r\nHost: x\r\n\r\n")
		Expect(rt.status).To(Equal(200))
		Expect(rt.headers["content-length"]).To(Equal("1024"))
		Expect(rt.headers).To(HaveKey("etag"))
		Expect(rt.body).To(HaveLen(1024))
	})

	It("omits the ETag over TLS", func() {
		rt := exchange(root, true, "GET / HTTP/1.1\r\nHost: x\r\n\r\n")
		Expect(rt.status).To(Equal(200))
		Expect(rt.headers).ToNot(HaveKey("etag"))
	})

	It("returns 304 when If-None-Match echoes the prior ETag", func() {
		first := exchange(root, false, "GET /landing.html HTTP/1.1\r\nHost: x\r\n\r\n")
		etag := first.headers["etag"]

		second := exchange(root, false, "GET /landing.html HTTP/1.1\r\nHost: x\r\nIf-None-Match: "+etag+"\r\n\r\n")
		Expect(second.status).To(Equal(304))
		Expect(second.body).To(BeEmpty())
	})

	It("serves a satisfiable byte range as 206", func() {
		rt := exchange(root, false, "GET /big.bin HTTP/1.1\r\nHost: x\r\nRange: bytes=0-99\r\n\r\n")
		Expect(rt.status).To(Equal(206))
		Expect(rt.headers["content-length"]).To(Equal("100"))
		Expect(rt.headers["content-range"]).To(Equal("bytes 0-99/10000"))
	})

	It("serves a suffix range as 206", func() {
		rt := exchange(root, false, "GET /big.bin HTTP/1.1\r\nHost: x\r\nRange: bytes=-200\r\n\r\n")
		Expect(rt.status).To(Equal(206))
		Expect(rt.headers["content-length"]).To(Equal("200"))
		Expect(rt.headers["content-range"]).To(Equal("bytes 9800-9999/10000"))
	})

	It("returns 416 for an unsatisfiable range", func() {
		rt := exchange(root, false, "GET /big.bin HTTP/1.1\r\nHost: x\r\nRange: bytes=20000-\r\n\r\n")
		Expect(rt.status).To(Equal(416))
		Expect(rt.headers["content-range"]).To(Equal("bytes */10000"))
	})

	It("returns 403 for a path traversal attempt", func() {
		rt := exchange(root, false, "GET /../etc/passwd HTTP/1.1\r\nHost: x\r\n\r\n")
		Expect(rt.status).To(Equal(403))
	})

	It("returns 501 for an unsupported method", func() {
		rt := exchange(root, false, "POST / HTTP/1.1\r\nHost: x\r\n\r\n")
		Expect(rt.status).To(Equal(501))
	})

	It("returns 505 for an unrecognized protocol version", func() {
		rt := exchange(root, false, "GET / HTTP/0.9\r\n\r\n")
		Expect(rt.status).To(Equal(505))
	})

	It("returns 404 for a missing file", func() {
		rt := exchange(root, false, "GET /missing.html HTTP/1.1\r\nHost: x\r\n\r\n")
		Expect(rt.status).To(Equal(404))
	})

	It("answers OPTIONS with the fixed Allow header and no body", func() {
		rt := exchange(root, false, "OPTIONS / HTTP/1.1\r\nHost: x\r\n\r\n")
		Expect(rt.status).To(Equal(200))
		Expect(rt.headers["allow"]).To(Equal("GET, HEAD, OPTIONS"))
		Expect(rt.body).To(BeEmpty())
	})

	It("redirects a plaintext upgrade-insecure-requests GET to https", func() {
		rt := exchange(root, false, "GET /landing.html HTTP/1.1\r\nHost: x\r\nUpgrade-Insecure-Requests: 1\r\n\r\n")
		Expect(rt.status).To(Equal(301))
		Expect(rt.headers["location"]).To(Equal("https://x/landing.html"))
	})

	It("sends headers only, no body, for HEAD", func() {
		rt := exchange(root, false, "HEAD /landing.html HTTP/1.1\r\nHost: x\r\n\r\n")
		Expect(rt.status).To(Equal(200))
		Expect(rt.headers["content-length"]).To(Equal("1024"))
		Expect(rt.body).To(BeEmpty())
	})
})
