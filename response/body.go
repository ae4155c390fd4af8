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
	"errors"
	"io"
	"syscall"
)

// bodyBufferSize is the fixed read/write block size the body transfer loop
// uses, regardless of how large the requested range is.
const bodyBufferSize = 64 * 1024

// ServeBody copies exactly n bytes from r (already seeked to the range's
// start offset) to w, reading and writing in fixed-size blocks. A read
// interrupted by EINTR is retried. A write that fails with ECONNRESET or
// EPIPE is reported through IsNormalTermination rather than surfaced as a
// fatal error: the bytes are already flowing to a client that has gone
// away, and video-seek clients abort mid-stream routinely.
func ServeBody(w io.Writer, r io.Reader, n int64) error {
	buf := make([]byte, bodyBufferSize)
	remaining := n

	for remaining > 0 {
		chunk := int64(len(buf))
		if remaining < chunk {
			chunk = remaining
		}

		rn, rerr := r.Read(buf[:chunk])
		if rn > 0 {
			if _, werr := w.Write(buf[:rn]); werr != nil {
				return classifyWriteError(werr)
			}
			remaining -= int64(rn)
		}

		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			if isEINTR(rerr) {
				continue
			}
			return ErrorWrite.Error(rerr)
		}
	}

	return nil
}

// IsNormalTermination reports whether err, as returned by WriteHeaders or
// ServeBody, wraps a client disconnect (ECONNRESET/EPIPE) that the caller
// should log and treat as a successful connection close rather than a
// fatal write failure.
func IsNormalTermination(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET)
}

func classifyWriteError(err error) error {
	return ErrorWrite.Error(err)
}

func isEINTR(err error) bool {
	return errors.Is(err, syscall.EINTR)
}
