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

// Failure is the compact kind a parse stage returns instead of an error
// value; the handler maps it to a numeric status at a single emission
// point. FailureNone means parsing succeeded.
type Failure uint8

const (
	FailureNone Failure = iota
	FailureBadRequest
	FailureForbidden
	FailureVersionNotSupported
)

// Status returns the HTTP status code this failure kind is mapped to.
// FailureNone has no status of its own; callers must not ask for it.
func (f Failure) Status() int {
	switch f {
	case FailureBadRequest:
		return 400
	case FailureForbidden:
		return 403
	case FailureVersionNotSupported:
		return 505
	default:
		return 0
	}
}
