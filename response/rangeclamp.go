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

// ClampedRange is a byte range resolved against a concrete file size,
// ready to drive Seek/read arithmetic.
type ClampedRange struct {
	Start int64
	End   int64
}

// ClampRange resolves a parsed (start, end) pair against a file of size
// n bytes. end == -1 means open-ended; start < 0 means a suffix range of
// length -start. ok is false when the range cannot be satisfied, in
// which case the caller must emit 416.
func ClampRange(start, end, n int64) (ClampedRange, bool) {
	switch {
	case start < 0:
		suffix := -start
		start = n - suffix
		if start < 0 {
			start = 0
		}
		end = n - 1
	case end < 0:
		end = n - 1
	default:
		if end > n-1 {
			end = n - 1
		}
	}

	if start >= n || end < start {
		return ClampedRange{}, false
	}

	return ClampedRange{Start: start, End: end}, true
}

// Length returns the number of bytes a clamped range covers.
func (c ClampedRange) Length() int64 {
	return c.End - c.Start + 1
}
