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

package fingerprint

import "io"

// contentHashBlock is the read buffer size used while folding a file's
// bytes into its content hash.
const contentHashBlock = 32 * 1024

// hashContent seeds a 32-bit accumulator at 5381 and adds every byte of r
// in fixed-size blocks, matching the additive djb2 variant this cache uses
// to detect content changes between refreshes.
func hashContent(r io.Reader) (uint32, error) {
	var h uint32 = 5381
	buf := make([]byte, contentHashBlock)

	for {
		n, err := r.Read(buf)

		for i := 0; i < n; i++ {
			h += uint32(buf[i])
		}

		if err == io.EOF {
			return h, nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// hashPath folds path's characters with the multiplicative djb2 form,
// h = h*33 + c, seeded at 5381. This is the tree's lookup key.
func hashPath(path string) uint32 {
	var h uint32 = 5381

	for i := 0; i < len(path); i++ {
		h = h*33 + uint32(path[i])
	}

	return h
}
