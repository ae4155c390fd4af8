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

package handler

import (
	"path/filepath"
	"strings"
)

const (
	landingPath = "/landing.html"
	webpagesDir = "webpages"
)

// resolvePath maps a validated request target onto an absolute filesystem
// path under webroot/webpages, rewriting "/" to "/landing.html" per
// spec.md's filesystem layout. It re-validates the resolved path against
// traversal, independently of the parser's own check on the raw target:
// the resolved, joined path must still live under the webpages root.
func resolvePath(webroot, target string) (string, bool) {
	if target == "/" {
		target = landingPath
	}

	root := filepath.Join(webroot, webpagesDir)
	full := filepath.Join(root, filepath.Clean(target))

	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", false
	}

	return full, true
}
