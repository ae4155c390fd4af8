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

// Package mimetype resolves a file extension to the media type written in
// a Content-Type header. It is one of the small external collaborators
// this module plugs into the handler rather than folding into it: a
// system mappings file (the same shape as /etc/mime.types) is loaded once
// at startup into a value-owning table, sidestepping the shared-pointer
// aliasing that a naive extension-to-type hash table invites.
package mimetype

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// DefaultContentType is returned for any extension absent from both the
// loaded table and the fallback table.
const DefaultContentType = "application/octet-stream"

// Resolver maps a lowercased file extension (without its leading dot) to
// a media type. It is immutable after construction and safe for
// concurrent use.
type Resolver struct {
	byExt map[string]string
}

// New builds a Resolver from the built-in fallback table alone. Useful
// when no system mappings file is configured.
func New() *Resolver {
	return &Resolver{byExt: cloneFallback()}
}

// Load builds a Resolver from a mappings file in the conventional
// "type/subtype ext1 ext2 ..." format, one record per line, '#' starting
// a comment. Entries from the file override the built-in fallback table.
func Load(path string) (*Resolver, error) {
	if path == "" {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ErrorMappingsOpen.Error(err)
	}
	defer func() { _ = f.Close() }()

	r := &Resolver{byExt: cloneFallback()}
	if err := r.parse(f); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Resolver) parse(rd io.Reader) error {
	sc := bufio.NewScanner(rd)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		mediaType := fields[0]
		for _, ext := range fields[1:] {
			r.byExt[strings.ToLower(ext)] = mediaType
		}
	}

	return sc.Err()
}

// Resolve returns the media type for path's extension, or
// DefaultContentType if the extension is unknown or absent.
func (r *Resolver) Resolve(path string) string {
	ext := extensionOf(path)
	if ext == "" {
		return DefaultContentType
	}

	if mt, ok := r.byExt[ext]; ok {
		return mt
	}

	return DefaultContentType
}

func extensionOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 || i == len(path)-1 {
		return ""
	}

	// A dot with no following path separator and that is not the sole
	// leading character of a dotfile name is treated as an extension.
	if strings.IndexByte(path[i+1:], '/') >= 0 {
		return ""
	}
	if strings.LastIndexByte(path[:i], '/') == i-1 {
		return ""
	}

	return strings.ToLower(path[i+1:])
}

func cloneFallback() map[string]string {
	m := make(map[string]string, len(fallbackTable))
	for k, v := range fallbackTable {
		m[k] = v
	}
	return m
}
