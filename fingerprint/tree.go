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

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// excludedSubstring marks the large-media opt-out: any path containing it
// is skipped during a walk, never indexed and never served from cache.
const excludedSubstring = "/videos/"

// Tree is an ordered, read-only snapshot of the web root. A Tree is safe
// for concurrent Lookup by any number of goroutines; it never changes
// after Build returns it.
type Tree struct {
	root    string
	entries []*Entry
}

// Build walks root recursively and returns a fresh Tree. Paths containing
// excludedSubstring are skipped entirely. Entries are ordered by path
// hash; when two distinct paths collide on path hash, the first one
// encountered during the walk wins and the later one is dropped.
func Build(root string) (*Tree, error) {
	if root == "" {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	t := &Tree{root: root}
	seen := make(map[uint32]struct{})

	werr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.Contains(path, excludedSubstring) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, ierr := d.Info()
		if ierr != nil {
			return ierr
		}

		abs, aerr := filepath.Abs(path)
		if aerr != nil {
			return aerr
		}

		ph := hashPath(abs)
		if _, dup := seen[ph]; dup {
			return nil
		}

		ch, herr := hashFile(path)
		if herr != nil {
			return herr
		}

		seen[ph] = struct{}{}
		t.entries = append(t.entries, &Entry{
			path:         abs,
			contentHash:  ch,
			pathHash:     ph,
			lastModified: formatHTTPDate(info.ModTime()),
		})

		return nil
	})

	if werr != nil {
		return nil, ErrorWebRootWalk.Error(werr)
	}

	sort.Slice(t.entries, func(i, j int) bool {
		return t.entries[i].pathHash < t.entries[j].pathHash
	})

	return t, nil
}

func hashFile(path string) (uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, ErrorFileOpen.Error(err)
	}
	defer func() { _ = f.Close() }()

	return hashContent(f)
}

// Lookup returns the entry whose path hash matches absPath, or false if
// the tree holds no such entry. Collisions between distinct paths on the
// same hash are treated as a cache miss: the caller falls back to serving
// the file without cache metadata.
func (t *Tree) Lookup(absPath string) (*Entry, bool) {
	if t == nil {
		return nil, false
	}

	h := hashPath(absPath)
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].pathHash >= h
	})

	if i >= len(t.entries) || t.entries[i].pathHash != h {
		return nil, false
	}

	e := t.entries[i]
	if e.path != absPath {
		return nil, false
	}

	return e, true
}

// Len reports how many files this tree indexed.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Free releases the tree's references. Go's garbage collector reclaims
// the backing memory once the last worker holding this Tree finishes, so
// Free is a no-op kept only to mirror the build/lookup/free lifecycle the
// acceptor drives the tree through.
func Free(t *Tree) {
	_ = t
}
