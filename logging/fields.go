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

package logging

// Fields carries contextual key/value pairs attached to a log entry (peer
// address, method, path, status, bytes written, ...). Add and Merge never
// modify their receiver, so a Fields value can be shared across goroutines.
type Fields map[string]interface{}

func (f Fields) clone() Fields {
	res := make(Fields, len(f)+1)

	for k, v := range f {
		res[k] = v
	}

	return res
}

// Add returns a new Fields with key set to val, leaving the receiver
// untouched.
func (f Fields) Add(key string, val interface{}) Fields {
	res := f.clone()
	res[key] = val
	return res
}

// Merge returns a new Fields containing the receiver's pairs overridden by
// other's. When one side is empty it returns the other side itself, not a
// copy.
func (f Fields) Merge(other Fields) Fields {
	if len(other) == 0 {
		return f
	} else if len(f) == 0 {
		return other
	}

	res := f.clone()
	for k, v := range other {
		res[k] = v
	}

	return res
}

func (f Fields) toLogrus() map[string]interface{} {
	res := make(map[string]interface{}, len(f))
	for k, v := range f {
		res[k] = v
	}
	return res
}
