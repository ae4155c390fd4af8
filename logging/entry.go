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

import (
	"github.com/sirupsen/logrus"
)

// Entry is a Logger bound to a fixed set of Fields, returned by
// Logger.WithFields. Each call appends the given error, if any, under the
// "error" field before writing the line.
type Entry interface {
	WithFields(f Fields) Entry

	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string, err error)
}

type entry struct {
	e *logrus.Entry
}

func (n *entry) WithFields(f Fields) Entry {
	return &entry{e: n.e.WithFields(f.toLogrus())}
}

func (n *entry) Debug(msg string) {
	n.e.Debug(msg)
}

func (n *entry) Info(msg string) {
	n.e.Info(msg)
}

func (n *entry) Warn(msg string) {
	n.e.Warn(msg)
}

func (n *entry) Error(msg string, err error) {
	if err != nil {
		n.e.WithError(err).Error(msg)
		return
	}
	n.e.Error(msg)
}
