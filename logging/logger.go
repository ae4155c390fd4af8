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
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logging facade every package in this module logs
// through. It never panics and never returns an error to its caller: a
// logging failure must not take down a request in flight.
type Logger interface {
	WithFields(f Fields) Entry
	SetLevel(l Level)
	SetOutput(w io.Writer)

	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

type logger struct {
	l *logrus.Logger
}

// New builds a Logger writing to stderr at InfoLevel, matching the
// teacher's default logging posture.
func New() Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)

	return &logger{l: l}
}

func (g *logger) SetLevel(l Level) {
	g.l.SetLevel(l.logrus())
}

func (g *logger) SetOutput(w io.Writer) {
	g.l.SetOutput(w)
}

func (g *logger) WithFields(f Fields) Entry {
	return &entry{e: g.l.WithFields(f.toLogrus())}
}

func (g *logger) Debug(msg string) {
	g.l.Debug(msg)
}

func (g *logger) Info(msg string) {
	g.l.Info(msg)
}

func (g *logger) Warn(msg string) {
	g.l.Warn(msg)
}

func (g *logger) Error(msg string) {
	g.l.Error(msg)
}
