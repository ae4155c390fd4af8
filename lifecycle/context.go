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

// Package lifecycle translates asynchronous OS signals into the two
// cooperative flags spec.md §4.7 names: shutdown (set by a termination
// signal) and refresh_cache (set by the user-defined refresh signal).
// Signal handlers here do nothing but flip a flag; the acceptor loop is
// the only reader that acts on them.
package lifecycle

import (
	"os"
	"os/signal"
	"syscall"

	libatm "github.com/sabouaram/snapd/atomic"
)

// Context carries the process-wide shutdown and refresh flags. The zero
// value is not usable; construct one with New.
type Context struct {
	shutdown libatm.Value[bool]
	refresh  libatm.Value[bool]
	sigCh    chan os.Signal
}

// New returns a Context with both flags cleared.
func New() *Context {
	return &Context{
		shutdown: libatm.NewValue[bool](),
		refresh:  libatm.NewValue[bool](),
	}
}

// Watch ignores SIGPIPE (so an aborted client read or write never kills the
// process) and registers SIGINT/SIGTERM to set the shutdown flag and
// SIGUSR1 to set the refresh flag. It returns immediately; signals are
// delivered to a background goroutine for the lifetime of the Context.
func (c *Context) Watch() {
	signal.Ignore(syscall.SIGPIPE)

	c.sigCh = make(chan os.Signal, 4)
	signal.Notify(c.sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)

	go func() {
		for sig := range c.sigCh {
			switch sig {
			case syscall.SIGINT, syscall.SIGTERM:
				c.shutdown.Store(true)
			case syscall.SIGUSR1:
				c.refresh.Store(true)
			}
		}
	}()
}

// Stop unregisters the signal channel watching this Context. Safe to call
// even if Watch was never called.
func (c *Context) Stop() {
	if c.sigCh == nil {
		return
	}
	signal.Stop(c.sigCh)
	close(c.sigCh)
	c.sigCh = nil
}

// ShuttingDown reports whether a termination signal (or RequestShutdown)
// has been observed.
func (c *Context) ShuttingDown() bool {
	return c.shutdown.Load()
}

// RequestShutdown sets the shutdown flag programmatically, for callers
// (tests, an admin endpoint) that need to trigger shutdown without
// sending a real signal.
func (c *Context) RequestShutdown() {
	c.shutdown.Store(true)
}

// ConsumeRefresh reports whether a refresh was requested and, if so,
// clears the flag atomically from the caller's perspective: a concurrent
// caller observing ConsumeRefresh after this call sees the flag cleared.
func (c *Context) ConsumeRefresh() bool {
	return c.refresh.CompareAndSwap(true, false)
}

// RequestRefresh sets the refresh flag programmatically, mirroring
// RequestShutdown for tests and admin endpoints.
func (c *Context) RequestRefresh() {
	c.refresh.Store(true)
}
