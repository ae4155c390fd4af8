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

// Package acceptor runs the dual-listener loop spec.md §4.6 describes: a
// plaintext socket and an optional TLS socket, both opened with
// SO_REUSEADDR on a wildcard address, multiplexed with a one-second
// readiness timeout so the shutdown and refresh flags in lifecycle.Context
// are observed promptly without busy-waiting.
package acceptor

import (
	"net"
	"time"

	libatm "github.com/sabouaram/snapd/atomic"
	"github.com/sabouaram/snapd/certificates"
	"github.com/sabouaram/snapd/fingerprint"
	"github.com/sabouaram/snapd/handler"
	"github.com/sabouaram/snapd/lifecycle"
	"github.com/sabouaram/snapd/logging"
	"github.com/sabouaram/snapd/mimetype"
	"github.com/sabouaram/snapd/workerpool"
)

// readinessTimeout is the resolution at which the loop re-checks the
// shutdown and refresh flags, per spec.md §4.6's stated tradeoff.
const readinessTimeout = time.Second

// Config is the immutable shape the acceptor is built from.
type Config struct {
	Webroot   string
	HTTPPort  int
	HTTPSPort int
	Backlog   int
	TLS       certificates.TLSConfig // nil disables the HTTPS listener
	Pool      *workerpool.Pool
	Resolver  *mimetype.Resolver
	Life      *lifecycle.Context
	Log       logging.Logger
}

// Acceptor owns the two listening sockets and the current fingerprint
// tree. Run drives the accept loop until the lifecycle context's shutdown
// flag is observed.
type Acceptor struct {
	cfg Config

	httpLn  *net.TCPListener
	httpsLn *net.TCPListener

	tree libatm.Value[*fingerprint.Tree]
}

// New opens the configured listeners (HTTPS only if cfg.TLS is non-nil)
// and builds the initial fingerprint tree from cfg.Webroot. The returned
// Acceptor owns both listeners; call Close to release them.
func New(cfg Config) (*Acceptor, error) {
	if cfg.Webroot == "" || cfg.Pool == nil || cfg.Life == nil {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	httpLn, err := listenReusable(cfg.HTTPPort, cfg.Backlog)
	if err != nil {
		return nil, ErrorListen.Error(err)
	}

	var httpsLn *net.TCPListener
	if cfg.TLS != nil {
		httpsLn, err = listenReusable(cfg.HTTPSPort, cfg.Backlog)
		if err != nil {
			_ = httpLn.Close()
			return nil, ErrorListen.Error(err)
		}
	}

	tree, err := fingerprint.Build(cfg.Webroot)
	if err != nil {
		_ = httpLn.Close()
		if httpsLn != nil {
			_ = httpsLn.Close()
		}
		return nil, ErrorTreeBuild.Error(err)
	}

	a := &Acceptor{
		cfg:     cfg,
		httpLn:  httpLn,
		httpsLn: httpsLn,
		tree:    libatm.NewValue[*fingerprint.Tree](),
	}
	a.tree.Store(tree)

	return a, nil
}

// Run multiplexes both listeners until the lifecycle context's shutdown
// flag is observed. Each accepted connection becomes one workerpool.Unit;
// submit failures (pool shut down or queue full) close the socket
// immediately instead of leaking it.
func (a *Acceptor) Run() {
	for {
		if a.cfg.Life.ShuttingDown() {
			return
		}

		if a.cfg.Life.ConsumeRefresh() {
			a.refresh()
		}

		a.acceptReady(a.httpLn, false)
		if a.httpsLn != nil {
			a.acceptReady(a.httpsLn, true)
		}
	}
}

// refresh drains the pool before swapping in a freshly built fingerprint
// tree, per spec.md §4.6/§5(b): no work item may observe a partially
// constructed tree.
func (a *Acceptor) refresh() {
	a.cfg.Pool.Wait()

	fresh, err := fingerprint.Build(a.cfg.Webroot)
	if err != nil {
		if a.cfg.Log != nil {
			a.cfg.Log.Error("fingerprint tree refresh failed")
		}
		return
	}

	old := a.tree.Swap(fresh)
	fingerprint.Free(old)
}

func (a *Acceptor) acceptReady(ln *net.TCPListener, tlsConn bool) {
	if ln == nil {
		return
	}

	if err := ln.SetDeadline(time.Now().Add(readinessTimeout)); err != nil {
		return
	}

	conn, err := ln.Accept()
	if err != nil {
		if isTimeout(err) {
			return
		}
		if a.cfg.Log != nil {
			a.cfg.Log.Error("accept failed")
		}
		return
	}

	a.dispatch(conn, tlsConn)
}

func (a *Acceptor) dispatch(conn net.Conn, tlsConn bool) {
	peer := conn.RemoteAddr().String()

	hc := conn
	if tlsConn {
		tc, err := handshake(conn, a.cfg.TLS.TlsConfig(""))
		if err != nil {
			_ = conn.Close()
			if a.cfg.Log != nil {
				a.cfg.Log.Error("tls handshake failed")
			}
			return
		}
		hc = tc
	}

	opts := handler.Options{
		Webroot:        a.cfg.Webroot,
		MaxRequestSize: maxRequestSize,
		Resolver:       a.cfg.Resolver,
	}

	tree := a.tree.Load()

	var log logging.Entry
	if a.cfg.Log != nil {
		log = a.cfg.Log.WithFields(logging.Fields{"peer": peer, "tls": tlsConn})
	}

	accepted := a.cfg.Pool.Submit(func() {
		handler.Handle(handler.Conn{Conn: hc, TLS: tlsConn, Peer: peer}, tree, opts, log)
	})

	if !accepted {
		_ = hc.Close()
	}
}

// maxRequestSize bounds the fixed-size read buffer the handler allocates
// per connection.
const maxRequestSize = 64 * 1024

// Close releases both listeners. Run must have already returned.
func (a *Acceptor) Close() {
	_ = a.httpLn.Close()
	if a.httpsLn != nil {
		_ = a.httpsLn.Close()
	}
}

// HTTPAddr returns the bound address of the plaintext listener, useful
// when Config.HTTPPort is 0 and the OS picked an ephemeral port.
func (a *Acceptor) HTTPAddr() net.Addr {
	return a.httpLn.Addr()
}

// HTTPSAddr returns the bound address of the TLS listener, or nil if TLS
// is not configured.
func (a *Acceptor) HTTPSAddr() net.Addr {
	if a.httpsLn == nil {
		return nil
	}
	return a.httpsLn.Addr()
}

// TreeLen reports how many files the current fingerprint tree indexes,
// for status reporting.
func (a *Acceptor) TreeLen() int {
	return a.tree.Load().Len()
}

func isTimeout(err error) bool {
	type timeouter interface{ Timeout() bool }
	te, ok := err.(timeouter)
	return ok && te.Timeout()
}
