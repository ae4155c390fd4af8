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

// Package statusapi is the JSON status / Prometheus metrics surface
// SPEC_FULL.md §4.12 adds alongside the origin server: GET /status and
// GET /metrics on their own listener, bound separately from the
// plaintext and TLS content listeners so a scraper never shares a port
// with public traffic.
package statusapi

import (
	"context"
	"net"
	"net/http"
	"time"

	ginsdk "github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sabouaram/snapd/logging"
)

// PoolStats is the subset of workerpool.Pool's API this package reads.
// Satisfied by *workerpool.Pool without that package depending on this one.
type PoolStats interface {
	Counters() (submitted, completed, rejected int64, queued, executing int)
}

// TreeStats is the subset of acceptor.Acceptor's API this package reads.
type TreeStats interface {
	TreeLen() int
	HTTPAddr() net.Addr
	HTTPSAddr() net.Addr
}

// Snapshot is the JSON body served at GET /status.
type Snapshot struct {
	Submitted     int64   `json:"submitted"`
	Completed     int64   `json:"completed"`
	Rejected      int64   `json:"rejected"`
	Queued        int     `json:"queued"`
	Executing     int     `json:"executing"`
	TreeSize      int     `json:"tree_size"`
	HTTPAddr      string  `json:"http_addr,omitempty"`
	HTTPSAddr     string  `json:"https_addr,omitempty"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Config wires the collaborators a Server reads from. Pool and Tree are
// both required; Log is optional.
type Config struct {
	Addr string
	Pool PoolStats
	Tree TreeStats
	Log  logging.Logger
}

// Server exposes the status snapshot and Prometheus gauges over its own
// HTTP listener, entirely decoupled from the acceptor's listeners.
type Server struct {
	cfg     Config
	srv     *http.Server
	started time.Time

	gQueued    prometheus.Gauge
	gExecuting prometheus.Gauge
	gCompleted prometheus.Gauge
	gRejected  prometheus.Gauge
	gSubmitted prometheus.Gauge
	gTreeSize  prometheus.Gauge
}

// New builds a Server and its gin engine but does not bind a socket;
// call Start to listen.
func New(cfg Config) (*Server, error) {
	if cfg.Pool == nil || cfg.Tree == nil {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	s := &Server{
		cfg:     cfg,
		started: time.Now(),

		gQueued:    prometheus.NewGauge(prometheus.GaugeOpts{Name: "snapd_pool_queued", Help: "Units currently queued in the worker pool."}),
		gExecuting: prometheus.NewGauge(prometheus.GaugeOpts{Name: "snapd_pool_executing", Help: "Units currently executing in the worker pool."}),
		gCompleted: prometheus.NewGauge(prometheus.GaugeOpts{Name: "snapd_pool_completed_total", Help: "Units completed by the worker pool."}),
		gRejected:  prometheus.NewGauge(prometheus.GaugeOpts{Name: "snapd_pool_rejected_total", Help: "Units rejected by the worker pool."}),
		gSubmitted: prometheus.NewGauge(prometheus.GaugeOpts{Name: "snapd_pool_submitted_total", Help: "Units submitted to the worker pool."}),
		gTreeSize:  prometheus.NewGauge(prometheus.GaugeOpts{Name: "snapd_fingerprint_tree_size", Help: "Number of files indexed by the current fingerprint tree."}),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(s.gQueued, s.gExecuting, s.gCompleted, s.gRejected, s.gSubmitted, s.gTreeSize)

	ginsdk.SetMode(ginsdk.ReleaseMode)
	router := ginsdk.New()
	router.GET("/status", s.handleStatus)
	router.GET("/metrics", ginsdk.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	s.srv = &http.Server{Addr: cfg.Addr, Handler: router}

	return s, nil
}

// Handler returns the underlying http.Handler, for tests that drive it
// through httptest without binding a real socket.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) snapshot() Snapshot {
	submitted, completed, rejected, queued, executing := s.cfg.Pool.Counters()

	s.gSubmitted.Set(float64(submitted))
	s.gCompleted.Set(float64(completed))
	s.gRejected.Set(float64(rejected))
	s.gQueued.Set(float64(queued))
	s.gExecuting.Set(float64(executing))
	s.gTreeSize.Set(float64(s.cfg.Tree.TreeLen()))

	snap := Snapshot{
		Submitted:     submitted,
		Completed:     completed,
		Rejected:      rejected,
		Queued:        queued,
		Executing:     executing,
		TreeSize:      s.cfg.Tree.TreeLen(),
		UptimeSeconds: time.Since(s.started).Seconds(),
	}

	if a := s.cfg.Tree.HTTPAddr(); a != nil {
		snap.HTTPAddr = a.String()
	}
	if a := s.cfg.Tree.HTTPSAddr(); a != nil {
		snap.HTTPSAddr = a.String()
	}

	return snap
}

func (s *Server) handleStatus(c *ginsdk.Context) {
	c.JSON(http.StatusOK, s.snapshot())
}

// Start binds Config.Addr and serves until Close is called. Meant to run
// in its own goroutine; ListenAndServe's terminal http.ErrServerClosed is
// swallowed, any other bind failure is reported through errCh.
func (s *Server) Start(errCh chan<- error) {
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		if s.cfg.Log != nil {
			s.cfg.Log.Error("status listener failed")
		}
		if errCh != nil {
			errCh <- ErrorListen.Error(err)
		}
	}
}

// Close shuts the status listener down, waiting up to 5 seconds for
// in-flight requests to finish.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
