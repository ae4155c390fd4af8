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

// Command snapd is the process entrypoint SPEC_FULL.md §4.8 describes: it
// parses flags with spf13/cobra, validates the resulting config.Config,
// wires the fingerprint/acceptor/workerpool/lifecycle core together with
// the ambient logging and TLS stack, and optionally starts the status API
// and credential store. Exit 0 on a clean shutdown, 1 on init failure.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sabouaram/snapd/acceptor"
	"github.com/sabouaram/snapd/certificates"
	"github.com/sabouaram/snapd/config"
	"github.com/sabouaram/snapd/credstore"
	"github.com/sabouaram/snapd/lifecycle"
	"github.com/sabouaram/snapd/logging"
	"github.com/sabouaram/snapd/mimetype"
	"github.com/sabouaram/snapd/statusapi"
	"github.com/sabouaram/snapd/workerpool"
)

func main() {
	cfg := config.Default()
	var configFile string

	cmd := &cobra.Command{
		Use:   "snapd",
		Short: "snapd serves a webroot of static files over HTTP/1.x and HTTPS",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				loaded, err := config.LoadFile(configFile, cfg)
				if err != nil {
					return err
				}
				cfg = loaded

				// flags explicitly set on the command line take precedence
				// over whatever the config file provided.
				cmd.Flags().Visit(func(f *pflag.Flag) {
					switch f.Name {
					case "webroot":
						cfg.Webroot = f.Value.String()
					case "http-port":
						cfg.HTTPPort, _ = strconv.Atoi(f.Value.String())
					case "https-port":
						cfg.HTTPSPort, _ = strconv.Atoi(f.Value.String())
					case "workers":
						cfg.Workers, _ = strconv.Atoi(f.Value.String())
					case "queue-depth":
						cfg.QueueDepth, _ = strconv.Atoi(f.Value.String())
					case "backlog":
						cfg.Backlog, _ = strconv.Atoi(f.Value.String())
					case "cert":
						cfg.CertFile = f.Value.String()
					case "key":
						cfg.KeyFile = f.Value.String()
					case "status-addr":
						cfg.StatusAddr = f.Value.String()
					case "creds-db":
						cfg.CredsDB = f.Value.String()
					}
				})
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "path to a JSON, YAML, or TOML config file (flags override file values)")
	cmd.Flags().StringVarP(&cfg.Webroot, "webroot", "w", cfg.Webroot, "directory of files to serve")
	cmd.Flags().IntVarP(&cfg.HTTPPort, "http-port", "p", cfg.HTTPPort, "plaintext listener port")
	cmd.Flags().IntVarP(&cfg.HTTPSPort, "https-port", "s", cfg.HTTPSPort, "TLS listener port")
	cmd.Flags().IntVarP(&cfg.Workers, "workers", "t", cfg.Workers, "worker pool goroutine count")
	cmd.Flags().IntVar(&cfg.QueueDepth, "queue-depth", cfg.QueueDepth, "worker pool queue depth")
	cmd.Flags().IntVar(&cfg.Backlog, "backlog", cfg.Backlog, "listen backlog")
	cmd.Flags().StringVar(&cfg.CertFile, "cert", cfg.CertFile, "TLS certificate PEM file")
	cmd.Flags().StringVar(&cfg.KeyFile, "key", cfg.KeyFile, "TLS private key PEM file")
	cmd.Flags().StringVar(&cfg.StatusAddr, "status-addr", cfg.StatusAddr, "bind address for the status/metrics listener (empty disables it)")
	cmd.Flags().StringVar(&cfg.CredsDB, "creds-db", cfg.CredsDB, "path to the optional credential store (empty disables it)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	log := logging.New()

	if verr := cfg.Validate(); verr != nil {
		log.Error(verr.Error())
		return verr
	}

	resolver := mimetype.New()

	pool, err := workerpool.New(workerpool.Config{Workers: cfg.Workers, QueueDepth: cfg.QueueDepth})
	if err != nil {
		log.Error("failed to start worker pool")
		return err
	}

	var tlsCfg certificates.TLSConfig
	if cfg.TLSEnabled() {
		tlsCfg = certificates.New()
		if err = tlsCfg.AddCertificatePairFile(cfg.KeyFile, cfg.CertFile); err != nil {
			log.Error("failed to load TLS certificate pair")
			return err
		}
	}

	life := lifecycle.New()
	life.Watch()
	defer life.Stop()

	acc, err := acceptor.New(acceptor.Config{
		Webroot:   cfg.Webroot,
		HTTPPort:  cfg.HTTPPort,
		HTTPSPort: cfg.HTTPSPort,
		Backlog:   cfg.Backlog,
		TLS:       tlsCfg,
		Pool:      pool,
		Resolver:  resolver,
		Life:      life,
		Log:       log,
	})
	if err != nil {
		log.Error("failed to start acceptor")
		return err
	}
	defer acc.Close()

	var store *credstore.Store
	if cfg.CredsDB != "" {
		store, err = credstore.Open(cfg.CredsDB)
		if err != nil {
			log.Error("failed to open credential store")
			return err
		}
		defer func() { _ = store.Close() }()
	}

	var status *statusapi.Server
	statusErrCh := make(chan error, 1)
	if cfg.StatusAddr != "" {
		status, err = statusapi.New(statusapi.Config{Addr: cfg.StatusAddr, Pool: pool, Tree: acc, Log: log})
		if err != nil {
			log.Error("failed to build status API")
			return err
		}
		go status.Start(statusErrCh)
		defer func() { _ = status.Close() }()
	}

	log.Info("snapd started")
	acc.Run()
	pool.Shutdown()
	log.Info("snapd stopped")

	return nil
}
