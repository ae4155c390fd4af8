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

package certificates

import (
	"bytes"
	"crypto/tls"
	"os"
	"sync"
)

type config struct {
	mu   sync.RWMutex
	cert []tls.Certificate
}

func checkFile(pemFiles ...string) error {
	for _, f := range pemFiles {
		if f == "" {
			return ErrorParamsEmpty.Error(nil)
		}

		if _, e := os.Stat(f); e != nil {
			return ErrorFileStat.Error(e)
		}

		/* #nosec */
		b, e := os.ReadFile(f)
		if e != nil {
			return ErrorFileRead.Error(e)
		}

		if len(bytes.TrimSpace(b)) < 1 {
			return ErrorFileEmpty.Error(nil)
		}
	}

	return nil
}

func (c *config) AddCertificatePairFile(keyFile, crtFile string) error {
	if e := checkFile(keyFile, crtFile); e != nil {
		return e
	}

	p, e := tls.LoadX509KeyPair(crtFile, keyFile)
	if e != nil {
		return ErrorCertKeyPairLoad.Error(e)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cert = append(c.cert, p)

	return nil
}

func (c *config) LenCertificatePair() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cert)
}

func (c *config) TlsConfig(serverName string) *tls.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	/* #nosec */
	cnf := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if serverName != "" {
		cnf.ServerName = serverName
	}

	if len(c.cert) > 0 {
		cnf.Certificates = append(make([]tls.Certificate, 0, len(c.cert)), c.cert...)
	}

	return cnf
}
