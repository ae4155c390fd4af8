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

// Package certificates loads the PEM certificate/key pair the acceptor's
// HTTPS listener hands to every inbound connection, spec.md §4.6. It is
// deliberately narrow: one or more pairs in, a *tls.Config out, with SNI
// resolution left to crypto/tls's own certificate-name matching rather
// than a hand-rolled lookup table.
//
// Example:
//
//	cfg := certificates.New()
//	cfg.AddCertificatePairFile("/path/to/key.pem", "/path/to/cert.pem")
//	tlsConfig := cfg.TlsConfig("")
package certificates

import "crypto/tls"

// TLSConfig builds a *tls.Config from one or more certificate/key pairs.
// Safe for concurrent use: AddCertificatePairFile may run while TlsConfig
// is called from an accept loop on another goroutine.
type TLSConfig interface {
	// AddCertificatePairFile loads a PEM-encoded certificate and private
	// key from disk and appends it to the pool TlsConfig serves.
	AddCertificatePairFile(keyFile, crtFile string) error

	// LenCertificatePair reports how many certificate pairs are loaded.
	LenCertificatePair() int

	// TlsConfig returns a *tls.Config carrying every loaded certificate.
	// serverName, when non-empty, is set as the config's ServerName.
	TlsConfig(serverName string) *tls.Config
}

// New returns an empty TLSConfig with no certificates loaded.
func New() TLSConfig {
	return &config{}
}
