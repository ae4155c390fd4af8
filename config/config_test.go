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

package config_test

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/snapd/config"
)

func validConfig(webroot string) config.Config {
	c := config.Default()
	c.Webroot = webroot
	return c
}

var _ = Describe("Default", func() {
	It("returns sane baked-in defaults", func() {
		c := config.Default()
		Expect(c.HTTPPort).To(Equal(8080))
		Expect(c.HTTPSPort).To(Equal(8443))
		Expect(c.Workers).To(Equal(4))
		Expect(c.QueueDepth).To(Equal(64))
		Expect(c.Backlog).To(Equal(128))
		Expect(c.TLSEnabled()).To(BeFalse())
	})
})

var _ = Describe("Clone", func() {
	It("returns an independent value copy", func() {
		orig := config.Default()
		orig.Webroot = "/srv/www"

		clone := orig.Clone()
		clone.Webroot = "/srv/other"

		Expect(orig.Webroot).To(Equal("/srv/www"))
		Expect(clone.Webroot).To(Equal("/srv/other"))
	})
})

var _ = Describe("TLSEnabled", func() {
	It("is false when neither cert nor key is set", func() {
		c := config.Default()
		Expect(c.TLSEnabled()).To(BeFalse())
	})

	It("is false when only one half of the pair is set", func() {
		c := config.Default()
		c.CertFile = "server.crt"
		Expect(c.TLSEnabled()).To(BeFalse())
	})

	It("is true once both halves are set", func() {
		c := config.Default()
		c.CertFile = "server.crt"
		c.KeyFile = "server.key"
		Expect(c.TLSEnabled()).To(BeTrue())
	})
})

var _ = Describe("Validate", func() {
	var webroot string

	BeforeEach(func() {
		webroot = GinkgoT().TempDir()
	})

	It("accepts a fully populated valid configuration", func() {
		Expect(validConfig(webroot).Validate()).To(BeNil())
	})

	It("rejects a missing webroot directory", func() {
		c := validConfig(webroot)
		c.Webroot = ""
		Expect(c.Validate()).To(HaveOccurred())
	})

	It("rejects a webroot that is not a directory", func() {
		f, err := os.CreateTemp(webroot, "notadir")
		Expect(err).ToNot(HaveOccurred())
		defer f.Close()

		c := validConfig(webroot)
		c.Webroot = f.Name()
		Expect(c.Validate()).To(HaveOccurred())
	})

	It("rejects zero workers", func() {
		c := validConfig(webroot)
		c.Workers = 0
		Expect(c.Validate()).To(HaveOccurred())
	})

	It("rejects zero queue depth", func() {
		c := validConfig(webroot)
		c.QueueDepth = 0
		Expect(c.Validate()).To(HaveOccurred())
	})

	It("rejects zero backlog", func() {
		c := validConfig(webroot)
		c.Backlog = 0
		Expect(c.Validate()).To(HaveOccurred())
	})

	It("rejects an out-of-range http port", func() {
		c := validConfig(webroot)
		c.HTTPPort = 70000
		Expect(c.Validate()).To(HaveOccurred())
	})

	It("rejects a cert file without a matching key file", func() {
		c := validConfig(webroot)
		c.CertFile = "server.crt"
		Expect(c.Validate()).To(HaveOccurred())
	})

	It("rejects a key file without a matching cert file", func() {
		c := validConfig(webroot)
		c.KeyFile = "server.key"
		Expect(c.Validate()).To(HaveOccurred())
	})
})
