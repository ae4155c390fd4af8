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
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/snapd/config"
)

func writeFile(dir, name, content string) string {
	p := filepath.Join(dir, name)
	Expect(os.WriteFile(p, []byte(content), 0o644)).To(Succeed())
	return p
}

var _ = Describe("LoadFile", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("decodes a YAML config file over the baked-in defaults", func() {
		p := writeFile(dir, "snapd.yaml", "webroot: /srv/www\nworkers: 8\n")

		c, err := config.LoadFile(p, config.Default())
		Expect(err).ToNot(HaveOccurred())
		Expect(c.Webroot).To(Equal("/srv/www"))
		Expect(c.Workers).To(Equal(8))
		Expect(c.QueueDepth).To(Equal(64))
	})

	It("decodes a TOML config file", func() {
		p := writeFile(dir, "snapd.toml", "webroot = \"/srv/www\"\nhttp_port = 9090\n")

		c, err := config.LoadFile(p, config.Default())
		Expect(err).ToNot(HaveOccurred())
		Expect(c.Webroot).To(Equal("/srv/www"))
		Expect(c.HTTPPort).To(Equal(9090))
	})

	It("decodes a JSON config file", func() {
		p := writeFile(dir, "snapd.json", `{"webroot":"/srv/www","backlog":256}`)

		c, err := config.LoadFile(p, config.Default())
		Expect(err).ToNot(HaveOccurred())
		Expect(c.Webroot).To(Equal("/srv/www"))
		Expect(c.Backlog).To(Equal(256))
	})

	It("rejects an unrecognized extension", func() {
		p := writeFile(dir, "snapd.ini", "webroot=/srv/www")

		_, err := config.LoadFile(p, config.Default())
		Expect(err).To(HaveOccurred())
	})

	It("rejects a missing file", func() {
		_, err := config.LoadFile(filepath.Join(dir, "missing.yaml"), config.Default())
		Expect(err).To(HaveOccurred())
	})

	It("rejects malformed content", func() {
		p := writeFile(dir, "snapd.yaml", "webroot: [this is not valid yaml")

		_, err := config.LoadFile(p, config.Default())
		Expect(err).To(HaveOccurred())
	})
})
