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

package lifecycle_test

import (
	"syscall"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/snapd/lifecycle"
)

var _ = Describe("Context", func() {
	It("starts with both flags cleared", func() {
		c := lifecycle.New()
		Expect(c.ShuttingDown()).To(BeFalse())
		Expect(c.ConsumeRefresh()).To(BeFalse())
	})

	It("sets the shutdown flag on RequestShutdown and it stays set", func() {
		c := lifecycle.New()
		c.RequestShutdown()
		Expect(c.ShuttingDown()).To(BeTrue())
		Expect(c.ShuttingDown()).To(BeTrue())
	})

	It("consumes the refresh flag exactly once", func() {
		c := lifecycle.New()
		c.RequestRefresh()
		Expect(c.ConsumeRefresh()).To(BeTrue())
		Expect(c.ConsumeRefresh()).To(BeFalse())
	})

	It("delivers a real SIGUSR1 to the refresh flag once watching", func() {
		c := lifecycle.New()
		c.Watch()
		defer c.Stop()

		Expect(syscall.Kill(syscall.Getpid(), syscall.SIGUSR1)).To(Succeed())

		Eventually(c.ConsumeRefresh).Should(BeTrue())
	})

	It("delivers a real SIGTERM to the shutdown flag once watching", func() {
		c := lifecycle.New()
		c.Watch()
		defer c.Stop()

		Expect(syscall.Kill(syscall.Getpid(), syscall.SIGTERM)).To(Succeed())

		Eventually(c.ShuttingDown).Should(BeTrue())
	})
})
