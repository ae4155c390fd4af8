/*
MIT License

Copyright (c) 2023 Nicolas JUHEL

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

package kvdriver_test

import (
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/snapd/database/kvdriver"
	"github.com/sabouaram/snapd/database/kvtypes"
)

type TestUser struct {
	ID    string
	Name  string
	Email string
}

type mockStorage struct {
	data map[string]TestUser
	mu   sync.RWMutex
}

func newMockStorage() *mockStorage {
	return &mockStorage{data: make(map[string]TestUser)}
}

func (m *mockStorage) get(key string) (TestUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if val, ok := m.data[key]; ok {
		return val, nil
	}
	return TestUser{}, errors.New("not found")
}

func (m *mockStorage) set(key string, model TestUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = model
	return nil
}

func (m *mockStorage) del(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *mockStorage) list() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func createTestDriver(storage *mockStorage) kvtypes.KVDriver[string, TestUser] {
	var newFunc kvdriver.FuncNew[string, TestUser]
	newFunc = func() kvtypes.KVDriver[string, TestUser] {
		return kvdriver.New[string, TestUser](newFunc, storage.get, storage.set, storage.del, storage.list, nil)
	}

	return newFunc()
}

var _ = Describe("KV Driver", func() {
	var (
		storage *mockStorage
		driver  kvtypes.KVDriver[string, TestUser]
	)

	BeforeEach(func() {
		storage = newMockStorage()
		driver = createTestDriver(storage)
	})

	Describe("New", func() {
		It("creates a new driver instance", func() {
			Expect(driver).ToNot(BeNil())
		})

		It("creates a new independent instance", func() {
			newDriver := driver.New()
			Expect(newDriver).ToNot(BeNil())
		})
	})

	Describe("Set and Get", func() {
		It("stores and retrieves a value", func() {
			user := TestUser{ID: "user-1", Name: "Alice", Email: "alice@example.com"}

			Expect(driver.Set("user-1", user)).To(Succeed())

			var retrieved TestUser
			Expect(driver.Get("user-1", &retrieved)).To(Succeed())
			Expect(retrieved).To(Equal(user))
		})

		It("updates an existing value", func() {
			Expect(driver.Set("user-1", TestUser{ID: "user-1", Name: "Alice"})).To(Succeed())
			Expect(driver.Set("user-1", TestUser{ID: "user-1", Name: "Alice Updated"})).To(Succeed())

			var retrieved TestUser
			Expect(driver.Get("user-1", &retrieved)).To(Succeed())
			Expect(retrieved.Name).To(Equal("Alice Updated"))
		})

		It("returns an error for a non-existent key", func() {
			var user TestUser
			Expect(driver.Get("non-existent", &user)).ToNot(Succeed())
		})
	})

	Describe("Del", func() {
		BeforeEach(func() {
			Expect(driver.Set("user-1", TestUser{ID: "user-1", Name: "Alice"})).To(Succeed())
		})

		It("deletes an existing key", func() {
			Expect(driver.Del("user-1")).To(Succeed())

			var user TestUser
			Expect(driver.Get("user-1", &user)).ToNot(Succeed())
		})

		It("does not error when deleting a non-existent key", func() {
			Expect(driver.Del("non-existent")).To(Succeed())
		})
	})

	Describe("List", func() {
		It("returns an empty list when there are no items", func() {
			keys, err := driver.List()
			Expect(err).ToNot(HaveOccurred())
			Expect(keys).To(BeEmpty())
		})

		It("lists all keys", func() {
			for _, u := range []TestUser{{ID: "user-1"}, {ID: "user-2"}, {ID: "user-3"}} {
				Expect(driver.Set(u.ID, u)).To(Succeed())
			}

			keys, err := driver.List()
			Expect(err).ToNot(HaveOccurred())
			Expect(keys).To(ConsistOf("user-1", "user-2", "user-3"))
		})
	})

	Describe("Search", func() {
		BeforeEach(func() {
			for _, u := range []TestUser{{ID: "admin-1"}, {ID: "user-1"}} {
				Expect(driver.Set(u.ID, u)).To(Succeed())
			}
		})

		It("finds a key equal to the pattern", func() {
			keys, err := driver.Search("admin-1")
			Expect(err).ToNot(HaveOccurred())
			Expect(keys).To(ConsistOf("admin-1"))
		})

		It("returns empty when nothing matches", func() {
			keys, err := driver.Search("nonexistent")
			Expect(err).ToNot(HaveOccurred())
			Expect(keys).To(BeEmpty())
		})
	})

	Describe("Walk", func() {
		BeforeEach(func() {
			for _, u := range []TestUser{{ID: "user-1"}, {ID: "user-2"}, {ID: "user-3"}} {
				Expect(driver.Set(u.ID, u)).To(Succeed())
			}
		})

		It("walks through all items when the driver has no native walk function", func() {
			count := 0
			err := driver.Walk(func(key string, model TestUser) bool {
				count++
				return true
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(Equal(3))
		})

		It("allows early termination", func() {
			count := 0
			err := driver.Walk(func(key string, model TestUser) bool {
				count++
				return count < 2
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(Equal(2))
		})
	})
})
