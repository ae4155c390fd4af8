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

package kvmap_test

import (
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/snapd/database/kvdriver"
	"github.com/sabouaram/snapd/database/kvmap"
	"github.com/sabouaram/snapd/database/kvtypes"
)

type TestUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// mockMapStorage stands in for a backend that only knows how to persist
// map[string]any blobs, e.g. a schemaless document store.
type mockMapStorage struct {
	data map[string]map[string]any
	mu   sync.RWMutex
}

func newMockMapStorage() *mockMapStorage {
	return &mockMapStorage{data: make(map[string]map[string]any)}
}

func (m *mockMapStorage) get(key string) (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if val, ok := m.data[key]; ok {
		return val, nil
	}
	return nil, errors.New("not found")
}

func (m *mockMapStorage) set(key string, model map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = model
	return nil
}

func (m *mockMapStorage) del(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *mockMapStorage) list() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func createTestDriver(storage *mockMapStorage) kvtypes.KVDriver[string, TestUser] {
	var base kvtypes.KVDriver[string, TestUser]
	var mapped kvtypes.KVDriver[string, TestUser]

	base = kvdriver.New[string, TestUser](
		func() kvtypes.KVDriver[string, TestUser] { return mapped },
		nil, nil, storage.del, storage.list, nil,
	)
	mapped = kvmap.New[string, string, TestUser](base, storage.get, storage.set, storage.list)

	return mapped
}

var _ = Describe("KV Map Driver", func() {
	var (
		storage *mockMapStorage
		driver  kvtypes.KVDriver[string, TestUser]
	)

	BeforeEach(func() {
		storage = newMockMapStorage()
		driver = createTestDriver(storage)
	})

	Describe("New", func() {
		It("creates a new driver instance", func() {
			Expect(driver).ToNot(BeNil())
		})

		It("delegates New to the wrapped base driver", func() {
			Expect(driver.New()).ToNot(BeNil())
		})
	})

	Describe("Set and Get", func() {
		It("serializes a struct into the map-shaped backend", func() {
			user := TestUser{ID: "user-1", Name: "Alice", Email: "alice@example.com"}
			Expect(driver.Set("user-1", user)).To(Succeed())

			stored, err := storage.get("user-1")
			Expect(err).ToNot(HaveOccurred())
			Expect(stored["id"]).To(Equal("user-1"))
			Expect(stored["name"]).To(Equal("Alice"))
		})

		It("deserializes the map-shaped backend back into a struct", func() {
			Expect(driver.Set("user-1", TestUser{ID: "user-1", Name: "Alice", Email: "alice@example.com"})).To(Succeed())

			var retrieved TestUser
			Expect(driver.Get("user-1", &retrieved)).To(Succeed())
			Expect(retrieved.Name).To(Equal("Alice"))
			Expect(retrieved.Email).To(Equal("alice@example.com"))
		})

		It("updates an existing value", func() {
			Expect(driver.Set("user-1", TestUser{ID: "user-1", Name: "Alice"})).To(Succeed())
			Expect(driver.Set("user-1", TestUser{ID: "user-1", Name: "Alice Updated", Email: "alice@example.com"})).To(Succeed())

			var retrieved TestUser
			Expect(driver.Get("user-1", &retrieved)).To(Succeed())
			Expect(retrieved.Name).To(Equal("Alice Updated"))
			Expect(retrieved.Email).To(Equal("alice@example.com"))
		})

		It("returns an error for a non-existent key", func() {
			var user TestUser
			Expect(driver.Get("non-existent", &user)).ToNot(Succeed())
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

	Describe("Walk", func() {
		BeforeEach(func() {
			for _, u := range []TestUser{{ID: "user-1", Name: "Alice"}, {ID: "user-2", Name: "Bob"}, {ID: "user-3", Name: "Charlie"}} {
				Expect(driver.Set(u.ID, u)).To(Succeed())
			}
		})

		It("walks through all items via the list-and-get fallback", func() {
			var names []string
			err := driver.Walk(func(key string, model TestUser) bool {
				names = append(names, model.Name)
				return true
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(names).To(ConsistOf("Alice", "Bob", "Charlie"))
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

	Describe("Del and Search via the embedded base driver", func() {
		It("deletes and searches through the base driver's contract", func() {
			Expect(driver.Set("admin-1", TestUser{ID: "admin-1"})).To(Succeed())
			Expect(driver.Set("user-1", TestUser{ID: "user-1"})).To(Succeed())

			keys, err := driver.Search("admin-1")
			Expect(err).ToNot(HaveOccurred())
			Expect(keys).To(ConsistOf("admin-1"))

			Expect(driver.Del("admin-1")).To(Succeed())
			Expect(storage.del("admin-1")).To(Succeed())

			keys, err = driver.List()
			Expect(err).ToNot(HaveOccurred())
			Expect(keys).To(ConsistOf("user-1"))
		})
	})
})
