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

// Package credstore is the optional credential verifier SPEC_FULL.md
// §4.11 adds on top of the origin server: a username/bcrypt-hash table
// backed by an embedded nutsdb store, reached through the same
// kvdriver/kvtable generic contracts the teacher uses for its other
// key-value bindings. Nothing in this package is exercised unless the
// operator passes --creds-db.
package credstore

import (
	"time"

	"github.com/nutsdb/nutsdb"
	"golang.org/x/crypto/bcrypt"

	"github.com/sabouaram/snapd/database/kvdriver"
	"github.com/sabouaram/snapd/database/kvtable"
	"github.com/sabouaram/snapd/errors"
)

const bucket = "credentials"

// Store is a username -> Credential table persisted to disk. It is
// safe for concurrent use: reads and writes go through nutsdb's own
// transaction locking.
type Store struct {
	db    *nutsdb.DB
	table kvtable.KVTable[string, Credential]
}

// Open opens (creating if absent) the nutsdb store rooted at dir.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	db, err := nutsdb.Open(nutsdb.DefaultOptions, nutsdb.WithDir(dir))
	if err != nil {
		return nil, ErrorOpen.Error(err)
	}

	s := &Store{db: db}
	s.table = kvtable.New[string, Credential](kvdriver.New[string, Credential](
		nil,
		s.get,
		s.set,
		s.del,
		s.list,
		nil,
	))

	return s, nil
}

// Close releases the underlying nutsdb handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func (s *Store) get(key string) (Credential, error) {
	var (
		out Credential
		raw []byte
	)

	err := s.db.View(func(tx *nutsdb.Tx) error {
		e, e2 := tx.Get(bucket, []byte(key))
		if e2 != nil {
			return e2
		}

		raw = e.Value
		return nil
	})
	if err != nil {
		return out, ErrorUnknownUser.Error(err)
	}

	out, err = decodeCredential(raw)
	if err != nil {
		return out, ErrorDecode.Error(err)
	}

	return out, nil
}

func (s *Store) set(key string, model Credential) error {
	raw, err := encodeCredential(model)
	if err != nil {
		return ErrorEncode.Error(err)
	}

	return s.db.Update(func(tx *nutsdb.Tx) error {
		return tx.Put(bucket, []byte(key), raw, 0)
	})
}

func (s *Store) del(key string) error {
	return s.db.Update(func(tx *nutsdb.Tx) error {
		return tx.Delete(bucket, []byte(key))
	})
}

func (s *Store) list() ([]string, error) {
	var keys []string

	err := s.db.View(func(tx *nutsdb.Tx) error {
		entries, e := tx.GetAll(bucket)
		if e != nil {
			if e == nutsdb.ErrBucketEmpty || e == nutsdb.ErrBucketNotFound {
				return nil
			}
			return e
		}

		for _, e := range entries {
			keys = append(keys, string(e.Key))
		}

		return nil
	})

	return keys, err
}

// SetPassword hashes password with bcrypt and persists it under
// username, replacing any previous credential.
func (s *Store) SetPassword(username, password string) error {
	if username == "" || password == "" {
		return ErrorParamsEmpty.Error(nil)
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ErrorHash.Error(err)
	}

	item, err := s.table.Get(username)
	if err != nil && !errors.IsCode(err, ErrorUnknownUser) {
		return err
	}

	item.Set(Credential{Username: username, Hash: h, Algorithm: "bcrypt", SetAt: time.Now()})
	return item.Store(true)
}

// Verify reports whether password matches the hash stored for
// username. A missing username or a mismatched password both report
// false with no error: callers should not distinguish the two, to
// avoid leaking which usernames exist.
func (s *Store) Verify(username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, ErrorParamsEmpty.Error(nil)
	}

	item, err := s.table.Get(username)
	if err != nil {
		if errors.IsCode(err, ErrorUnknownUser) {
			return false, nil
		}
		return false, err
	}

	cred := item.Get()
	if err = bcrypt.CompareHashAndPassword(cred.Hash, []byte(password)); err != nil {
		return false, nil
	}

	return true, nil
}
