// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package savedsearch // import "gopkg.in/src-d/go-sprunk.v0/savedsearch"

import (
	"bytes"
	"encoding/gob"
	"strings"
	"sync"
	"time"

	"github.com/boltdb/bolt"
	"gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrSearchNotFound is returned when there is no saved search with the
	// given name.
	ErrSearchNotFound = errors.NewKind("saved search %q not found")

	// ErrInvalidName is returned when a search is saved with an empty name.
	ErrInvalidName = errors.NewKind("invalid saved search name %q")
)

var bucketName = []byte("searches")

// Search is a named query.
type Search struct {
	Name    string
	Query   string
	SavedAt time.Time
}

// Store keeps saved searches in a bolt database. The database file is
// opened on first use.
//
// buckets:
// - searches: name []byte -> Search (gob encoding)
type Store struct {
	path string

	mut sync.RWMutex
	db  *bolt.DB
}

// Open returns a store backed by the database file at path. The file is
// created if it does not exist.
func Open(path string) *Store {
	return &Store{path: path}
}

// Close closes the database file, if it was opened.
func (s *Store) Close() error {
	s.mut.Lock()
	defer s.mut.Unlock()

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return err
		}
		s.db = nil
	}

	return nil
}

func (s *Store) query(fn func(db *bolt.DB) error) error {
	for {
		s.mut.RLock()
		if s.db != nil {
			defer s.mut.RUnlock()
			return fn(s.db)
		}
		s.mut.RUnlock()

		if err := s.open(); err != nil {
			return err
		}
	}
}

func (s *Store) open() error {
	s.mut.Lock()
	defer s.mut.Unlock()

	if s.db != nil {
		return nil
	}

	db, err := bolt.Open(s.path, 0640, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

// Save stores query under name, replacing any search with the same name.
func (s *Store) Save(name, query string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName.New(name)
	}

	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(Search{
		Name:    name,
		Query:   query,
		SavedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.query(func(db *bolt.DB) error {
		return db.Update(func(tx *bolt.Tx) error {
			b, err := tx.CreateBucketIfNotExists(bucketName)
			if err != nil {
				return err
			}
			return b.Put([]byte(name), buf.Bytes())
		})
	})
}

// Load returns the search saved under name.
func (s *Store) Load(name string) (*Search, error) {
	var search *Search
	err := s.query(func(db *bolt.DB) error {
		return db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucketName)
			if b == nil {
				return ErrSearchNotFound.New(name)
			}

			v := b.Get([]byte(name))
			if v == nil {
				return ErrSearchNotFound.New(name)
			}

			search = new(Search)
			return gob.NewDecoder(bytes.NewReader(v)).Decode(search)
		})
	})
	if err != nil {
		return nil, err
	}
	return search, nil
}

// Delete removes the search saved under name.
func (s *Store) Delete(name string) error {
	return s.query(func(db *bolt.DB) error {
		return db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucketName)
			if b == nil || b.Get([]byte(name)) == nil {
				return ErrSearchNotFound.New(name)
			}
			return b.Delete([]byte(name))
		})
	})
}

// List returns the names of every saved search in lexical order.
func (s *Store) List() ([]string, error) {
	var names []string
	err := s.query(func(db *bolt.DB) error {
		return db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucketName)
			if b == nil {
				return nil
			}
			return b.ForEach(func(k, _ []byte) error {
				names = append(names, string(k))
				return nil
			})
		})
	})
	return names, err
}
