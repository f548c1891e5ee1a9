package threshold

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v3"
)

const requestKeyPrefix = "access/"

// auditRetention keeps rows readable for a month past expiry before the
// backing store may reclaim them.
const auditRetention = 30 * 24 * time.Hour

// BadgerStore is a durable SessionStore over a badger key-value database.
// Read-modify-write cycles run inside a single transaction; commit
// conflicts between concurrent updaters are retried.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a badger-backed session store at dir
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Put(req *AccessRequest) error {
	val, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode access request: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(s.entry(req, val))
	})
}

func (s *BadgerStore) Get(id string) (*AccessRequest, error) {
	var req *AccessRequest
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(requestKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			req = &AccessRequest{}
			return json.Unmarshal(val, req)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read access request: %w", err)
	}
	return req, nil
}

func (s *BadgerStore) Update(id string, fn func(*AccessRequest) error) (*AccessRequest, error) {
	for {
		var updated *AccessRequest
		err := s.db.Update(func(txn *badger.Txn) error {
			item, err := txn.Get(requestKey(id))
			if err != nil {
				return err
			}

			req := &AccessRequest{}
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, req)
			}); err != nil {
				return err
			}

			if err := fn(req); err != nil {
				return err
			}

			val, err := json.Marshal(req)
			if err != nil {
				return err
			}
			if err := txn.SetEntry(s.entry(req, val)); err != nil {
				return err
			}
			updated = req
			return nil
		})

		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
}

func (s *BadgerStore) List() ([]*AccessRequest, error) {
	var out []*AccessRequest
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(requestKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				req := &AccessRequest{}
				if err := json.Unmarshal(val, req); err != nil {
					return err
				}
				out = append(out, req)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list access requests: %w", err)
	}
	return out, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) entry(req *AccessRequest, val []byte) *badger.Entry {
	e := badger.NewEntry(requestKey(req.ID), val)
	if ttl := time.Until(req.ExpiresAt.Add(auditRetention)); ttl > 0 {
		e = e.WithTTL(ttl)
	}
	return e
}

func requestKey(id string) []byte {
	return []byte(requestKeyPrefix + id)
}
