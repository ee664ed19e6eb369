// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package leveldb adapts goleveldb into a durable backend for deployments
// that prefer it over pebble.
package leveldb

import (
	"errors"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

var (
	_ database.KeyValueReaderWriterDeleter = (*Database)(nil)
	_ database.Batch                       = (*Batch)(nil)
)

type Database struct {
	db   *leveldb.DB
	sync bool

	closeOnce sync.Once
}

// New opens (or creates) a database in [file]. With [sync] set every batch
// is flushed to disk before Write returns.
func New(file string, sync bool) (*Database, error) {
	db, err := leveldb.OpenFile(file, &opt.Options{})
	if err != nil {
		return nil, err
	}
	return &Database{db: db, sync: sync}, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	return db.db.Has(key, nil)
}

func (db *Database) Get(key []byte) ([]byte, error) {
	v, err := db.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	return v, err
}

func (db *Database) Put(key []byte, value []byte) error {
	return db.db.Put(key, value, &opt.WriteOptions{Sync: db.sync})
}

func (db *Database) Delete(key []byte) error {
	return db.db.Delete(key, &opt.WriteOptions{Sync: db.sync})
}

func (db *Database) NewBatch() database.Batch {
	return &Batch{db: db}
}

func (db *Database) Close() error {
	err := database.ErrClosed
	db.closeOnce.Do(func() {
		err = db.db.Close()
	})
	return err
}

// Batch is applied to leveldb as one atomic write.
type Batch struct {
	db    *Database
	batch leveldb.Batch
	size  int
}

func (b *Batch) Put(key []byte, value []byte) error {
	b.batch.Put(key, value)
	b.size += len(key) + len(value)
	return nil
}

func (b *Batch) Delete(key []byte) error {
	b.batch.Delete(key)
	b.size += len(key)
	return nil
}

func (b *Batch) Size() int {
	return b.size
}

func (b *Batch) Write() error {
	return b.db.db.Write(&b.batch, &opt.WriteOptions{Sync: b.db.sync})
}

func (b *Batch) Reset() {
	b.batch.Reset()
	b.size = 0
}

func (b *Batch) Replay(w database.KeyValueWriterDeleter) error {
	r := &replayer{w: w}
	if err := b.batch.Replay(r); err != nil {
		return err
	}
	return r.err
}

func (b *Batch) Inner() database.Batch {
	return b
}

// replayer keeps the first error since goleveldb replay callbacks cannot
// return one.
type replayer struct {
	w   database.KeyValueWriterDeleter
	err error
}

func (r *replayer) Put(key, value []byte) {
	if r.err == nil {
		r.err = r.w.Put(key, value)
	}
}

func (r *replayer) Delete(key []byte) {
	if r.err == nil {
		r.err = r.w.Delete(key)
	}
}
