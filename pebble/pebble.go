// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pebble adapts a pebble key-value store into the durable backend
// commands are committed to.
package pebble

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	_ database.KeyValueReaderWriterDeleter = (*Database)(nil)
	_ database.Batch                       = (*Batch)(nil)
)

type Config struct {
	CacheSize                   int  `json:"cacheSize"`
	BytesPerSync                int  `json:"bytesPerSync"`
	MemTableStopWritesThreshold int  `json:"memTableStopWritesThreshold"`
	MaxOpenFiles                int  `json:"maxOpenFiles"`
	ConcurrentCompactions       int  `json:"concurrentCompactions"`
	Sync                        bool `json:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   64 * 1024 * 1024,
		BytesPerSync:                1024 * 1024,
		MemTableStopWritesThreshold: 8,
		MaxOpenFiles:                4_096,
		ConcurrentCompactions:       1,
		Sync:                        true,
	}
}

type Database struct {
	db      *pebble.DB
	metrics *metrics
	sync    bool

	closeOnce sync.Once
	closing   chan struct{}
	done      sync.WaitGroup
}

// New opens (or creates) a database in [file] and returns the registry its
// metrics are reported to.
func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d := &Database{
		metrics: metrics,
		sync:    cfg.Sync,
		closing: make(chan struct{}),
	}
	cache := pebble.NewCache(int64(cfg.CacheSize))
	defer cache.Unref()
	opts := &pebble.Options{
		Cache:                       cache,
		BytesPerSync:                cfg.BytesPerSync,
		Comparer:                    pebble.DefaultComparer,
		WALBytesPerSync:             cfg.BytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.ConcurrentCompactions },
	}
	opts.EventListener = &pebble.EventListener{
		CompactionBegin: d.onCompactionBegin,
		CompactionEnd:   d.onCompactionEnd,
		WriteStallBegin: d.onWriteStallBegin,
		WriteStallEnd:   d.onWriteStallEnd,
	}
	d.db, err = pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	d.done.Add(1)
	go func() {
		defer d.done.Done()
		d.collectMetrics()
	}()
	return d, registry, nil
}

func (db *Database) writeOptions() *pebble.WriteOptions {
	if db.sync {
		return pebble.Sync
	}
	return pebble.NoSync
}

func (db *Database) Has(key []byte) (bool, error) {
	_, err := db.Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, database.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Get returns a copy of the value stored at [key] or [database.ErrNotFound].
func (db *Database) Get(key []byte) ([]byte, error) {
	start := time.Now()
	data, closer, err := db.db.Get(key)
	db.metrics.getLatency.Observe(float64(time.Since(start)))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, database.ErrNotFound
		}
		return nil, err
	}
	value := slices.Clone(data)
	if value == nil {
		value = []byte{}
	}
	return value, closer.Close()
}

func (db *Database) Put(key []byte, value []byte) error {
	return db.db.Set(key, value, db.writeOptions())
}

func (db *Database) Delete(key []byte) error {
	return db.db.Delete(key, db.writeOptions())
}

func (db *Database) NewBatch() database.Batch {
	return &Batch{db: db}
}

func (db *Database) Close() error {
	var err error
	db.closeOnce.Do(func() {
		close(db.closing)
		db.done.Wait()
		err = db.db.Close()
	})
	return err
}

type op struct {
	key    []byte
	value  []byte
	delete bool
}

// Batch collects writes and applies them to pebble in a single atomic
// commit on [Batch.Write].
type Batch struct {
	db   *Database
	ops  []op
	size int
}

func (b *Batch) Put(key []byte, value []byte) error {
	b.ops = append(b.ops, op{key: slices.Clone(key), value: slices.Clone(value)})
	b.size += len(key) + len(value)
	return nil
}

func (b *Batch) Delete(key []byte) error {
	b.ops = append(b.ops, op{key: slices.Clone(key), delete: true})
	b.size += len(key)
	return nil
}

func (b *Batch) Size() int {
	return b.size
}

func (b *Batch) Write() error {
	batch := b.db.db.NewBatch()
	defer batch.Close()
	for _, o := range b.ops {
		var err error
		if o.delete {
			err = batch.Delete(o.key, nil)
		} else {
			err = batch.Set(o.key, o.value, nil)
		}
		if err != nil {
			return err
		}
	}
	return batch.Commit(b.db.writeOptions())
}

func (b *Batch) Reset() {
	b.ops = b.ops[:0]
	b.size = 0
}

func (b *Batch) Replay(w database.KeyValueWriterDeleter) error {
	for _, o := range b.ops {
		var err error
		if o.delete {
			err = w.Delete(o.key)
		} else {
			err = w.Put(o.key, o.value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *Batch) Inner() database.Batch {
	return b
}
