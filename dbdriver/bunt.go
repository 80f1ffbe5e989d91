// Package dbdriver provides the on-disk snapshot store mced uses to
// persist the accounting table across restarts, and mcedctl reads to
// render a dump without a live IPC channel to a running daemon.
/*
 * Copyright (c) 2020-2026, mced authors. All rights reserved.
 */
package dbdriver

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/buntdb"

	"github.com/mced-project/mced/cmn"
)

// collectionSepa separates a collection name from its key in the flat
// keyspace buntdb actually stores (there are no nested buckets).
const collectionSepa = "##"

const autoShrinkSize = cmn.MiB

// Driver is the snapshot store's interface: one JSON-encoded object
// per key, grouped into collections, with ordered traversal of a
// collection's keys.
type Driver interface {
	Close() error
	Set(collection, key string, object interface{}) error
	Get(collection, key string, object interface{}) error
	ForEach(collection string, fn func(key, value string) bool) error
}

type BuntDriver struct {
	driver *buntdb.DB
}

var _ Driver = &BuntDriver{}

// Open opens (creating if absent) the buntdb file at path. Settings
// mirror the teacher's own BuntDB usage: sync to disk once a second,
// and auto-compact once the file has grown by half past autoShrinkSize.
func Open(path string) (*BuntDriver, error) {
	driver, err := buntdb.Open(path)
	if err != nil {
		return nil, err
	}
	driver.SetConfig(buntdb.Config{
		SyncPolicy:           buntdb.EverySecond,
		AutoShrinkMinSize:    autoShrinkSize,
		AutoShrinkPercentage: 50,
	})
	return &BuntDriver{driver: driver}, nil
}

func makePath(collection, key string) string {
	return collection + collectionSepa + key
}

func (bd *BuntDriver) Close() error {
	return bd.driver.Close()
}

func (bd *BuntDriver) Set(collection, key string, object interface{}) error {
	b, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(object)
	if err != nil {
		return err
	}
	name := makePath(collection, key)
	return bd.driver.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(name, string(b), nil)
		return err
	})
}

func (bd *BuntDriver) Get(collection, key string, object interface{}) error {
	name := makePath(collection, key)
	var value string
	err := bd.driver.View(func(tx *buntdb.Tx) error {
		var err error
		value, err = tx.Get(name)
		return err
	})
	if err != nil {
		return err
	}
	return jsoniter.Unmarshal([]byte(value), object)
}

// ForEach visits every key in collection in ascending order, with the
// collection prefix already stripped back off, stopping early if fn
// returns false.
func (bd *BuntDriver) ForEach(collection string, fn func(key, value string) bool) error {
	prefix := collection + collectionSepa
	return bd.driver.View(func(tx *buntdb.Tx) error {
		tx.AscendKeys(prefix+"*", func(fullKey, value string) bool {
			key := strings.TrimPrefix(fullKey, prefix)
			return fn(key, value)
		})
		return nil
	})
}
