// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package keylist implements an ordered list (slice) of items,
with a map from a key (e.g., names) to indexes,
to support fast lookup by name. It is used for the ordered
columns of a table and the ordered actions of a pipeline,
where both the order and the uniqueness of names matter.
*/
package keylist

import (
	"fmt"
	"slices"
)

// List implements an ordered list (slice) of Values,
// with a map from a key (e.g., names) to indexes.
// The zero value is ready to use.
type List[K comparable, V any] struct {

	// Values is the ordered slice of items.
	Values []V

	// Keys is the ordered list of keys, in same order as [List.Values].
	Keys []K

	// indexes is the key-to-index mapping.
	indexes map[K]int
}

// New returns a new [List].
func New[K comparable, V any]() *List[K, V] {
	return &List[K, V]{}
}

// reindex rebuilds the key-to-index map from Keys.
func (kl *List[K, V]) reindex() {
	kl.indexes = make(map[K]int, len(kl.Keys))
	for i, k := range kl.Keys {
		kl.indexes[k] = i
	}
}

func (kl *List[K, V]) initIndexes() {
	if kl.indexes == nil {
		kl.reindex()
	}
}

// Reset resets the list, removing any existing elements.
func (kl *List[K, V]) Reset() {
	kl.Values = nil
	kl.Keys = nil
	kl.indexes = nil
}

// Len returns the number of items in the list.
func (kl *List[K, V]) Len() int {
	if kl == nil {
		return 0
	}
	return len(kl.Values)
}

// Set sets given key to given value, adding to the end of the list
// if not already present, and otherwise replacing in place.
// This is the same semantics as a Go map.
func (kl *List[K, V]) Set(key K, val V) {
	kl.initIndexes()
	if idx, ok := kl.indexes[key]; ok {
		kl.Values[idx] = val
		return
	}
	kl.indexes[key] = len(kl.Values)
	kl.Values = append(kl.Values, val)
	kl.Keys = append(kl.Keys, key)
}

// Add adds an item to the end of the list with given key.
// An error is returned if the key is already on the list.
func (kl *List[K, V]) Add(key K, val V) error {
	kl.initIndexes()
	if _, ok := kl.indexes[key]; ok {
		return fmt.Errorf("keylist.Add: key %v is already on the list", key)
	}
	kl.indexes[key] = len(kl.Values)
	kl.Values = append(kl.Values, val)
	kl.Keys = append(kl.Keys, key)
	return nil
}

// Insert inserts the given value with the given key at the given index,
// which is clamped to the valid range [0, Len].
// An error is returned if the key is already on the list.
func (kl *List[K, V]) Insert(idx int, key K, val V) error {
	kl.initIndexes()
	if _, has := kl.indexes[key]; has {
		return fmt.Errorf("keylist.Insert: key %v is already on the list", key)
	}
	idx = min(max(idx, 0), len(kl.Values))
	kl.Keys = slices.Insert(kl.Keys, idx, key)
	kl.Values = slices.Insert(kl.Values, idx, val)
	kl.reindex()
	return nil
}

// At returns the value corresponding to the given key,
// with a zero value returned for a missing key.
func (kl *List[K, V]) At(key K) V {
	v, _ := kl.AtTry(key)
	return v
}

// AtTry returns the value corresponding to the given key,
// with false returned for a missing key.
func (kl *List[K, V]) AtTry(key K) (V, bool) {
	kl.initIndexes()
	idx, ok := kl.indexes[key]
	if ok {
		return kl.Values[idx], true
	}
	var zv V
	return zv, false
}

// IndexIsValid returns an error if the given index is invalid.
func (kl *List[K, V]) IndexIsValid(idx int) error {
	if idx >= len(kl.Values) || idx < 0 {
		return fmt.Errorf("keylist.List: index %d is out of range of a list of length %d", idx, len(kl.Values))
	}
	return nil
}

// IndexByKey returns the index of the given key, with a -1 for missing key.
func (kl *List[K, V]) IndexByKey(key K) int {
	kl.initIndexes()
	idx, ok := kl.indexes[key]
	if !ok {
		return -1
	}
	return idx
}

// DeleteByIndex deletes item(s) within the index range [i:j].
func (kl *List[K, V]) DeleteByIndex(i, j int) {
	if j-i <= 0 {
		return
	}
	kl.Keys = slices.Delete(kl.Keys, i, j)
	kl.Values = slices.Delete(kl.Values, i, j)
	kl.reindex()
}

// DeleteByKey deletes the item with the given key,
// returning false if it does not find it.
func (kl *List[K, V]) DeleteByKey(key K) bool {
	idx := kl.IndexByKey(key)
	if idx < 0 {
		return false
	}
	kl.DeleteByIndex(idx, idx+1)
	return true
}

// RenameIndex renames the item at given index to new key.
// An error is returned if the new key is used by another item.
func (kl *List[K, V]) RenameIndex(i int, key K) error {
	kl.initIndexes()
	if j, has := kl.indexes[key]; has && j != i {
		return fmt.Errorf("keylist.RenameIndex: key %v is already on the list", key)
	}
	delete(kl.indexes, kl.Keys[i])
	kl.Keys[i] = key
	kl.indexes[key] = i
	return nil
}

// Clone returns a copy of the list. Values are copied with the
// given function, or assigned directly if it is nil.
func (kl *List[K, V]) Clone(cp func(V) V) *List[K, V] {
	nl := &List[K, V]{Keys: slices.Clone(kl.Keys), Values: slices.Clone(kl.Values)}
	if cp != nil {
		for i, v := range nl.Values {
			nl.Values[i] = cp(v)
		}
	}
	nl.reindex()
	return nl
}

// String returns a string representation of the list.
func (kl *List[K, V]) String() string {
	sv := "{"
	for i, v := range kl.Values {
		sv += fmt.Sprintf("%v: %v, ", kl.Keys[i], v)
	}
	sv += "}"
	return sv
}
