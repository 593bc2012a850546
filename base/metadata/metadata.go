// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metadata provides a flat map of named any elements
// with generic support for type-safe Get and nil-safe Set.
// It is the serializable parameter set of a pipeline action,
// so values decoded from TOML, YAML or JSON (int64, float64,
// uint64 and so on) are coerced to the requested numeric type.
package metadata

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jinzhu/copier"
)

// Data is metadata as a map of named any elements
// with generic support for type-safe Get and nil-safe Set.
// Keys use lowerCamelCase, matching the persisted form.
type Data map[string]any

func (md *Data) init() {
	if *md == nil {
		*md = make(map[string]any)
	}
}

// Set sets key to given value, ensuring that
// the map is created if not previously.
func (md *Data) Set(key string, value any) {
	md.init()
	(*md)[key] = value
}

// Get gets metadata value of given type.
// Returns error if not present or item is a different type
// that cannot be converted.
func Get[T any](md Data, key string) (T, error) {
	var z T
	x, ok := md[key]
	if !ok {
		return z, fmt.Errorf("key %q not found in metadata", key)
	}
	if v, ok := x.(T); ok {
		return v, nil
	}
	if v, ok := convert[T](x); ok {
		return v, nil
	}
	return z, fmt.Errorf("key %q has a different type than expected %T: is %T", key, z, x)
}

// GetOr returns the value for key, or def if it is missing
// or of an incompatible type.
func GetOr[T any](md Data, key string, def T) T {
	v, err := Get[T](md, key)
	if err != nil {
		return def
	}
	return v
}

// convert handles the numeric representations produced by decoders.
func convert[T any](x any) (T, bool) {
	var z T
	var f float64
	switch v := x.(type) {
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case float32:
		f = float64(v)
	case float64:
		f = v
	default:
		return z, false
	}
	var r any
	switch any(z).(type) {
	case float64:
		r = f
	case float32:
		r = float32(f)
	case int:
		if f != float64(int(f)) {
			return z, false
		}
		r = int(f)
	case int64:
		if f != float64(int64(f)) {
			return z, false
		}
		r = int64(f)
	default:
		return z, false
	}
	return r.(T), true
}

// Copy does a shallow copy of metadata from source,
// overwriting any existing keys. It uses [maps.Copy].
func (md *Data) Copy(src Data) {
	if src == nil {
		return
	}
	md.init()
	maps.Copy(*md, src)
}

// Clone returns a deep copy of the metadata, so that
// nested slices or maps are not shared with the source.
func (md Data) Clone() Data {
	if md == nil {
		return Data{}
	}
	cp := Data{}
	if err := copier.CopyWithOption(&cp, md, copier.Option{DeepCopy: true}); err != nil || len(cp) != len(md) {
		cp = maps.Clone(md)
	}
	return cp
}

// Keys returns the sorted keys.
func (md Data) Keys() []string {
	return slices.Sorted(maps.Keys(md))
}

// Fingerprint returns a deterministic string encoding of the
// metadata, with keys in sorted order.
func (md Data) Fingerprint() string {
	var b strings.Builder
	for _, k := range md.Keys() {
		fmt.Fprintf(&b, "%s=%#v;", k, md[k])
	}
	return b.String()
}
