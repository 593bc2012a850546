// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	var md Data
	md.Set("medianDeviation", int64(5))
	md.Set("name", "x")

	f, err := Get[float64](md, "medianDeviation")
	require.NoError(t, err)
	assert.Equal(t, 5.0, f)

	i, err := Get[int](md, "medianDeviation")
	require.NoError(t, err)
	assert.Equal(t, 5, i)

	_, err = Get[float64](md, "name")
	assert.Error(t, err)
	_, err = Get[string](md, "missing")
	assert.Error(t, err)

	md.Set("half", 2.5)
	_, err = Get[int](md, "half")
	assert.Error(t, err)
	assert.Equal(t, 3, GetOr(md, "half", 3))
}

func TestActive(t *testing.T) {
	md := Data{}
	assert.False(t, md.IsActive())
	md.SetActive(true)
	assert.True(t, md.IsActive())
}

func TestCloneFingerprint(t *testing.T) {
	md := Data{"active": true, "window": 3, "list": []float64{1, 2}}
	cp := md.Clone()
	assert.Equal(t, md.Fingerprint(), cp.Fingerprint())
	cp.Set("window", 5)
	assert.Equal(t, 3, md["window"])
	assert.NotEqual(t, md.Fingerprint(), cp.Fingerprint())
	assert.Equal(t, []string{"active", "list", "window"}, md.Keys())
}
