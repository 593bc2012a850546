// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metadata

// ActiveKey is the standard key holding the activity flag of an action.
const ActiveKey = "active"

// SetActive sets the "active" standard key.
func (md *Data) SetActive(active bool) {
	md.Set(ActiveKey, active)
}

// IsActive returns the "active" standard key value (false if not set).
func (md Data) IsActive() bool {
	return GetOr(md, ActiveKey, false)
}
