// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package suggest finds the closest known name to a misspelled one,
// for "did you mean" hints in error messages.
package suggest

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// MinSimilarity is the similarity in [0, 1] below which
// no suggestion is made.
var MinSimilarity = 0.5

// Closest returns the candidate most similar to name, using a
// case-insensitive Levenshtein similarity, or "" if none of the
// candidates reaches [MinSimilarity]. Ties keep the earlier candidate.
func Closest(name string, candidates []string) string {
	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = false
	best, bestSim := "", 0.0
	for _, c := range candidates {
		if c == name {
			continue
		}
		sim := strutil.Similarity(name, c, lev)
		if sim >= MinSimilarity && sim > bestSim {
			best, bestSim = c, sim
		}
	}
	return best
}

// Hint returns a "; did you mean %q?" suffix for name, or "".
func Hint(name string, candidates []string) string {
	c := Closest(name, candidates)
	if c == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("; did you mean ")
	b.WriteString(`"` + c + `"`)
	b.WriteString("?")
	return b.String()
}
