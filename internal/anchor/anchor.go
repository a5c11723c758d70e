// Package anchor assigns stable identities to SCIP symbols.
//
// A fingerprint is XXH64 (seed 0) over the raw symbol bytes. An anchor is the
// human-readable id written into the graph:
//
//	<base>_<first four hex digits of the fingerprint>
//
// Anchors are not collision-checked. Two symbols alias when their bases match
// and their fingerprints share the same leading hex digits; see
// CollisionProbability.
package anchor

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// Placeholder bases used when a fingerprint has no registered anchor.
const (
	BaseFile      = "file"
	BaseDef       = "def"
	BaseGenerated = "gen"
	BaseContext   = "ctx"
	BaseExternal  = "ext"
)

// SuffixLen is the number of hex digits kept from the fingerprint.
const SuffixLen = 4

// Fingerprint returns the 64-bit identity of a raw symbol or path.
func Fingerprint(raw string) uint64 {
	return xxhash.Sum64String(raw)
}

// Format renders base and fingerprint as an anchor. Fingerprints below
// 0x1000 have fewer than four hex digits; the suffix is not padded.
func Format(base string, id uint64) string {
	suffix := strconv.FormatUint(id, 16)
	if len(suffix) > SuffixLen {
		suffix = suffix[:SuffixLen]
	}
	return base + "_" + suffix
}

// Base derives the anchor base from a display name. Bare filenames and
// empty names become "def"; every non-alphanumeric rune becomes '_'.
func Base(displayName string) string {
	if displayName == "" || strings.HasSuffix(displayName, ".ts") || strings.HasSuffix(displayName, ".rs") {
		return BaseDef
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return '_'
	}, displayName)
}

// CollisionProbability estimates the chance that at least two of n
// symbols sharing one base collide in the SuffixLen-digit suffix.
// It is the birthday bound 1 - exp(-n(n-1)/2m) with m = 16^SuffixLen,
// approximated as n(n-1)/2m when small.
func CollisionProbability(n int) float64 {
	if n < 2 {
		return 0
	}
	m := float64(uint64(1) << (4 * SuffixLen))
	pairs := float64(n) * float64(n-1) / 2
	p := pairs / m
	if p > 1 {
		return 1
	}
	return p
}
