package ident

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// unsafeChars are the characters replaced when deriving an identifier
// from a URL. The set covers path separators, shell-hostile characters,
// and query-string syntax.
const unsafeChars = `"!/. ?=:'&#%`

// maxBaseLength caps the base identifier length so that the identifier
// plus an extension and a numeric suffix stays well under common
// filesystem name limits (255 bytes).
const maxBaseLength = 200

// Allocator turns URLs into unique, filesystem-safe identifiers.
//
// Allocation is deterministic for a fixed sequence of calls: the same
// URLs allocated in the same order always produce the same identifiers.
// Colliding base identifiers are disambiguated with a numeric suffix
// (2, 3, ...), so a different visitation order can legitimately assign
// different identifiers to the same URL. The recovery fast path relies
// on the deterministic case.
type Allocator struct {
	// taken records every identifier handed out during this crawl.
	// Entries are never removed.
	taken map[string]bool
}

// NewAllocator creates an empty Allocator.
func NewAllocator() *Allocator {
	return &Allocator{taken: make(map[string]bool)}
}

// Allocate derives an identifier for the URL, disambiguates collisions
// with a numeric suffix, registers the result, and returns it.
func (a *Allocator) Allocate(rawURL string) string {
	base := Sanitize(rawURL)

	name := base
	for suffix := 2; a.taken[name]; suffix++ {
		name = base + strconv.Itoa(suffix)
	}

	a.taken[name] = true
	return name
}

// Allocated reports whether the identifier has been handed out.
func (a *Allocator) Allocated(name string) bool {
	return a.taken[name]
}

// Sanitize derives the base identifier for a URL: the scheme is
// stripped and every path-unsafe character is replaced with an
// underscore. Overlong results are truncated to at most maxBaseLength
// bytes without splitting a multi-byte rune.
func Sanitize(rawURL string) string {
	name := rawURL
	if i := strings.Index(name, "//"); i >= 0 {
		name = name[i+2:]
	}

	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(unsafeChars, r) {
			return '_'
		}
		return r
	}, name)

	if len(name) > maxBaseLength {
		cut := maxBaseLength
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut]
	}
	return name
}
