// Package ident allocates collision-free, filesystem-safe identifiers
// for crawled page URLs. Identifiers name the temporary per-page
// artifacts, and their on-disk presence doubles as the recovery marker.
package ident
