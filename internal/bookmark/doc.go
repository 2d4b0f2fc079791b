// Package bookmark implements the lazy table-of-contents state machine
// of the document assembler: a stack of pending/realized heading
// entries with cascade pop, plus the outline tree of realized entries.
//
// The state machine is deliberately independent of any PDF library's
// incremental bookmark API so that realization and cascade rules are
// testable on their own.
package bookmark
