// Package ui provides the Bubble Tea front end for portscope.
//
// The screen is a header with the active query and view flags, a virtualized
// row list, a status bar and a prompt line. Only the rows in the viewport are
// rendered; the row list reports its visible range back to the engine after
// every update, which is how the engine decides whether the tail is still
// being followed.
//
// # Event Flow
//
//  1. A sync tick (or AppendedMsg from an ingestion goroutine) calls
//     engine.Sync, which asks for the last row while following.
//  2. Keystrokes in the search and replacement editors stage a new input
//     generation and schedule a commit tick; an older generation arriving
//     late is discarded by the engine.
//  3. Every scroll request from the engine is followed by a settle tick one
//     frame later. Range reports in between are ignored.
//  4. User scrolls are reported immediately and applied after the visible
//     debounce.
//
// # Key Bindings
//
//   - /: Edit the search pattern (enter applies, esc leaves the editor)
//   - n/N: Next/previous match
//   - r, c, x: Regex, case sensitivity, cross-line matching
//   - f: Filter to matches; +/- change the context size
//   - R, p: Edit the replacement, toggle its preview
//   - m: Cycle ASCII/HEX/MIXED; M: toggle timestamps
//   - Space: Toggle follow; j/k, pgup/pgdown, ctrl+u/d, g/G scroll
//   - w: Export the current view; ctrl+l: clear records
//   - T: Cycle theme; ?: help; esc: clear the search; q: quit
package ui
