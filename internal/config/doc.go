// Package config loads portscope's TOML configuration.
//
// # Configuration Discovery
//
// Load resolves the file in this order:
//
//  1. An explicitly provided path (the -config flag)
//  2. ~/.config/portscope/config.toml
//  3. Built-in defaults when the file does not exist
//
// Fields that are missing, empty or non-positive keep their defaults, so a
// partial file is always valid. An unknown render_mode or malformed TOML is an
// error.
//
// # Keys and defaults
//
//   - capacity: 10000 retained records
//   - cross_line_window: 5 records per cross-line matching window
//   - max_context: 10, upper bound for the filter context size
//   - input_debounce_ms: 300, pattern/context/replacement edits
//   - visible_debounce_ms: 50, visible-range reports from the row list
//   - follow_tolerance: 2 rows from the tail still count as following; 0
//     follows only when the last row is visible
//   - manual_override_ms: 1000 after an explicit follow toggle
//   - render_mode: ascii, hex or mixed
//   - feed_url: bridge address for HTTP polling (empty disables it)
//   - follow_file: log file to follow (empty disables it)
//   - poll_ms: 500
//   - log_file: ~/.local/state/portscope/portscope.log
//   - export_dir: current directory
//
// Paths starting with ~ are expanded against the user's home directory.
package config
