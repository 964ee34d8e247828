// Package app is the composition root of portscope.
//
// Run loads the TOML config and the saved preferences, redirects the standard
// logger to the configured log file, creates the record store (optionally
// seeded from a log file) and the engine, then runs three things under one
// errgroup:
//
//   - feed.Poller against the device bridge when a feed URL is set
//   - logtail.Follow on a growing file when a follow path is set
//   - the Bubble Tea program
//
// Both ingestion paths append to the store and send ui.AppendedMsg so the
// viewer syncs at once. Leaving the UI cancels the ingestion goroutines.
//
// # Usage Example
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//	if err := app.Run(ctx, app.Options{FollowFile: "/var/log/device.log"}); err != nil {
//		log.Fatalf("portscope failed: %v", err)
//	}
package app
