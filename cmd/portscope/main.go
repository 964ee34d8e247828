package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/five82/portscope/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	feedURL := flag.String("url", "", "device bridge URL to poll (optional)")
	followFile := flag.String("follow", "", "log file to follow (optional)")
	loadFile := flag.String("load", "", "log file to load before starting (optional)")
	pollMillis := flag.Int("poll", 0, "bridge poll interval in milliseconds (optional, defaults to 500)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		FeedURL:    *feedURL,
		FollowFile: *followFile,
		LoadFile:   *loadFile,
	}
	if poll := *pollMillis; poll > 0 {
		opts.Poll = time.Duration(poll) * time.Millisecond
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "portscope: %v\n", err)
		return 1
	}
	return 0
}
