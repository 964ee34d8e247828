package ui

import "time"

// Screen layout.
const (
	// chromeHeight is the header, status bar and prompt line.
	chromeHeight = 3

	// wheelStep is how many rows one mouse wheel notch scrolls.
	wheelStep = 3

	// LayoutCompactWidth is the threshold below which the header drops labels.
	LayoutCompactWidth = 100
)

// Timing constants.
const (
	// DefaultSyncInterval is how often the store version is checked.
	DefaultSyncInterval = 100 * time.Millisecond

	// FrameInterval approximates one rendered frame; a programmatic scroll
	// settles after it.
	FrameInterval = 16 * time.Millisecond
)
