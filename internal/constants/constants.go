// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// Settings defaults
const (
	// DefaultThumbWidth is the thumbnail width when not row-constrained
	DefaultThumbWidth = 1200

	// DefaultRowHeight is the thumbnail height in gallery-row layout
	DefaultRowHeight = 240
)

// Notification constants
const (
	// ToastDuration is how long a normal notification stays visible
	ToastDuration = 5 * time.Second

	// WarningToastDuration is how long a warning notification stays visible
	WarningToastDuration = 10 * time.Second
)

// Gallery loading constants
const (
	// LoadInterval is the delay between two progressively loaded images
	LoadInterval = 200 * time.Millisecond

	// ResizeDebounce is the quiet period after a viewport resize before
	// linked images are recomputed
	ResizeDebounce = 2000 * time.Millisecond
)

// Import constants
const (
	// ICloudURLChunkSize is the number of photo GUIDs per asset URL request
	ICloudURLChunkSize = 20
)

// Event channel constants
const (
	// EventChannelBuffer is the buffer size for event channels
	EventChannelBuffer = 100
)
