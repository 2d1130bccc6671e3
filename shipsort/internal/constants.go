package internal

import "time"

// File permission constants
const (
	// DirectoryPermissions is the standard permission for creating directories
	DirectoryPermissions = 0755
)

// Placement constants
const (
	// MaxRaycastDistance is how far below the target point a surface is searched for
	MaxRaycastDistance = 80.0

	// ContainerNudge is how far below the detected surface an item placed inside a container
	// is put, so that it settles onto the shelf
	ContainerNudge = 0.05

	// ZeroRadius is the random offset radius below which no jitter is applied
	ZeroRadius = 1e-6
)

// Sort cadence constants
const (
	// ImmediateSortThreshold is the sort delay below which every item is sorted at once
	ImmediateSortThreshold = 10 * time.Millisecond

	// DefaultSortDelay is the delay between two placements of a throttled sort
	DefaultSortDelay = 0 * time.Millisecond
)

// Ship constants
const (
	// DefaultWorldTime is the time the world is set to when the server starts (0 = dawn)
	DefaultWorldTime = 0

	// DayLength is the number of ticks in a single day, after which the ship is considered to
	// have left the moon
	DayLength = 24000

	// ShipTickInterval is how often the ship is checked for day rollover
	ShipTickInterval = time.Second
)

// HTTP constants
const (
	// ServiceReadTimeout bounds how long the inspection service waits for a request
	ServiceReadTimeout = 5 * time.Second
)
