// Package config centralizes the tunable parameters of the terminal host.
package config

import "time"

// Render area. Larger terminals get a centred area of this size.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 70
	HUDRows       = 1 // Text rows reserved above and below the field
)

// Player
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
	ShutdownPollInterval   = 200 * time.Millisecond
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering. One physics tick runs per frame.
const (
	ClientTargetFPS       = 30
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Score hub
const (
	HubTickRate     = 10
	HubTickTime     = time.Second / HubTickRate
	LeaderboardSize = 10
)
