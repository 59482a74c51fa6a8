package config

import "time"

// Canvas defaults, matching the demo scene.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Output
const (
	DefaultOutput = "polygon1.bmp"
)

// Terminal preview limits. Larger terminals get a centered preview.
const (
	MaxPreviewCols = 200
	MaxPreviewRows = 60
)

// MaxChunkSize is the maximum bytes written at once for terminal output.
// 1400 bytes stays under a typical MTU for smooth SSH transmission.
const MaxChunkSize = 1400

// Interactive viewer
const (
	ViewerPollInterval = 50 * time.Millisecond
	ViewerIdleTimeout  = 10 * time.Minute
)

// Web rendering limits for scenes posted to the HTTP server.
const (
	MaxSceneBytes = 1 << 20
	MaxWebPixels  = 4096 * 4096
)
