package config

// NOTE: all frames are raw RGB24, written left to right, top to bottom
const (
	BytesPerPixel = 3

	// output viewport limits, same as the viewer window
	DefaultViewportW = 1000
	DefaultViewportH = 1000
	MinViewport      = 100
	MaxViewportW     = 7680
	MaxViewportH     = 4320

	MinZoom = 1.0
	MaxZoom = 10.0

	MinWorkers = 1
	MaxWorkers = 64

	DefaultFPS = 30

	// frames held between renderers and the writer, per worker
	QueueSizeFactor = 2

	// writer reports progress every N written frames
	ProgressEveryFrames = 10

	// preview loading
	// auto shrink targets a preview about 2x the viewport per axis
	PreviewTargetFactor = 2
	FallbackShrink      = 4

	// encoder
	FFmpegBinary = "ffmpeg"
	FFmpegCRF    = 18
	EnvFFmpeg    = "FRAMELAPSE_FFMPEG"

	// batch settings file, one job per line:
	// output.mp4|zoom|panX|panY|startFrame|endFrame|fps
	SettingsFile = "export_settings.txt"
)
