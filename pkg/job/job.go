package job

import (
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"

	cfg "github.com/1F47E/go-framelapse/pkg/config"
	"github.com/1F47E/go-framelapse/pkg/view"
)

// Status is the lifecycle of one export job.
// Idle -> Running -> Completed | Cancelled | Failed.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusCompleted
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Progress is one writer-side report, emitted every few frames and once
// at the end of the job.
type Progress struct {
	Written  int
	Total    int
	Failures int
	FPS      float64
	ETA      time.Duration
	Elapsed  time.Duration
}

// Request describes one export job. Built once before the pipeline
// starts, read-only afterwards.
type Request struct {
	ID       uuid.UUID
	Files    []string
	Output   string
	Workers  int
	FPS      int
	Snapshot view.Snapshot

	// called from the writer goroutine, keep it cheap
	OnProgress func(Progress)
}

// New fills in defaults and clamps the tunables the same way the viewer
// does, so batch lines and flags cannot push the pipeline outside its
// supported envelope.
func New(files []string, output string, snap view.Snapshot) Request {
	return Request{
		ID:       uuid.New(),
		Files:    files,
		Output:   output,
		Workers:  clampWorkers(runtime.NumCPU()),
		FPS:      cfg.DefaultFPS,
		Snapshot: snap,
	}
}

func (r *Request) SetWorkers(n int) {
	r.Workers = clampWorkers(n)
}

func (r Request) Validate() error {
	if len(r.Files) == 0 {
		return fmt.Errorf("no input files")
	}
	if r.Output == "" {
		return fmt.Errorf("no output path")
	}
	if r.FPS < 1 {
		return fmt.Errorf("fps %d out of range", r.FPS)
	}
	s := r.Snapshot
	if s.ViewportW < cfg.MinViewport || s.ViewportW > cfg.MaxViewportW ||
		s.ViewportH < cfg.MinViewport || s.ViewportH > cfg.MaxViewportH {
		return fmt.Errorf("viewport %dx%d out of range", s.ViewportW, s.ViewportH)
	}
	if s.SourceW < 1 || s.SourceH < 1 {
		return fmt.Errorf("source dimensions %dx%d out of range", s.SourceW, s.SourceH)
	}
	if s.Zoom < cfg.MinZoom || s.Zoom > cfg.MaxZoom {
		return fmt.Errorf("zoom %.2f out of range", s.Zoom)
	}
	return nil
}

// FrameSize is the raw byte size of one output frame.
func (r Request) FrameSize() int {
	return r.Snapshot.ViewportW * r.Snapshot.ViewportH * cfg.BytesPerPixel
}

// Result is what one export job leaves behind.
type Result struct {
	Status   Status
	Written  int
	Failures int
	Elapsed  time.Duration
}

func clampWorkers(n int) int {
	if n < cfg.MinWorkers {
		return cfg.MinWorkers
	}
	if n > cfg.MaxWorkers {
		return cfg.MaxWorkers
	}
	return n
}
