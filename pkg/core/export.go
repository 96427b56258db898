package core

import (
	"fmt"
	"sync"
	"sync/atomic"

	cfg "github.com/1F47E/go-framelapse/pkg/config"
	"github.com/1F47E/go-framelapse/pkg/core/progress"
	"github.com/1F47E/go-framelapse/pkg/encoder"
	"github.com/1F47E/go-framelapse/pkg/job"
	"github.com/1F47E/go-framelapse/pkg/logger"
	"github.com/1F47E/go-framelapse/pkg/queue"
	"github.com/1F47E/go-framelapse/pkg/scan"
	"github.com/1F47E/go-framelapse/pkg/tui"
	"github.com/1F47E/go-framelapse/pkg/workers"
)

// frameSink is what the writer needs from an encoder: take raw frame
// bytes in order, then finalize. The ffmpeg subprocess implements it,
// tests swap in a buffer.
type frameSink interface {
	WriteFrame([]byte) error
	Close() error
}

// ExportOptions is the flag-level description of one export: which
// slice of the sequence, how it is framed and where it goes.
type ExportOptions struct {
	Output  string
	Zoom    float64
	PanX    float64
	PanY    float64
	Start   int
	End     int // -1 means the last file
	FPS     int
	Workers int // 0 picks the default
	VpW     int
	VpH     int
}

// ExportDir frames and exports one folder: scan, probe, capture the
// view snapshot, run the job. Both the export command and each batch
// line come through here.
func (c *Core) ExportDir(dir string, opts ExportOptions) (job.Result, error) {
	seq, err := OpenSequence(dir, opts.VpW, opts.VpH)
	if err != nil {
		return job.Result{Status: job.StatusIdle}, err
	}

	snap, err := seq.Snapshot(opts.Zoom, opts.PanX, opts.PanY, opts.VpW, opts.VpH)
	if err != nil {
		return job.Result{Status: job.StatusIdle}, err
	}

	files := scan.Paths(scan.Range(seq.Files, opts.Start, opts.End))
	req := job.New(files, opts.Output, snap)
	if opts.Workers > 0 {
		req.SetWorkers(opts.Workers)
	}
	if opts.FPS > 0 {
		req.FPS = opts.FPS
	}
	return c.Export(req)
}

// Export runs one job: spin up the render pool, drain frames in index
// order into the encoder, block until done. The calling goroutine is
// the sequential writer.
func (c *Core) Export(req job.Request) (job.Result, error) {
	log := logger.Log.WithField("scope", "core export")

	if err := req.Validate(); err != nil {
		// rejected before the job ever starts
		return job.Result{Status: job.StatusIdle}, err
	}

	log.Infof("Export %s: %d frames -> %s", req.ID, len(req.Files), req.Output)
	log.Debugf("viewport %dx%d, %d workers, %d fps, zoom %.2f, pan (%.1f, %.1f)",
		req.Snapshot.ViewportW, req.Snapshot.ViewportH, req.Workers, req.FPS,
		req.Snapshot.Zoom, req.Snapshot.PanX, req.Snapshot.PanY)

	c.emit(tui.NewEventSpin("Starting encoder..."))
	sink := encoder.New(req.Output, req.Snapshot.ViewportW, req.Snapshot.ViewportH, req.FPS)
	if err := sink.Start(); err != nil {
		// no frames were rendered, nothing to clean up
		return job.Result{Status: job.StatusFailed}, err
	}

	res, err := c.run(req, sink)
	switch res.Status {
	case job.StatusCompleted:
		summary := progress.FormatSummary(res.Elapsed)
		log.Info(summary)
		if res.Failures > 0 {
			log.Warnf("!!! %d frame(s) could not be decoded and were written black", res.Failures)
		}
		c.emit(tui.NewEventText(summary))
	case job.StatusCancelled:
		log.Warnf("Export cancelled after %d/%d frames", res.Written, len(req.Files))
		c.emit(tui.NewEventText("Export cancelled"))
	case job.StatusFailed:
		c.emit(tui.NewEventText("Export failed"))
	}
	return res, err
}

// 1. workers claim indexes off a shared counter, render, park results in
//    the bounded queue
// 2. this goroutine takes index 0,1,2,... in order and streams each to
//    the sink
// 3. cancellation closes the queue so every blocked side lets go
func (c *Core) run(req job.Request, sink frameSink) (job.Result, error) {
	total := len(req.Files)
	tr := req.Snapshot.Transform()
	q := queue.New(req.Workers * cfg.QueueSizeFactor)

	watchDone := make(chan struct{})
	go func() {
		select {
		case <-c.ctx.Done():
			q.Cancel()
		case <-watchDone:
		}
	}()
	defer close(watchDone)

	var next, failures atomic.Int64
	wg := sync.WaitGroup{}
	for i := 0; i < req.Workers; i++ {
		wg.Add(1)
		w := workers.NewRenderer(c.ctx, i+1, req.Files, tr, q, &next, &failures)
		go func() {
			defer wg.Done()
			w.Run()
		}()
	}

	trk := progress.NewTracker(total)
	status := job.StatusRunning
	written := 0
	var writeErr error

	for written < total {
		if c.ctx.Err() != nil {
			status = job.StatusCancelled
			break
		}
		buf, ok := q.Take(written)
		if !ok {
			status = job.StatusCancelled
			break
		}
		if err := sink.WriteFrame(buf); err != nil {
			writeErr = fmt.Errorf("frame %d: %w", written, err)
			status = job.StatusFailed
			break
		}
		written++

		if written%cfg.ProgressEveryFrames == 0 || written == total {
			p := trk.Snapshot(written, int(failures.Load()))
			line := progress.FormatLine(p)
			log.Debug(line)
			c.emit(tui.NewEventBar(line, progress.Ratio(p)))
			if req.OnProgress != nil {
				req.OnProgress(p)
			}
		}
	}
	if status == job.StatusRunning {
		status = job.StatusCompleted
	}

	// unblock any workers still parked in Put, then join them
	q.Cancel()
	wg.Wait()

	cerr := sink.Close()
	if cerr != nil && status == job.StatusCompleted {
		status = job.StatusFailed
		writeErr = cerr
	}

	st := q.Stats()
	log.Debugf("queue stats: puts %d, takes %d, max pending %d (cap %d)",
		st.Puts, st.Takes, st.MaxPending, q.Cap())

	return job.Result{
		Status:   status,
		Written:  written,
		Failures: int(failures.Load()),
		Elapsed:  trk.Elapsed(),
	}, writeErr
}
