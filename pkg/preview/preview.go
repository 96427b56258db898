package preview

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	cfg "github.com/1F47E/go-framelapse/pkg/config"
	"github.com/1F47E/go-framelapse/pkg/frame"
	"github.com/1F47E/go-framelapse/pkg/scan"
)

// Options tunes a preview load. Shrink is the integer downsample
// factor, Workers the number of parallel decoders.
type Options struct {
	Shrink  int
	Workers int

	// called after every file, from multiple goroutines
	OnProgress func(done, total int)
}

// Failure records one undecodable file, by its position in the sequence.
type Failure struct {
	Index int
	Path  string
	Err   error
}

// Result carries the shrunk frames in sequence order, with failed files
// dropped the way the viewer drops them.
type Result struct {
	Frames   []*frame.Frame
	Failures []Failure

	// dimensions of the first loaded preview frame
	PreviewW int
	PreviewH int
}

// AutoShrink picks the smallest integer factor that keeps a preview at
// about twice the viewport per axis, enough headroom to zoom without
// going blurry while staying far below full resolution memory.
func AutoShrink(srcW, srcH, vpW, vpH int) int {
	shrinkX := srcW / (cfg.PreviewTargetFactor * vpW)
	shrinkY := srcH / (cfg.PreviewTargetFactor * vpH)
	shrink := shrinkX
	if shrinkY > shrink {
		shrink = shrinkY
	}
	if shrink < 1 {
		shrink = 1
	}
	return shrink
}

// Load decodes and shrinks a file sequence in parallel. The sequence is
// split into contiguous ranges, one per worker, so frames land in their
// slots without any cross-worker coordination. Per-file failures are
// collected, not fatal; cancellation is checked between files.
func Load(ctx context.Context, files []scan.File, opts Options) (Result, error) {
	total := len(files)
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Workers > total {
		opts.Workers = total
	}
	if opts.Shrink < 1 {
		opts.Shrink = 1
	}

	loaded := make([]*frame.Frame, total)
	var mu sync.Mutex
	var failures []Failure
	var done atomic.Int64

	per := (total + opts.Workers - 1) / opts.Workers
	wg := sync.WaitGroup{}
	for w := 0; w < opts.Workers; w++ {
		start := w * per
		end := start + per
		if end > total {
			end = total
		}
		if start >= end {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if ctx.Err() != nil {
					return
				}
				f, err := frame.Decode(files[i].Path)
				if err != nil {
					mu.Lock()
					failures = append(failures, Failure{Index: i, Path: files[i].Path, Err: err})
					mu.Unlock()
				} else {
					loaded[i] = frame.Shrink(f, opts.Shrink)
				}
				d := done.Add(1)
				if opts.OnProgress != nil {
					opts.OnProgress(int(d), total)
				}
			}
		}(start, end)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{Failures: failures}
	sort.Slice(res.Failures, func(i, j int) bool {
		return res.Failures[i].Index < res.Failures[j].Index
	})
	for _, f := range loaded {
		if f == nil {
			continue
		}
		if res.PreviewW == 0 {
			res.PreviewW = f.W
			res.PreviewH = f.H
		}
		res.Frames = append(res.Frames, f)
	}
	return res, nil
}
