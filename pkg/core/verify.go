package core

import (
	"fmt"

	p "github.com/1F47E/go-framelapse/pkg/core/progress"
	"github.com/1F47E/go-framelapse/pkg/logger"
	"github.com/1F47E/go-framelapse/pkg/preview"
	"github.com/1F47E/go-framelapse/pkg/scan"
)

// Verify decodes the whole sequence at preview resolution before a long
// export is committed to: every unreadable file is reported up front
// instead of turning into a silent black frame hours in. Returns an
// error when any file failed.
func (c *Core) Verify(dir string, nth, workers, vpW, vpH int) error {
	log := logger.Log.WithField("scope", "core verify")

	seq, err := OpenSequence(dir, vpW, vpH)
	if err != nil {
		return err
	}

	files := scan.Nth(seq.Files, nth)
	log.Infof("Verifying %d/%d files in %s (shrink %d)", len(files), len(seq.Files), dir, seq.Shrink)

	p.ProgressReset(len(files), "Verifying... ")
	res, err := preview.Load(c.ctx, files, preview.Options{
		Shrink:  seq.Shrink,
		Workers: workers,
		OnProgress: func(done, total int) {
			p.Set(done)
		},
	})
	p.Finish()
	fmt.Println()
	if err != nil {
		return err
	}

	for _, f := range res.Failures {
		log.Warnf("!!! %s: %v", f.Path, f.Err)
	}

	log.Infof("Source resolution: %dx%d, preview %dx%d",
		seq.SourceW, seq.SourceH, res.PreviewW, res.PreviewH)
	log.Infof("Preview memory: %.1f MB, full resolution export reads %.1f MB",
		framesMB(len(res.Frames), res.PreviewW, res.PreviewH),
		framesMB(len(seq.Files), seq.SourceW, seq.SourceH))

	if len(res.Failures) > 0 {
		return fmt.Errorf("%d of %d files failed to decode", len(res.Failures), len(files))
	}
	log.Infof("All %d files decoded", len(files))
	return nil
}
