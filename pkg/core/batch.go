package core

import (
	"fmt"

	"github.com/1F47E/go-framelapse/pkg/batch"
	"github.com/1F47E/go-framelapse/pkg/job"
	"github.com/1F47E/go-framelapse/pkg/logger"
)

// RunBatch replays a settings file against one folder, one export job
// per line, sequentially. A failed line stops the batch and a
// cancelled line abandons the remainder, banked views are cheap to
// re-run but an unattended batch must not churn past a broken encoder.
func (c *Core) RunBatch(dir, settingsPath string, workers, vpW, vpH, fps int) error {
	log := logger.Log.WithField("scope", "core batch")

	lines, err := batch.ParseFile(settingsPath)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return fmt.Errorf("no jobs in %s", settingsPath)
	}
	log.Infof("Batch: %d job(s) from %s", len(lines), settingsPath)

	for i, l := range lines {
		log.Infof("Job %d/%d: %s", i+1, len(lines), l.Output)

		opts := ExportOptions{
			Output:  l.Output,
			Zoom:    l.Zoom,
			PanX:    l.PanX,
			PanY:    l.PanY,
			Start:   l.Start,
			End:     l.End,
			FPS:     l.FPS,
			Workers: workers,
			VpW:     vpW,
			VpH:     vpH,
		}
		if fps > 0 {
			opts.FPS = fps
		}

		res, err := c.ExportDir(dir, opts)
		if err != nil {
			return fmt.Errorf("job %d (%s): %w", i+1, l.Output, err)
		}
		if res.Status == job.StatusCancelled {
			log.Warnf("Batch cancelled at job %d/%d", i+1, len(lines))
			return nil
		}
	}
	log.Infof("Batch done, %d job(s)", len(lines))
	return nil
}
