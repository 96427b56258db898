package core

import (
	"github.com/1F47E/go-framelapse/pkg/logger"
)

// Info prints what a job against this folder would look like, without
// decoding anything beyond the first file's header.
func (c *Core) Info(dir string, vpW, vpH int) error {
	log := logger.Log.WithField("scope", "core info")

	seq, err := OpenSequence(dir, vpW, vpH)
	if err != nil {
		return err
	}

	lo, hi := seq.IndexRange()
	log.Infof("Folder: %s", dir)
	log.Infof("Files: %d, frame index %d..%d", len(seq.Files), lo, hi)
	if seq.SourceW > 0 {
		log.Infof("Resolution: %dx%d (from %s)", seq.SourceW, seq.SourceH, seq.Files[0].Path)
		log.Infof("Preview shrink factor: %d (preview %dx%d)",
			seq.Shrink, seq.SourceW/seq.Shrink, seq.SourceH/seq.Shrink)
		log.Infof("Export reads %.1f MB of raw pixels, writes %.1f MB to the encoder",
			framesMB(len(seq.Files), seq.SourceW, seq.SourceH),
			framesMB(len(seq.Files), vpW, vpH))
	}
	return nil
}
