package progress

import "github.com/schollz/progressbar/v3"

// package level bar for plain loops like verify, where the full
// bubbletea widget would be overkill
var Progress = progressCreate(-1, "") // init as spinner

func ProgressReset(max int, desc string) {
	Progress = progressCreate(max, desc)
}

func Set(n int) {
	_ = Progress.Set(n)
}

func Finish() {
	_ = Progress.Finish()
}

func progressCreate(max int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]/[reset]",
			SaucerHead:    "[green]/[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
