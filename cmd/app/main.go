package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli"

	"github.com/1F47E/go-framelapse/pkg/batch"
	cfg "github.com/1F47E/go-framelapse/pkg/config"
	"github.com/1F47E/go-framelapse/pkg/core"
	"github.com/1F47E/go-framelapse/pkg/logger"
	"github.com/1F47E/go-framelapse/pkg/tui"
)

var app = cli.NewApp()
var log = logger.Log

var viewFlags = []cli.Flag{
	cli.Float64Flag{Name: "zoom, z", Value: 1.0, Usage: "zoom level"},
	cli.Float64Flag{Name: "pan-x", Usage: "horizontal pan, in preview image pixels"},
	cli.Float64Flag{Name: "pan-y", Usage: "vertical pan, in preview image pixels"},
	cli.IntFlag{Name: "width, W", Value: cfg.DefaultViewportW, Usage: "output frame width"},
	cli.IntFlag{Name: "height, H", Value: cfg.DefaultViewportH, Usage: "output frame height"},
}

func init() {
	app.Name = "framelapse"
	app.Usage = "An image sequence to video renderer"
	app.UsageText = "framelapse [command] folder"
	app.HideHelp = true
	app.HideVersion = true
	app.ArgsUsage = ""
	app.Commands = []cli.Command{
		{
			Name:    "export",
			Aliases: []string{"e"},
			Usage:   "Export a framed view of a sequence to mp4",
			Flags: append([]cli.Flag{
				cli.StringFlag{Name: "out, o", Value: "out.mp4", Usage: "output video path"},
				cli.IntFlag{Name: "fps, f", Value: cfg.DefaultFPS, Usage: "output frame rate"},
				cli.IntFlag{Name: "start, s", Usage: "first frame of the range"},
				cli.IntFlag{Name: "end, e", Value: -1, Usage: "last frame of the range, -1 for the end"},
				cli.IntFlag{Name: "threads, t", Usage: "render workers, default is the cpu count"},
				cli.BoolFlag{Name: "save-settings", Usage: "bank this view as a batch line instead of exporting"},
			}, viewFlags...),
			Action: cmdExport,
		},
		{
			Name:    "batch",
			Aliases: []string{"b"},
			Usage:   "Run every job of a settings file against a folder",
			Flags: append([]cli.Flag{
				cli.StringFlag{Name: "settings", Value: cfg.SettingsFile, Usage: "settings file path"},
				cli.IntFlag{Name: "fps, f", Usage: "override frame rate for every job"},
				cli.IntFlag{Name: "threads, t", Usage: "render workers, default is the cpu count"},
			}, viewFlags[3:]...),
			Action: cmdBatch,
		},
		{
			Name:    "verify",
			Aliases: []string{"v"},
			Usage:   "Decode the whole sequence and report unreadable files",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "nth, n", Value: 1, Usage: "check every nth file only"},
				cli.IntFlag{Name: "threads, t", Usage: "decode workers, default is the cpu count"},
				cli.IntFlag{Name: "width, W", Value: cfg.DefaultViewportW, Usage: "output frame width"},
				cli.IntFlag{Name: "height, H", Value: cfg.DefaultViewportH, Usage: "output frame height"},
			},
			Action: cmdVerify,
		},
		{
			Name:    "info",
			Aliases: []string{"i"},
			Usage:   "Print sequence facts without decoding",
			Flags:   viewFlags[3:],
			Action:  cmdInfo,
		},
	}
}

func cmdExport(c *cli.Context) error {
	dir, err := getFolder(c)
	if err != nil {
		return err
	}

	if c.Bool("save-settings") {
		line := batch.Line{
			Output: c.String("out"),
			Zoom:   c.Float64("zoom"),
			PanX:   c.Float64("pan-x"),
			PanY:   c.Float64("pan-y"),
			Start:  c.Int("start"),
			End:    c.Int("end"),
			FPS:    c.Int("fps"),
		}
		if err := batch.Append(cfg.SettingsFile, line); err != nil {
			return err
		}
		log.Infof("Saved to %s: %s", cfg.SettingsFile, line.Format())
		return nil
	}

	ctx, cleanup := setup()
	defer cleanup()
	go tui.New(eventsCh, ctx).Run()

	_, err = newCore(ctx).ExportDir(dir, core.ExportOptions{
		Output:  c.String("out"),
		Zoom:    c.Float64("zoom"),
		PanX:    c.Float64("pan-x"),
		PanY:    c.Float64("pan-y"),
		Start:   c.Int("start"),
		End:     c.Int("end"),
		FPS:     c.Int("fps"),
		Workers: c.Int("threads"),
		VpW:     c.Int("width"),
		VpH:     c.Int("height"),
	})
	return err
}

func cmdBatch(c *cli.Context) error {
	dir, err := getFolder(c)
	if err != nil {
		return err
	}
	ctx, cleanup := setup()
	defer cleanup()
	go tui.New(eventsCh, ctx).Run()

	return newCore(ctx).RunBatch(dir, c.String("settings"),
		c.Int("threads"), c.Int("width"), c.Int("height"), c.Int("fps"))
}

func cmdVerify(c *cli.Context) error {
	dir, err := getFolder(c)
	if err != nil {
		return err
	}
	ctx, cleanup := setup()
	defer cleanup()

	return newCore(ctx).Verify(dir, c.Int("nth"), c.Int("threads"),
		c.Int("width"), c.Int("height"))
}

func cmdInfo(c *cli.Context) error {
	dir, err := getFolder(c)
	if err != nil {
		return err
	}
	ctx, cleanup := setup()
	defer cleanup()

	return newCore(ctx).Info(dir, c.Int("width"), c.Int("height"))
}

func getFolder(c *cli.Context) (string, error) {
	dir := c.Args().Get(0)
	if dir == "" {
		return "", fmt.Errorf("Folder is required")
	}
	return dir, nil
}

var eventsCh = make(chan tui.Event, 16)

func newCore(ctx context.Context) *core.Core {
	return core.NewCore(ctx, eventsCh)
}

// setup wires the interrupt signals to a job context. First signal
// cancels the running job so it drains to a valid partial file, second
// one gives up waiting.
func setup() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Interrupted, finishing the current frame...")
		cancel()
		<-sigCh
		log.Error("Forced exit")
		os.Exit(1)
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

func main() {
	_ = godotenv.Load()
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
