package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chriskillpack/sceneui"

	"github.com/schollz/progressbar/v3"
	cli "github.com/urfave/cli/v2"
)

type classifyLine struct {
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	WebUIURL    string `json:"web_ui_url,omitempty"`
	Error       string `json:"error,omitempty"`
}

var classifyCmd = &cli.Command{
	Name:      "classify",
	Usage:     "Run local image files through the pipeline, one JSON line per file",
	ArgsUsage: "<image> [<image>...]",
	Flags: append([]cli.Flag{
		&cli.IntFlag{
			Name:  "max-errors",
			Usage: "Stop after this many failed files",
			Value: 5,
		},
	}, backendFlags...),
	Action: func(cctx *cli.Context) error {
		paths := cctx.Args().Slice()
		if len(paths) == 0 {
			return fmt.Errorf("no image files given")
		}

		s, err := initSceneUI(cctx)
		if err != nil {
			return err
		}
		if !s.IsHealthy() {
			return fmt.Errorf("%s backend is not responding", s.Name())
		}

		ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()

		bar := progressbar.NewOptions(
			len(paths),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Classifying"),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
		)

		return classifyFiles(ctx, s, paths, cctx.Int("max-errors"), os.Stdout, func() { bar.Add(1) })
	},
}

// classifyFiles writes one classifyLine per path to w. It gives up once
// maxErrors files have failed or ctx is done.
func classifyFiles(ctx context.Context, s *sceneui.SceneUI, paths []string, maxErrors int, w io.Writer, tick func()) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	var errcnt int
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if errcnt >= maxErrors {
			return fmt.Errorf("too many errors, stopped after %d failures", errcnt)
		}

		line := classifyLine{Path: path}
		res, err := classifyFile(ctx, s, path)
		if err != nil {
			errcnt++
			line.Error = err.Error()
			log.Warnf("%s - %s", path, err)
		} else {
			line.Description = res.Description
			line.Category = res.Category
			line.WebUIURL = res.WebUIURL
		}

		if err := enc.Encode(line); err != nil {
			return err
		}
		tick()
	}

	return nil
}

func classifyFile(ctx context.Context, s *sceneui.SceneUI, path string) (*sceneui.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &sceneui.StageError{Stage: sceneui.StageRead, Err: err}
	}
	return s.Process(ctx, data)
}
