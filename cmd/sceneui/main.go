package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chriskillpack/sceneui"
	"github.com/chriskillpack/sceneui/internal/gemini"
	"github.com/chriskillpack/sceneui/internal/openai"

	logging "github.com/ipfs/go-log"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cli "github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var log = logging.Logger("sceneui/cmd")

var backendFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "public-host",
		Usage:   "host:port written into web UI links",
		Value:   sceneui.DefaultPublicHost,
		EnvVars: []string{"SCENEUI_PUBLIC_HOST"},
	},
	&cli.BoolFlag{
		Name:  "openai",
		Usage: "Use OpenAI",
	},
	&cli.StringFlag{
		Name:    "openai-api-key",
		EnvVars: []string{"OPENAI_API_KEY"},
	},
	&cli.StringFlag{
		Name:  "caption-model",
		Value: openai.DefaultCaptionModel,
	},
	&cli.StringFlag{
		Name:  "category-model",
		Value: openai.DefaultCategoryModel,
	},
	&cli.BoolFlag{
		Name:  "gemini",
		Usage: "Use Gemini",
	},
	&cli.StringFlag{
		Name:    "gemini-api-key",
		EnvVars: []string{"GEMINI_API_KEY"},
	},
	&cli.StringFlag{
		Name:  "gemini-model",
		Value: gemini.DefaultModel,
	},
	&cli.StringFlag{
		Name:  "llama",
		Usage: "Address of running llama server, typically http://localhost:8080",
	},
	&cli.IntFlag{
		Name:  "llama-seed",
		Value: 385480504,
	},
	&cli.DurationFlag{
		Name:  "http-timeout",
		Usage: "Timeout for each outbound model request",
		Value: 60 * time.Second,
	},
}

func main() {
	// A missing .env is fine, everything can come from flags or the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "loading .env - %s\n", err)
	}

	app := cli.NewApp()
	app.Name = "sceneui"
	app.Usage = "Describe a camera frame and serve a web UI for the scene"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			EnvVars: []string{"SCENEUI_LOG_LEVEL"},
		},
	}
	app.Before = func(cctx *cli.Context) error {
		return logging.SetLogLevel("*", cctx.String("log-level"))
	}
	app.Commands = []*cli.Command{
		serveCmd,
		classifyCmd,
	}

	app.RunAndExitOnError()
}

func initSceneUI(cctx *cli.Context) (*sceneui.SceneUI, error) {
	sio := sceneui.InitOptions{
		OpenAI:        cctx.Bool("openai"),
		OpenAIAPIKey:  cctx.String("openai-api-key"),
		CaptionModel:  cctx.String("caption-model"),
		CategoryModel: cctx.String("category-model"),
		Gemini:        cctx.Bool("gemini"),
		GeminiAPIKey:  cctx.String("gemini-api-key"),
		GeminiModel:   cctx.String("gemini-model"),
		LlamaServer:   cctx.String("llama"),
		LlamaSeed:     cctx.Int("llama-seed"),
		PublicHost:    cctx.String("public-host"),
		HttpClient: &http.Client{
			Timeout: cctx.Duration("http-timeout"),
		},
	}
	return sceneui.Init(sio)
}

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "Run the HTTP server",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:    "listen",
			Value:   "0.0.0.0:3000",
			EnvVars: []string{"SCENEUI_LISTEN"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "Address for the Prometheus /metrics listener, empty disables it",
			Value:   ":5252",
			EnvVars: []string{"SCENEUI_METRICS_LISTEN"},
		},
	}, backendFlags...),
	Action: func(cctx *cli.Context) error {
		s, err := initSceneUI(cctx)
		if err != nil {
			return err
		}
		if !s.IsHealthy() {
			log.Warnf("%s backend is not healthy, requests will fail until it is", s.Name())
		}

		ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := NewServer(s, cctx.String("listen"))

		var metrics *http.Server
		if addr := cctx.String("metrics-listen"); addr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			metrics = &http.Server{Addr: addr, Handler: mux}
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.Infof("Listening on %s using %s backend, links point at %s", cctx.String("listen"), s.Name(), s.PublicHost)
			return srv.Start()
		})
		if metrics != nil {
			g.Go(func() error {
				if err := metrics.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		}
		g.Go(func() error {
			<-gctx.Done()
			log.Info("Shutting down")

			sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if metrics != nil {
				metrics.Shutdown(sctx)
			}
			return srv.Shutdown(sctx)
		})

		return g.Wait()
	},
}
