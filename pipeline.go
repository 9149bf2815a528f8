package sceneui

import (
	"context"
	"image"
	"time"

	"github.com/chriskillpack/sceneui/describer"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Stage names one step of Process.
type Stage string

const (
	StageRead     Stage = "read"
	StageDecode   Stage = "decode"
	StageEncode   Stage = "encode"
	StageCaption  Stage = "caption"
	StageClassify Stage = "classify"
)

// StageError is returned by Process when a stage fails. Later stages are not
// run.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return string(e.Stage) + " - " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

// Result is the outcome of a successful Process.
type Result struct {
	Description string `json:"description"`
	Category    string `json:"-"`
	WebUIURL    string `json:"web_ui_url"`
}

// Process runs an uploaded image through decode, encode, caption and classify
// and builds the web UI link. It stops at the first failing stage and returns
// a *StageError.
func (s *SceneUI) Process(ctx context.Context, data []byte) (*Result, error) {
	ctx, span := otel.Tracer("sceneui").Start(ctx, "Process")
	defer span.End()
	span.SetAttributes(attribute.String("backend", s.Name()), attribute.Int("bytes", len(data)))

	var (
		img     image.Image
		format  string
		encoded string
		res     = &Result{}
	)

	err := s.runStage(ctx, StageDecode, func(context.Context) (err error) {
		img, format, err = DecodeImage(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Debugw("decoded image", "format", format, "bounds", img.Bounds().String())

	err = s.runStage(ctx, StageEncode, func(context.Context) (err error) {
		encoded, err = EncodeImage(img)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = s.runStage(ctx, StageCaption, func(ctx context.Context) (err error) {
		res.Description, err = s.DescribeImage(ctx, encoded)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = s.runStage(ctx, StageClassify, func(ctx context.Context) (err error) {
		res.Category, err = s.Categorize(ctx, res.Description)
		return err
	})
	if err != nil {
		return nil, err
	}

	if describer.IsKnownCategory(res.Category) {
		categoriesCounter.WithLabelValues(res.Category).Inc()
	} else {
		log.Warnf("category %q is not one of %v, passing it through", res.Category, describer.Categories)
		categoriesCounter.WithLabelValues("other").Inc()
	}
	span.SetAttributes(attribute.String("category", res.Category))

	res.WebUIURL = WebUIURL(s.PublicHost, res.Description, res.Category)
	processCounter.WithLabelValues("ok").Inc()

	return res, nil
}

func (s *SceneUI) runStage(ctx context.Context, stage Stage, fn func(context.Context) error) error {
	ctx, span := otel.Tracer("sceneui").Start(ctx, string(stage))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	stageDurationHist.WithLabelValues(string(stage), s.Name()).Observe(float64(time.Since(start).Milliseconds()))

	if err != nil {
		span.RecordError(err)
		processCounter.WithLabelValues(string(stage)).Inc()
		return &StageError{Stage: stage, Err: err}
	}
	return nil
}
