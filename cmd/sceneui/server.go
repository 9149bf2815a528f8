package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/chriskillpack/sceneui"
	"github.com/chriskillpack/sceneui/describer"
	"github.com/chriskillpack/sceneui/webui"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type Server struct {
	e    *echo.Echo
	s    *sceneui.SceneUI
	addr string
}

func NewServer(s *sceneui.SceneUI, addr string) *Server {
	srv := &Server{
		e:    echo.New(),
		s:    s,
		addr: addr,
	}
	srv.e.HideBanner = true
	srv.e.HTTPErrorHandler = srv.handleError

	srv.e.Use(middleware.Logger())
	srv.e.Use(middleware.Recover())

	srv.e.POST("/process_image", srv.handleProcessImage)
	srv.e.GET("/web_ui", srv.handleWebUI)
	srv.e.GET("/healthz", srv.handleHealthz)

	return srv
}

func (s *Server) Start() error {
	err := s.e.Start(s.addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// Every error leaves the server as {"error": msg}.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}
	if code >= 500 {
		log.Errorf("%s %s - %s", c.Request().Method, c.Path(), err)
	}

	if err := c.JSON(code, map[string]any{"error": msg}); err != nil {
		log.Errorf("writing error response - %s", err)
	}
}

func (s *Server) handleProcessImage(c echo.Context) error {
	ctx, span := otel.Tracer("sceneui").Start(c.Request().Context(), "handleProcessImage")
	defer span.End()

	fh, err := c.FormFile("file")
	if err != nil {
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "No file part in the request",
		}
	}
	span.SetAttributes(attribute.String("filename", fh.Filename), attribute.Int64("size", fh.Size))

	data, err := readFormFile(fh)
	if err != nil {
		return &sceneui.StageError{Stage: sceneui.StageRead, Err: err}
	}

	res, err := s.s.Process(ctx, data)
	switch {
	case errors.Is(err, describer.ErrNoCaption):
		return &echo.HTTPError{
			Code:     http.StatusInternalServerError,
			Message:  "Failed to get caption from " + backendLabel(s.s.Name()),
			Internal: err,
		}
	case errors.Is(err, describer.ErrNoCategory):
		return &echo.HTTPError{
			Code:     http.StatusInternalServerError,
			Message:  "Failed to interpret description",
			Internal: err,
		}
	case err != nil:
		return err
	}

	log.Infof("%s described as %q, category %s", fh.Filename, res.Description, res.Category)
	return c.JSON(http.StatusOK, res)
}

var backendLabels = map[string]string{
	"openai": "OpenAI",
	"gemini": "Gemini",
}

// backendLabel returns the display name of a describer backend.
func backendLabel(name string) string {
	if l, ok := backendLabels[name]; ok {
		return l
	}
	return name
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

func (s *Server) handleWebUI(c echo.Context) error {
	// Defaults apply only to a missing parameter, an empty value is kept
	q := c.QueryParams()
	desc, cat := webui.DefaultDescription, webui.DefaultCategory
	if q.Has("desc") {
		desc = q.Get("desc")
	}
	if q.Has("cat") {
		cat = q.Get("cat")
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return webui.Render(c.Response(), desc, cat)
}

func (s *Server) handleHealthz(c echo.Context) error {
	if !s.s.IsHealthy() {
		return c.String(http.StatusServiceUnavailable, fmt.Sprintf("%s backend is not healthy", s.s.Name()))
	}
	return c.String(http.StatusOK, "ok")
}
