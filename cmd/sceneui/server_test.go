package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chriskillpack/sceneui"
	"github.com/chriskillpack/sceneui/describer"
)

type fakeDescriber struct {
	name                    string
	caption, category       string
	captionErr, categoryErr error
	healthy                 bool

	captionCalls, categoryCalls int
}

var _ describer.Describer = &fakeDescriber{}

func (f *fakeDescriber) Name() string {
	if f.name == "" {
		return "fake"
	}
	return f.name
}

func (f *fakeDescriber) IsHealthy() bool { return f.healthy }

func (f *fakeDescriber) DescribeImage(ctx context.Context, image string) (string, error) {
	f.captionCalls++
	return f.caption, f.captionErr
}

func (f *fakeDescriber) Categorize(ctx context.Context, description string) (string, error) {
	f.categoryCalls++
	return f.category, f.categoryErr
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile(field, "frame.png")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/process_image", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(srv *Server, req *http.Request) (*httptest.ResponseRecorder, map[string]string) {
	rec := httptest.NewRecorder()
	srv.e.ServeHTTP(rec, req)

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestProcessImage(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fd := &fakeDescriber{caption: "a tidy desk", category: "desk"}
		srv := NewServer(sceneui.New(fd, "example:3000"), "")

		rec, body := serve(srv, uploadRequest(t, "file", pngBytes(t)))
		if expected, actual := http.StatusOK, rec.Code; expected != actual {
			t.Fatalf("Expected status %d, got %d (%s)", expected, actual, rec.Body)
		}
		if expected, actual := "a tidy desk", body["description"]; expected != actual {
			t.Errorf("Expected description %q, got %q", expected, actual)
		}
		if expected, actual := "http://example:3000/web_ui?desc=a%20tidy%20desk&cat=desk", body["web_ui_url"]; expected != actual {
			t.Errorf("Expected web_ui_url %q, got %q", expected, actual)
		}
		if _, ok := body["category"]; ok {
			t.Error("Category should not be part of the response")
		}
	})

	t.Run("missing file part", func(t *testing.T) {
		fd := &fakeDescriber{}
		srv := NewServer(sceneui.New(fd, ""), "")

		rec, body := serve(srv, uploadRequest(t, "image", pngBytes(t)))
		if expected, actual := http.StatusBadRequest, rec.Code; expected != actual {
			t.Errorf("Expected status %d, got %d", expected, actual)
		}
		if expected, actual := "No file part in the request", body["error"]; expected != actual {
			t.Errorf("Expected error %q, got %q", expected, actual)
		}
		if expected, actual := 0, fd.captionCalls; expected != actual {
			t.Errorf("Expected %d caption calls, got %d", expected, actual)
		}
	})

	t.Run("caption failure", func(t *testing.T) {
		fd := &fakeDescriber{name: "openai", captionErr: fmt.Errorf("%w - upstream 500", describer.ErrNoCaption)}
		srv := NewServer(sceneui.New(fd, ""), "")

		rec, body := serve(srv, uploadRequest(t, "file", pngBytes(t)))
		if expected, actual := http.StatusInternalServerError, rec.Code; expected != actual {
			t.Errorf("Expected status %d, got %d", expected, actual)
		}
		if expected, actual := "Failed to get caption from OpenAI", body["error"]; expected != actual {
			t.Errorf("Expected error %q, got %q", expected, actual)
		}
		if expected, actual := 0, fd.categoryCalls; expected != actual {
			t.Errorf("Expected %d category calls, got %d", expected, actual)
		}
	})

	t.Run("caption failure names the backend", func(t *testing.T) {
		fd := &fakeDescriber{name: "llama", captionErr: describer.ErrNoCaption}
		srv := NewServer(sceneui.New(fd, ""), "")

		_, body := serve(srv, uploadRequest(t, "file", pngBytes(t)))
		if expected, actual := "Failed to get caption from llama", body["error"]; expected != actual {
			t.Errorf("Expected error %q, got %q", expected, actual)
		}
	})

	t.Run("category failure", func(t *testing.T) {
		fd := &fakeDescriber{caption: "a lake", categoryErr: describer.ErrNoCategory}
		srv := NewServer(sceneui.New(fd, ""), "")

		rec, body := serve(srv, uploadRequest(t, "file", pngBytes(t)))
		if expected, actual := http.StatusInternalServerError, rec.Code; expected != actual {
			t.Errorf("Expected status %d, got %d", expected, actual)
		}
		if expected, actual := "Failed to interpret description", body["error"]; expected != actual {
			t.Errorf("Expected error %q, got %q", expected, actual)
		}
	})

	t.Run("undecodable upload", func(t *testing.T) {
		fd := &fakeDescriber{}
		srv := NewServer(sceneui.New(fd, ""), "")

		rec, body := serve(srv, uploadRequest(t, "file", []byte("not an image")))
		if expected, actual := http.StatusInternalServerError, rec.Code; expected != actual {
			t.Errorf("Expected status %d, got %d", expected, actual)
		}
		if !strings.HasPrefix(body["error"], "decode - ") {
			t.Errorf("Expected a decode error, got %q", body["error"])
		}
		if expected, actual := 0, fd.captionCalls; expected != actual {
			t.Errorf("Expected %d caption calls, got %d", expected, actual)
		}
	})
}

func TestWebUI(t *testing.T) {
	srv := NewServer(sceneui.New(&fakeDescriber{}, ""), "")

	t.Run("defaults", func(t *testing.T) {
		rec, _ := serve(srv, httptest.NewRequest(http.MethodGet, "/web_ui", nil))
		if expected, actual := http.StatusOK, rec.Code; expected != actual {
			t.Fatalf("Expected status %d, got %d", expected, actual)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("Expected text/html, got %q", ct)
		}
		page := rec.Body.String()
		for _, want := range []string{"No description provided", "No category provided", "Contextual Web UI"} {
			if !strings.Contains(page, want) {
				t.Errorf("Page is missing %q", want)
			}
		}
	})

	t.Run("gallery", func(t *testing.T) {
		rec, _ := serve(srv, httptest.NewRequest(http.MethodGet, "/web_ui?desc=paintings%20on%20a%20wall&cat=gallery", nil))
		page := rec.Body.String()
		for _, want := range []string{"paintings on a wall", "Gallery View", "Browse through the gallery"} {
			if !strings.Contains(page, want) {
				t.Errorf("Page is missing %q", want)
			}
		}
	})

	t.Run("empty values are kept", func(t *testing.T) {
		rec, _ := serve(srv, httptest.NewRequest(http.MethodGet, "/web_ui?desc=&cat=desk", nil))
		page := rec.Body.String()
		if strings.Contains(page, "No description provided") {
			t.Error("Empty desc should not fall back to the default")
		}
		if !strings.Contains(page, `<p class="description"></p>`) {
			t.Error("Expected an empty description paragraph")
		}
		if !strings.Contains(page, "Desk Setup") {
			t.Error("Page is missing the desk fragments")
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		rec, _ := serve(srv, httptest.NewRequest(http.MethodGet, "/web_ui?desc=a%20stove&cat=kitchen", nil))
		if expected, actual := http.StatusOK, rec.Code; expected != actual {
			t.Errorf("Expected status %d, got %d", expected, actual)
		}
		if !strings.Contains(rec.Body.String(), "a stove") {
			t.Error("Page is missing the description")
		}
	})
}

func TestHealthz(t *testing.T) {
	for _, healthy := range []bool{true, false} {
		srv := NewServer(sceneui.New(&fakeDescriber{healthy: healthy}, ""), "")
		rec, _ := serve(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		expected := http.StatusOK
		if !healthy {
			expected = http.StatusServiceUnavailable
		}
		if actual := rec.Code; expected != actual {
			t.Errorf("healthy=%t: expected status %d, got %d", healthy, expected, actual)
		}
	}
}
