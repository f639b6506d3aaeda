package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/fwilhelm/nimbus/pkg/cache"
	"github.com/fwilhelm/nimbus/pkg/cloud"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(Config{Addr: "127.0.0.1:0", Logger: log.New(io.Discard)})
}

func postCloud(t *testing.T, s *Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/cloud", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func smallRequest(format string) layoutRequest {
	return layoutRequest{
		Config: cloud.Config{Width: 200, Height: 150, Seed: 1},
		Tags: []cloud.Tag{
			{Text: "go", Weight: 3},
			{Text: "http", Weight: 1},
		},
		Format: format,
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf(`status field = %q, want "ok"`, body["status"])
	}
}

func TestCloudPNG(t *testing.T) {
	s := newTestServer(t)

	rec := postCloud(t, s, smallRequest("png"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 150 {
		t.Errorf("image size = %dx%d, want 200x150", b.Dx(), b.Dy())
	}
}

func TestCloudSVG(t *testing.T) {
	s := newTestServer(t)

	rec := postCloud(t, s, smallRequest("svg"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	if body := rec.Body.String(); !strings.Contains(body, "<svg") || !strings.Contains(body, ">go</text>") {
		t.Errorf("unexpected SVG body:\n%s", body)
	}
}

func TestCloudJSON(t *testing.T) {
	s := newTestServer(t)

	rec := postCloud(t, s, smallRequest("json"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Width int `json:"width"`
		Tags  []struct {
			Text     string `json:"text"`
			Rendered bool   `json:"rendered"`
		} `json:"tags"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Width != 200 {
		t.Errorf("width = %d, want 200", out.Width)
	}
	if len(out.Tags) != 2 {
		t.Fatalf("tags count = %d, want 2", len(out.Tags))
	}
	for _, tag := range out.Tags {
		if !tag.Rendered {
			t.Errorf("tag %q not rendered", tag.Text)
		}
	}
}

func TestCloudUnsupportedFormat(t *testing.T) {
	s := newTestServer(t)

	rec := postCloud(t, s, smallRequest("gif"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), "INVALID_FORMAT") {
		t.Errorf("body missing error code: %s", rec.Body.String())
	}
}

func TestCloudInvalidTag(t *testing.T) {
	s := newTestServer(t)
	req := smallRequest("json")
	req.Tags[0].Text = ""

	rec := postCloud(t, s, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), "INVALID_TAG") {
		t.Errorf("body missing error code: %s", rec.Body.String())
	}
}

func TestCloudEmptyTags(t *testing.T) {
	s := newTestServer(t)
	req := smallRequest("json")
	req.Tags = nil

	rec := postCloud(t, s, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCloudMalformedBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/cloud", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "fixed-id" {
		t.Errorf("X-Request-ID = %q, want fixed-id", got)
	}

	rec2 := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec2.Header().Get("X-Request-ID") == "" {
		t.Errorf("no X-Request-ID generated")
	}
}

func TestArtifactCaching(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	s := New(Config{Addr: "127.0.0.1:0", Cache: fc, Logger: log.New(io.Discard)})

	first := postCloud(t, s, smallRequest("svg"))
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d", first.Code)
	}
	if got := first.Header().Get("X-Cache"); got != "miss" {
		t.Errorf("first X-Cache = %q, want miss", got)
	}

	second := postCloud(t, s, smallRequest("svg"))
	if second.Code != http.StatusOK {
		t.Fatalf("second status = %d", second.Code)
	}
	if got := second.Header().Get("X-Cache"); got != "hit" {
		t.Errorf("second X-Cache = %q, want hit", got)
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Errorf("cached artifact differs from rendered artifact")
	}
}
