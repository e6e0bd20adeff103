package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ptdat/skillgate/config"
)

func TestLocalStorageUploadWritesFile(t *testing.T) {
	dir := t.TempDir()
	provider := &localStorageProvider{cfg: &config.Storage{UploadDir: dir}}

	body := "webm bytes"
	url, err := provider.Upload(context.Background(), "cand-1_20250110.webm", strings.NewReader(body), int64(len(body)), "audio/webm")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasSuffix(url, "/cand-1_20250110.webm") {
		t.Fatalf("url = %q, want it to end with the filename", url)
	}

	written, err := os.ReadFile(filepath.Join(dir, "cand-1_20250110.webm"))
	if err != nil {
		t.Fatalf("reading uploaded file: %v", err)
	}
	if string(written) != body {
		t.Fatalf("file contents = %q, want %q", written, body)
	}
}

func TestLocalStorageURL(t *testing.T) {
	provider := &localStorageProvider{cfg: &config.Storage{UploadDir: "recordings"}}
	if got := provider.URL("a.webm"); got != "/recordings/a.webm" {
		t.Fatalf("URL = %q, want /recordings/a.webm", got)
	}
}

func TestMinioProviderHonorsTLSSetting(t *testing.T) {
	base := config.Storage{
		MinioEndpoint: "minio.internal:9000",
		MinioAccessID: "id",
		MinioSecret:   "secret",
		MinioBucket:   "recordings",
	}

	plain := base
	p, err := newMinioStorageProvider(&plain)
	if err != nil {
		t.Fatalf("newMinioStorageProvider: %v", err)
	}
	if got := p.client.EndpointURL().Scheme; got != "http" {
		t.Fatalf("scheme = %q, want http when MINIO_USE_SSL is off", got)
	}

	tls := base
	tls.MinioUseSSL = true
	p, err = newMinioStorageProvider(&tls)
	if err != nil {
		t.Fatalf("newMinioStorageProvider: %v", err)
	}
	if got := p.client.EndpointURL().Scheme; got != "https" {
		t.Fatalf("scheme = %q, want https when MINIO_USE_SSL is on", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain.webm", "plain.webm"},
		{"../../etc/passwd", "passwd"},
		{"with spaces & symbols!.mp4", "with_spaces_symbols_.mp4"},
		{"..hidden..", "hidden"},
		{"candidate 42", "candidate_42"},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAudioRecordingName(t *testing.T) {
	now := time.Date(2025, 1, 10, 14, 30, 5, 0, time.UTC)

	if got := AudioRecordingName("cand-1", "clip.ogg", now); got != "cand-1_20250110143005.ogg" {
		t.Fatalf("AudioRecordingName = %q", got)
	}
	// No extension on the upload defaults to .webm.
	if got := AudioRecordingName("cand-1", "blob", now); got != "cand-1_20250110143005.webm" {
		t.Fatalf("AudioRecordingName without ext = %q", got)
	}
}

func TestVideoRecordingName(t *testing.T) {
	now := time.Date(2025, 1, 10, 14, 30, 5, 0, time.UTC)

	got := VideoRecordingName("cand 1", "../my video.mp4", now)
	if got != "cand_1_20250110143005_my_video.mp4" {
		t.Fatalf("VideoRecordingName = %q", got)
	}
}
