package sse

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriterFrames(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-cache" {
		t.Errorf("Cache-Control = %q, want no-cache", got)
	}

	if err := w.WriteText("Hello"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if err := w.WriteText(`with "quotes" and
newline`); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if err := w.WriteKeepAlive(); err != nil {
		t.Fatalf("WriteKeepAlive: %v", err)
	}
	if err := w.WriteDone(); err != nil {
		t.Fatalf("WriteDone: %v", err)
	}

	body := rec.Body.String()
	wantFrames := []string{
		"data: {\"text\":\"Hello\"}\n\n",
		"data: {\"text\":\"with \\\"quotes\\\" and\\nnewline\"}\n\n",
		": keepalive\n\n",
		"data: {\"done\":true}\n\n",
	}
	for _, frame := range wantFrames {
		if !strings.Contains(body, frame) {
			t.Errorf("body missing frame %q\nbody: %q", frame, body)
		}
	}

	// Frames arrive in write order.
	if strings.Index(body, `"Hello"`) > strings.Index(body, `"done"`) {
		t.Error("done frame written before text frame")
	}
}

func TestWriterError(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	if err := w.WriteError("upstream unavailable"); err != nil {
		t.Fatalf("WriteError: %v", err)
	}

	want := "data: {\"error\":\"upstream unavailable\"}\n\n"
	if got := rec.Body.String(); !strings.Contains(got, want) {
		t.Errorf("body = %q, want frame %q", got, want)
	}
}
