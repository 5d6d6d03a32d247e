package camera

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestSnapshotFetchesImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/camera_proxy/camera.front_yard" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", "camera.front_yard", quietLogger())
	image, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if string(image) != "jpeg-bytes" {
		t.Fatalf("unexpected image payload %q", image)
	}
}

func TestSnapshotRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "entity not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", "camera.missing", quietLogger())
	if _, err := c.Snapshot(context.Background()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestSnapshotRejectsEmptyImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", "camera.front_yard", quietLogger())
	if _, err := c.Snapshot(context.Background()); err == nil {
		t.Fatal("expected error for empty image body")
	}
}
