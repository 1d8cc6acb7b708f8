package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newImageIndex(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestImageServiceRandomImagePicksFromIndex(t *testing.T) {
	var gotKeyword string
	server := newImageIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/filenames" {
			http.NotFound(w, r)
			return
		}
		gotKeyword = r.URL.Query().Get("keyword")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"filenames":"a.jpg, b.jpg ,, c.jpg"}`))
	})

	svc := NewImageService(ImageServiceOptions{BaseURL: server.URL + "/", Timeout: time.Second})
	svc.randIntN = func(n int) int {
		if n != 3 {
			t.Fatalf("expected 3 candidates, got %d", n)
		}
		return 1
	}

	if got := svc.RandomImage(context.Background(), "Water Damage & Mold"); got != "b.jpg" {
		t.Fatalf("expected b.jpg, got %q", got)
	}
	if gotKeyword != "Water Damage & Mold" {
		t.Fatalf("keyword not forwarded intact: %q", gotKeyword)
	}
}

func TestImageServiceFallsBack(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>nope</html>`))
			},
		},
		{
			name: "missing field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"files":"a.jpg"}`))
			},
		},
		{
			name: "empty list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"filenames":""}`))
			},
		},
		{
			name: "only separators",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"filenames":" , ,"}`))
			},
		},
		{
			name: "slow index",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
				_, _ = w.Write([]byte(`{"filenames":"late.jpg"}`))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := newImageIndex(t, tc.handler)
			svc := NewImageService(ImageServiceOptions{BaseURL: server.URL, Timeout: 100 * time.Millisecond})

			if got := svc.RandomImage(context.Background(), "roofing"); got != DefaultImageFallback {
				t.Fatalf("expected fallback, got %q", got)
			}
		})
	}
}

func TestImageServiceUnreachableIndex(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	svc := NewImageService(ImageServiceOptions{BaseURL: url, Timeout: 200 * time.Millisecond, Fallback: "placeholder.jpg"})
	if got := svc.RandomImage(context.Background(), "roofing"); got != "placeholder.jpg" {
		t.Fatalf("expected configured fallback, got %q", got)
	}
}

func TestImageServiceHonoursCancelledContext(t *testing.T) {
	server := newImageIndex(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"filenames":"a.jpg"}`))
	})
	svc := NewImageService(ImageServiceOptions{BaseURL: server.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := svc.RandomImage(ctx, "roofing"); got != DefaultImageFallback {
		t.Fatalf("expected fallback for cancelled request, got %q", got)
	}
}

func TestImageServiceBoundsInjectedClient(t *testing.T) {
	release := make(chan struct{})
	server := newImageIndex(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`{"filenames":"late.jpg"}`))
	})
	defer close(release)

	svc := NewImageService(ImageServiceOptions{
		BaseURL:    server.URL,
		Timeout:    100 * time.Millisecond,
		HTTPClient: &http.Client{},
	})

	started := time.Now()
	if got := svc.RandomImage(context.Background(), "roofing"); got != DefaultImageFallback {
		t.Fatalf("expected fallback for slow index, got %q", got)
	}
	if elapsed := time.Since(started); elapsed > 2*time.Second {
		t.Fatalf("lookup was not bounded by the timeout, took %v", elapsed)
	}

	_, err := svc.Filenames(context.Background(), "roofing")
	var lookupErr *imageLookupError
	if !errors.As(err, &lookupErr) || lookupErr.kind != lookupTimeout {
		t.Fatalf("expected timeout classification, got %v", err)
	}
}

func TestSplitFilenames(t *testing.T) {
	got := splitFilenames(" a.jpg,b.jpg , ,c d.jpg")
	want := []string{"a.jpg", "b.jpg", "c d.jpg"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
