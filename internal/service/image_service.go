package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"landing-pages-backend/pkg/cache"
	"landing-pages-backend/pkg/logger"
)

const (
	DefaultImageFallback     = "default-image.jpg"
	defaultImageIndexTimeout = 2 * time.Second
	maxImageIndexBody        = 1 << 20
)

type imageLookupKind string

const (
	lookupTimeout     imageLookupKind = "timeout"
	lookupUnreachable imageLookupKind = "unreachable"
	lookupStatus      imageLookupKind = "bad_status"
	lookupMalformed   imageLookupKind = "malformed"
	lookupEmpty       imageLookupKind = "empty"
)

type imageLookupError struct {
	kind imageLookupKind
	err  error
}

func (e *imageLookupError) Error() string {
	return fmt.Sprintf("image index %s: %v", e.kind, e.err)
}

func (e *imageLookupError) Unwrap() error {
	return e.err
}

var (
	imageMetricsOnce    sync.Once
	imageLookupsTotal   *prometheus.CounterVec
	imageLookupDuration prometheus.Histogram
)

func initImageMetrics() {
	imageMetricsOnce.Do(func() {
		imageLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landing_pages",
			Subsystem: "image_index",
			Name:      "lookups_total",
			Help:      "Image index lookups by outcome",
		}, []string{"outcome"})

		imageLookupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "landing_pages",
			Subsystem: "image_index",
			Name:      "lookup_duration_seconds",
			Help:      "Duration of image index requests",
			Buckets:   prometheus.DefBuckets,
		})
	})
}

type ImageServiceOptions struct {
	BaseURL    string
	Timeout    time.Duration
	Fallback   string
	Cache      *cache.Cache
	CacheTTL   time.Duration
	HTTPClient *http.Client
}

// ImageService picks a keyword-matched image name from the external image
// index. Every failure resolves to the fallback name.
type ImageService struct {
	baseURL  string
	fallback string
	client   *http.Client
	timeout  time.Duration
	cache    *cache.Cache
	cacheTTL time.Duration
	randIntN func(int) int
}

type filenamesResponse struct {
	Filenames *string `json:"filenames"`
}

func NewImageService(opts ImageServiceOptions) *ImageService {
	initImageMetrics()

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultImageIndexTimeout
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	fallback := strings.TrimSpace(opts.Fallback)
	if fallback == "" {
		fallback = DefaultImageFallback
	}

	return &ImageService{
		baseURL:  strings.TrimSuffix(strings.TrimSpace(opts.BaseURL), "/"),
		fallback: fallback,
		client:   client,
		timeout:  timeout,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		randIntN: rand.IntN,
	}
}

// RandomImage returns one filename matching keyword, picked uniformly.
func (s *ImageService) RandomImage(ctx context.Context, keyword string) string {
	filenames, err := s.Filenames(ctx, keyword)
	if err != nil {
		var lookupErr *imageLookupError
		fields := map[string]interface{}{"keyword": keyword}
		if errors.As(err, &lookupErr) && lookupErr.kind == lookupEmpty {
			logger.Debug("No images matched keyword", fields)
		} else {
			logger.Error(err, "Image index lookup failed", fields)
		}
		return s.fallback
	}

	return filenames[s.randIntN(len(filenames))]
}

// Filenames returns the non-empty filename list for keyword. The cache read
// and the index request share one deadline.
func (s *ImageService) Filenames(ctx context.Context, keyword string) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if s.cache.Enabled() {
		if cached, err := s.cache.GetCachedImageFilenames(ctx, keyword); err == nil && len(cached) > 0 {
			imageLookupsTotal.WithLabelValues("cache_hit").Inc()
			return cached, nil
		}
	}

	filenames, err := s.fetch(ctx, keyword)
	if err != nil {
		var lookupErr *imageLookupError
		if errors.As(err, &lookupErr) {
			imageLookupsTotal.WithLabelValues(string(lookupErr.kind)).Inc()
		}
		return nil, err
	}
	imageLookupsTotal.WithLabelValues("ok").Inc()

	if s.cache.Enabled() {
		if err := s.cache.CacheImageFilenames(ctx, keyword, filenames, s.cacheTTL); err != nil {
			logger.Warn("Failed to cache image filenames", map[string]interface{}{"keyword": keyword, "error": err.Error()})
		}
	}

	return filenames, nil
}

func (s *ImageService) fetch(ctx context.Context, keyword string) ([]string, error) {
	endpoint := s.baseURL + "/filenames?" + url.Values{"keyword": {keyword}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &imageLookupError{kind: lookupUnreachable, err: err}
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := s.client.Do(req)
	imageLookupDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		return nil, &imageLookupError{kind: classifyTransportError(err), err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxImageIndexBody))
		return nil, &imageLookupError{kind: lookupStatus, err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var payload filenamesResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxImageIndexBody)).Decode(&payload); err != nil {
		if isTimeout(err) {
			return nil, &imageLookupError{kind: lookupTimeout, err: err}
		}
		return nil, &imageLookupError{kind: lookupMalformed, err: err}
	}
	if payload.Filenames == nil {
		return nil, &imageLookupError{kind: lookupMalformed, err: errors.New("missing filenames field")}
	}

	filenames := splitFilenames(*payload.Filenames)
	if len(filenames) == 0 {
		return nil, &imageLookupError{kind: lookupEmpty, err: fmt.Errorf("no filenames for %q", keyword)}
	}

	return filenames, nil
}

func splitFilenames(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			result = append(result, name)
		}
	}
	return result
}

func classifyTransportError(err error) imageLookupKind {
	if isTimeout(err) {
		return lookupTimeout
	}
	return lookupUnreachable
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
