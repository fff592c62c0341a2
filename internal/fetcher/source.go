package fetcher

import (
	"context"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SourceOptions configures how remote sources are downloaded.
type SourceOptions struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	Limiter    *rate.Limiter // nil = 5 req/s, burst 5
	BaseDelay  time.Duration // first backoff step, default 1s
}

// IsRemote reports whether location is fetched over HTTP rather than opened
// from the local filesystem.
func IsRemote(location string) bool {
	l := strings.ToLower(strings.TrimSpace(location))
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// OpenSource opens a feed location: http(s) URLs are downloaded through an
// HTTPSource, anything else is opened as a local file.
func OpenSource(ctx context.Context, location string, opts SourceOptions) (io.ReadCloser, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, eris.New("source: empty location")
	}
	if IsRemote(location) {
		return NewHTTPSource(opts).Open(ctx, location)
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, eris.Wrapf(err, "source: open %s", location)
	}
	return f, nil
}

// HTTPSource downloads a feed over HTTP with retry and rate limiting.
type HTTPSource struct {
	client  *http.Client
	opts    SourceOptions
	limiter *rate.Limiter
}

// NewHTTPSource creates an HTTPSource with defaults filled in.
func NewHTTPSource(opts SourceOptions) *HTTPSource {
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "callrecon/1.0"
	}
	if opts.BaseDelay == 0 {
		opts.BaseDelay = time.Second
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(5, 5)
	}
	return &HTTPSource{
		client:  &http.Client{Timeout: opts.Timeout},
		opts:    opts,
		limiter: limiter,
	}
}

// Open fetches rawURL and returns the response body. 429 and 5xx responses
// and transport errors are retried with exponential backoff.
func (s *HTTPSource) Open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "source: create request")
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)

	var lastErr error
	for attempt := range s.opts.MaxRetries {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "source: rate limiter wait")
		}

		resp, err := s.client.Do(req.Clone(ctx))
		if err != nil {
			lastErr = err
			zap.L().Warn("source: request failed, retrying",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			s.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = eris.Errorf("http %d from %s", resp.StatusCode, rawURL)
			zap.L().Warn("source: retryable status",
				zap.String("url", rawURL),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			s.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, eris.Errorf("source: unexpected status %d from %s", resp.StatusCode, rawURL)
		}

		return resp.Body, nil
	}

	return nil, eris.Wrapf(lastErr, "source: all %d attempts failed", s.opts.MaxRetries)
}

func (s *HTTPSource) backoff(ctx context.Context, attempt int) {
	maxBackoff := 30 * time.Second
	d := time.Duration(float64(s.opts.BaseDelay) * math.Pow(2, float64(attempt)))
	if d > maxBackoff {
		d = maxBackoff
	}
	if half := int64(d) / 2; half > 0 {
		d += time.Duration(rand.Int64N(half))
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
