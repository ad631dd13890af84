package fetch

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// identityPool is the fixed set of browser identities rotated across
// attempts. Scraped sources fingerprint repeat clients, so every attempt
// presents a fresh identity.
var identityPool = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

// Config controls retry, backoff, and throttling behavior.
type Config struct {
	MaxRetries     int           // total attempt ceiling
	BaseDelay      time.Duration // exponential backoff base
	RequestTimeout time.Duration
	JitterMin      time.Duration // uniform jitter added to each backoff
	JitterMax      time.Duration
	RPS            float64 // per-host request rate
	Burst          int
}

// DefaultConfig matches the general scrape policy: 3 retries, 2s base
// delay, jitter in [1,3)s.
func DefaultConfig() Config {
	return Config{
		MaxRetries:     3,
		BaseDelay:      2 * time.Second,
		RequestTimeout: 15 * time.Second,
		JitterMin:      1 * time.Second,
		JitterMax:      3 * time.Second,
		RPS:            1,
		Burst:          2,
	}
}

// PriceHistoryConfig is the tighter policy used against daily price pages,
// which tolerate faster polling but still block bursts.
func PriceHistoryConfig() Config {
	cfg := DefaultConfig()
	cfg.BaseDelay = time.Second
	cfg.JitterMin = 200 * time.Millisecond
	cfg.JitterMax = 800 * time.Millisecond
	return cfg
}

// FetchError reports retry-ceiling exhaustion against a source. Callers must
// handle it explicitly; nothing is swallowed internally.
type FetchError struct {
	URL        string
	Attempts   int
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s failed after %d attempts (HTTP %d): %v", e.URL, e.Attempts, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher performs resilient GETs against scraped sources. It owns no
// mutable state beyond per-host limiters and breakers; the identity pool is
// read-only.
type Fetcher struct {
	cfg    Config
	client *http.Client

	// Observe, when set, receives one call per attempt with the target
	// host and "success" or "error".
	Observe func(host, outcome string)

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	breakers map[string]*gobreaker.CircuitBreaker
}

// New creates a Fetcher with the given policy.
func New(cfg Config) *Fetcher {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	return &Fetcher{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.RequestTimeout},
		limiters: make(map[string]*rate.Limiter),
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

// Fetch GETs url and returns the response body as text. Each attempt uses a
// randomized client identity; 429/403 and transport errors back off
// exponentially with jitter before the next attempt. After MaxRetries
// attempts the last error is returned wrapped in *FetchError; no further
// attempt is made past the ceiling.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error
	lastStatus := 0

	attempts := f.cfg.MaxRetries
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := f.sleepBackoff(ctx, attempt); err != nil {
				return "", &FetchError{URL: url, Attempts: attempt, StatusCode: lastStatus, Err: err}
			}
		}

		if err := f.limiter(url).Wait(ctx); err != nil {
			return "", &FetchError{URL: url, Attempts: attempt + 1, StatusCode: lastStatus, Err: err}
		}

		body, status, err := f.attempt(ctx, url)
		if err == nil {
			f.observe(url, "success")
			return body, nil
		}
		f.observe(url, "error")
		lastErr = err
		lastStatus = status

		log.Debug().
			Str("url", url).
			Int("attempt", attempt+1).
			Int("status", status).
			Err(err).
			Msg("fetch attempt failed")
	}

	return "", &FetchError{URL: url, Attempts: attempts, StatusCode: lastStatus, Err: lastErr}
}

func (f *Fetcher) attempt(ctx context.Context, url string) (string, int, error) {
	result, err := f.breaker(url).Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", identityPool[rand.Intn(len(identityPool))])
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			// Drain so the connection can be reused.
			_, _ = io.Copy(io.Discard, resp.Body)
			return resp.StatusCode, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return string(data), nil
	})
	if err != nil {
		if status, ok := result.(int); ok {
			return "", status, err
		}
		return "", 0, err
	}
	return result.(string), http.StatusOK, nil
}

func (f *Fetcher) observe(url, outcome string) {
	if f.Observe != nil {
		f.Observe(hostOf(url), outcome)
	}
}

func (f *Fetcher) sleepBackoff(ctx context.Context, attempt int) error {
	delay := f.cfg.BaseDelay * time.Duration(1<<uint(attempt-1))
	if span := f.cfg.JitterMax - f.cfg.JitterMin; span > 0 {
		delay += f.cfg.JitterMin + time.Duration(rand.Int63n(int64(span)))
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fetcher) limiter(url string) *rate.Limiter {
	host := hostOf(url)
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.limiters[host]; ok {
		return l
	}
	rps := f.cfg.RPS
	if rps <= 0 {
		rps = 1
	}
	burst := f.cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	l := rate.NewLimiter(rate.Limit(rps), burst)
	f.limiters[host] = l
	return l
}

func (f *Fetcher) breaker(url string) *gobreaker.CircuitBreaker {
	host := hostOf(url)
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.breakers[host]; ok {
		return b
	}
	b := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    host,
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 8
		},
	})
	f.breakers[host] = b
	return b
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
