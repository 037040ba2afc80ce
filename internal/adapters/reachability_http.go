package adapters

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"schema-flattener/internal/ports"
	"schema-flattener/internal/shared"
)

const defaultCheckTimeout = 5 * time.Second
const defaultChecksPerSecond = 5.0
const reachabilityUserAgent = "schema-flattener"

// HTTPReachabilityAdapter probes URLs with HEAD, falling back to GET for
// servers that do not implement HEAD. Probes share one rate limiter so a
// schema with many namespaces does not burst external hosts.
type HTTPReachabilityAdapter struct {
	Client  *http.Client
	Limiter *rate.Limiter
}

// NewHTTPReachabilityAdapter paces probes at checksPerSecond. Zero selects
// the default rate; a negative value disables pacing.
func NewHTTPReachabilityAdapter(checksPerSecond float64) HTTPReachabilityAdapter {
	if checksPerSecond == 0 {
		checksPerSecond = defaultChecksPerSecond
	}
	var limiter *rate.Limiter
	if checksPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(checksPerSecond), 1)
	}
	return HTTPReachabilityAdapter{
		Client:  &http.Client{},
		Limiter: limiter,
	}
}

func (a HTTPReachabilityAdapter) Check(ctx context.Context, url string, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if a.Limiter != nil {
		if err := a.Limiter.Wait(ctx); err != nil {
			log.Debug().Err(err).Str("url", url).Msg("reachability check not started")
			return false
		}
	}
	status, err := a.probe(ctx, http.MethodHead, url)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		status, err = a.probe(ctx, http.MethodGet, url)
	}
	if err != nil {
		log.Debug().Err(err).Str("url", url).Msg("reachability check failed")
		return false
	}
	if status < http.StatusOK || status >= http.StatusBadRequest {
		log.Debug().Err(shared.HTTPStatusError(status, url)).Msg("reachability check rejected")
		return false
	}
	log.Debug().Str("url", url).Int("status", status).Msg("reachability check completed")
	return true
}

func (a HTTPReachabilityAdapter) probe(ctx context.Context, method string, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", reachabilityUserAgent)
	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return resp.StatusCode, nil
}

var _ ports.ReachabilityPort = HTTPReachabilityAdapter{}
