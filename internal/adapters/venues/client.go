package venues

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// Rate limits al 60% de los límites documentados de cada venue.
	// Kalshi basic tier: 10/s → 6/s. Gamma /markets: 300/10s → 18/s.
	kalshiRatePerSec = 6
	gammaRatePerSec  = 18

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
	maxRetryWait  = 30 * time.Second
)

// httpClient es el cliente HTTP compartido por los adapters de venue:
// rate limiting por token bucket y retries con backoff exponencial.
type httpClient struct {
	http    *http.Client
	limiter *rate.Limiter
}

func newHTTPClient(perSec float64, burst int) *httpClient {
	return &httpClient{
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(perSec), burst),
	}
}

// get hace un GET JSON con rate limiting y retries.
func (c *httpClient) get(ctx context.Context, url string, out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt, 0)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			slog.Warn("retryable venue error", "status", resp.StatusCode, "attempt", attempt+1)
			c.sleep(ctx, attempt, retryAfter)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep espera con backoff exponencial acotado, respetando el contexto.
// Un Retry-After del servidor se respeta tal cual.
func (c *httpClient) sleep(ctx context.Context, attempt int, retryAfter time.Duration) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	if retryAfter > 0 {
		wait = retryAfter
	}
	if wait > maxRetryWait {
		wait = maxRetryWait
	}
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}

// parseRetryAfter interpreta el header Retry-After en segundos.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
