package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"project-upgrader/internal/shared"
	"project-upgrader/internal/types"
)

const (
	defaultRegistryTimeout    = 60 * time.Second
	defaultRegistryAttempts   = 3
	defaultRegistryRetryDelay = 200 * time.Millisecond
	maxRegistryRetryDelay     = 2 * time.Second
	defaultRegistryUser       = "api"
)

// registryClient fetches JSON documents from a package registry. A missing
// document (404) is not an error. Transport failures, 5xx and 429 are
// retried with capped exponential backoff.
type registryClient struct {
	http     *http.Client
	user     string
	apiKey   string
	attempts int
	delay    time.Duration
}

func newRegistryClient(cfg types.RegistryConfig) registryClient {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = defaultRegistryTimeout
	}
	attempts := cfg.Retries
	if attempts <= 0 {
		attempts = defaultRegistryAttempts
	}
	delay := time.Duration(cfg.RetryDelayMs) * time.Millisecond
	if delay <= 0 {
		delay = defaultRegistryRetryDelay
	}
	user := strings.TrimSpace(cfg.User)
	if user == "" {
		user = defaultRegistryUser
	}
	return registryClient{
		http:     &http.Client{Timeout: timeout},
		user:     user,
		apiKey:   strings.TrimSpace(cfg.APIKey),
		attempts: attempts,
		delay:    delay,
	}
}

// getJSON decodes the document at url into out. found is false when the
// registry answers 404.
func (c registryClient) getJSON(ctx context.Context, url string, out any) (bool, error) {
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, c.backoff(attempt)); err != nil {
				return false, requestCanceled(err)
			}
		}
		found, retry, err := c.fetch(ctx, url, out)
		if err == nil {
			return found, nil
		}
		if !retry {
			return false, err
		}
		lastErr = err
		log.Ctx(ctx).Debug().Err(err).Int("attempt", attempt+1).Str("url", url).Msg("registry request failed, retrying")
	}
	return false, lastErr
}

// fetch performs one request. retry reports whether a later attempt may
// succeed.
func (c registryClient) fetch(ctx context.Context, url string, out any) (found bool, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create registry request").
			WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.SetBasicAuth(c.user, c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, false, requestCanceled(ctx.Err())
		}
		return false, true, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("registry request failed").
			WithCause(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, false, nil
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, true, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("registry unavailable").
			WithCause(shared.HTTPStatusError(resp.StatusCode, url))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("registry request failed").
			WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, url, string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to decode registry response").
			WithCause(fmt.Errorf("%w url=%s", err, url))
	}
	return true, false, nil
}

// backoff returns the wait before the given attempt (1-based retries),
// doubling from the base delay up to the cap, plus jitter.
func (c registryClient) backoff(attempt int) time.Duration {
	delay := maxRegistryRetryDelay
	if attempt <= 16 {
		delay = c.delay << (attempt - 1)
	}
	if delay <= 0 || delay > maxRegistryRetryDelay {
		delay = maxRegistryRetryDelay
	}
	jitter := time.Duration(time.Now().UnixNano() % int64(delay/2+1))
	return delay + jitter
}

func requestCanceled(cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("registry request canceled").
		WithCause(cause)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
