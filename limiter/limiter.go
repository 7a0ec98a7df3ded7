// Package limiter paces calls to a rate-limited external service. It keeps
// a steady minimum delay between calls and honors Retry-After backoffs,
// which are persisted to a file so that a restarted process keeps waiting.
package limiter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultBackoff is used when a rate-limited response has no Retry-After.
const DefaultBackoff = time.Minute

// New returns a limiter allowing one call per delay, with bursts of up to
// burst calls. A zero delay disables steady pacing. filename may be empty,
// in which case backoffs are not persisted.
func New(filename string, delay time.Duration, burst int, log zerolog.Logger) *Limiter {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		filename: filename,
		rate:     rate.NewLimiter(limit, burst),
		log:      log.With().Str("component", "limiter").Logger(),
	}
}

type Limiter struct {
	filename string
	rate     *rate.Limiter
	log      zerolog.Logger

	mu     sync.Mutex
	nextAt time.Time
}

// Load restores a backoff persisted by a previous process.
func (lim *Limiter) Load() error {
	if lim.filename == "" {
		return nil
	}
	bs, err := os.ReadFile(lim.filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("error reading limiter state '%s': %w", lim.filename, err)
	}

	nextAt, err := time.Parse(time.UnixDate, strings.TrimSpace(string(bs)))
	if err != nil {
		return fmt.Errorf("error parsing limiter state '%s': %w", lim.filename, err)
	}

	lim.mu.Lock()
	lim.nextAt = nextAt
	lim.mu.Unlock()
	return nil
}

// Wait blocks until a call may be made: first until any backoff has passed,
// then until the steady pacing allows it.
func (lim *Limiter) Wait(ctx context.Context) error {
	lim.mu.Lock()
	nextAt := lim.nextAt
	lim.mu.Unlock()

	if !nextAt.IsZero() {
		dur := time.Until(nextAt)
		if dur > time.Second {
			lim.log.Info().
				Dur("wait", dur.Truncate(time.Second)).
				Time("until", nextAt).
				Msg("backing off")
		}

		timer := time.NewTimer(dur)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := lim.clear(nextAt); err != nil {
			return err
		}
	}

	return lim.rate.Wait(ctx)
}

func (lim *Limiter) clear(nextAt time.Time) error {
	lim.mu.Lock()
	defer lim.mu.Unlock()
	if !lim.nextAt.Equal(nextAt) {
		return nil
	}
	lim.nextAt = time.Time{}
	if lim.filename == "" {
		return nil
	}
	if err := os.Remove(lim.filename); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error removing limiter state '%s': %w", lim.filename, err)
	}
	return nil
}

// Backoff records that the service asked us to wait. retryAfter is the
// value of a Retry-After header: a number of seconds, an HTTP date, or
// empty for DefaultBackoff. It returns how long calls will now wait.
func (lim *Limiter) Backoff(retryAfter string) (time.Duration, error) {
	wait, err := parseRetryAfter(retryAfter)
	if err != nil {
		return 0, err
	}
	wait += time.Second
	nextAt := time.Now().Add(wait)

	lim.mu.Lock()
	defer lim.mu.Unlock()
	if nextAt.After(lim.nextAt) {
		lim.nextAt = nextAt
	}
	lim.log.Warn().Dur("wait", wait).Msg("rate limited")

	if lim.filename == "" {
		return wait, nil
	}
	if err := os.WriteFile(lim.filename, []byte(lim.nextAt.UTC().Format(time.UnixDate)), 0666); err != nil {
		return wait, fmt.Errorf("error writing limiter state '%s': %w", lim.filename, err)
	}
	return wait, nil
}

func parseRetryAfter(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultBackoff, nil
	}
	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		if seconds < 0 {
			seconds = 0
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if at, err := http.ParseTime(value); err == nil {
		return max(time.Until(at), 0), nil
	}
	return 0, fmt.Errorf("unparseable retry-after '%s'", value)
}

// NextAt returns the end of the current backoff, or the zero time.
func (lim *Limiter) NextAt() time.Time {
	lim.mu.Lock()
	defer lim.mu.Unlock()
	return lim.nextAt
}
