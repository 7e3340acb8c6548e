package db

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"
	"time"
)

// RetryPolicy retries transient datastore failures a bounded number of
// times before surfacing them. It is applied at the repository boundary,
// never inside business logic.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
	Retryable   func(error) bool
}

func NewRetryPolicy(maxAttempts int, backoff time.Duration) RetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		Backoff:     backoff,
		Retryable:   IsTransient,
	}
}

func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if attempt >= p.MaxAttempts || p.Retryable == nil || !p.Retryable(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Backoff):
		}
	}
}

// IsTransient reports whether err looks like a recoverable connectivity
// failure rather than a query or constraint error.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	message := strings.ToLower(err.Error())
	for _, marker := range []string{"connection refused", "connection reset", "broken pipe", "server closed", "bad connection"} {
		if strings.Contains(message, marker) {
			return true
		}
	}
	return false
}
