// Package asteroids serves per-date near-Earth object payloads, answering from
// the feed cache while an entry is fresh and from the NeoWs feed otherwise.
package asteroids

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	"golang.org/x/sync/singleflight"

	"github.com/star/neodash/internal/cache"
	"github.com/star/neodash/internal/metrics"
	"github.com/star/neodash/internal/neo"
)

const (
	msgBadDate     = "date is required in YYYY-MM-DD format"
	msgServerError = "Server error"
)

// datePattern accepts fixed-width digits only; calendar validity is not checked.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidDate reports whether date has the YYYY-MM-DD shape.
func ValidDate(date string) bool {
	return datePattern.MatchString(date)
}

// Fetcher retrieves normalized records for one date.
type Fetcher interface {
	FetchDate(ctx context.Context, date, apiKey string) ([]neo.Asteroid, error)
}

// RequestError is a failed lookup expressed as an HTTP status and a message
// safe to return to clients.
type RequestError struct {
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// StatusFor maps any lookup error to a status code and client message.
func StatusFor(err error) (int, string) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status, reqErr.Message
	}
	return http.StatusInternalServerError, msgServerError
}

// Service validates dates, consults the cache and calls the feed on a miss.
type Service struct {
	feed   Fetcher
	cache  *cache.FeedCache
	apiKey string
	group  singleflight.Group
	logger *slog.Logger
}

// NewService wires a Service. apiKey is sent on every upstream call.
func NewService(feed Fetcher, feedCache *cache.FeedCache, apiKey string, logger *slog.Logger) *Service {
	return &Service{
		feed:   feed,
		cache:  feedCache,
		apiKey: apiKey,
		logger: logger.With("component", "asteroids"),
	}
}

// Lookup returns the payload for date. A fresh cache entry is returned as
// stored without contacting the feed. Concurrent misses for the same date
// share one upstream call. Failures are returned as *RequestError and are
// never cached.
func (s *Service) Lookup(ctx context.Context, date string) (*neo.Feed, error) {
	if !ValidDate(date) {
		return nil, &RequestError{Status: http.StatusBadRequest, Message: msgBadDate}
	}

	if feed, ok := s.cache.Get(date); ok {
		s.logger.Debug("serving asteroids from cache", "date", date)
		return feed, nil
	}

	ch := s.group.DoChan(date, func() (any, error) {
		// Another flight may have filled the entry since our miss.
		if feed, ok := s.cache.Peek(date); ok {
			return feed, nil
		}
		return s.fetch(context.WithoutCancel(ctx), date)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			metrics.IncSharedFetches()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*neo.Feed), nil
	}
}

// fetch calls the feed and stores a successful result.
func (s *Service) fetch(ctx context.Context, date string) (*neo.Feed, error) {
	s.logger.Debug("fetching asteroids from feed", "date", date)

	asteroids, err := s.feed.FetchDate(ctx, date, s.apiKey)
	if err != nil {
		return nil, s.toRequestError(date, err)
	}

	feed := neo.NewFeed(date, asteroids)
	s.cache.Put(date, feed)
	return feed, nil
}

// toRequestError keeps upstream status and message, and hides everything
// else behind a generic 500 since transport errors embed the request URL.
func (s *Service) toRequestError(date string, err error) *RequestError {
	var upErr *neo.UpstreamError
	if errors.As(err, &upErr) {
		status := upErr.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		msg := upErr.Message
		if msg == "" {
			msg = msgServerError
		}
		s.logger.Warn("feed request failed", "date", date, "status", status)
		return &RequestError{Status: status, Message: msg, Err: err}
	}

	s.logger.Error("feed request errored", "date", date, "error", err)
	return &RequestError{Status: http.StatusInternalServerError, Message: msgServerError, Err: err}
}
