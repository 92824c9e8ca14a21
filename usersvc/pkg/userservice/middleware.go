package userservice

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics"
	"github.com/laxuman02230135/task-management/usersvc"
)

type Middleware func(Service) Service

func LoggingMiddleware(logger log.Logger) Middleware {
	return func(next Service) Service {
		return loggingMiddleware{logger, next}
	}
}

type loggingMiddleware struct {
	logger log.Logger
	next   Service
}

func (mw loggingMiddleware) UpdateProfile(ctx context.Context, userID uint64, edit ProfileEdit) (id usersvc.Identity, err error) {
	defer func() {
		mw.logger.Log(
			"method", "UpdateProfile",
			"user_id", userID,
			"email", edit.Email,
			"password_changed", edit.Password != "",
			"avatar_bytes", len(edit.Avatar),
			"err", err,
		)
	}()
	return mw.next.UpdateProfile(ctx, userID, edit)
}

func InstrumentingMiddleware(counter metrics.Counter, latency metrics.Histogram) Middleware {
	return func(next Service) Service {
		return instrumentingMiddleware{counter, latency, next}
	}
}

type instrumentingMiddleware struct {
	requestCount   metrics.Counter
	requestLatency metrics.Histogram
	next           Service
}

func (mw instrumentingMiddleware) UpdateProfile(ctx context.Context, userID uint64, edit ProfileEdit) (id usersvc.Identity, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "update_profile").Add(1)
		mw.requestLatency.With("method", "update_profile").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.UpdateProfile(ctx, userID, edit)
}
