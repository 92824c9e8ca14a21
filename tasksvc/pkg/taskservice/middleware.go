package taskservice

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics"
	"github.com/laxuman02230135/task-management/tasksvc"
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

func (mw loggingMiddleware) CreateTask(ctx context.Context, userID uint64, title string) (t tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log(
			"method", "CreateTask",
			"user_id", userID,
			"task_id", t.ID,
			"err", err,
		)
	}()
	return mw.next.CreateTask(ctx, userID, title)
}

func (mw loggingMiddleware) Tasks(ctx context.Context, userID uint64) (t []tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log(
			"method", "Tasks",
			"user_id", userID,
			"count", len(t),
			"err", err,
		)
	}()
	return mw.next.Tasks(ctx, userID)
}

func (mw loggingMiddleware) Task(ctx context.Context, userID, taskID uint64) (t tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log(
			"method", "Task",
			"user_id", userID,
			"task_id", taskID,
			"err", err,
		)
	}()
	return mw.next.Task(ctx, userID, taskID)
}

func (mw loggingMiddleware) SetCompleted(ctx context.Context, userID, taskID uint64, completed bool) (t tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log(
			"method", "SetCompleted",
			"user_id", userID,
			"task_id", taskID,
			"completed", completed,
			"err", err,
		)
	}()
	return mw.next.SetCompleted(ctx, userID, taskID, completed)
}

func (mw loggingMiddleware) DeleteTask(ctx context.Context, userID, taskID uint64) (err error) {
	defer func() {
		mw.logger.Log(
			"method", "DeleteTask",
			"user_id", userID,
			"task_id", taskID,
			"err", err,
		)
	}()
	return mw.next.DeleteTask(ctx, userID, taskID)
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

func (mw instrumentingMiddleware) CreateTask(ctx context.Context, userID uint64, title string) (t tasksvc.Task, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "create_task").Add(1)
		mw.requestLatency.With("method", "create_task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.CreateTask(ctx, userID, title)
}

func (mw instrumentingMiddleware) Tasks(ctx context.Context, userID uint64) (t []tasksvc.Task, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "tasks").Add(1)
		mw.requestLatency.With("method", "tasks").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.Tasks(ctx, userID)
}

func (mw instrumentingMiddleware) Task(ctx context.Context, userID, taskID uint64) (t tasksvc.Task, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "task").Add(1)
		mw.requestLatency.With("method", "task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.Task(ctx, userID, taskID)
}

func (mw instrumentingMiddleware) SetCompleted(ctx context.Context, userID, taskID uint64, completed bool) (t tasksvc.Task, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "set_completed").Add(1)
		mw.requestLatency.With("method", "set_completed").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.SetCompleted(ctx, userID, taskID, completed)
}

func (mw instrumentingMiddleware) DeleteTask(ctx context.Context, userID, taskID uint64) (err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "delete_task").Add(1)
		mw.requestLatency.With("method", "delete_task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.DeleteTask(ctx, userID, taskID)
}
