package taskservice

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/go-kit/kit/log"
	"github.com/laxuman02230135/task-management/apperr"
	"github.com/laxuman02230135/task-management/tasksvc"
)

// Service is the owner-scoped task API. userID always comes from the
// resolved session, never from request input.
type Service interface {
	CreateTask(ctx context.Context, userID uint64, title string) (tasksvc.Task, error)
	Tasks(ctx context.Context, userID uint64) ([]tasksvc.Task, error)
	Task(ctx context.Context, userID, taskID uint64) (tasksvc.Task, error)
	SetCompleted(ctx context.Context, userID, taskID uint64, completed bool) (tasksvc.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uint64) error
}

func New(t tasksvc.TaskRepository, logger log.Logger) Service {
	var svc Service
	{
		svc = NewBasicService(t)
		svc = LoggingMiddleware(logger)(svc)
	}
	return svc
}

type basicService struct {
	tasks tasksvc.TaskRepository
}

func NewBasicService(t tasksvc.TaskRepository) Service {
	return basicService{tasks: t}
}

func (s basicService) CreateTask(ctx context.Context, userID uint64, title string) (tasksvc.Task, error) {
	if userID == 0 {
		return tasksvc.Task{}, apperr.ErrUnauthenticated
	}

	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return tasksvc.Task{}, apperr.Invalid("title", "title is required")
	case utf8.RuneCountInString(title) > tasksvc.MaxTitleLength:
		return tasksvc.Task{}, apperr.Invalid("title", "title is too long")
	}

	return s.tasks.Create(ctx, title, userID)
}

func (s basicService) Tasks(ctx context.Context, userID uint64) ([]tasksvc.Task, error) {
	if userID == 0 {
		return nil, apperr.ErrUnauthenticated
	}
	return s.tasks.FindAll(ctx, userID)
}

func (s basicService) Task(ctx context.Context, userID, taskID uint64) (tasksvc.Task, error) {
	if userID == 0 {
		return tasksvc.Task{}, apperr.ErrUnauthenticated
	}
	if taskID == 0 {
		return tasksvc.Task{}, tasksvc.ErrTaskNotFound
	}
	return s.tasks.Find(ctx, userID, taskID)
}

func (s basicService) SetCompleted(ctx context.Context, userID, taskID uint64, completed bool) (tasksvc.Task, error) {
	if userID == 0 {
		return tasksvc.Task{}, apperr.ErrUnauthenticated
	}
	if taskID == 0 {
		return tasksvc.Task{}, tasksvc.ErrTaskNotFound
	}
	return s.tasks.SetCompleted(ctx, userID, taskID, completed)
}

func (s basicService) DeleteTask(ctx context.Context, userID, taskID uint64) error {
	if userID == 0 {
		return apperr.ErrUnauthenticated
	}
	if taskID == 0 {
		return tasksvc.ErrTaskNotFound
	}
	return s.tasks.Delete(ctx, userID, taskID)
}
