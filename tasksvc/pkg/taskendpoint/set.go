package taskendpoint

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/laxuman02230135/task-management/apperr"
	"github.com/laxuman02230135/task-management/authsvc"
	"github.com/laxuman02230135/task-management/tasksvc"
	"github.com/laxuman02230135/task-management/tasksvc/pkg/taskservice"
)

type Set struct {
	CreateTaskEndpoint   endpoint.Endpoint
	TasksEndpoint        endpoint.Endpoint
	TaskEndpoint         endpoint.Endpoint
	SetCompletedEndpoint endpoint.Endpoint
	DeleteTaskEndpoint   endpoint.Endpoint
}

func New(svc taskservice.Service, logger log.Logger) Set {
	var createTaskEndpoint endpoint.Endpoint
	{
		createTaskEndpoint = MakeCreateTaskEndpoint(svc)
		createTaskEndpoint = LoggingMiddleware(log.With(logger, "method", "CreateTask"))(createTaskEndpoint)
	}

	var tasksEndpoint endpoint.Endpoint
	{
		tasksEndpoint = MakeTasksEndpoint(svc)
		tasksEndpoint = LoggingMiddleware(log.With(logger, "method", "Tasks"))(tasksEndpoint)
	}

	var taskEndpoint endpoint.Endpoint
	{
		taskEndpoint = MakeTaskEndpoint(svc)
		taskEndpoint = LoggingMiddleware(log.With(logger, "method", "Task"))(taskEndpoint)
	}

	var setCompletedEndpoint endpoint.Endpoint
	{
		setCompletedEndpoint = MakeSetCompletedEndpoint(svc)
		setCompletedEndpoint = LoggingMiddleware(log.With(logger, "method", "SetCompleted"))(setCompletedEndpoint)
	}

	var deleteTaskEndpoint endpoint.Endpoint
	{
		deleteTaskEndpoint = MakeDeleteTaskEndpoint(svc)
		deleteTaskEndpoint = LoggingMiddleware(log.With(logger, "method", "DeleteTask"))(deleteTaskEndpoint)
	}

	return Set{
		CreateTaskEndpoint:   createTaskEndpoint,
		TasksEndpoint:        tasksEndpoint,
		TaskEndpoint:         taskEndpoint,
		SetCompletedEndpoint: setCompletedEndpoint,
		DeleteTaskEndpoint:   deleteTaskEndpoint,
	}
}

func MakeCreateTaskEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		owner, ok := authsvc.IdentityFromContext(ctx)
		if !ok {
			return CreateTaskResponse{Err: apperr.ErrUnauthenticated}, nil
		}

		req := request.(CreateTaskRequest)
		t, err := s.CreateTask(ctx, owner.ID, req.Title)
		return CreateTaskResponse{Task: t, Err: err}, nil
	}
}

func MakeTasksEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		owner, ok := authsvc.IdentityFromContext(ctx)
		if !ok {
			return TasksResponse{Err: apperr.ErrUnauthenticated}, nil
		}

		_ = request.(TasksRequest)
		t, err := s.Tasks(ctx, owner.ID)
		return TasksResponse{Tasks: t, Err: err}, nil
	}
}

func MakeTaskEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		owner, ok := authsvc.IdentityFromContext(ctx)
		if !ok {
			return TaskResponse{Err: apperr.ErrUnauthenticated}, nil
		}

		req := request.(TaskRequest)
		t, err := s.Task(ctx, owner.ID, req.TaskID)
		return TaskResponse{Task: t, Err: err}, nil
	}
}

func MakeSetCompletedEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		owner, ok := authsvc.IdentityFromContext(ctx)
		if !ok {
			return SetCompletedResponse{Err: apperr.ErrUnauthenticated}, nil
		}

		req := request.(SetCompletedRequest)
		if req.Completed == nil {
			return SetCompletedResponse{Err: apperr.Invalid("completed", "completed is required")}, nil
		}

		t, err := s.SetCompleted(ctx, owner.ID, req.TaskID, *req.Completed)
		return SetCompletedResponse{Task: t, Err: err}, nil
	}
}

func MakeDeleteTaskEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		owner, ok := authsvc.IdentityFromContext(ctx)
		if !ok {
			return DeleteTaskResponse{Err: apperr.ErrUnauthenticated}, nil
		}

		req := request.(DeleteTaskRequest)
		err = s.DeleteTask(ctx, owner.ID, req.TaskID)
		return DeleteTaskResponse{Err: err}, nil
	}
}

var (
	_ endpoint.Failer = CreateTaskResponse{}
	_ endpoint.Failer = TasksResponse{}
	_ endpoint.Failer = TaskResponse{}
	_ endpoint.Failer = SetCompletedResponse{}
	_ endpoint.Failer = DeleteTaskResponse{}
)

// CreateTaskRequest carries no owner: any userId sent by the client is
// dropped during decoding.
type CreateTaskRequest struct {
	Title string `json:"title"`
}

type CreateTaskResponse struct {
	Task tasksvc.Task `json:"task"`
	Err  error        `json:"-"`
}

func (r CreateTaskResponse) Failed() error   { return r.Err }
func (r CreateTaskResponse) StatusCode() int { return http.StatusCreated }

type TasksRequest struct{}

type TasksResponse struct {
	Tasks []tasksvc.Task `json:"tasks"`
	Err   error          `json:"-"`
}

func (r TasksResponse) Failed() error { return r.Err }

type TaskRequest struct {
	TaskID uint64
}

type TaskResponse struct {
	Task tasksvc.Task `json:"task"`
	Err  error        `json:"-"`
}

func (r TaskResponse) Failed() error { return r.Err }

type SetCompletedRequest struct {
	TaskID    uint64 `json:"-"`
	Completed *bool  `json:"completed"`
}

type SetCompletedResponse struct {
	Task tasksvc.Task `json:"task"`
	Err  error        `json:"-"`
}

func (r SetCompletedResponse) Failed() error { return r.Err }

type DeleteTaskRequest struct {
	TaskID uint64
}

type DeleteTaskResponse struct {
	Err error `json:"-"`
}

func (r DeleteTaskResponse) Failed() error   { return r.Err }
func (r DeleteTaskResponse) StatusCode() int { return http.StatusNoContent }
