package tasktransport

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/laxuman02230135/task-management/authsvc/pkg/authservice"
	"github.com/laxuman02230135/task-management/authsvc/pkg/authtransport"
	"github.com/laxuman02230135/task-management/kithttp"
	"github.com/laxuman02230135/task-management/tasksvc"
	"github.com/laxuman02230135/task-management/tasksvc/pkg/taskendpoint"
)

func NewHTTPHandler(endpoints taskendpoint.Set, codec *authtransport.CookieCodec, sessions authservice.SessionResolver, logger log.Logger) http.Handler {
	options := append(
		kithttp.ServerOptions(logger),
		httptransport.ServerBefore(authtransport.HTTPToContext(codec)),
	)
	authenticate := authtransport.NewAuthenticator(sessions)

	var createTaskEndpoint endpoint.Endpoint
	{
		createTaskEndpoint = endpoints.CreateTaskEndpoint
		createTaskEndpoint = authenticate(createTaskEndpoint)
	}

	createTaskHandler := httptransport.NewServer(
		createTaskEndpoint,
		decodeHTTPCreateTaskRequest,
		kithttp.EncodeResponse,
		options...,
	)

	var tasksEndpoint endpoint.Endpoint
	{
		tasksEndpoint = endpoints.TasksEndpoint
		tasksEndpoint = authenticate(tasksEndpoint)
	}

	tasksHandler := httptransport.NewServer(
		tasksEndpoint,
		decodeHTTPTasksRequest,
		kithttp.EncodeResponse,
		options...,
	)

	var taskEndpoint endpoint.Endpoint
	{
		taskEndpoint = endpoints.TaskEndpoint
		taskEndpoint = authenticate(taskEndpoint)
	}

	taskHandler := httptransport.NewServer(
		taskEndpoint,
		decodeHTTPTaskRequest,
		kithttp.EncodeResponse,
		options...,
	)

	var setCompletedEndpoint endpoint.Endpoint
	{
		setCompletedEndpoint = endpoints.SetCompletedEndpoint
		setCompletedEndpoint = authenticate(setCompletedEndpoint)
	}

	setCompletedHandler := httptransport.NewServer(
		setCompletedEndpoint,
		decodeHTTPSetCompletedRequest,
		kithttp.EncodeResponse,
		options...,
	)

	var deleteTaskEndpoint endpoint.Endpoint
	{
		deleteTaskEndpoint = endpoints.DeleteTaskEndpoint
		deleteTaskEndpoint = authenticate(deleteTaskEndpoint)
	}

	deleteTaskHandler := httptransport.NewServer(
		deleteTaskEndpoint,
		decodeHTTPDeleteTaskRequest,
		kithttp.EncodeResponse,
		options...,
	)

	r := mux.NewRouter()

	r.Methods("POST").Path("/api/tasks").Handler(createTaskHandler)
	r.Methods("GET").Path("/api/tasks").Handler(tasksHandler)
	r.Methods("GET").Path("/api/tasks/{task_id:[0-9]+}").Handler(taskHandler)
	r.Methods("PATCH").Path("/api/tasks/{task_id:[0-9]+}").Handler(setCompletedHandler)
	r.Methods("DELETE").Path("/api/tasks/{task_id:[0-9]+}").Handler(deleteTaskHandler)

	return r
}

func decodeHTTPCreateTaskRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req taskendpoint.CreateTaskRequest
	err := kithttp.DecodeJSON(r, &req)
	return req, err
}

func decodeHTTPTasksRequest(_ context.Context, _ *http.Request) (interface{}, error) {
	return taskendpoint.TasksRequest{}, nil
}

func decodeHTTPTaskRequest(_ context.Context, r *http.Request) (interface{}, error) {
	taskID, err := taskIDFrom(r)
	if err != nil {
		return nil, err
	}

	return taskendpoint.TaskRequest{
		TaskID: taskID,
	}, nil
}

func decodeHTTPSetCompletedRequest(_ context.Context, r *http.Request) (interface{}, error) {
	taskID, err := taskIDFrom(r)
	if err != nil {
		return nil, err
	}

	var req taskendpoint.SetCompletedRequest
	if err := kithttp.DecodeJSON(r, &req); err != nil {
		return nil, err
	}

	req.TaskID = taskID

	return req, nil
}

func decodeHTTPDeleteTaskRequest(_ context.Context, r *http.Request) (interface{}, error) {
	taskID, err := taskIDFrom(r)
	if err != nil {
		return nil, err
	}

	return taskendpoint.DeleteTaskRequest{
		TaskID: taskID,
	}, nil
}

// taskIDFrom reads the route id. The route pattern only admits digits, so an
// overflowing id names a task that cannot exist.
func taskIDFrom(r *http.Request) (uint64, error) {
	taskID, err := strconv.ParseUint(mux.Vars(r)["task_id"], 10, 64)
	if err != nil || taskID == 0 {
		return 0, tasksvc.ErrTaskNotFound
	}
	return taskID, nil
}
