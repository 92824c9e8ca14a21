package authendpoint

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/ratelimit"
	"github.com/laxuman02230135/task-management/authsvc/pkg/authservice"
	"github.com/laxuman02230135/task-management/usersvc"
	"golang.org/x/time/rate"
)

type Set struct {
	RegisterEndpoint endpoint.Endpoint
	LoginEndpoint    endpoint.Endpoint
	LogoutEndpoint   endpoint.Endpoint
}

// New wires the auth endpoints. loginLimit caps login attempts per second
// across all callers.
func New(svc authservice.Service, loginLimit rate.Limit, logger log.Logger) Set {
	var registerEndpoint endpoint.Endpoint
	{
		registerEndpoint = MakeRegisterEndpoint(svc)
		registerEndpoint = LoggingMiddleware(log.With(logger, "method", "Register"))(registerEndpoint)
	}

	var loginEndpoint endpoint.Endpoint
	{
		loginEndpoint = MakeLoginEndpoint(svc)
		loginEndpoint = ratelimit.NewErroringLimiter(rate.NewLimiter(loginLimit, burst(loginLimit)))(loginEndpoint)
		loginEndpoint = LoggingMiddleware(log.With(logger, "method", "Login"))(loginEndpoint)
	}

	var logoutEndpoint endpoint.Endpoint
	{
		logoutEndpoint = MakeLogoutEndpoint()
		logoutEndpoint = LoggingMiddleware(log.With(logger, "method", "Logout"))(logoutEndpoint)
	}

	return Set{
		RegisterEndpoint: registerEndpoint,
		LoginEndpoint:    loginEndpoint,
		LogoutEndpoint:   logoutEndpoint,
	}
}

func burst(l rate.Limit) int {
	if l < 1 || l == rate.Inf {
		return 1
	}
	return int(l)
}

func MakeRegisterEndpoint(s authservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(RegisterRequest)
		u, c, err := s.Register(ctx, req.Name, req.Email, req.Password)

		return RegisterResponse{User: u, Credential: c, Err: err}, nil
	}
}

func MakeLoginEndpoint(s authservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(LoginRequest)
		u, c, err := s.Login(ctx, req.Email, req.Password)

		return LoginResponse{User: u, Credential: c, Err: err}, nil
	}
}

// MakeLogoutEndpoint needs no service: the credential is only dropped by the
// client, so logout always succeeds.
func MakeLogoutEndpoint() endpoint.Endpoint {
	return func(_ context.Context, request interface{}) (interface{}, error) {
		_ = request.(LogoutRequest)
		return LogoutResponse{Success: true}, nil
	}
}

var (
	_ endpoint.Failer = RegisterResponse{}
	_ endpoint.Failer = LoginResponse{}
	_ endpoint.Failer = LogoutResponse{}
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User       usersvc.Identity       `json:"user"`
	Credential authservice.Credential `json:"-"`
	Err        error                  `json:"-"`
}

func (r RegisterResponse) Failed() error   { return r.Err }
func (r RegisterResponse) StatusCode() int { return http.StatusCreated }

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User       usersvc.Identity       `json:"user"`
	Credential authservice.Credential `json:"-"`
	Err        error                  `json:"-"`
}

func (r LoginResponse) Failed() error { return r.Err }

type LogoutRequest struct{}

type LogoutResponse struct {
	Success bool  `json:"success"`
	Err     error `json:"-"`
}

func (r LogoutResponse) Failed() error { return r.Err }
