package authtransport

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/laxuman02230135/task-management/authsvc/pkg/authendpoint"
	"github.com/laxuman02230135/task-management/authsvc/pkg/authservice"
	"github.com/laxuman02230135/task-management/kithttp"
)

func NewHTTPHandler(endpoints authendpoint.Set, codec *CookieCodec, logger log.Logger) http.Handler {
	options := kithttp.ServerOptions(logger)

	registerHandler := httptransport.NewServer(
		endpoints.RegisterEndpoint,
		decodeHTTPRegisterRequest,
		encodeHTTPSessionResponse(codec),
		options...,
	)

	loginHandler := httptransport.NewServer(
		endpoints.LoginEndpoint,
		decodeHTTPLoginRequest,
		encodeHTTPSessionResponse(codec),
		options...,
	)

	logoutHandler := httptransport.NewServer(
		endpoints.LogoutEndpoint,
		decodeHTTPLogoutRequest,
		encodeHTTPLogoutResponse(codec),
		options...,
	)

	r := mux.NewRouter()

	r.Methods("POST").Path("/api/auth/register").Handler(registerHandler)
	r.Methods("POST").Path("/api/auth/login").Handler(loginHandler)
	r.Methods("POST").Path("/api/auth/logout").Handler(logoutHandler)

	return r
}

func decodeHTTPRegisterRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req authendpoint.RegisterRequest
	err := kithttp.DecodeJSON(r, &req)
	return req, err
}

func decodeHTTPLoginRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req authendpoint.LoginRequest
	err := kithttp.DecodeJSON(r, &req)
	return req, err
}

func decodeHTTPLogoutRequest(_ context.Context, _ *http.Request) (interface{}, error) {
	return authendpoint.LogoutRequest{}, nil
}

// encodeHTTPSessionResponse sets the session cookie for every successful
// register or login response before encoding it.
func encodeHTTPSessionResponse(codec *CookieCodec) httptransport.EncodeResponseFunc {
	return func(ctx context.Context, w http.ResponseWriter, response interface{}) error {
		var c authservice.Credential
		switch resp := response.(type) {
		case authendpoint.RegisterResponse:
			c = resp.Credential
		case authendpoint.LoginResponse:
			c = resp.Credential
		}

		if f, ok := response.(endpoint.Failer); ok && f.Failed() == nil && c.Token != "" {
			if err := codec.SetCookie(w, c); err != nil {
				return err
			}
		}
		return kithttp.EncodeResponse(ctx, w, response)
	}
}

func encodeHTTPLogoutResponse(codec *CookieCodec) httptransport.EncodeResponseFunc {
	return func(ctx context.Context, w http.ResponseWriter, response interface{}) error {
		codec.ClearCookie(w)
		return kithttp.EncodeResponse(ctx, w, response)
	}
}
