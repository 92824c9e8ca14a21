package usertransport

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/laxuman02230135/task-management/apperr"
	"github.com/laxuman02230135/task-management/authsvc/pkg/authservice"
	"github.com/laxuman02230135/task-management/authsvc/pkg/authtransport"
	"github.com/laxuman02230135/task-management/kithttp"
	"github.com/laxuman02230135/task-management/usersvc/avatar"
	"github.com/laxuman02230135/task-management/usersvc/pkg/userendpoint"
)

const (
	maxFormMemory = 1 << 20
	maxBodySize   = avatar.MaxSize + maxFormMemory
)

func NewHTTPHandler(endpoints userendpoint.Set, codec *authtransport.CookieCodec, sessions authservice.SessionResolver, logger log.Logger) http.Handler {
	options := append(
		kithttp.ServerOptions(logger),
		httptransport.ServerBefore(authtransport.HTTPToContext(codec)),
	)

	var updateProfileEndpoint endpoint.Endpoint
	{
		updateProfileEndpoint = endpoints.UpdateProfileEndpoint
		updateProfileEndpoint = authtransport.NewAuthenticator(sessions)(updateProfileEndpoint)
	}

	updateProfileHandler := httptransport.NewServer(
		updateProfileEndpoint,
		decodeHTTPUpdateProfileRequest,
		kithttp.EncodeResponse,
		options...,
	)

	r := mux.NewRouter()

	r.Methods("PUT").Path("/api/profile").Handler(http.MaxBytesHandler(updateProfileHandler, maxBodySize))

	return r
}

func decodeHTTPUpdateProfileRequest(_ context.Context, r *http.Request) (interface{}, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperr.Invalid("avatar", "avatar must be at most 5 MiB")
		}
		return nil, apperr.Invalid("body", "request must be multipart form data")
	}

	req := userendpoint.UpdateProfileRequest{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	f, _, err := r.FormFile("avatar")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return req, nil
	case err != nil:
		return nil, apperr.Invalid("avatar", "avatar could not be read")
	}
	defer f.Close()

	req.Avatar, err = io.ReadAll(io.LimitReader(f, avatar.MaxSize+1))
	if err != nil {
		return nil, apperr.Invalid("avatar", "avatar could not be read")
	}

	return req, nil
}
