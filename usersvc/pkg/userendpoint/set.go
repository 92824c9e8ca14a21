package userendpoint

import (
	"context"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/laxuman02230135/task-management/apperr"
	"github.com/laxuman02230135/task-management/authsvc"
	"github.com/laxuman02230135/task-management/usersvc"
	"github.com/laxuman02230135/task-management/usersvc/pkg/userservice"
)

type Set struct {
	UpdateProfileEndpoint endpoint.Endpoint
}

func New(svc userservice.Service, logger log.Logger) Set {
	var updateProfileEndpoint endpoint.Endpoint
	{
		updateProfileEndpoint = MakeUpdateProfileEndpoint(svc)
		updateProfileEndpoint = LoggingMiddleware(log.With(logger, "method", "UpdateProfile"))(updateProfileEndpoint)
	}
	return Set{
		UpdateProfileEndpoint: updateProfileEndpoint,
	}
}

func MakeUpdateProfileEndpoint(s userservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		id, ok := authsvc.IdentityFromContext(ctx)
		if !ok {
			return UpdateProfileResponse{Err: apperr.ErrUnauthenticated}, nil
		}

		req := request.(UpdateProfileRequest)
		u, err := s.UpdateProfile(ctx, id.ID, userservice.ProfileEdit{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Avatar:   req.Avatar,
		})
		return UpdateProfileResponse{User: u, Err: err}, nil
	}
}

var _ endpoint.Failer = UpdateProfileResponse{}

type UpdateProfileRequest struct {
	Name     string
	Email    string
	Password string
	Avatar   []byte
}

type UpdateProfileResponse struct {
	User usersvc.Identity `json:"user"`
	Err  error            `json:"-"`
}

func (r UpdateProfileResponse) Failed() error { return r.Err }
